package viz

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"

	"github.com/san-kum/marblesim/internal/marble"
	"github.com/san-kum/marblesim/internal/sensor"
	"github.com/san-kum/marblesim/internal/sim"
)

const (
	canvasWidth     = 60
	canvasHeight    = 24
	statsWidth      = 44
	historyCapacity = 300
	tiltStep        = 0.08
	frameRate       = time.Second / 30
)

type TickMsg time.Time

// Options configures a live session.
type Options struct {
	Width, Height float64 // viewport in px
	Device        sensor.Provider
	Kinds         []sensor.Kind
	// Manual, when set, is steered with the arrow keys.
	Manual *sensor.Manual
	Log    zerolog.Logger
}

// Model is the Bubble Tea model of a live session.
type Model struct {
	sim     *sim.Simulator
	runner  *runner
	manual  *sensor.Manual
	radius  float64
	canvas  *Canvas
	bounces *atomic.Int64

	viewW, viewH float64
	width        int
	height       int
	lastSeq      uint64
	speedHistory []float64
	status       string
	quitting     bool
}

func NewModel(core *marble.Core, opts Options) Model {
	s := sim.New(core, opts.Log)
	s.Resize(opts.Width, opts.Height)

	bounces := new(atomic.Int64)
	s.AddObserver(sim.ObserverFunc(func(_ marble.State, hit marble.Hit, _ float64) {
		bounces.Add(int64(hit.Count()))
	}))

	return Model{
		sim: s,
		runner: &runner{
			sim:    s,
			device: opts.Device,
			kinds:  opts.Kinds,
			log:    opts.Log,
		},
		manual:       opts.Manual,
		radius:       core.Params().Radius,
		canvas:       NewCanvas(canvasWidth, canvasHeight),
		bounces:      bounces,
		viewW:        opts.Width,
		viewH:        opts.Height,
		width:        canvasWidth,
		height:       canvasHeight,
		speedHistory: make([]float64, 0, historyCapacity),
		lastSeq:      s.Latest().Seq,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(func() tea.Msg { return resumeMsg{} }, tick())
}

type resumeMsg struct{}

func tick() tea.Cmd {
	return tea.Tick(frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.runner.stop()
			m.quitting = true
			return m, tea.Quit
		case " ":
			if m.runner.active() {
				m.runner.stop()
				m.status = "paused"
			} else {
				m.resume()
			}
		case "r":
			m.sim.Reset()
			m.bounces.Store(0)
			m.speedHistory = m.speedHistory[:0]
			if m.manual != nil {
				m.manual.Level()
			}
		case "o":
			m.viewW, m.viewH = m.viewH, m.viewW
			m.sim.Resize(m.viewW, m.viewH)
		case "t":
			NextTheme()
		case "left", "h":
			m.nudge(-tiltStep, 0)
		case "right", "l":
			m.nudge(tiltStep, 0)
		case "up", "k":
			m.nudge(0, tiltStep)
		case "down", "j":
			m.nudge(0, -tiltStep)
		case "0":
			if m.manual != nil {
				m.manual.Level()
			}
		}
	case resumeMsg:
		m.resume()
	case tea.WindowSizeMsg:
		w := max(msg.Width-statsWidth-8, 10)
		h := max(msg.Height-4, 6)
		if w != m.width || h != m.height {
			m.width, m.height = w, h
			m.canvas.Resize(w, h)
		}
	case TickMsg:
		m.observe()
		return m, tick()
	}
	return m, nil
}

func (m *Model) resume() {
	err := m.runner.start()
	switch {
	case errors.Is(err, sensor.ErrNoSensor):
		m.status = "no sensor"
	case err != nil:
		m.status = err.Error()
	default:
		m.status = ""
	}
}

func (m *Model) nudge(dx, dy float64) {
	if m.manual != nil {
		m.manual.Nudge(dx, dy)
	}
}

// observe records the speed of a newly published frame.
func (m *Model) observe() {
	f := m.sim.Latest()
	if f.Seq == m.lastSeq {
		return
	}
	m.lastSeq = f.Seq
	m.speedHistory = append(m.speedHistory, f.State.Speed())
	if len(m.speedHistory) > historyCapacity {
		m.speedHistory = m.speedHistory[1:]
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	st := stylesFor(CurrentTheme)
	f := m.sim.Latest()

	Scene(m.canvas, f, m.radius)
	canvasView := st.canvas.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(st.header.Render("MARBLE") + "\n")
	switch {
	case m.runner.active():
		s.WriteString(st.running.Render("● "+m.runner.sourceName()) + "\n\n")
	case m.status != "":
		s.WriteString(st.paused.Render(strings.ToUpper(m.status)) + "\n\n")
	default:
		s.WriteString(st.paused.Render("IDLE") + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", f.Time))
	row("Position", fmt.Sprintf("%.0f, %.0f", f.State.X, f.State.Y))
	row("Velocity", fmt.Sprintf("%.1f, %.1f", f.State.VelocityX, f.State.VelocityY))
	row("Speed", fmt.Sprintf("%.2f", f.State.Speed()))
	row("Bounces", fmt.Sprintf("%d", m.bounces.Load()))
	row("Viewport", fmt.Sprintf("%.0fx%.0f", m.viewW, m.viewH))
	if m.manual != nil {
		tx, ty := m.manual.Tilt()
		row("Roll", tiltBar(tx, sensor.MaxTilt, 16))
		row("Pitch", tiltBar(ty, sensor.MaxTilt, 16))
	}

	if len(m.speedHistory) > 1 {
		chart := asciigraph.Plot(m.speedHistory,
			asciigraph.Height(5),
			asciigraph.Width(statsWidth-14),
			asciigraph.Caption("speed px/step"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	s.WriteString(st.help.Render("←↑↓→/hjkl:Tilt 0:Level O:Rotate\nSP:Pause R:Reset T:Theme Q:Quit"))
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.stats.Render(s.String()))
}

// Stop releases the sensor if a run is still active.
func (m Model) Stop() {
	m.runner.stop()
}

// Run starts the full screen session and blocks until the user quits.
func Run(core *marble.Core, opts Options) error {
	m := NewModel(core, opts)
	defer m.Stop()
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
