package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"

	"github.com/san-kum/marblesim/internal/marble"
	"github.com/san-kum/marblesim/internal/sensor"
	"github.com/san-kum/marblesim/internal/sim"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(3, 5)
	if !c.IsSet(3, 5) {
		t.Fatal("pixel not set")
	}
	if c.IsSet(2, 5) {
		t.Error("neighbour set")
	}
	c.Set(-1, 0)
	c.Set(100, 100)
	c.Clear()
	if c.IsSet(3, 5) {
		t.Error("clear left pixel set")
	}
}

func TestFillCircle(t *testing.T) {
	c := NewCanvas(10, 5)
	c.FillCircle(10, 10, 3)

	tests := []struct {
		x, y int
		want bool
	}{
		{10, 10, true},
		{13, 10, true},
		{10, 7, true},
		{12, 12, true},
		{14, 10, false},
		{13, 13, false},
	}
	for _, tt := range tests {
		if got := c.IsSet(tt.x, tt.y); got != tt.want {
			t.Errorf("IsSet(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestSceneDrawsMarble(t *testing.T) {
	c := NewCanvas(50, 10)
	f := sim.Frame{
		State:  marble.State{X: 60, Y: 10},
		Bounds: marble.NewBounds(200, 100, 40),
	}
	Scene(c, f, 40)

	// scale = min(99/200, 39/100) = 0.39, centered horizontally
	ox := (99 - 200*0.39) / 2
	cx := int(ox + 100*0.39)
	cyf := 50 * 0.39
	cy := int(cyf)
	if !c.IsSet(cx, cy) {
		t.Errorf("marble center (%d,%d) not drawn", cx, cy)
	}
	if !c.IsSet(int(ox), 0) {
		t.Error("viewport outline not drawn")
	}
}

func TestSceneDegenerateViewport(t *testing.T) {
	c := NewCanvas(10, 5)
	Scene(c, sim.Frame{}, 0)
	if strings.Trim(c.String(), "⠀\n") != "" {
		t.Error("expected empty canvas")
	}
}

func TestTiltBar(t *testing.T) {
	if got := tiltBar(0, 1, 8); got != "[────│────]" {
		t.Errorf("level = %q", got)
	}
	if got := tiltBar(1, 1, 8); got != "[────│████]" {
		t.Errorf("full right = %q", got)
	}
	if got := tiltBar(-5, 1, 8); got != "[████│────]" {
		t.Errorf("clamped left = %q", got)
	}
}

func TestNextThemeCycles(t *testing.T) {
	defer SetTheme(ThemeFelt.Name)

	seen := map[string]bool{}
	for range Themes {
		seen[CurrentTheme.Name] = true
		NextTheme()
	}
	if len(seen) != len(Themes) {
		t.Errorf("visited %d themes, want %d", len(seen), len(Themes))
	}
	if CurrentTheme.Name != ThemeFelt.Name {
		t.Errorf("did not wrap around, got %s", CurrentTheme.Name)
	}
}

func newTestModel(t *testing.T) (Model, *sensor.Manual) {
	t.Helper()
	manual := sensor.NewManual(sensor.Gravity, 5*time.Millisecond)
	dev := sensor.NewDevice()
	dev.Register(sensor.Gravity, func() sensor.Source { return manual })

	m := NewModel(marble.NewCore(marble.DefaultParams()), Options{
		Width:  400,
		Height: 800,
		Device: dev,
		Kinds:  []sensor.Kind{sensor.Gravity},
		Manual: manual,
		Log:    zerolog.Nop(),
	})
	t.Cleanup(m.Stop)
	return m, manual
}

func press(m Model, key string) Model {
	var msg tea.KeyMsg
	switch key {
	case "left", "right", "up", "down":
		types := map[string]tea.KeyType{
			"left": tea.KeyLeft, "right": tea.KeyRight,
			"up": tea.KeyUp, "down": tea.KeyDown,
		}
		msg = tea.KeyMsg{Type: types[key]}
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelCentersMarble(t *testing.T) {
	m, _ := newTestModel(t)
	f := m.sim.Latest()
	if f.State.X != 160 || f.State.Y != 360 {
		t.Errorf("marble at %v, want (160,360)", f.State)
	}
}

func TestModelKeysSteerManual(t *testing.T) {
	g := NewWithT(t)
	m, manual := newTestModel(t)

	m = press(m, "right")
	m = press(m, "up")
	m = press(m, "k")
	x, y := manual.Target()
	g.Expect(x).To(BeNumerically("~", tiltStep, 1e-12))
	g.Expect(y).To(BeNumerically("~", 2*tiltStep, 1e-12))

	m = press(m, "0")
	x, y = manual.Target()
	g.Expect(x).To(BeZero())
	g.Expect(y).To(BeZero())
}

func TestModelPauseResume(t *testing.T) {
	g := NewWithT(t)
	m, manual := newTestModel(t)

	next, _ := m.Update(resumeMsg{})
	m = next.(Model)
	g.Expect(m.runner.active()).To(BeTrue())

	manual.Nudge(sensor.MaxTilt, 0)
	start := m.sim.Latest().Seq
	g.Eventually(func() uint64 { return m.sim.Latest().Seq }, "2s", "10ms").Should(BeNumerically(">", start+3))

	m = press(m, " ")
	g.Expect(m.runner.active()).To(BeFalse())
	g.Expect(m.View()).To(ContainSubstring("PAUSED"))

	paused := m.sim.Latest()
	time.Sleep(50 * time.Millisecond)
	g.Expect(m.sim.Latest().Seq).To(Equal(paused.Seq))

	m = press(m, " ")
	g.Expect(m.runner.active()).To(BeTrue())
}

func TestModelRotateDoesNotRecenter(t *testing.T) {
	g := NewWithT(t)
	m, _ := newTestModel(t)

	m = press(m, "o")
	f := m.sim.Latest()
	g.Expect(f.Bounds.MaxX).To(Equal(720.0))
	g.Expect(f.Bounds.MaxY).To(Equal(320.0))
	g.Expect(f.State.X).To(Equal(160.0))
	g.Expect(f.State.Y).To(Equal(360.0))

	m.sim.Do(func(c *marble.Core) { c.Step(0, 0, 0.02) })
	g.Expect(m.sim.Latest().State.Y).To(Equal(320.0))
}

func TestModelNoSensor(t *testing.T) {
	m := NewModel(marble.NewCore(marble.DefaultParams()), Options{
		Width:  400,
		Height: 800,
		Device: sensor.NewDevice(),
		Log:    zerolog.Nop(),
	})
	next, _ := m.Update(resumeMsg{})
	m = next.(Model)
	if m.runner.active() {
		t.Fatal("run started without a sensor")
	}
	if !strings.Contains(m.View(), "NO SENSOR") {
		t.Error("view does not report the missing sensor")
	}
}

func TestModelQuitStopsRun(t *testing.T) {
	m, _ := newTestModel(t)
	next, _ := m.Update(resumeMsg{})
	m = next.(Model)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if m.runner.active() {
		t.Error("run still active after quit")
	}
	if m.View() != "" {
		t.Error("view not cleared on quit")
	}
}
