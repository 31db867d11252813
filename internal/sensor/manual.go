package sensor

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/harmonica"
)

// MaxTilt caps the commanded tilt of a Manual source, in radians.
const MaxTilt = math.Pi / 3

// Manual is a keyboard-driven tilt source. Key presses move a target tilt;
// the reported tilt follows it through a critically damped spring so the
// marble sees a smooth gravity vector instead of steps.
type Manual struct {
	kind   Kind
	rate   time.Duration
	spring harmonica.Spring

	mu               sync.Mutex
	targetX, targetY float64
	tiltX, tiltY     float64
	velX, velY       float64
	stream
}

func NewManual(kind Kind, rate time.Duration) *Manual {
	if rate <= 0 {
		rate = GameRate
	}
	return &Manual{
		kind:   kind,
		rate:   rate,
		spring: harmonica.NewSpring(rate.Seconds(), 6.0, 1.0),
	}
}

func (m *Manual) Name() string { return "manual-" + string(m.kind) }
func (m *Manual) Kind() Kind   { return m.kind }
func (m *Manual) Stop() error  { return m.stop() }

// Nudge moves the target tilt. Positive dx tilts right, positive dy tilts
// the top of the device away (marble rolls up the screen).
func (m *Manual) Nudge(dx, dy float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.targetX = clampTilt(m.targetX + dx)
	m.targetY = clampTilt(m.targetY + dy)
}

// Level resets the target to a flat device.
func (m *Manual) Level() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.targetX, m.targetY = 0, 0
}

// Tilt returns the current eased tilt in radians.
func (m *Manual) Tilt() (float64, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tiltX, m.tiltY
}

func (m *Manual) Target() (float64, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.targetX, m.targetY
}

func (m *Manual) Start(ctx context.Context) (<-chan Sample, error) {
	return m.start(ctx, m.produce)
}

func (m *Manual) produce(ctx context.Context, out chan<- Sample) {
	ticker := time.NewTicker(m.rate)
	defer ticker.Stop()
	origin := time.Now()

	for {
		select {
		case now := <-ticker.C:
			if !send(ctx, out, m.sample(now.Sub(origin))) {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// advance moves the eased tilt one spring step towards the target.
func (m *Manual) advance() (float64, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tiltX, m.velX = m.spring.Update(m.tiltX, m.velX, m.targetX)
	m.tiltY, m.velY = m.spring.Update(m.tiltY, m.velY, m.targetY)
	return m.tiltX, m.tiltY
}

func (m *Manual) sample(ts time.Duration) Sample {
	roll, pitch := m.advance()
	return Sample{
		X:         StandardGravity * math.Sin(roll),
		Y:         StandardGravity * math.Sin(pitch),
		Z:         StandardGravity * math.Cos(roll) * math.Cos(pitch),
		Timestamp: ts,
	}
}

func clampTilt(v float64) float64 {
	return math.Max(-MaxTilt, math.Min(MaxTilt, v))
}
