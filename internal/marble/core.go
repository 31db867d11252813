package marble

import "math"

// Outcome describes the effect of a single Core.Step call.
type Outcome struct {
	State   State
	Discard Discard
	Hit     Hit
}

// Applied reports whether the sample changed the state.
func (o Outcome) Applied() bool { return o.Discard == Applied }

// Core owns the marble state and bounds.
type Core struct {
	params Params
	bounds Bounds
	state  State
}

func NewCore(p Params) *Core {
	return &Core{params: p}
}

func (c *Core) Params() Params     { return c.params }
func (c *Core) Bounds() Bounds     { return c.bounds }
func (c *Core) Snapshot() State    { return c.state }
func (c *Core) SetParams(p Params) { c.params = p }

// SetBounds recomputes the bounds for a viewport of the given size. A marble
// still at the origin sentinel is centered; any other state only sees the
// walls move.
func (c *Core) SetBounds(width, height float64) {
	c.bounds = NewBounds(width, height, c.params.Radius)
	if c.state.IsOrigin() {
		x, y := c.bounds.Center()
		c.state = State{X: x, Y: y}
	}
}

// Step advances the marble by one gravity sample. Samples with a dt above
// MaxDt, a negative dt, or non-finite values are dropped without touching
// the state.
func (c *Core) Step(gravityX, gravityY, dt float64) Outcome {
	if !finite(gravityX) || !finite(gravityY) || !finite(dt) {
		return Outcome{State: c.state, Discard: Invalid}
	}
	if dt < 0 {
		return Outcome{State: c.state, Discard: Backwards}
	}
	if dt > c.params.MaxDt {
		return Outcome{State: c.state, Discard: Stale}
	}

	next, hit := Advance(c.state, c.bounds, c.params, gravityX, gravityY, dt)
	c.state = next
	return Outcome{State: next, Hit: hit}
}

// Reset returns the core to the origin sentinel. Bounds are kept.
func (c *Core) Reset() {
	c.state = State{}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
