package marble

import (
	"fmt"
	"math"
)

const (
	DefaultRadius      = 40.0
	DefaultScale       = 0.5
	DefaultFriction    = 0.98
	DefaultRestitution = 0.7
	DefaultMaxDt       = 0.1
)

// State is the marble's position (top-left corner, px) and velocity.
type State struct {
	X         float64 `json:"x" yaml:"x"`
	Y         float64 `json:"y" yaml:"y"`
	VelocityX float64 `json:"vx" yaml:"vx"`
	VelocityY float64 `json:"vy" yaml:"vy"`
}

// IsOrigin reports whether s is the zero-origin sentinel.
func (s State) IsOrigin() bool {
	return s == State{}
}

func (s State) IsValid() bool {
	for _, v := range [...]float64{s.X, s.Y, s.VelocityX, s.VelocityY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Speed() float64 {
	return math.Hypot(s.VelocityX, s.VelocityY)
}

// Vector returns the state as x, y, vx, vy.
func (s State) Vector() []float64 {
	return []float64{s.X, s.Y, s.VelocityX, s.VelocityY}
}

func (s State) String() string {
	return fmt.Sprintf("(%.2f, %.2f) v=(%.2f, %.2f)", s.X, s.Y, s.VelocityX, s.VelocityY)
}

// Bounds holds the largest valid top-left coordinates of the marble.
type Bounds struct {
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// NewBounds computes the bounds for a viewport. A viewport smaller than the
// marble yields zero bounds.
func NewBounds(width, height, radius float64) Bounds {
	return Bounds{
		MaxX: math.Max(0, width-2*radius),
		MaxY: math.Max(0, height-2*radius),
	}
}

// Center returns the centered position within b.
func (b Bounds) Center() (float64, float64) {
	return b.MaxX / 2, b.MaxY / 2
}

func (b Bounds) Contains(s State) bool {
	return s.X >= 0 && s.X <= b.MaxX && s.Y >= 0 && s.Y <= b.MaxY
}

type Params struct {
	Radius      float64 `yaml:"radius" json:"radius"`
	Scale       float64 `yaml:"scale" json:"scale"`
	Friction    float64 `yaml:"friction" json:"friction"`
	Restitution float64 `yaml:"restitution" json:"restitution"`
	MaxDt       float64 `yaml:"max_dt" json:"max_dt"`
}

func DefaultParams() Params {
	return Params{
		Radius:      DefaultRadius,
		Scale:       DefaultScale,
		Friction:    DefaultFriction,
		Restitution: DefaultRestitution,
		MaxDt:       DefaultMaxDt,
	}
}

// Validate checks the parameters are usable. Friction must lie in (0, 1].
func (p Params) Validate() error {
	switch {
	case p.Radius < 0:
		return fmt.Errorf("%w: radius %.3f", ErrParameterBounds, p.Radius)
	case p.Friction <= 0 || p.Friction > 1:
		return fmt.Errorf("%w: friction %.3f not in (0,1]", ErrParameterBounds, p.Friction)
	case p.Restitution < 0 || p.Restitution > 1:
		return fmt.Errorf("%w: restitution %.3f not in [0,1]", ErrParameterBounds, p.Restitution)
	case p.MaxDt <= 0:
		return fmt.Errorf("%w: max_dt %.3f", ErrParameterBounds, p.MaxDt)
	}
	return nil
}

// GetParams exposes the tunables by name.
func (p Params) GetParams() map[string]float64 {
	return map[string]float64{
		"radius":      p.Radius,
		"scale":       p.Scale,
		"friction":    p.Friction,
		"restitution": p.Restitution,
		"max_dt":      p.MaxDt,
	}
}

func (p *Params) SetParam(name string, value float64) error {
	switch name {
	case "radius":
		p.Radius = value
	case "scale":
		p.Scale = value
	case "friction":
		p.Friction = value
	case "restitution":
		p.Restitution = value
	case "max_dt":
		p.MaxDt = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownParam, name)
	}
	return nil
}
