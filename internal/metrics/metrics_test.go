package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/marblesim/internal/marble"
)

func TestBounces(t *testing.T) {
	b := NewBounces()
	b.Observe(marble.State{}, marble.Hit{X: true}, 0)
	b.Observe(marble.State{}, marble.Hit{}, 0.02)
	b.Observe(marble.State{}, marble.Hit{X: true, Y: true}, 0.04)

	if b.Value() != 3 {
		t.Errorf("expected 3 bounces, got %f", b.Value())
	}
	b.Reset()
	if b.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestSpeed(t *testing.T) {
	mean, max := NewMeanSpeed(), NewMaxSpeed()
	for _, s := range []marble.State{
		{VelocityX: 3, VelocityY: 4},
		{VelocityX: -6, VelocityY: 8},
		{},
	} {
		mean.Observe(s, marble.Hit{}, 0)
		max.Observe(s, marble.Hit{}, 0)
	}

	if math.Abs(mean.Value()-5) > 1e-12 {
		t.Errorf("expected mean speed 5, got %f", mean.Value())
	}
	if max.Value() != 10 {
		t.Errorf("expected max speed 10, got %f", max.Value())
	}
}

func TestWallContact(t *testing.T) {
	w := NewWallContact()
	if w.Value() != 0 {
		t.Error("expected 0 with no samples")
	}
	w.Observe(marble.State{}, marble.Hit{Y: true}, 0)
	w.Observe(marble.State{}, marble.Hit{}, 0)
	w.Observe(marble.State{}, marble.Hit{}, 0)
	w.Observe(marble.State{}, marble.Hit{X: true, Y: true}, 0)

	if w.Value() != 0.5 {
		t.Errorf("expected 0.5, got %f", w.Value())
	}
}

func TestDefaultNames(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Default() {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %s", m.Name())
		}
		seen[m.Name()] = true
	}
	for _, name := range []string{"bounces", "mean_speed", "max_speed", "wall_contact"} {
		if !seen[name] {
			t.Errorf("missing metric %s", name)
		}
	}
}
