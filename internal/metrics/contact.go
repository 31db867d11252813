package metrics

import "github.com/san-kum/marblesim/internal/marble"

// WallContact is the fraction of steps in which the marble touched a wall.
type WallContact struct {
	name     string
	contacts int
	samples  int
}

func NewWallContact() *WallContact {
	return &WallContact{name: "wall_contact"}
}

func (w *WallContact) Name() string {
	return w.name
}

func (w *WallContact) Observe(s marble.State, hit marble.Hit, t float64) {
	w.samples++
	if hit.Any() {
		w.contacts++
	}
}

func (w *WallContact) Value() float64 {
	if w.samples == 0 {
		return 0
	}
	return float64(w.contacts) / float64(w.samples)
}

func (w *WallContact) Reset() {
	w.contacts = 0
	w.samples = 0
}
