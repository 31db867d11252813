package metrics

import "github.com/san-kum/marblesim/internal/marble"

// Bounces counts wall reflections. A corner hit counts twice.
type Bounces struct {
	name  string
	count int
}

func NewBounces() *Bounces {
	return &Bounces{name: "bounces"}
}

func (b *Bounces) Name() string { return b.name }

func (b *Bounces) Observe(s marble.State, hit marble.Hit, t float64) {
	b.count += hit.Count()
}

func (b *Bounces) Value() float64 { return float64(b.count) }

func (b *Bounces) Reset() { b.count = 0 }
