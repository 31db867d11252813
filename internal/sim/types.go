package sim

import (
	"fmt"

	"github.com/san-kum/marblesim/internal/marble"
)

// Observer is notified after every accepted sample.
type Observer interface {
	OnStep(s marble.State, hit marble.Hit, t float64)
}

type Metric interface {
	Name() string
	Observe(s marble.State, hit marble.Hit, t float64)
	Value() float64
	Reset()
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(s marble.State, hit marble.Hit, t float64)

func (f ObserverFunc) OnStep(s marble.State, hit marble.Hit, t float64) { f(s, hit, t) }

type Config struct {
	Width    float64
	Height   float64
	Duration float64 // sample-clock seconds; 0 runs until the source ends
	Record   bool
}

func (c Config) Validate() error {
	if c.Duration < 0 {
		return fmt.Errorf("duration must not be negative, got %f", c.Duration)
	}
	return nil
}

// Counters tallies what happened to delivered samples.
type Counters struct {
	Delivered int `json:"delivered"`
	Accepted  int `json:"accepted"`
	Stale     int `json:"stale"`
	Invalid   int `json:"invalid"`
	Backwards int `json:"backwards"`
}

func (c *Counters) count(d marble.Discard) {
	switch d {
	case marble.Applied:
		c.Accepted++
	case marble.Stale:
		c.Stale++
	case marble.Invalid:
		c.Invalid++
	case marble.Backwards:
		c.Backwards++
	}
}

// Frame is the published view of the core after an update.
type Frame struct {
	State  marble.State
	Bounds marble.Bounds
	Time   float64
	Seq    uint64
}

type Result struct {
	Source   string
	States   []marble.State
	Times    []float64
	Metrics  map[string]float64
	Counters Counters
	Final    marble.State
	Bounds   marble.Bounds
}
