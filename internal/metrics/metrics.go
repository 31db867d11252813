// Package metrics summarizes a marble trajectory.
package metrics

import "github.com/san-kum/marblesim/internal/sim"

// Default returns the metrics recorded for every run.
func Default() []sim.Metric {
	return []sim.Metric{
		NewBounces(),
		NewMeanSpeed(),
		NewMaxSpeed(),
		NewWallContact(),
	}
}
