package experiment

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/san-kum/marblesim/internal/config"
	"github.com/san-kum/marblesim/internal/marble"
	"github.com/san-kum/marblesim/internal/metrics"
	"github.com/san-kum/marblesim/internal/sensor"
	"github.com/san-kum/marblesim/internal/sim"
)

// Experiment is a headless run of the marble against a simulated device.
type Experiment struct {
	cfg       *config.Config
	log       zerolog.Logger
	simulator *sim.Simulator
	device    sensor.Provider
}

func New(cfg *config.Config, device sensor.Provider, log zerolog.Logger) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	simulator := sim.New(marble.NewCore(cfg.Physics), log)
	for _, m := range metrics.Default() {
		simulator.AddMetric(m)
	}

	return &Experiment{
		cfg:       cfg,
		log:       log,
		simulator: simulator,
		device:    device,
	}, nil
}

// Run probes the device for a tilt sensor and runs until the configured
// duration or the end of the recording. A device without any tilt sensor is
// not an error: the marble is placed and stays where it is.
func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	kinds, err := e.cfg.Kinds()
	if err != nil {
		return nil, err
	}
	if len(kinds) == 0 {
		kinds = sensor.DefaultOrder
	}

	simCfg := sim.Config{
		Width:    e.cfg.Width,
		Height:   e.cfg.Height,
		Duration: e.cfg.Duration,
		Record:   true,
	}

	src, err := sensor.Probe(e.device, kinds...)
	if errors.Is(err, sensor.ErrNoSensor) {
		e.log.Warn().Strs("probed", e.cfg.Sensor.Available).Msg("no tilt sensor available, marble will not move")
		e.simulator.Resize(simCfg.Width, simCfg.Height)
		f := e.simulator.Latest()
		return &sim.Result{
			States:  []marble.State{f.State},
			Times:   []float64{0},
			Metrics: map[string]float64{},
			Final:   f.State,
			Bounds:  f.Bounds,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	if src.Kind() != kinds[0] {
		e.log.Info().Str("kind", string(src.Kind())).Msg("preferred sensor missing, using fallback")
	}

	return e.simulator.Run(ctx, src, simCfg)
}

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *sim.Simulator {
	return e.simulator
}
