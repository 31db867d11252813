package viz

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/san-kum/marblesim/internal/sensor"
	"github.com/san-kum/marblesim/internal/sim"
)

// runner owns the background simulation run. Pausing stops the run, which
// unregisters the sensor; resuming probes the device again.
type runner struct {
	sim    *sim.Simulator
	device sensor.Provider
	kinds  []sensor.Kind
	log    zerolog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	source string
}

func (r *runner) start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return nil
	}

	src, err := sensor.Probe(r.device, r.kinds...)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	r.cancel, r.done, r.source = cancel, done, src.Name()

	go func() {
		defer close(done)
		// Bounds come from Resize, so the run leaves them alone.
		_, err := r.sim.Run(ctx, src, sim.Config{})
		if err != nil && !errors.Is(err, context.Canceled) {
			r.log.Error().Err(err).Str("source", src.Name()).Msg("run failed")
		}
	}()
	return nil
}

// stop cancels the current run and waits for the sensor to be released.
func (r *runner) stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (r *runner) active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel != nil
}

func (r *runner) sourceName() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.source
}
