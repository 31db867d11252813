package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/san-kum/marblesim/internal/marble"
	"github.com/san-kum/marblesim/internal/sensor"
)

var ErrRunning = errors.New("sim: already running")

// Simulator delivers samples from a sensor.Source to a marble.Core on a
// single goroutine. Anything that touches the core while a run is active
// goes through Do.
type Simulator struct {
	core      *marble.Core
	log       zerolog.Logger
	metrics   []Metric
	observers []Observer

	mu      sync.Mutex
	ops     chan func(*marble.Core)
	stopped chan struct{}

	latest atomic.Pointer[Frame]
	seq    uint64
	t      float64
}

func New(core *marble.Core, log zerolog.Logger) *Simulator {
	s := &Simulator{
		core:      core,
		log:       log.With().Str("component", "sim").Logger(),
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
	s.publish()
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Latest returns the most recently published frame. Safe for concurrent use.
func (s *Simulator) Latest() Frame {
	return *s.latest.Load()
}

// Do runs fn against the core. While Run is active fn executes on the run
// goroutine; otherwise it executes immediately on the caller's.
func (s *Simulator) Do(fn func(*marble.Core)) {
	s.mu.Lock()
	ops, stopped := s.ops, s.stopped
	s.mu.Unlock()

	if ops != nil {
		done := make(chan struct{})
		wrapped := func(c *marble.Core) {
			fn(c)
			s.publish()
			close(done)
		}
		select {
		case ops <- wrapped:
			<-done
			return
		case <-stopped:
		}
	}
	fn(s.core)
	s.publish()
}

// Resize reports a new viewport size to the core.
func (s *Simulator) Resize(width, height float64) {
	s.Do(func(c *marble.Core) { c.SetBounds(width, height) })
}

// Reset puts the marble back in the middle of the current viewport.
func (s *Simulator) Reset() {
	s.Do(func(c *marble.Core) {
		b := c.Bounds()
		r := c.Params().Radius
		c.Reset()
		c.SetBounds(b.MaxX+2*r, b.MaxY+2*r)
	})
}

// Run subscribes to src and feeds its samples to the core until the source
// ends, ctx is done, or cfg.Duration of sample time has elapsed. The source
// is stopped on every return path.
func (s *Simulator) Run(ctx context.Context, src sensor.Source, cfg Config) (res *Result, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ops, err := s.attach()
	if err != nil {
		return nil, err
	}
	defer s.detach()

	if cfg.Width > 0 || cfg.Height > 0 {
		s.core.SetBounds(cfg.Width, cfg.Height)
	}
	for _, m := range s.metrics {
		m.Reset()
	}
	s.t = 0
	s.publish()

	res = &Result{
		Source:  src.Name(),
		Metrics: make(map[string]float64),
	}
	samples, err := src.Start(ctx)
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", src.Name(), err)
	}
	log := s.log.With().Str("source", src.Name()).Str("kind", string(src.Kind())).Logger()
	log.Info().Msg("sensor registered")
	defer func() {
		if stopErr := src.Stop(); stopErr != nil {
			log.Error().Err(stopErr).Msg("failed to unregister sensor")
			if err == nil {
				err = stopErr
			}
		}
		log.Info().
			Int("accepted", res.Counters.Accepted).
			Int("stale", res.Counters.Stale).
			Int("invalid", res.Counters.Invalid).
			Msg("sensor unregistered")
	}()

	if cfg.Record {
		res.States = append(res.States, s.core.Snapshot())
		res.Times = append(res.Times, 0)
	}

	var (
		first  = true
		origin sensor.Sample
		prev   sensor.Sample
	)

loop:
	for {
		select {
		case <-ctx.Done():
			s.finish(res)
			return res, ctx.Err()
		case op := <-ops:
			op(s.core)
		case smp, ok := <-samples:
			if !ok {
				if ctx.Err() != nil {
					s.finish(res)
					return res, ctx.Err()
				}
				break loop
			}
			res.Counters.Delivered++
			if first {
				origin, prev, first = smp, smp, false
				continue
			}

			dt := (smp.Timestamp - prev.Timestamp).Seconds()
			prev = smp
			gx, gy := sensor.ScreenFrame(smp)
			out := s.core.Step(gx, gy, dt)
			res.Counters.count(out.Discard)
			if !out.Applied() {
				log.Debug().Str("reason", out.Discard.String()).Float64("dt", dt).Msg("sample discarded")
				continue
			}

			s.t = (smp.Timestamp - origin.Timestamp).Seconds()
			s.publish()
			for _, m := range s.metrics {
				m.Observe(out.State, out.Hit, s.t)
			}
			for _, o := range s.observers {
				o.OnStep(out.State, out.Hit, s.t)
			}
			if cfg.Record {
				res.States = append(res.States, out.State)
				res.Times = append(res.Times, s.t)
			}
			if cfg.Duration > 0 && s.t >= cfg.Duration {
				break loop
			}
		}
	}

	s.finish(res)
	return res, nil
}

func (s *Simulator) finish(res *Result) {
	res.Final = s.core.Snapshot()
	res.Bounds = s.core.Bounds()
	for _, m := range s.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) attach() (chan func(*marble.Core), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ops != nil {
		return nil, ErrRunning
	}
	s.ops = make(chan func(*marble.Core))
	s.stopped = make(chan struct{})
	return s.ops, nil
}

func (s *Simulator) detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	close(s.stopped)
	s.ops, s.stopped = nil, nil
}

func (s *Simulator) publish() {
	s.seq++
	s.latest.Store(&Frame{
		State:  s.core.Snapshot(),
		Bounds: s.core.Bounds(),
		Time:   s.t,
		Seq:    s.seq,
	})
}
