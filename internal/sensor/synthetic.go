package sensor

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// StandardGravity in m/s².
const StandardGravity = 9.80665

// SyntheticConfig describes a generated tilt wobble.
type SyntheticConfig struct {
	Kind      Kind
	Rate      time.Duration
	Amplitude float64 // peak tilt in radians
	Period    time.Duration
	Noise     float64 // std dev added per axis, m/s²
	Seed      int64
	Count     int // 0 means unbounded
	Realtime  bool

	// PauseEvery/PauseFor insert a timestamp gap, as when the app is
	// backgrounded and the sensor stops reporting.
	PauseEvery int
	PauseFor   time.Duration
}

func DefaultSyntheticConfig() SyntheticConfig {
	return SyntheticConfig{
		Kind:      Gravity,
		Rate:      GameRate,
		Amplitude: 0.35,
		Period:    4 * time.Second,
		Noise:     0.05,
		Seed:      1,
	}
}

// Synthetic generates samples from a simulated clock. Unless Realtime is
// set it emits as fast as the consumer reads.
type Synthetic struct {
	cfg SyntheticConfig
	stream
}

func NewSynthetic(cfg SyntheticConfig) *Synthetic {
	if cfg.Rate <= 0 {
		cfg.Rate = GameRate
	}
	if cfg.Period <= 0 {
		cfg.Period = 4 * time.Second
	}
	if cfg.Kind == "" {
		cfg.Kind = Gravity
	}
	return &Synthetic{cfg: cfg}
}

func (s *Synthetic) Name() string { return "synthetic-" + string(s.cfg.Kind) }
func (s *Synthetic) Kind() Kind   { return s.cfg.Kind }
func (s *Synthetic) Stop() error  { return s.stop() }

func (s *Synthetic) Start(ctx context.Context) (<-chan Sample, error) {
	return s.start(ctx, s.produce)
}

func (s *Synthetic) produce(ctx context.Context, out chan<- Sample) {
	gen := newWobble(s.cfg)

	var ticker *time.Ticker
	if s.cfg.Realtime {
		ticker = time.NewTicker(s.cfg.Rate)
		defer ticker.Stop()
	}

	for i := 0; s.cfg.Count == 0 || i < s.cfg.Count; i++ {
		if ticker != nil {
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
		if !send(ctx, out, gen.next()) {
			return
		}
	}
}

// Generate returns the first n samples the config would produce.
func Generate(cfg SyntheticConfig, n int) []Sample {
	gen := newWobble(NewSynthetic(cfg).cfg)
	samples := make([]Sample, n)
	for i := range samples {
		samples[i] = gen.next()
	}
	return samples
}

type wobble struct {
	cfg   SyntheticConfig
	rng   *rand.Rand
	clock time.Duration
	n     int
}

func newWobble(cfg SyntheticConfig) *wobble {
	return &wobble{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

func (w *wobble) next() Sample {
	if w.n > 0 {
		w.clock += w.cfg.Rate
		if w.cfg.PauseEvery > 0 && w.n%w.cfg.PauseEvery == 0 {
			w.clock += w.cfg.PauseFor
		}
	}
	w.n++

	t := w.clock.Seconds()
	period := w.cfg.Period.Seconds()
	pitch := w.cfg.Amplitude * math.Sin(2*math.Pi*t/period)
	roll := w.cfg.Amplitude * math.Cos(2*math.Pi*t/(period*1.3))

	smp := Sample{
		X:         StandardGravity * math.Sin(roll),
		Y:         StandardGravity * math.Sin(pitch),
		Z:         StandardGravity * math.Cos(roll) * math.Cos(pitch),
		Timestamp: w.clock,
	}
	if w.cfg.Noise > 0 {
		smp.X += w.rng.NormFloat64() * w.cfg.Noise
		smp.Y += w.rng.NormFloat64() * w.cfg.Noise
		smp.Z += w.rng.NormFloat64() * w.cfg.Noise
	}
	return smp
}
