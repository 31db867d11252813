package automation

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/marblesim/internal/config"
	"github.com/san-kum/marblesim/internal/experiment"
	"github.com/san-kum/marblesim/internal/marble"
	"github.com/san-kum/marblesim/internal/sim"
)

var ErrEmptyScenario = errors.New("automation: scenario has no steps")

// Scenario defines a scripted sequence of runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run in a scenario. Zero fields keep the value of
// the preset, or of the base config when no preset is named.
type ScenarioStep struct {
	Name     string             `yaml:"name"`
	Preset   string             `yaml:"preset"`
	Duration float64            `yaml:"duration"`
	Seed     int64              `yaml:"seed"`
	Width    float64            `yaml:"width"`
	Height   float64            `yaml:"height"`
	Sensors  []string           `yaml:"sensors"`
	Replay   string             `yaml:"replay"`
	Params   map[string]float64 `yaml:"params"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyScenario)
	}
	return &scenario, nil
}

// Config resolves the step against base.
func (s ScenarioStep) Config(base *config.Config) (*config.Config, error) {
	cfg := base.Clone()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	}

	if s.Duration > 0 {
		cfg.Duration = s.Duration
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if s.Width > 0 {
		cfg.Width = s.Width
	}
	if s.Height > 0 {
		cfg.Height = s.Height
	}
	if len(s.Sensors) > 0 {
		cfg.Sensor.Available = s.Sensors
	}
	if s.Replay != "" {
		cfg.Sensor.Replay = s.Replay
	}
	for k, v := range s.Params {
		if err := cfg.Physics.SetParam(k, v); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type StepResult struct {
	Step   ScenarioStep
	Config *config.Config
	Result *sim.Result
}

// RunScenario executes all steps in order and stops at the first failure.
func RunScenario(ctx context.Context, scenario *Scenario, base *config.Config, log zerolog.Logger) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		log.Info().Int("step", i+1).Int("of", len(scenario.Steps)).Str("name", step.Name).Msg("running scenario step")

		cfg, err := step.Config(base)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		result, err := Run(ctx, cfg, log)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Step: step, Config: cfg, Result: result})
	}
	return results, nil
}

// Run performs one headless run of cfg against a simulated device.
func Run(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*sim.Result, error) {
	dev, err := experiment.BuildDevice(cfg, false)
	if err != nil {
		return nil, err
	}
	exp, err := experiment.New(cfg, dev, log)
	if err != nil {
		return nil, err
	}
	return exp.Run(ctx)
}

// ParameterSweep runs the same configuration across evenly spaced values of
// one physics parameter.
type ParameterSweep struct {
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

type SweepResult struct {
	ParamValue float64
	Final      marble.State
	Metrics    map[string]float64
	Counters   sim.Counters
}

func RunSweep(ctx context.Context, sweep *ParameterSweep, base *config.Config, log zerolog.Logger) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}
	results := make([]SweepResult, 0, sweep.NumSteps)

	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		cfg := base.Clone()
		if err := cfg.Physics.SetParam(sweep.ParamName, paramVal); err != nil {
			return nil, err
		}

		result, err := Run(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("%s=%.4f: %w", sweep.ParamName, paramVal, err)
		}

		results = append(results, SweepResult{
			ParamValue: paramVal,
			Final:      result.Final,
			Metrics:    result.Metrics,
			Counters:   result.Counters,
		})
		log.Debug().Int("step", i+1).Str("param", sweep.ParamName).Float64("value", paramVal).Msg("sweep step done")
	}
	return results, nil
}

// MonteCarloConfig defines randomized trials over the sensor wobble and the
// viewport size.
type MonteCarloConfig struct {
	NumTrials int
	// Perturbation is the relative spread applied to the wobble amplitude
	// and the viewport dimensions.
	Perturbation float64
	Seed         int64
	Parallelism  int // 0 uses one worker per CPU
}

type MonteCarloResult struct {
	TrialID   int
	Seed      int64
	Width     float64
	Height    float64
	Final     marble.State
	Contained bool // every recorded state stayed inside the bounds
}

// RunMonteCarlo runs the trials concurrently. Trial configs are drawn up
// front so results do not depend on scheduling.
func RunMonteCarlo(ctx context.Context, mc *MonteCarloConfig, base *config.Config, log zerolog.Logger) ([]MonteCarloResult, error) {
	rng := rand.New(rand.NewSource(mc.Seed))
	jitter := func(v float64) float64 {
		return v * (1 + (rng.Float64()-0.5)*2*mc.Perturbation)
	}

	configs := make([]*config.Config, mc.NumTrials)
	for i := range configs {
		cfg := base.Clone()
		cfg.Seed = rng.Int63()
		cfg.Width = jitter(cfg.Width)
		cfg.Height = jitter(cfg.Height)
		cfg.Sensor.Amplitude = jitter(cfg.Sensor.Amplitude)
		configs[i] = cfg
	}

	workers := mc.Parallelism
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	semaphore := make(chan struct{}, workers)

	results := make([]MonteCarloResult, mc.NumTrials)
	errs := make([]error, mc.NumTrials)
	var done atomic.Int64

	var wg sync.WaitGroup
	for i, cfg := range configs {
		wg.Add(1)
		go func(idx int, cfg *config.Config) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			result, err := Run(ctx, cfg, log)
			if err != nil {
				errs[idx] = fmt.Errorf("trial %d: %w", idx, err)
				return
			}

			contained := true
			for _, s := range result.States {
				if !s.IsValid() || !result.Bounds.Contains(s) {
					contained = false
					break
				}
			}
			results[idx] = MonteCarloResult{
				TrialID:   idx,
				Seed:      cfg.Seed,
				Width:     cfg.Width,
				Height:    cfg.Height,
				Final:     result.Final,
				Contained: contained,
			}

			if n := done.Add(1); n%10 == 0 {
				log.Info().Int64("done", n).Int("of", mc.NumTrials).Msg("monte carlo progress")
			}
		}(i, cfg)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return results, nil
}

// MonteCarloStats counts trials that stayed inside and left the bounds.
func MonteCarloStats(results []MonteCarloResult) (contained int, escaped int) {
	for _, r := range results {
		if r.Contained {
			contained++
		} else {
			escaped++
		}
	}
	return
}
