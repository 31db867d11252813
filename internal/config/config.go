package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/marblesim/internal/marble"
	"github.com/san-kum/marblesim/internal/sensor"
)

const (
	DefaultWidth     = 1080.0
	DefaultHeight    = 1920.0
	DefaultDuration  = 10.0
	DefaultAmplitude = 0.35
	DefaultPeriod    = 4.0
	DefaultNoise     = 0.05
	DefaultLogLevel  = "info"
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Width    float64       `yaml:"width"`
	Height   float64       `yaml:"height"`
	Duration float64       `yaml:"duration"`
	Seed     int64         `yaml:"seed"`
	LogLevel string        `yaml:"log_level"`
	Physics  marble.Params `yaml:"physics"`
	Sensor   SensorConfig  `yaml:"sensor"`
}

// SensorConfig describes the simulated device and the tilt it reports.
type SensorConfig struct {
	// Available lists the sensor kinds the device offers, probed in order.
	Available  []string `yaml:"available"`
	Replay     string   `yaml:"replay"`
	Amplitude  float64  `yaml:"amplitude"`
	Period     float64  `yaml:"period"`
	Noise      float64  `yaml:"noise"`
	PauseEvery int      `yaml:"pause_every"`
	PauseFor   float64  `yaml:"pause_for"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		Duration: DefaultDuration,
		Seed:     1,
		LogLevel: DefaultLogLevel,
		Physics:  marble.DefaultParams(),
		Sensor: SensorConfig{
			Available: []string{string(sensor.Gravity), string(sensor.Accelerometer)},
			Amplitude: DefaultAmplitude,
			Period:    DefaultPeriod,
			Noise:     DefaultNoise,
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path on top of a copy of base; keys missing from the file
// keep their base values.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Duration < 0 {
		return fmt.Errorf("%w: duration %.3f", ErrInvalid, c.Duration)
	}
	if c.Sensor.Period <= 0 {
		return fmt.Errorf("%w: sensor period must be positive", ErrInvalid)
	}
	if _, err := c.Kinds(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := c.Physics.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Kinds returns the configured sensor kinds in probe order.
func (c *Config) Kinds() ([]sensor.Kind, error) {
	kinds := make([]sensor.Kind, 0, len(c.Sensor.Available))
	for _, name := range c.Sensor.Available {
		k, err := sensor.ParseKind(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// Synthetic returns the wobble generator settings for the given kind.
func (c *Config) Synthetic(kind sensor.Kind) sensor.SyntheticConfig {
	return sensor.SyntheticConfig{
		Kind:       kind,
		Rate:       sensor.GameRate,
		Amplitude:  c.Sensor.Amplitude,
		Period:     seconds(c.Sensor.Period),
		Noise:      c.Sensor.Noise,
		Seed:       c.Seed,
		PauseEvery: c.Sensor.PauseEvery,
		PauseFor:   seconds(c.Sensor.PauseFor),
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Sensor.Available = append([]string(nil), c.Sensor.Available...)
	return &cp
}
