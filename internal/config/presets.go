package config

import (
	"sort"

	"github.com/san-kum/marblesim/internal/marble"
)

var Presets = map[string]func() *Config{
	"classic": DefaultConfig,
	"icy": func() *Config {
		cfg := DefaultConfig()
		cfg.Physics.Friction = 0.995
		cfg.Physics.Restitution = 0.9
		return cfg
	},
	"sticky": func() *Config {
		cfg := DefaultConfig()
		cfg.Physics.Friction = 0.9
		cfg.Physics.Restitution = 0.3
		return cfg
	},
	"emulator": func() *Config {
		cfg := DefaultConfig()
		cfg.Sensor.Available = []string{"accelerometer"}
		cfg.Sensor.Noise = 0.3
		return cfg
	},
	"backgrounded": func() *Config {
		cfg := DefaultConfig()
		cfg.Sensor.PauseEvery = 100
		cfg.Sensor.PauseFor = 0.5
		return cfg
	},
	"tablet": func() *Config {
		cfg := DefaultConfig()
		cfg.Width, cfg.Height = 2560, 1600
		cfg.Physics = marble.DefaultParams()
		cfg.Physics.Radius = 60
		return cfg
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
