package experiment

import (
	"fmt"

	"github.com/san-kum/marblesim/internal/config"
	"github.com/san-kum/marblesim/internal/sensor"
)

// BuildDevice returns a simulated device offering the configured sensor
// kinds. With a replay file every offered kind replays the recording;
// otherwise each kind generates the configured wobble.
func BuildDevice(cfg *config.Config, realtime bool) (*sensor.Device, error) {
	kinds, err := cfg.Kinds()
	if err != nil {
		return nil, err
	}

	var recorded []sensor.Sample
	if cfg.Sensor.Replay != "" {
		r, err := sensor.OpenReplay(cfg.Sensor.Replay, sensor.Gravity, realtime)
		if err != nil {
			return nil, fmt.Errorf("load replay: %w", err)
		}
		if r.Len() == 0 {
			return nil, fmt.Errorf("load replay: %s has no samples", cfg.Sensor.Replay)
		}
		recorded = r.Samples()
	}

	dev := sensor.NewDevice()
	for _, kind := range kinds {
		kind := kind
		if recorded != nil {
			name := "replay:" + cfg.Sensor.Replay
			dev.Register(kind, func() sensor.Source {
				return sensor.NewReplay(name, kind, recorded, realtime)
			})
			continue
		}
		syn := cfg.Synthetic(kind)
		syn.Realtime = realtime
		dev.Register(kind, func() sensor.Source { return sensor.NewSynthetic(syn) })
	}
	return dev, nil
}

// ManualDevice offers a keyboard-driven source for each configured kind.
// The returned Manual is shared so the caller can steer it.
func ManualDevice(cfg *config.Config) (*sensor.Device, *sensor.Manual, error) {
	kinds, err := cfg.Kinds()
	if err != nil {
		return nil, nil, err
	}
	if len(kinds) == 0 {
		return sensor.NewDevice(), nil, nil
	}

	manual := sensor.NewManual(kinds[0], sensor.GameRate)
	dev := sensor.NewDevice()
	dev.Register(kinds[0], func() sensor.Source { return manual })
	return dev, manual, nil
}
