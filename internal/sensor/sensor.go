// Package sensor provides tilt sample sources for the marble.
//
// Samples are reported in the device frame: +X to the right of the screen,
// +Y towards the top of the screen. [ScreenFrame] maps them to the
// screen-down convention used by the physics core.
package sensor

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// GameRate is the sampling interval requested from sources.
const GameRate = 20 * time.Millisecond

var (
	ErrUnavailable = errors.New("sensor: unavailable")
	ErrNoSensor    = errors.New("sensor: no tilt sensor available")
	ErrStarted     = errors.New("sensor: already started")
)

type Kind string

const (
	Gravity       Kind = "gravity"
	Accelerometer Kind = "accelerometer"
)

// DefaultOrder is the probe order: gravity first, accelerometer as fallback.
var DefaultOrder = []Kind{Gravity, Accelerometer}

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Gravity, Accelerometer:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown sensor kind: %s", s)
}

// Sample is a single device-frame reading. Timestamp is monotonic and only
// meaningful relative to other samples from the same source.
type Sample struct {
	X, Y, Z   float64
	Timestamp time.Duration
}

// ScreenFrame returns the sample as screen-right/screen-down gravity.
func ScreenFrame(s Sample) (gx, gy float64) {
	return s.X, -s.Y
}

// Source delivers samples until stopped or until its context is done.
// The channel returned by Start is closed when delivery ends.
type Source interface {
	Name() string
	Kind() Kind
	Start(ctx context.Context) (<-chan Sample, error)
	Stop() error
}

type Provider interface {
	Open(kind Kind) (Source, error)
}

// Probe opens the first kind the provider offers, in order. With no kinds
// it uses DefaultOrder.
func Probe(p Provider, kinds ...Kind) (Source, error) {
	if len(kinds) == 0 {
		kinds = DefaultOrder
	}
	for _, k := range kinds {
		src, err := p.Open(k)
		if err == nil {
			return src, nil
		}
		if !errors.Is(err, ErrUnavailable) {
			return nil, fmt.Errorf("open %s: %w", k, err)
		}
	}
	return nil, ErrNoSensor
}

// Device is a Provider backed by one constructor per sensor kind. Kinds
// without a constructor are unavailable.
type Device struct {
	sensors map[Kind]func() Source
}

func NewDevice() *Device {
	return &Device{sensors: make(map[Kind]func() Source)}
}

func (d *Device) Register(kind Kind, fn func() Source) {
	d.sensors[kind] = fn
}

func (d *Device) Open(kind Kind) (Source, error) {
	fn, ok := d.sensors[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, kind)
	}
	return fn(), nil
}
