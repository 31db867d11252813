package sensor

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

var csvHeader = []string{"t_ns", "x", "y", "z"}

// Replay emits recorded samples in order.
type Replay struct {
	name     string
	kind     Kind
	samples  []Sample
	realtime bool
	stream
}

func NewReplay(name string, kind Kind, samples []Sample, realtime bool) *Replay {
	return &Replay{name: name, kind: kind, samples: samples, realtime: realtime}
}

// OpenReplay loads a sample recording written by WriteCSV.
func OpenReplay(path string, kind Kind, realtime bool) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	samples, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return NewReplay("replay:"+path, kind, samples, realtime), nil
}

func (r *Replay) Name() string      { return r.name }
func (r *Replay) Kind() Kind        { return r.kind }
func (r *Replay) Len() int          { return len(r.samples) }
func (r *Replay) Stop() error       { return r.stop() }
func (r *Replay) Samples() []Sample { return r.samples }

func (r *Replay) Start(ctx context.Context) (<-chan Sample, error) {
	return r.start(ctx, r.produce)
}

func (r *Replay) produce(ctx context.Context, out chan<- Sample) {
	for i, smp := range r.samples {
		if r.realtime && i > 0 {
			wait := smp.Timestamp - r.samples[i-1].Timestamp
			if wait > 0 {
				timer := time.NewTimer(wait)
				select {
				case <-timer.C:
				case <-ctx.Done():
					timer.Stop()
					return
				}
			}
		}
		if !send(ctx, out, smp) {
			return
		}
	}
}

func WriteCSV(w io.Writer, samples []Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			strconv.FormatInt(int64(s.Timestamp), 10),
			strconv.FormatFloat(s.X, 'f', 6, 64),
			strconv.FormatFloat(s.Y, 'f', 6, 64),
			strconv.FormatFloat(s.Z, 'f', 6, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a recording. The header row is required.
func ReadCSV(r io.Reader) ([]Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 || records[0][0] != csvHeader[0] {
		return nil, fmt.Errorf("missing header %v", csvHeader)
	}

	samples := make([]Sample, 0, len(records)-1)
	for i, rec := range records[1:] {
		ns, err := strconv.ParseInt(rec[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: timestamp: %w", i+2, err)
		}
		var v [3]float64
		for j := range v {
			v[j], err = strconv.ParseFloat(rec[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", i+2, csvHeader[j+1], err)
			}
		}
		samples = append(samples, Sample{X: v[0], Y: v[1], Z: v[2], Timestamp: time.Duration(ns)})
	}
	return samples, nil
}
