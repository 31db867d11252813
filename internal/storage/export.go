package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/marblesim/internal/marble"
)

type ExportData struct {
	*RunMetadata
	Steps  int            `json:"steps"`
	Times  []float64      `json:"times"`
	States []marble.State `json:"states"`
}

// ExportJSON writes a run's metadata and trajectory as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	states, times, err := s.LoadStates(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		RunMetadata: meta,
		Steps:       len(states),
		Times:       times,
		States:      states,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
