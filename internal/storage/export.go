package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/clothsim/internal/sim"
)

// ExportData is the JSON document written by the export-json command.
type ExportData struct {
	Run      RunMetadata   `json:"run"`
	Frames   []FrameRecord `json:"frames"`
	Snapshot *sim.Snapshot `json:"snapshot,omitempty"`
}

func (s *Store) Export(runID string) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return nil, err
	}
	snap, err := s.LoadSnapshot(runID)
	if err != nil {
		return nil, err
	}
	return &ExportData{Run: *meta, Frames: frames, Snapshot: snap}, nil
}

func ExportJSON(w io.Writer, data *ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
