package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/clothsim/internal/config"
	"github.com/san-kum/clothsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	configFile   = "config.yaml"
	framesFile   = "frames.csv"
	snapshotFile = "final.json"
)

var frameHeader = []string{"frame", "time", "wind", "max_stretch", "mean_stretch", "active", "broken", "sway", "kinetic"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Frames    int                `json:"frames"`
	Particles int                `json:"particles"`
	Links     int                `json:"links"`
	Dt        float64            `json:"dt"`
	FrameRate int                `json:"frame_rate"`
	Workers   int                `json:"workers"`
	WallTime  float64            `json:"wall_time_seconds"`
	Metrics   map[string]float64 `json:"metrics"`
	Errors    []string           `json:"errors,omitempty"`
}

// FrameRecord is one row of frames.csv.
type FrameRecord struct {
	Frame       int
	Time        float64
	Wind        float64
	MaxStretch  float64
	MeanStretch float64
	Active      int
	Broken      int
	Sway        float64
	Kinetic     float64
}

// Save writes a run directory: metadata, the configuration used, per-frame
// stats and the final snapshot.
func (s *Store) Save(cfg *config.Config, result *sim.Result, final sim.Snapshot, wall time.Duration) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", cfg.Name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Preset:    cfg.Name,
		Timestamp: now,
		Frames:    len(result.Frames),
		Particles: len(final.Particles),
		Links:     len(final.Links),
		Dt:        cfg.Physics.TimeStep,
		FrameRate: cfg.FrameRate,
		Workers:   cfg.Workers,
		WallTime:  wall.Seconds(),
		Metrics:   result.Metrics,
	}
	for _, err := range result.Errors {
		meta.Errors = append(meta.Errors, err.Error())
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := config.Save(filepath.Join(runDir, configFile), cfg); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, snapshotFile), final); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, framesFile), result.Frames); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeFrames(path string, frames []sim.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(frameHeader); err != nil {
		return err
	}
	for _, fr := range frames {
		st := fr.Stats
		row := []string{
			strconv.Itoa(fr.Index),
			formatFloat(fr.Elapsed),
			formatFloat(fr.Wind.X),
			formatFloat(st.MaxStretch),
			formatFloat(st.MeanStretch),
			strconv.Itoa(st.Active),
			strconv.Itoa(st.Broken),
			formatFloat(st.Sway),
			formatFloat(st.Kinetic),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, configFile))
}

func (s *Store) LoadSnapshot(runID string) (*sim.Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, snapshotFile))
	if err != nil {
		return nil, err
	}
	var snap sim.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *Store) LoadFrames(runID string) ([]FrameRecord, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []FrameRecord{}, nil
	}

	out := make([]FrameRecord, 0, len(records)-1)
	for i, rec := range records[1:] {
		fr, err := parseFrame(rec)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", framesFile, i+2, err)
		}
		out = append(out, fr)
	}
	return out, nil
}

func parseFrame(rec []string) (FrameRecord, error) {
	if len(rec) != len(frameHeader) {
		return FrameRecord{}, fmt.Errorf("expected %d fields, got %d", len(frameHeader), len(rec))
	}
	var (
		fr   FrameRecord
		errs []error
	)
	atoi := func(s string) int {
		v, e := strconv.Atoi(s)
		errs = append(errs, e)
		return v
	}
	atof := func(s string) float64 {
		v, e := strconv.ParseFloat(s, 64)
		errs = append(errs, e)
		return v
	}

	fr.Frame = atoi(rec[0])
	fr.Time = atof(rec[1])
	fr.Wind = atof(rec[2])
	fr.MaxStretch = atof(rec[3])
	fr.MeanStretch = atof(rec[4])
	fr.Active = atoi(rec[5])
	fr.Broken = atoi(rec[6])
	fr.Sway = atof(rec[7])
	fr.Kinetic = atof(rec[8])

	return fr, errors.Join(errs...)
}

// Column extracts one numeric column from frame records by header name.
func Column(frames []FrameRecord, name string) ([]float64, error) {
	pick := map[string]func(FrameRecord) float64{
		"time":         func(f FrameRecord) float64 { return f.Time },
		"wind":         func(f FrameRecord) float64 { return f.Wind },
		"max_stretch":  func(f FrameRecord) float64 { return f.MaxStretch },
		"mean_stretch": func(f FrameRecord) float64 { return f.MeanStretch },
		"active":       func(f FrameRecord) float64 { return float64(f.Active) },
		"broken":       func(f FrameRecord) float64 { return float64(f.Broken) },
		"sway":         func(f FrameRecord) float64 { return f.Sway },
		"kinetic":      func(f FrameRecord) float64 { return f.Kinetic },
	}[name]
	if pick == nil {
		return nil, fmt.Errorf("unknown column %q", name)
	}
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = pick(f)
	}
	return out, nil
}
