package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/clothsim/internal/config"
	"github.com/san-kum/clothsim/internal/metrics"
	"github.com/san-kum/clothsim/internal/sim"
	"github.com/stretchr/testify/require"
)

func runSmall(t *testing.T, frames int) (*config.Config, *sim.Result, sim.Snapshot) {
	t.Helper()
	cfg := config.GetPreset("small")
	s, err := sim.New(cfg)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	for _, m := range metrics.Default() {
		s.AddMetric(m)
	}
	res, err := s.Run(context.Background(), frames, sim.FixedClock{Rate: 60})
	require.NoError(t, err)
	return cfg, res, s.Snapshot()
}

func TestSaveAndLoad(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "runs"))
	require.NoError(t, st.Init())

	cfg, res, snap := runSmall(t, 20)
	id, err := st.Save(cfg, res, snap, 150*time.Millisecond)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	for _, name := range []string{metadataFile, configFile, framesFile, snapshotFile} {
		_, err := os.Stat(filepath.Join(st.baseDir, id, name))
		require.NoError(t, err, name)
	}

	meta, err := st.Load(id)
	require.NoError(t, err)
	require.Equal(t, id, meta.ID)
	require.Equal(t, "small", meta.Preset)
	require.Equal(t, 20, meta.Frames)
	require.Equal(t, len(snap.Particles), meta.Particles)
	require.InDelta(t, 0.15, meta.WallTime, 1e-9)
	require.Equal(t, res.Metrics, meta.Metrics)

	loadedCfg, err := st.LoadConfig(id)
	require.NoError(t, err)
	require.Equal(t, cfg.Grid, loadedCfg.Grid)
	require.Equal(t, cfg.Wind, loadedCfg.Wind)

	loadedSnap, err := st.LoadSnapshot(id)
	require.NoError(t, err)
	require.Equal(t, snap.Frame, loadedSnap.Frame)
	require.Len(t, loadedSnap.Links, len(snap.Links))
}

func TestLoadFrames(t *testing.T) {
	st := New(t.TempDir())
	cfg, res, snap := runSmall(t, 12)
	id, err := st.Save(cfg, res, snap, time.Second)
	require.NoError(t, err)

	frames, err := st.LoadFrames(id)
	require.NoError(t, err)
	require.Len(t, frames, 12)
	for i, f := range frames {
		require.Equal(t, res.Frames[i].Index, f.Frame)
		require.InDelta(t, res.Frames[i].Elapsed, f.Time, 1e-6)
		require.InDelta(t, res.Frames[i].Stats.MaxStretch, f.MaxStretch, 1e-6)
		require.Equal(t, res.Frames[i].Stats.Active, f.Active)
	}

	col, err := Column(frames, "max_stretch")
	require.NoError(t, err)
	require.Len(t, col, 12)

	_, err = Column(frames, "nope")
	require.Error(t, err)
}

func TestLoadFrames_Malformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "bad"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad", framesFile),
		[]byte("frame,time,wind,max_stretch,mean_stretch,active,broken,sway,kinetic\n1,x,0,0,0,1,0,0,0\n"), 0644))

	_, err := New(dir).LoadFrames("bad")
	require.Error(t, err)
}

func TestList(t *testing.T) {
	st := New(t.TempDir())

	runs, err := st.List()
	require.NoError(t, err)
	require.Empty(t, runs)

	cfg, res, snap := runSmall(t, 5)
	first, err := st.Save(cfg, res, snap, 0)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := st.Save(cfg, res, snap, 0)
	require.NoError(t, err)

	// stray files and unreadable dirs are skipped
	require.NoError(t, os.WriteFile(filepath.Join(st.baseDir, "notes.txt"), nil, 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(st.baseDir, "empty"), 0755))

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, second, runs[0].ID)
	require.Equal(t, first, runs[1].ID)
}

func TestListMissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "absent")).List()
	require.NoError(t, err)
	require.Empty(t, runs)
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	cfg, res, snap := runSmall(t, 8)
	id, err := st.Save(cfg, res, snap, 0)
	require.NoError(t, err)

	data, err := st.Export(id)
	require.NoError(t, err)
	require.Len(t, data.Frames, 8)

	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, data))

	var decoded ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, id, decoded.Run.ID)
	require.NotNil(t, decoded.Snapshot)
	require.Len(t, decoded.Snapshot.Particles, len(snap.Particles))
}
