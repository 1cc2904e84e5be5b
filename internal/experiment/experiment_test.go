package experiment

import (
	"context"
	"testing"
)

func TestRegistryListsAllMetrics(t *testing.T) {
	r := NewRegistry()
	names := r.ListMetrics()
	if len(names) != 5 {
		t.Fatalf("expected 5 metrics, got %v", names)
	}
	for _, n := range names {
		m, err := r.GetMetric(n)
		if err != nil {
			t.Fatalf("GetMetric(%q): %v", n, err)
		}
		if m.Name() != n {
			t.Errorf("metric registered as %q reports name %q", n, m.Name())
		}
	}
}

func TestRegistryUnknownMetric(t *testing.T) {
	if _, err := NewRegistry().GetMetric("nope"); err == nil {
		t.Error("expected error for unknown metric")
	}
}

func TestExperimentRun(t *testing.T) {
	exp := New(Config{
		Preset:  "small",
		Frames:  30,
		Workers: 2,
		Params:  map[string]float64{"wind_strength": 0},
		Metrics: []string{"peak_stretch", "sway_amplitude"},
	})
	if err := exp.Setup(nil, NewRegistry()); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	defer exp.Close()

	if got := exp.SimConfig().Wind.Strength; got != 0 {
		t.Errorf("override not applied: wind_strength=%v", got)
	}

	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Frames) != 30 {
		t.Errorf("expected 30 frames, got %d", len(res.Frames))
	}
	if len(res.Metrics) != 2 {
		t.Errorf("expected 2 metrics, got %v", res.Metrics)
	}
	if res.Metrics["peak_stretch"] <= 0 {
		t.Errorf("gravity should stretch some link, got %v", res.Metrics["peak_stretch"])
	}
}

func TestExperimentSetupErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"unknown preset", Config{Preset: "nope", Frames: 1}},
		{"unknown param", Config{Preset: "small", Frames: 1, Params: map[string]float64{"mass": 1}}},
		{"unknown metric", Config{Preset: "small", Frames: 1, Metrics: []string{"nope"}}},
		{"invalid value", Config{Preset: "small", Frames: 1, Params: map[string]float64{"time_step": -1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp := New(tt.cfg)
			if err := exp.Setup(nil, NewRegistry()); err == nil {
				exp.Close()
				t.Error("expected setup error")
			}
		})
	}
}

func TestExperimentRunWithoutSetup(t *testing.T) {
	if _, err := New(Config{Frames: 1}).Run(context.Background()); err == nil {
		t.Error("expected error")
	}
}
