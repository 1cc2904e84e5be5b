package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/clothsim/internal/config"
	"github.com/san-kum/clothsim/internal/sim"
)

// Config describes one headless run: a preset, parameter overrides and a
// frame count.
type Config struct {
	Preset  string
	Frames  int
	Workers int
	Params  map[string]float64
	Metrics []string
}

type Experiment struct {
	cfg       Config
	simCfg    *config.Config
	simulator *sim.Simulator
}

func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup resolves the preset (or base, when given), applies parameter
// overrides and builds the simulator with the requested metrics.
func (e *Experiment) Setup(base *config.Config, registry *Registry, opts ...sim.Option) error {
	var simCfg *config.Config
	if base != nil {
		simCfg = base.Clone()
	} else {
		simCfg = config.GetPreset(e.cfg.Preset)
		if simCfg == nil {
			return fmt.Errorf("unknown preset: %s", e.cfg.Preset)
		}
	}

	for k, v := range e.cfg.Params {
		if err := simCfg.SetParam(k, v); err != nil {
			return err
		}
	}
	if e.cfg.Workers > 0 {
		simCfg.Workers = e.cfg.Workers
	}

	ms, err := registry.Metrics(e.cfg.Metrics)
	if err != nil {
		return err
	}

	s, err := sim.New(simCfg, opts...)
	if err != nil {
		return err
	}
	for _, m := range ms {
		s.AddMetric(m)
	}

	e.simCfg = simCfg
	e.simulator = s
	return nil
}

// Run steps the configured number of frames on a fixed clock.
func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	clock := sim.FixedClock{Rate: float64(e.simCfg.FrameRate)}
	return e.simulator.Run(ctx, e.cfg.Frames, clock)
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

// SimConfig is the resolved configuration after overrides.
func (e *Experiment) SimConfig() *config.Config {
	return e.simCfg
}

func (e *Experiment) Close() {
	if e.simulator != nil {
		e.simulator.Close()
	}
}
