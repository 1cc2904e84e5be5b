package automation

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/san-kum/clothsim/internal/config"
	"github.com/san-kum/clothsim/internal/experiment"
	"github.com/san-kum/clothsim/internal/sim"
	"github.com/san-kum/clothsim/internal/storage"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single step in a scenario
type ScenarioStep struct {
	Preset  string             `yaml:"preset"`
	Frames  int                `yaml:"frames"`
	Workers int                `yaml:"workers"`
	Params  map[string]float64 `yaml:"params"`
	Metrics []string           `yaml:"metrics"`
	// Cut lists link ids severed before the first frame.
	Cut    []int  `yaml:"cut"`
	SaveAs string `yaml:"save_as"`
}

// StepResult pairs a step's result with the run id it was saved under, if
// any.
type StepResult struct {
	Step   ScenarioStep
	Result *sim.Result
	RunID  string
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// Runner executes scripted and swept runs. Store may be nil, in which case
// nothing is persisted.
type Runner struct {
	Registry *experiment.Registry
	Store    *storage.Store
	Log      *slog.Logger
}

func NewRunner(store *storage.Store, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{Registry: experiment.NewRegistry(), Store: store, Log: log}
}

// RunScenario executes all steps in a scenario
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		r.Log.Info("running step", "step", i+1, "of", len(scenario.Steps), "preset", step.Preset, "frames", step.Frames)

		exp := experiment.New(experiment.Config{
			Preset:  step.Preset,
			Frames:  step.Frames,
			Workers: step.Workers,
			Params:  step.Params,
			Metrics: step.Metrics,
		})
		if err := exp.Setup(nil, r.Registry, sim.WithLogger(r.Log)); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		sr, err := r.runStep(ctx, exp, step)
		exp.Close()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		results = append(results, sr)
	}

	return results, nil
}

func (r *Runner) runStep(ctx context.Context, exp *experiment.Experiment, step ScenarioStep) (StepResult, error) {
	s := exp.GetSimulator()
	for _, id := range step.Cut {
		if err := s.Apply(sim.CutConstraint{ID: id}); err != nil {
			return StepResult{}, err
		}
	}

	start := time.Now()
	result, err := exp.Run(ctx)
	if err != nil {
		return StepResult{}, fmt.Errorf("run: %w", err)
	}

	sr := StepResult{Step: step, Result: result}
	if step.SaveAs != "" && r.Store != nil {
		cfg := exp.SimConfig().Clone()
		cfg.Name = step.SaveAs
		id, err := r.Store.Save(cfg, result, s.Snapshot(), time.Since(start))
		if err != nil {
			return sr, fmt.Errorf("save: %w", err)
		}
		sr.RunID = id
	}
	return sr, nil
}

// ParameterSweep runs simulations across a range of parameter values
type ParameterSweep struct {
	Preset    string
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Frames    int
	Workers   int
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue float64
	Metrics    map[string]float64
	Stable     bool
}

// RunSweep executes a parameter sweep
func (r *Runner) RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}
	results := make([]SweepResult, 0, sweep.NumSteps)

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		exp := experiment.New(experiment.Config{
			Preset:  sweep.Preset,
			Frames:  sweep.Frames,
			Workers: sweep.Workers,
			Params:  map[string]float64{sweep.ParamName: paramVal},
		})
		if err := exp.Setup(nil, r.Registry, sim.WithLogger(r.Log)); err != nil {
			return nil, err
		}

		result, err := exp.Run(ctx)
		exp.Close()
		if err != nil {
			return nil, err
		}

		results = append(results, SweepResult{
			ParamValue: paramVal,
			Metrics:    result.Metrics,
			Stable:     len(result.Errors) == 0,
		})

		r.Log.Info("sweep point", "index", i+1, "of", sweep.NumSteps, "param", sweep.ParamName, "value", paramVal)
	}

	return results, nil
}

// MonteCarloConfig defines Monte Carlo simulation parameters
type MonteCarloConfig struct {
	Preset string
	// Perturbation is the relative jitter applied to every base parameter.
	Perturbation float64
	NumTrials    int
	Frames       int
	Workers      int
	Seed         int64
}

// MonteCarloResult holds statistics from Monte Carlo runs
type MonteCarloResult struct {
	TrialID int
	Params  map[string]float64
	Metrics map[string]float64
	Stable  bool // no divergence during the run
}

// RunMonteCarlo executes multiple trials with random parameter perturbations
func (r *Runner) RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	base := config.GetPreset(cfg.Preset)
	if base == nil {
		return nil, fmt.Errorf("unknown preset: %s", cfg.Preset)
	}

	for trial := 0; trial < cfg.NumTrials; trial++ {
		params := perturb(base.GetParams(), cfg.Perturbation, rng)

		exp := experiment.New(experiment.Config{
			Preset:  cfg.Preset,
			Frames:  cfg.Frames,
			Workers: cfg.Workers,
			Params:  params,
		})
		if err := exp.Setup(nil, r.Registry, sim.WithLogger(r.Log)); err != nil {
			// a perturbed value can leave the valid range; count it as unstable
			results = append(results, MonteCarloResult{TrialID: trial, Params: params})
			continue
		}

		result, err := exp.Run(ctx)
		exp.Close()
		if err != nil {
			return nil, err
		}

		results = append(results, MonteCarloResult{
			TrialID: trial,
			Params:  params,
			Metrics: result.Metrics,
			Stable:  len(result.Errors) == 0,
		})

		if (trial+1)%10 == 0 {
			r.Log.Info("monte carlo progress", "done", trial+1, "of", cfg.NumTrials)
		}
	}

	return results, nil
}

func perturb(base map[string]float64, rel float64, rng *rand.Rand) map[string]float64 {
	keys := make([]string, 0, len(base))
	for k := range base {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]float64, len(base))
	for _, k := range keys {
		v := base[k]
		if k == "iterations" {
			out[k] = v
			continue
		}
		out[k] = v * (1 + (rng.Float64()-0.5)*2*rel)
	}
	return out
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
