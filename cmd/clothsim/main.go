package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/san-kum/clothsim/internal/config"
	"github.com/san-kum/clothsim/internal/gui"
	"github.com/san-kum/clothsim/internal/tui"
	"github.com/spf13/cobra"
)

var (
	dataDir  string
	logLevel string
	logger   *slog.Logger
	// Simulation source
	configFile string
	preset     string
	// Overrides applied on top of the preset or config file
	frames     int
	workers    int
	wind       float64
	windFreq   float64
	gravity    float64
	iterations int
	// Output
	live      bool
	frameRate int
	columns   string
	column    string
	outFile   string
	scale     float64
	// Sweeps
	sweepParams string
	metricName  string
	trials      int
	perturb     float64
	seed        int64
)

// main registers the commands and runs the root command. With no
// subcommand it opens the window on the preset menu.
func main() {
	rootCmd := &cobra.Command{
		Use:   "clothsim",
		Short: "2D cloth simulation",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(logLevel)
			if err != nil {
				return err
			}
			logger = l
			slog.SetDefault(l)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return gui.Run(nil, logger)
		},
	}
	rootCmd.SilenceUsage = true

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".clothsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSourceFlags(runCmd)
	addOverrideFlags(runCmd)
	runCmd.Flags().IntVar(&frames, "frames", 600, "frames to simulate")
	runCmd.Flags().BoolVar(&live, "live", false, "draw the cloth in the terminal while running")
	runCmd.Flags().IntVar(&frameRate, "fps", 30, "redraw rate for --live")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot per-frame stats of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&columns, "columns", "max_stretch,sway,kinetic", "comma separated frame columns")
	plotCmd.Flags().StringVar(&outFile, "svg", "", "also write the first column as an SVG chart")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spectrum of a frame column (sway by default)",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&column, "column", "sway", "frame column to analyze")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export per-frame stats to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render the final frame of a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	svgCmd.Flags().Float64Var(&scale, "scale", 0.5, "world to SVG unit scale")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "compare the worker pool with per-frame goroutines and serial updates",
		Args:  cobra.NoArgs,
		RunE:  benchPool,
	}
	addSourceFlags(benchCmd)
	benchCmd.Flags().IntVar(&frames, "frames", 600, "frames per measurement")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search over parameters minimising a metric",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addSourceFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&frames, "frames", 600, "frames per trial")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines per trial (0 = all CPUs)")
	sweepCmd.Flags().StringVar(&sweepParams, "params", "wind_strength=0:40:5", "name=min:max:steps, comma separated")
	sweepCmd.Flags().StringVar(&metricName, "metric", "sway_amplitude", "metric to minimise")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "run trials with randomly perturbed parameters",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	monteCarloCmd.Flags().StringVar(&preset, "preset", "", "preset to perturb (default \"default\")")
	monteCarloCmd.Flags().IntVar(&frames, "frames", 600, "frames per trial")
	monteCarloCmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines per trial (0 = all CPUs)")
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Float64Var(&perturb, "perturb", 0.2, "relative parameter jitter")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time based)")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a YAML scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive terminal view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if preset == "" && configFile == "" {
				return tui.Run("", logger)
			}
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			return tui.RunConfig(cfg, logger)
		},
	}
	addSourceFlags(liveCmd)
	addOverrideFlags(liveCmd)

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the simulation window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if preset == "" && configFile == "" {
				return gui.Run(nil, logger)
			}
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			return gui.Run(cfg, logger)
		},
	}
	addSourceFlags(guiCmd)
	addOverrideFlags(guiCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list presets, or print one as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showPresets,
	}
	presetsCmd.Flags().StringVarP(&outFile, "out", "o", "", "write the preset to a file instead of stdout")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, exportJSONCmd, exportCSVCmd, svgCmd,
		benchCmd, sweepCmd, monteCarloCmd, scenarioCmd, liveCmd, guiCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

func addOverrideFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 = all CPUs)")
	cmd.Flags().Float64Var(&wind, "wind", config.DefaultWindStrength, "wind strength")
	cmd.Flags().Float64Var(&windFreq, "wind-freq", config.DefaultWindFrequency, "wind angular frequency (rad/s)")
	cmd.Flags().Float64Var(&gravity, "gravity", config.DefaultGravity, "gravity")
	cmd.Flags().IntVar(&iterations, "iterations", config.DefaultIterations, "relaxation passes per frame")
}

// resolveConfig loads the preset, then the config file (which wins over the
// preset), then applies flags the user set explicitly.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("wind") {
		cfg.Wind.Strength = wind
	}
	if flags.Changed("wind-freq") {
		cfg.Wind.Frequency = windFreq
	}
	if flags.Changed("gravity") {
		cfg.Physics.Gravity = gravity
	}
	if flags.Changed("iterations") {
		cfg.Physics.Iterations = iterations
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
