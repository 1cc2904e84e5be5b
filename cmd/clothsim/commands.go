package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/clothsim/internal/analysis"
	"github.com/san-kum/clothsim/internal/automation"
	"github.com/san-kum/clothsim/internal/cloth"
	"github.com/san-kum/clothsim/internal/config"
	"github.com/san-kum/clothsim/internal/experiment"
	"github.com/san-kum/clothsim/internal/export"
	"github.com/san-kum/clothsim/internal/metrics"
	"github.com/san-kum/clothsim/internal/optim"
	"github.com/san-kum/clothsim/internal/parallel"
	"github.com/san-kum/clothsim/internal/sim"
	"github.com/san-kum/clothsim/internal/storage"
	"github.com/san-kum/clothsim/internal/tui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s, err := sim.New(cfg, sim.WithLogger(logger))
	if err != nil {
		return err
	}
	defer s.Close()
	for _, m := range metrics.Default() {
		s.AddMetric(m)
	}

	if live {
		r := tui.NewLiveRenderer(os.Stdout, s, frameRate)
		s.AddObserver(r)
		r.Start()
		defer r.Stop()
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s: %dx%d cloth, %d frames...\n", cfg.Name, cfg.Grid.Rows, cfg.Grid.Cols, frames)
	start := time.Now()

	result, runErr := s.Run(ctx, frames, sim.FixedClock{Rate: float64(cfg.FrameRate)})
	if result == nil {
		return runErr
	}
	elapsed := time.Since(start)

	runID, err := st.Save(cfg, result, s.Snapshot(), elapsed)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", len(result.Frames))
	printMetrics(result.Metrics)
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}
	return runErr
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tFRAMES\tPARTICLES\tLINKS\tWALL")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%.2fs\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Particles,
			run.Links,
			run.WallTime,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("frames: %d\n\n", len(frames))

	cols := splitList(columns)
	for i, name := range cols {
		data, err := storage.Column(frames, name)
		if err != nil {
			return err
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" vs frame"),
		)
		fmt.Println(graph)
		fmt.Println()

		if i == 0 && outFile != "" {
			if err := writeFile(outFile, func(f *os.File) error {
				return export.SeriesToSVG(f, data, 800, 240, "#00ccff")
			}); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", outFile)
		}
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	data, err := storage.Column(frames, column)
	if err != nil {
		return err
	}

	rate := float64(meta.FrameRate)
	if rate <= 0 {
		rate = config.DefaultFrameRate
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("column: %s  samples: %d  rate: %.0f hz\n\n", column, len(data), rate)

	sum := analysis.Summarize(data)
	fmt.Printf("min %.4f  max %.4f  mean %.4f  rms %.4f\n\n", sum.Min, sum.Max, sum.Mean, sum.RMS)

	ps := analysis.PowerSpectrum(data)
	if len(ps) > 8 {
		plotData := ps[:max(len(ps)/4, 8)]
		fmt.Println(asciigraph.Plot(plotData,
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum ("+column+")"),
		))
		fmt.Println()
	}

	freq, err := analysis.DominantFrequency(data, rate)
	if err != nil {
		return err
	}
	fmt.Printf("dominant frequency: %.4f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	// wind is sin(t * frequency), so its own frequency in hz is frequency/2π
	if cfg, err := st.LoadConfig(runID); err == nil && cfg.Wind.Strength != 0 {
		fmt.Printf("wind frequency: %.4f hz\n", cfg.Wind.Frequency/(2*math.Pi))
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	data, err := st.Export(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, data)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"frame", "time", "wind", "max_stretch", "mean_stretch", "active", "broken", "sway", "kinetic"}); err != nil {
		return err
	}
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, fr := range frames {
		row := []string{
			strconv.Itoa(fr.Frame), f(fr.Time), f(fr.Wind), f(fr.MaxStretch), f(fr.MeanStretch),
			strconv.Itoa(fr.Active), strconv.Itoa(fr.Broken), f(fr.Sway), f(fr.Kinetic),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	snap, err := st.LoadSnapshot(args[0])
	if err != nil {
		return err
	}
	if outFile == "" {
		return export.SnapshotToSVG(os.Stdout, snap, scale)
	}
	if err := writeFile(outFile, func(f *os.File) error {
		return export.SnapshotToSVG(f, snap, scale)
	}); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// benchPool times the particle update of a cloth three ways: serially,
// spawning goroutines every frame, and on a persistent pool. It then times
// whole frames at several worker counts.
func benchPool(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	c, err := cloth.NewGrid(cfg.Topology())
	if err != nil {
		return err
	}
	gravity := cloth.V(0, cfg.Physics.Gravity)
	dt, w, h := cfg.Physics.TimeStep, cfg.Width, cfg.Height
	update := func(start, end int) {
		for i := start; i < end; i++ {
			p := &c.Particles[i]
			p.ApplyForce(gravity)
			p.Update(dt)
			p.ConstrainToBounds(w, h)
		}
	}
	n := len(c.Particles)
	cpus := runtime.NumCPU()

	fmt.Printf("benchmarking %s: %d particles, %d links, %d frames, %d cpus\n\n",
		cfg.Name, n, len(c.Constraints), frames, cpus)

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MODE\tWORKERS\tTIME\tFRAMES/SEC")

	measure := func(mode string, workers int, step func()) {
		start := time.Now()
		for i := 0; i < frames; i++ {
			step()
		}
		el := time.Since(start)
		fmt.Fprintf(tw, "%s\t%d\t%v\t%.0f\n", mode, workers, el, float64(frames)/el.Seconds())
	}

	measure("serial", 1, func() { update(0, n) })
	measure("spawn", cpus, func() { parallel.For(n, cpus, update) })
	pool := parallel.NewPool(cpus)
	measure("pool", cpus, func() { pool.For(n, update) })
	pool.Close()

	for _, wk := range workerCounts(cpus) {
		wcfg := cfg.Clone()
		wcfg.Workers = wk
		s, err := sim.New(wcfg, sim.WithLogger(logger))
		if err != nil {
			return err
		}
		frame := 0
		measure("frame", wk, func() {
			s.Step(float64(frame) / float64(wcfg.FrameRate))
			frame++
		})
		s.Close()
	}

	return tw.Flush()
}

func workerCounts(cpus int) []int {
	out := []int{1}
	for wk := 2; wk < cpus; wk *= 2 {
		out = append(out, wk)
	}
	if cpus > 1 {
		out = append(out, cpus)
	}
	return out
}

// parseSweep reads "name=min:max:steps,name=..." into grid search ranges.
func parseSweep(in string) ([]string, [][]float64, error) {
	var names []string
	var ranges [][]float64
	for _, item := range splitList(in) {
		name, rng, ok := strings.Cut(item, "=")
		if !ok {
			return nil, nil, fmt.Errorf("bad sweep %q: want name=min:max:steps", item)
		}
		parts := strings.Split(rng, ":")
		if len(parts) != 3 {
			return nil, nil, fmt.Errorf("bad range %q: want min:max:steps", rng)
		}
		lo, err1 := strconv.ParseFloat(parts[0], 64)
		hi, err2 := strconv.ParseFloat(parts[1], 64)
		steps, err3 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil || err3 != nil || steps < 1 {
			return nil, nil, fmt.Errorf("bad range %q", rng)
		}
		names = append(names, strings.TrimSpace(name))
		ranges = append(ranges, optim.Linspace(lo, hi, steps))
	}
	if len(names) == 0 {
		return nil, nil, fmt.Errorf("no parameters to sweep")
	}
	return names, ranges, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	names, ranges, err := parseSweep(sweepParams)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	if _, err := registry.GetMetric(metricName); err != nil {
		return err
	}

	build := func(params map[string]float64) (*experiment.Experiment, error) {
		exp := experiment.New(experiment.Config{
			Frames:  frames,
			Workers: workers,
			Params:  params,
			Metrics: []string{metricName},
		})
		if err := exp.Setup(base, registry, sim.WithLogger(logger)); err != nil {
			return nil, err
		}
		return exp, nil
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("sweeping %v on %s, minimising %s\n\n", names, base.Name, metricName)
	best, bestVal, results, err := optim.NewGridSearch(names, ranges).Search(ctx, build, metricName)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(names, "\t"))+"\t"+strings.ToUpper(metricName))
	for _, tr := range results {
		cells := make([]string, 0, len(names)+1)
		for _, n := range names {
			cells = append(cells, fmt.Sprintf("%.4f", tr.Params[n]))
		}
		if tr.Err != nil {
			cells = append(cells, "error: "+tr.Err.Error())
		} else {
			cells = append(cells, fmt.Sprintf("%.6f", tr.Value))
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if best == nil {
		return fmt.Errorf("no trial completed")
	}
	fmt.Printf("\nbest %s = %.6f at %v\n", metricName, bestVal, best)
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	name := preset
	if name == "" {
		name = "default"
	}

	ctx, cancel := signalContext()
	defer cancel()

	runner := automation.NewRunner(nil, logger)
	results, err := runner.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Preset:       name,
		Perturbation: perturb,
		NumTrials:    trials,
		Frames:       frames,
		Workers:      workers,
		Seed:         seed,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tWIND\tFREQ\tGRAVITY\tDT\tPEAK STRETCH\tSTABLE")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%.3f\t%.3f\t%.3f\t%.4f\t%.4f\t%v\n",
			r.TrialID, r.Params["wind_strength"], r.Params["wind_frequency"],
			r.Params["gravity"], r.Params["time_step"], r.Metrics["peak_stretch"], r.Stable)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("\nstable: %d  unstable: %d\n", stable, unstable)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("scenario: %s\n", sc.Name)
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}

	results, err := automation.NewRunner(st, logger).RunScenario(ctx, sc)
	for i, r := range results {
		fmt.Printf("\nstep %d (%s, %d frames)", i+1, r.Step.Preset, len(r.Result.Frames))
		if r.RunID != "" {
			fmt.Printf(" saved as %s", r.RunID)
		}
		fmt.Println()
		printMetrics(r.Result.Metrics)
	}
	return err
}

func showPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Println("presets:")
		for _, p := range config.ListPresets() {
			cfg := config.GetPreset(p)
			fmt.Printf("  %-8s %dx%d  wind %.0f @ %.2f  pin %s\n",
				p, cfg.Grid.Rows, cfg.Grid.Cols, cfg.Wind.Strength, cfg.Wind.Frequency, cfg.Grid.Pin)
		}
		return nil
	}

	cfg := config.GetPreset(args[0])
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
	}
	if outFile != "" {
		if err := config.Save(outFile, cfg); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", outFile)
		return nil
	}
	enc := yaml.NewEncoder(os.Stdout)
	defer enc.Close()
	return enc.Encode(cfg)
}
