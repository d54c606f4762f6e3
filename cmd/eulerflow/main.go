package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/eulerflow/internal/analysis"
	"github.com/san-kum/eulerflow/internal/audio"
	"github.com/san-kum/eulerflow/internal/automation"
	"github.com/san-kum/eulerflow/internal/compute"
	"github.com/san-kum/eulerflow/internal/config"
	"github.com/san-kum/eulerflow/internal/control"
	"github.com/san-kum/eulerflow/internal/experiment"
	"github.com/san-kum/eulerflow/internal/export"
	"github.com/san-kum/eulerflow/internal/metrics"
	"github.com/san-kum/eulerflow/internal/optim"
	"github.com/san-kum/eulerflow/internal/render"
	"github.com/san-kum/eulerflow/internal/scene"
	"github.com/san-kum/eulerflow/internal/sim"
	"github.com/san-kum/eulerflow/internal/storage"
	"github.com/san-kum/eulerflow/internal/telemetry"
	"github.com/san-kum/eulerflow/internal/tui"
	"github.com/san-kum/eulerflow/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string
	frames     int
	resolution int
	dt         float64
	numIters   int
	relaxation float64
	gravity    float64
	inflow     float64
	radius     float64
	backend    string
	obstacleX  float64
	obstacleY  float64
	placeObst  bool
	// Run outputs
	telemetryDir string
	recordDir    string
	every        int
	cellSize     int
	watch        bool
	frameRate    int
	// Live view
	sonify bool
	// Probe placement and regulation
	probeX    float64
	probeY    float64
	pidTarget float64
	pidKp     float64
	pidKi     float64
	pidKd     float64
	// Sweep value lists
	relaxValues string
	iterValues  string
	// Ensemble
	trials  int
	perturb float64
	baseX   float64
	baseY   float64
	seed    int64
	// Snapshot
	outPath string
	format  string
)

// main is the entry point for the eulerflow CLI; it registers commands and
// flags and launches the interactive scene browser when no subcommand is
// given. It exits with status 1 if command execution returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "eulerflow",
		Short: "real-time eulerian fluid lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".eulerflow", "data directory")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "debug logging to stderr")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			sim.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			})))
		}
	}

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene headless and record the results",
		Args:  cobra.ExactArgs(1),
		RunE:  runScene,
	}
	addSceneFlags(runCmd)
	runCmd.Flags().IntVar(&frames, "frames", 600, "frames to simulate")
	runCmd.Flags().StringVar(&telemetryDir, "telemetry", "", "write per-frame telemetry.csv into this directory")
	runCmd.Flags().StringVar(&recordDir, "record", "", "write numbered PNG frames into this directory")
	runCmd.Flags().IntVar(&every, "every", 1, "keep every Nth telemetry row / recorded frame")
	runCmd.Flags().IntVar(&cellSize, "cell", 4, "pixels per cell for recorded frames")
	runCmd.Flags().BoolVar(&watch, "watch", false, "draw the field in the terminal while running")
	runCmd.Flags().IntVar(&frameRate, "fps", 30, "terminal draw rate with --watch")

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "interactive live view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLiveView,
	}
	addSceneFlags(liveCmd)
	liveCmd.Flags().BoolVar(&sonify, "sonify", false, "play an ambient pad driven by the flow")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a run's metric series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scene]",
		Short: "list available presets for a scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for scene: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench [scene]",
		Short: "benchmark resolutions and backends",
		Args:  cobra.ExactArgs(1),
		RunE:  benchScene,
	}
	benchCmd.Flags().IntVar(&frames, "frames", 600, "frames per configuration")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scene]",
		Short: "sweep the pressure solver configuration",
		Args:  cobra.ExactArgs(1),
		RunE:  sweepScene,
	}
	addSceneFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&frames, "frames", 600, "frames per configuration")
	sweepCmd.Flags().StringVar(&relaxValues, "relaxations", "1.0,1.3,1.6,1.9", "over-relaxation values")
	sweepCmd.Flags().StringVar(&iterValues, "iterations", "10,20,40,80", "iteration budgets")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [scene]",
		Short: "run a scene and save a field image",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshotScene,
	}
	addSceneFlags(snapshotCmd)
	snapshotCmd.Flags().IntVar(&frames, "frames", 600, "frames to simulate first")
	snapshotCmd.Flags().StringVar(&outPath, "output", "", "output file (default <scene>_<frame>.<format>)")
	snapshotCmd.Flags().StringVar(&format, "format", "png", "png or svg")
	snapshotCmd.Flags().IntVar(&cellSize, "cell", 4, "pixels per cell")

	scriptCmd := &cobra.Command{
		Use:   "script [scenario.yaml]",
		Short: "replay a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [scene]",
		Short: "run trials with jittered obstacle placements",
		Args:  cobra.ExactArgs(1),
		RunE:  runEnsemble,
	}
	ensembleCmd.Flags().IntVar(&frames, "frames", 600, "frames per trial")
	ensembleCmd.Flags().IntVar(&resolution, "res", 100, "grid resolution")
	ensembleCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	ensembleCmd.Flags().Float64Var(&perturb, "perturb", 0.05, "placement jitter (world units)")
	ensembleCmd.Flags().Float64Var(&baseX, "base-x", 0.7, "base obstacle x")
	ensembleCmd.Flags().Float64Var(&baseY, "base-y", 0.5, "base obstacle y")
	ensembleCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time-based)")

	experimentCmd := &cobra.Command{
		Use:   "experiment [name]",
		Short: "run a canned study",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runExperiment,
	}
	experimentCmd.Flags().IntVar(&frames, "frames", 0, "override the study's frame budget")
	experimentCmd.Flags().IntVar(&resolution, "res", 0, "override the study's resolution")

	probeCmd := &cobra.Command{
		Use:   "probe [scene]",
		Short: "record a velocity probe and analyze its spectrum",
		Args:  cobra.ExactArgs(1),
		RunE:  probeScene,
	}
	addSceneFlags(probeCmd)
	probeCmd.Flags().IntVar(&frames, "frames", 600, "frames to record")
	probeCmd.Flags().Float64Var(&probeX, "x", 0, "probe x (default behind the obstacle)")
	probeCmd.Flags().Float64Var(&probeY, "y", 0, "probe y (default obstacle height)")
	probeCmd.Flags().Float64Var(&pidTarget, "target", 0, "hold probe speed at this setpoint by trimming the inflow")
	probeCmd.Flags().Float64Var(&pidKp, "kp", 2.0, "pid kp")
	probeCmd.Flags().Float64Var(&pidKi, "ki", 0.5, "pid ki")
	probeCmd.Flags().Float64Var(&pidKd, "kd", 0.05, "pid kd")

	compareCmd := &cobra.Command{
		Use:   "compare [scene] [backend1] [backend2] ...",
		Short: "compare compute backends on the same scene",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareBackends,
	}
	addSceneFlags(compareCmd)
	compareCmd.Flags().IntVar(&frames, "frames", 600, "frames per backend")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, presetsCmd, benchCmd, sweepCmd,
		exportJSONCmd, exportCSVCmd, snapshotCmd, scriptCmd, ensembleCmd, experimentCmd,
		probeCmd, compareCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addSceneFlags registers the numeric scene overrides shared by the
// commands that build a scene. Defaults match the wind tunnel preset;
// overrides only apply when the flag was set on the command line.
func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&resolution, "res", 100, "grid resolution (cells along the domain height)")
	cmd.Flags().Float64Var(&dt, "dt", 1.0/60.0, "timestep")
	cmd.Flags().IntVar(&numIters, "iters", 40, "pressure solver iterations")
	cmd.Flags().Float64Var(&relaxation, "relax", 1.9, "over-relaxation factor")
	cmd.Flags().Float64Var(&gravity, "gravity", 0.0, "vertical gravity")
	cmd.Flags().Float64Var(&inflow, "inflow", 2.0, "inlet velocity (tunnels)")
	cmd.Flags().Float64Var(&radius, "radius", 0.15, "obstacle radius")
	cmd.Flags().Float64Var(&obstacleX, "obstacle-x", config.DefaultObstacleX, "obstacle x (world units)")
	cmd.Flags().Float64Var(&obstacleY, "obstacle-y", config.DefaultObstacleY, "obstacle y (world units)")
	cmd.Flags().BoolVar(&placeObst, "obstacle", false, "place an obstacle before running")
	cmd.Flags().StringVar(&backend, "backend", "", "compute backend: serial, parallel, or auto")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// resolveParams layers preset, config file and explicit flags, in that
// order, on top of the scene's defaults.
func resolveParams(cmd *cobra.Command, sceneName string) (scene.Params, error) {
	t, err := scene.ParseType(sceneName)
	if err != nil {
		return scene.Params{}, err
	}
	p := scene.DefaultParams(t)

	if preset != "" {
		cfg := config.GetPreset(sceneName, preset)
		if cfg == nil {
			return scene.Params{}, fmt.Errorf("unknown preset: %s (available: %v)",
				preset, config.ListPresets(sceneName))
		}
		if p, err = cfg.SceneParams(); err != nil {
			return scene.Params{}, err
		}
		applyConfigExtras(cmd, cfg)
	}

	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return scene.Params{}, fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return scene.Params{}, err
		}
		if p, err = cfg.SceneParams(); err != nil {
			return scene.Params{}, err
		}
		applyConfigExtras(cmd, cfg)
	}

	if cmd.Flags().Changed("res") {
		p.Resolution = resolution
	}
	if cmd.Flags().Changed("dt") {
		p.Dt = dt
	}
	if cmd.Flags().Changed("iters") {
		p.NumIters = numIters
	}
	if cmd.Flags().Changed("relax") {
		p.OverRelaxation = relaxation
	}
	if cmd.Flags().Changed("gravity") {
		p.Gravity = gravity
	}
	if cmd.Flags().Changed("inflow") {
		p.Inflow = inflow
	}
	if cmd.Flags().Changed("radius") {
		p.ObstacleRadius = radius
	}
	return p, nil
}

// applyConfigExtras carries the non-numeric parts of a config record into
// the flag variables, unless the matching flag was given explicitly.
func applyConfigExtras(cmd *cobra.Command, cfg *config.Config) {
	if cfg.Frames > 0 && !cmd.Flags().Changed("frames") {
		frames = cfg.Frames
	}
	if cfg.Backend != "" && !cmd.Flags().Changed("backend") {
		backend = cfg.Backend
	}
	if cfg.Obstacle.Place && !cmd.Flags().Changed("obstacle") {
		placeObst = true
		obstacleX = cfg.Obstacle.X
		obstacleY = cfg.Obstacle.Y
	}
}

func buildScene(cmd *cobra.Command, sceneName string) (*scene.Scene, error) {
	p, err := resolveParams(cmd, sceneName)
	if err != nil {
		return nil, err
	}
	s, err := scene.New(p)
	if err != nil {
		return nil, err
	}
	b, err := compute.Select(backend)
	if err != nil {
		return nil, err
	}
	s.Fluid().SetRanger(b)
	if placeObst {
		s.SetObstacle(obstacleX, obstacleY, true)
	}
	return s, nil
}

func runScene(cmd *cobra.Command, args []string) error {
	s, err := buildScene(cmd, args[0])
	if err != nil {
		return err
	}
	p := s.Params()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	r := sim.New(s)
	r.AddMetric(metrics.NewMaxDivergence())
	r.AddMetric(metrics.NewSmokeMass())
	r.AddMetric(metrics.NewKineticEnergy())
	r.AddMetric(metrics.NewCFL(p.Dt))

	tw, err := telemetry.NewWriter(telemetryDir, every)
	if err != nil {
		return err
	}
	if tw != nil {
		defer tw.Close()
		r.AddObserver(tw)
	}

	var seq *render.Sequence
	if recordDir != "" {
		seq, err = render.NewSequence(recordDir, s, every, cellSize)
		if err != nil {
			return err
		}
		r.AddObserver(seq)
	}

	if watch {
		lr := tui.NewLiveRenderer(frameRate)
		lr.Start()
		defer lr.Stop()
		r.AddObserver(lr)
	}

	fmt.Printf("running %s for %d frames...\n", p.Type, frames)
	start := time.Now()

	result, err := r.Run(context.Background(), frames)
	if err != nil {
		return err
	}
	if seq != nil {
		if err := seq.Wait(); err != nil {
			return err
		}
	}

	elapsed := time.Since(start)

	runID, err := st.Save(s, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", result.FramesRun)
	if tw != nil {
		fmt.Printf("telemetry: %s\n", tw.Dir())
	}
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func runLiveView(cmd *cobra.Command, args []string) error {
	sceneName := "tunnel"
	if len(args) > 0 {
		sceneName = args[0]
	}

	p, err := resolveParams(cmd, sceneName)
	if err != nil {
		return err
	}

	if !sonify {
		return viz.RunLive(p)
	}

	proc := audio.NewProcessor()
	if err := proc.Start(); err != nil {
		return fmt.Errorf("audio start: %w", err)
	}
	defer proc.Stop()

	m, err := viz.NewModel(p)
	if err != nil {
		return err
	}
	m.SetStepHook(func(s *scene.Scene, stats telemetry.FrameStats) {
		// CFL carries speed*dt/h, so peak speed falls straight out.
		speed := stats.CFL * s.Fluid().H / s.Params().Dt
		proc.UpdateFlow(stats.KineticEnergy, speed)
	})

	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
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
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tFRAMES\tDT\tGRID")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4fs\t%dx%d\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Dt,
			run.NumX,
			run.NumY,
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

	times, series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("samples: %d\n\n", len(times))

	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		graph := asciigraph.Plot(series[name],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func benchScene(cmd *cobra.Command, args []string) error {
	t, err := scene.ParseType(args[0])
	if err != nil {
		return err
	}

	resolutions := []int{50, 100, 150}
	backends := []string{"serial", "parallel"}

	fmt.Printf("benchmarking %s (%d frames per configuration)\n\n", args[0], frames)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RES\tCELLS\tBACKEND\tTIME\tFRAMES/SEC")

	for _, res := range resolutions {
		for _, name := range backends {
			p := scene.DefaultParams(t)
			p.Resolution = res

			s, err := scene.New(p)
			if err != nil {
				return err
			}
			b, err := compute.Select(name)
			if err != nil {
				return err
			}
			s.Fluid().SetRanger(b)

			result, err := sim.New(s).Run(context.Background(), frames)
			if err != nil {
				return err
			}

			f := s.Fluid()
			fps := float64(result.FramesRun) / result.WallTime.Seconds()
			fmt.Fprintf(w, "%d\t%d\t%s\t%v\t%.1f\n",
				res, f.NumX*f.NumY, name, result.WallTime.Round(time.Millisecond), fps)
		}
	}

	return w.Flush()
}

func sweepScene(cmd *cobra.Command, args []string) error {
	p, err := resolveParams(cmd, args[0])
	if err != nil {
		return err
	}

	relaxations, err := parseFloatList(relaxValues)
	if err != nil {
		return fmt.Errorf("bad relaxations: %w", err)
	}
	iters, err := parseIntList(iterValues)
	if err != nil {
		return fmt.Errorf("bad iterations: %w", err)
	}

	fmt.Printf("sweeping %d configurations of %s over %d frames...\n",
		len(relaxations)*len(iters), args[0], frames)

	points, err := optim.SweepProjection(context.Background(), p, relaxations, iters, frames)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RELAX\tITERS\tMAX_DIV\tTIME")
	for _, pt := range points {
		fmt.Fprintf(w, "%.2f\t%d\t%.6f\t%v\n",
			pt.OverRelaxation, pt.NumIters, pt.MaxDivergence, pt.WallTime.Round(time.Millisecond))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	best := optim.Best(points)
	fmt.Printf("\nbest: relax=%.2f iters=%d (divergence %.6f)\n",
		best.OverRelaxation, best.NumIters, best.MaxDivergence)

	return nil
}

func loadRunResult(runID string) (*storage.RunMetadata, *sim.Result, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	times, series, err := st.LoadSeries(runID)
	if err != nil {
		return nil, nil, err
	}
	result := &sim.Result{
		FramesRun: len(times),
		Times:     times,
		Series:    series,
		Metrics:   meta.Metrics,
	}
	return meta, result, nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRunResult(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSONStdout(meta.Scene, meta.Dt, result)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, result, err := loadRunResult(args[0])
	if err != nil {
		return err
	}
	return storage.ExportCSVStdout(result)
}

func snapshotScene(cmd *cobra.Command, args []string) error {
	s, err := buildScene(cmd, args[0])
	if err != nil {
		return err
	}

	if _, err := sim.New(s).Run(context.Background(), frames); err != nil {
		return err
	}

	out := outPath
	if out == "" {
		out = fmt.Sprintf("%s_%04d.%s", s.Params().Type, s.Frame(), format)
	}

	switch format {
	case "png":
		if err := render.Scene(s, cellSize).SavePNG(out); err != nil {
			return err
		}
	case "svg":
		if err := os.WriteFile(out, []byte(export.FieldToSVG(s, float64(cellSize))), 0644); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q (want png or svg)", format)
	}

	fmt.Printf("saved %s\n", out)
	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	result, err := automation.RunScenario(context.Background(), scenario)
	if err != nil {
		return err
	}

	fmt.Printf("completed %d frames in %v\n", result.FramesRun, result.WallTime.Round(time.Millisecond))
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg := &automation.EnsembleConfig{
		Scene:        args[0],
		BaseX:        baseX,
		BaseY:        baseY,
		Perturbation: perturb,
		NumTrials:    trials,
		Frames:       frames,
		Seed:         seed,
	}
	if cmd.Flags().Changed("res") {
		cfg.Resolution = resolution
	}

	results, err := automation.RunEnsemble(context.Background(), cfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tX\tY\tMAX_DIV\tENERGY\tSTABLE")
	for _, tr := range results {
		fmt.Fprintf(w, "%d\t%.3f\t%.3f\t%.6f\t%.1f\t%v\n",
			tr.TrialID, tr.X, tr.Y, tr.MaxDivergence, tr.KineticEnergy, tr.Stable)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	stable, unstable := automation.EnsembleStats(results)
	fmt.Printf("\n%d stable, %d unstable of %d trials\n", stable, unstable, len(results))

	return nil
}

func runExperiment(cmd *cobra.Command, args []string) error {
	reg := experiment.NewRegistry()

	if len(args) == 0 {
		fmt.Println("available experiments:")
		for _, name := range reg.List() {
			fmt.Printf("  %s\n", name)
		}
		return nil
	}

	cfg := experiment.Config{}
	if cmd.Flags().Changed("frames") {
		cfg.Frames = frames
	}
	if cmd.Flags().Changed("res") {
		cfg.Resolution = resolution
	}

	exp, err := reg.Get(args[0], cfg)
	if err != nil {
		return err
	}

	fmt.Printf("running experiment %s...\n", exp.Name())
	report, err := exp.Run(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("\nscene: %s\n", report.Scene)
	fmt.Printf("frames: %d\n", report.Frames)
	fmt.Println("\nmetrics:")
	for name, val := range report.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}
	fmt.Println("\nfindings:")
	for _, finding := range report.Findings {
		fmt.Printf("  - %s\n", finding)
	}

	return nil
}

func probeScene(cmd *cobra.Command, args []string) error {
	s, err := buildScene(cmd, args[0])
	if err != nil {
		return err
	}
	p := s.Params()

	ox, oy, or := s.Obstacle()
	if or == 0 {
		w, h := s.Bounds()
		s.SetObstacle(0.4*w, 0.5*h, true)
		ox, oy, or = s.Obstacle()
	}

	px, py := ox+3*or, oy
	if cmd.Flags().Changed("x") {
		px = probeX
	}
	if cmd.Flags().Changed("y") {
		py = probeY
	}

	probe := analysis.NewProbe(px, py)
	r := sim.New(s)
	r.AddObserver(probe)

	// The probe observes before the regulator trims, so each sample sees
	// the inflow that produced it.
	var pid *control.PID
	var effort *metrics.InflowEffort
	if pidTarget > 0 {
		pid = control.NewPID(pidKp, pidKi, pidKd, pidTarget, px, py)
		effort = metrics.NewInflowEffort(p.Dt)
		r.AddObserver(pid)
		r.AddMetric(effort)
		fmt.Printf("regulating probe speed to %.3f m/s\n", pidTarget)
	}

	fmt.Printf("probing %s at (%.2f, %.2f) for %d frames...\n", p.Type, px, py, frames)
	if _, err := r.Run(context.Background(), frames); err != nil {
		return err
	}

	if pid != nil {
		fmt.Printf("\nfinal inflow: %.4f m/s (correction effort %.4f, inlet effort %.4f)\n",
			s.Params().Inflow, pid.Effort(), effort.Value())
	}

	speed := probe.Speed()
	stats := analysis.Describe(speed)
	fmt.Printf("\nspeed: mean %.4f, std %.4f, min %.4f, max %.4f\n",
		stats.Mean, stats.Std, stats.Min, stats.Max)

	graph := asciigraph.Plot(speed,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("probe speed (m/s)"),
	)
	fmt.Println(graph)

	spec := analysis.PowerSpectrum(probe.V(), p.Dt)
	if spec == nil {
		fmt.Println("\nseries too short for a spectrum")
		return nil
	}

	plotData := spec.Power
	if len(plotData) > 4 {
		plotData = plotData[:len(plotData)/4]
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(plotData,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (v)"),
	))

	freq, power := spec.Peak()
	fmt.Printf("\ndominant frequency: %.3f hz (power %.3g)\n", freq, power)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
		fmt.Printf("strouhal number: %.3f\n", analysis.Strouhal(freq, 2*or, p.Inflow))
	}

	return nil
}

func compareBackends(cmd *cobra.Command, args []string) error {
	p, err := resolveParams(cmd, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("comparing backends for %s (res=%d, %d frames)\n\n",
		args[0], p.Resolution, frames)
	fmt.Printf("%-10s  %-12s  %-12s  %-12s\n", "backend", "wall", "max_div", "frames/sec")
	fmt.Println(strings.Repeat("-", 52))

	for _, name := range args[1:] {
		b, err := compute.Select(name)
		if err != nil {
			fmt.Printf("%-10s  error: %v\n", name, err)
			continue
		}

		s, err := scene.New(p)
		if err != nil {
			return err
		}
		s.Fluid().SetRanger(b)
		if placeObst {
			s.SetObstacle(obstacleX, obstacleY, true)
		}

		r := sim.New(s)
		r.AddMetric(metrics.NewMaxDivergence())

		result, err := r.Run(context.Background(), frames)
		if err != nil {
			fmt.Printf("%-10s  error: %v\n", name, err)
			continue
		}

		fps := float64(result.FramesRun) / result.WallTime.Seconds()
		fmt.Printf("%-10s  %12v  %12.6f  %12.1f\n",
			name, result.WallTime.Round(time.Millisecond),
			result.Metrics["max_divergence"], fps)
	}

	return nil
}

func parseFloatList(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	vals := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, nil
}

func parseIntList(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	vals := make([]int, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, nil
}
