// Package main provides the CLI entrypoint for subwaysim.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"subwaysim/internal/chart"
	"subwaysim/internal/config"
	"subwaysim/internal/logging"
	"subwaysim/internal/model"
	"subwaysim/internal/passenger"
	"subwaysim/internal/report"
	"subwaysim/internal/sim"
	"subwaysim/internal/traveltime"
)

const (
	defaultTrainFreq   = 10.0
	defaultAverage     = 150.0
	defaultDeviation   = 150.0
	defaultTimeTotal   = 400.0
	defaultPeople      = 5000
	defaultMissCost    = 100.0
	defaultSeed        = 42
	defaultPolicy      = string(model.PolicyForward)
	defaultSweepMin    = 1
	defaultSweepMax    = 19
	defaultDemandScale = 20.0
	defaultDemandDecay = 0.2
	defaultDemandFloor = 0.0
	defaultDataPath    = "data/subway_travel_time.csv"
)

var (
	runConfigPath  string
	runDataPath    string
	runOutDir      string
	runLogLevel    string
	runTrainFreq   float64
	runAverage     float64
	runDeviation   float64
	runTimeTotal   float64
	runPeople      int
	runMissCost    float64
	runSeed        uint64
	runPolicy      string
	runSweepMin    int
	runSweepMax    int
	runDemandScale float64
	runDemandDecay float64
	runDemandFloor float64

	stationsDataPath string
)

func main() {
	// A .env file is optional; real environment variables win either way.
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "subwaysim",
		Short:         "Subway wait-time and service-demand simulation",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runSimulationCmd,
	}

	rootCmd.Flags().StringVar(&runConfigPath, "config", config.DefaultPath(), "TOML config file")
	rootCmd.Flags().StringVar(&runDataPath, "data", defaultDataPath, "station-to-station travel time CSV")
	rootCmd.Flags().StringVar(&runOutDir, "out", config.DefaultOutDir(), "output directory for charts and the passenger table")
	rootCmd.Flags().StringVar(&runLogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.Flags().Float64Var(&runTrainFreq, "interval", defaultTrainFreq, "baseline interval between trains (minutes)")
	rootCmd.Flags().Float64Var(&runAverage, "mean", defaultAverage, "mean passenger arrival time (minutes)")
	rootCmd.Flags().Float64Var(&runDeviation, "stddev", defaultDeviation, "stddev of passenger arrival times (minutes)")
	rootCmd.Flags().Float64Var(&runTimeTotal, "window", defaultTimeTotal, "operating window length (minutes)")
	rootCmd.Flags().IntVar(&runPeople, "people", defaultPeople, "number of synthetic passengers")
	rootCmd.Flags().Float64Var(&runMissCost, "miss-cost", defaultMissCost, "penalty wait for missing the last train (minutes)")
	rootCmd.Flags().Uint64Var(&runSeed, "seed", defaultSeed, "random seed")
	rootCmd.Flags().StringVar(&runPolicy, "station-policy", defaultPolicy, "station pairing policy (forward, uniform)")
	rootCmd.Flags().IntVar(&runSweepMin, "sweep-min", defaultSweepMin, "first train interval of the sweep (minutes)")
	rootCmd.Flags().IntVar(&runSweepMax, "sweep-max", defaultSweepMax, "last train interval of the sweep (minutes)")
	rootCmd.Flags().Float64Var(&runDemandScale, "demand-scale", defaultDemandScale, "service-demand curve scale")
	rootCmd.Flags().Float64Var(&runDemandDecay, "demand-decay", defaultDemandDecay, "service-demand curve decay rate")
	rootCmd.Flags().Float64Var(&runDemandFloor, "demand-floor", defaultDemandFloor, "service-demand curve floor")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStationsCmd())

	return rootCmd
}

func runSimulationCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.Load(runConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyConfig(cmd, "interval", &runTrainFreq, fileCfg.Simulation.TrainFreq)
	applyConfig(cmd, "mean", &runAverage, fileCfg.Simulation.Average)
	applyConfig(cmd, "stddev", &runDeviation, fileCfg.Simulation.Deviation)
	applyConfig(cmd, "window", &runTimeTotal, fileCfg.Simulation.TimeTotal)
	applyConfig(cmd, "people", &runPeople, fileCfg.Simulation.People)
	applyConfig(cmd, "miss-cost", &runMissCost, fileCfg.Simulation.MissCost)
	applyConfig(cmd, "seed", &runSeed, fileCfg.Simulation.Seed)
	applyConfig(cmd, "station-policy", &runPolicy, fileCfg.Simulation.StationPolicy)
	applyConfig(cmd, "sweep-min", &runSweepMin, fileCfg.Simulation.SweepMin)
	applyConfig(cmd, "sweep-max", &runSweepMax, fileCfg.Simulation.SweepMax)
	applyConfig(cmd, "data", &runDataPath, fileCfg.Simulation.Data)
	applyConfig(cmd, "out", &runOutDir, fileCfg.Simulation.Out)
	applyConfig(cmd, "demand-scale", &runDemandScale, fileCfg.Demand.Scale)
	applyConfig(cmd, "demand-decay", &runDemandDecay, fileCfg.Demand.Decay)
	applyConfig(cmd, "demand-floor", &runDemandFloor, fileCfg.Demand.Floor)

	params := model.Params{
		TrainFreq: runTrainFreq,
		Average:   runAverage,
		Deviation: runDeviation,
		TimeTotal: runTimeTotal,
		NPeople:   runPeople,
		MissCost:  runMissCost,
		Seed:      runSeed,
		Policy:    model.StationPolicy(runPolicy),
		SweepMin:  runSweepMin,
		SweepMax:  runSweepMax,
	}
	if err := params.Validate(); err != nil {
		return err
	}
	demand := model.DemandParams{
		Scale: runDemandScale,
		Decay: runDemandDecay,
		Floor: runDemandFloor,
	}
	if err := demand.Validate(); err != nil {
		return err
	}

	logger := logging.New(os.Stderr, logging.ParseLevel(runLogLevel))
	return runSimulation(cmd, logger, params, demand)
}

func runSimulation(cmd *cobra.Command, logger *slog.Logger, params model.Params, demand model.DemandParams) error {
	matrix, err := traveltime.Load(runDataPath)
	if err != nil {
		return err
	}
	stations := matrix.Stations()
	logger.Info("travel time table loaded",
		"path", runDataPath,
		"stations", len(stations),
		"pairs", matrix.Pairs(),
	)

	passengers, err := passenger.New(params).Generate(stations)
	if err != nil {
		return err
	}
	arrivals := passenger.Arrivals(passengers)

	if err := os.MkdirAll(runOutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	tablePath := filepath.Join(runOutDir, "passengers.csv")
	if err := passenger.WriteCSV(tablePath, passengers); err != nil {
		// Reference output only; the in-memory results stay valid.
		logger.Warn("passenger table not written", "path", tablePath, "error", err)
		tablePath = ""
	}

	points, err := sim.Sweep(arrivals, params, demand)
	if err != nil {
		return err
	}
	baselineWaits, err := sim.Waits(arrivals, params.TrainFreq, params.TimeTotal, params.MissCost)
	if err != nil {
		return err
	}

	pairs := make([][2]string, len(passengers))
	for i, p := range passengers {
		pairs[i] = [2]string{p.Entry, p.Exit}
	}
	travel, missing := matrix.Durations(pairs)
	if missing > 0 {
		logger.Warn("travel durations missing for some station pairs", "count", missing)
	}

	chartPaths := renderCharts(logger, arrivals, points, travel, baselineWaits)

	crowdedEntry, crowdedExit := report.CrowdedStations(passengers)
	summary := report.Summary{
		Params:        params,
		Passengers:    passengers,
		BaselineWaits: baselineWaits,
		Missed:        sim.Missed(arrivals, params.TrainFreq, params.TimeTotal),
		Sweep:         points,
		CrowdedEntry:  crowdedEntry,
		CrowdedExit:   crowdedExit,
		NearestEntry:  nearestName(matrix, crowdedEntry),
		NearestExit:   nearestName(matrix, crowdedExit),
		TablePath:     tablePath,
		ChartPaths:    chartPaths,
	}
	return report.Render(cmd.OutOrStdout(), summary)
}

// renderCharts renders every chart it can; a failed chart is reported and
// skipped rather than aborting the run.
func renderCharts(logger *slog.Logger, arrivals []float64, points []sim.Point, travel, waits []float64) []string {
	renderers := []struct {
		name   string
		render func(path string) error
	}{
		{"arrivals.png", func(p string) error { return chart.ArrivalHistogram(arrivals, p) }},
		{"wait_vs_interval.png", func(p string) error { return chart.WaitCurve(points, p) }},
		{"demand_vs_interval.png", func(p string) error { return chart.DemandCurve(points, p) }},
		{"travel_vs_wait.png", func(p string) error { return chart.TravelVsWait(travel, waits, p) }},
	}
	paths := make([]string, 0, len(renderers))
	for _, r := range renderers {
		path := filepath.Join(runOutDir, r.name)
		if err := r.render(path); err != nil {
			logger.Warn("chart not rendered", "chart", r.name, "error", err)
			continue
		}
		paths = append(paths, path)
	}
	return paths
}

func nearestName(matrix *traveltime.Matrix, station string) string {
	if station == "" {
		return ""
	}
	name, _, ok := matrix.Nearest(station)
	if !ok {
		return ""
	}
	return name
}

func newStationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stations",
		Short: "List stations found in the travel time table",
		Args:  cobra.NoArgs,
		RunE:  runStationsCmd,
	}
	cmd.Flags().StringVar(&stationsDataPath, "data", defaultDataPath, "station-to-station travel time CSV")
	return cmd
}

func runStationsCmd(cmd *cobra.Command, _ []string) error {
	matrix, err := traveltime.Load(stationsDataPath)
	if err != nil {
		return err
	}
	for _, name := range matrix.Stations() {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// applyConfig overrides a flag's default with the config file value unless
// the flag was set on the command line.
func applyConfig[T any](cmd *cobra.Command, name string, target, value *T) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# subwaysim configuration
# Uncomment a value to enable it. CLI flags override config values.

[simulation]
# interval = %.0f          # Baseline interval between trains (minutes)
# mean = %.0f              # Mean passenger arrival time (minutes)
# stddev = %.0f            # Stddev of passenger arrival times (minutes)
# window = %.0f            # Operating window length (minutes)
# people = %d              # Number of synthetic passengers
# miss-cost = %.0f         # Penalty wait for missing the last train (minutes)
# seed = %d                # Random seed
# station-policy = %q      # Station pairing policy (forward, uniform)
# sweep-min = %d           # First train interval of the sweep (minutes)
# sweep-max = %d           # Last train interval of the sweep (minutes)
# data = %q                # Travel time CSV path
# out = "out"              # Output directory

[demand]
# scale = %.0f             # Service-demand curve scale
# decay = %.1f             # Service-demand curve decay rate
# floor = %.0f             # Service-demand curve floor
`,
		defaultTrainFreq,
		defaultAverage,
		defaultDeviation,
		defaultTimeTotal,
		defaultPeople,
		defaultMissCost,
		defaultSeed,
		defaultPolicy,
		defaultSweepMin,
		defaultSweepMax,
		defaultDataPath,
		defaultDemandScale,
		defaultDemandDecay,
		defaultDemandFloor,
	)
}
