package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/MarcusSamuelsson/DD2358-Project/config"
	"github.com/MarcusSamuelsson/DD2358-Project/flock"
	"github.com/MarcusSamuelsson/DD2358-Project/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	backend := flag.String("backend", "", "Alignment backend: scalar, vector, grid, parallel, ecs (empty = use config)")
	workers := flag.Int("workers", -1, "Goroutines for parallel backends (-1 = use config, 0 = GOMAXPROCS)")
	steps := flag.Int("steps", -1, "Number of time steps (-1 = use config)")
	particles := flag.Int("particles", 0, "Number of birds (0 = use config)")
	seed := flag.Uint64("seed", 0, "RNG seed (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	logStats := flag.Bool("log-stats", false, "Output flock stats via slog")
	statsInterval := flag.Int("stats-interval", 0, "Steps between flock stats records (0 = use config)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// CLI overrides
	if *backend != "" {
		cfg.Engine.Backend = *backend
	}
	if *workers >= 0 {
		cfg.Engine.Workers = *workers
	}
	if *steps >= 0 {
		cfg.Simulation.Steps = *steps
	}
	if *particles > 0 {
		cfg.Simulation.Particles = *particles
	}
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}
	if *statsInterval > 0 {
		cfg.Telemetry.StatsInterval = *statsInterval
	}
	if err := cfg.Refresh(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, *outputDir, *logStats); err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

// run executes one simulation and writes its telemetry.
func run(cfg *config.Config, outputDir string, logStats bool) error {
	om, err := telemetry.NewOutputManager(outputDir)
	if err != nil {
		return err
	}
	defer om.Close()

	if err := om.WriteConfig(cfg); err != nil {
		return err
	}

	params := flock.ParamsFromConfig(cfg)
	sim := cfg.Simulation
	// Interval 0 records only the initial and final state
	periodic := cfg.Telemetry.StatsInterval > 0
	collector := telemetry.NewCollector(cfg.Telemetry.StatsInterval, params.DT, params.Speed)

	var writeErr error
	observer := func(step int, e *flock.Ensemble) {
		if step > 0 {
			collector.Record(e.VX, e.VY)
		}
		final := step == sim.Steps
		if step > 0 && !final && !(periodic && collector.ShouldFlush(step)) {
			return
		}
		stats := collector.Flush(step, e.Theta, e.VX, e.VY)
		if logStats || final {
			stats.LogStats()
		}
		if err := om.WriteStats(stats); err != nil && writeErr == nil {
			writeErr = err
		}
	}

	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	engine, err := flock.NewEngine(params, cfg.Engine.Backend,
		flock.WithObserver(observer),
		flock.WithPerf(perf),
		flock.WithWorkers(cfg.Derived.Workers),
	)
	if err != nil {
		return err
	}

	slog.Info("starting simulation",
		"backend", cfg.Engine.Backend,
		"steps", sim.Steps,
		"particles", sim.Particles,
		"seed", params.Seed,
		"box_size", params.BoxSize,
		"radius", params.Radius,
		"noise", params.Noise,
	)

	res, err := engine.Run(sim.Steps, sim.Particles)
	if err != nil {
		return err
	}
	if writeErr != nil {
		return writeErr
	}

	perfStats := perf.Stats()
	perfStats.LogStats()
	if err := om.WritePerf(perfStats.ToCSV(cfg.Engine.Backend, sim.Particles, sim.Steps)); err != nil {
		return err
	}

	slog.Info("simulation complete",
		"particles", len(res.X),
		"box_size", res.BoxSize,
		"speed", res.Speed,
		"output_dir", om.Dir(),
	)
	return nil
}
