// Package main runs a timing sweep of the flock engine over backends and
// particle counts, writing mean and standard deviation per configuration.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/MarcusSamuelsson/DD2358-Project/config"
	"github.com/MarcusSamuelsson/DD2358-Project/telemetry"
)

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	outputDir := flag.String("output", "", "Output directory for results")
	iterations := flag.Int("iterations", 0, "Timed runs per particle count (0 = use config)")
	steps := flag.Int("steps", 0, "Time steps per run (0 = use config)")
	backends := flag.String("backends", "", "Comma-separated backends (empty = use config)")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	if *iterations > 0 {
		cfg.Sweep.Iterations = *iterations
	}
	if *steps > 0 {
		cfg.Sweep.Steps = *steps
	}
	if *backends != "" {
		cfg.Sweep.Backends = strings.Split(*backends, ",")
	}
	if err := cfg.Refresh(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if err := run(cfg, *outputDir); err != nil {
		log.Fatalf("sweep failed: %v", err)
	}
}

// run times every configured backend and particle count, writing results to outputDir.
func run(cfg *config.Config, outputDir string) error {
	om, err := telemetry.NewOutputManager(outputDir)
	if err != nil {
		return err
	}
	defer om.Close()

	if err := om.WriteConfig(cfg); err != nil {
		return err
	}

	plan := newSweep(cfg)
	total := plan.totalRuns()
	fmt.Printf("Starting sweep: backends=%v, %d particle counts, %d iterations, %d steps per run\n",
		plan.backends, len(plan.particles), plan.iterations, plan.steps)

	startTime := time.Now()
	done := 0
	var writeErr error
	progress := func(ts telemetry.TimingStats) {
		done += ts.Iterations
		elapsed := time.Since(startTime)
		remaining := time.Duration(total-done) * (elapsed / time.Duration(done))

		fmt.Printf("%s %5d birds: mean=%.4fs std=%.4fs | elapsed: %s, ETA: %s\n",
			ts.Backend, ts.Particles, ts.MeanSec, ts.StdSec,
			formatDuration(elapsed), formatDuration(remaining))

		ts.LogStats()
		if err := om.WriteTiming(ts); err != nil && writeErr == nil {
			writeErr = err
		}
	}

	if err := plan.run(progress); err != nil {
		return err
	}
	if writeErr != nil {
		return writeErr
	}

	fmt.Printf("\nSweep complete after %d runs in %s\n", total, formatDuration(time.Since(startTime)))
	fmt.Printf("Results saved to: %s\n", om.Dir())
	return om.Close()
}
