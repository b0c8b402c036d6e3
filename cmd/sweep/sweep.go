package main

import (
	"fmt"
	"time"

	"github.com/MarcusSamuelsson/DD2358-Project/config"
	"github.com/MarcusSamuelsson/DD2358-Project/flock"
	"github.com/MarcusSamuelsson/DD2358-Project/telemetry"
)

// sweep times repeated runs for every backend and particle count.
type sweep struct {
	params     flock.Params
	workers    int
	backends   []string
	particles  []int
	iterations int
	steps      int
}

func newSweep(cfg *config.Config) *sweep {
	return &sweep{
		params:     flock.ParamsFromConfig(cfg),
		workers:    cfg.Derived.Workers,
		backends:   cfg.SweepBackends(),
		particles:  cfg.Sweep.Particles,
		iterations: cfg.Sweep.Iterations,
		steps:      cfg.Sweep.Steps,
	}
}

func (s *sweep) totalRuns() int {
	return len(s.backends) * len(s.particles) * s.iterations
}

// run reports one TimingStats per (backend, particle count), backend-major.
func (s *sweep) run(report func(telemetry.TimingStats)) error {
	for _, backend := range s.backends {
		engine, err := flock.NewEngine(s.params, backend, flock.WithWorkers(s.workers))
		if err != nil {
			return fmt.Errorf("creating %s engine: %w", backend, err)
		}

		for _, n := range s.particles {
			durations, err := s.measure(engine, n)
			if err != nil {
				return fmt.Errorf("%s with %d birds: %w", backend, n, err)
			}
			report(telemetry.ComputeTimingStats(backend, n, s.steps, durations))
		}
	}
	return nil
}

// measure times s.iterations full runs of engine with n birds.
func (s *sweep) measure(engine flock.Engine, n int) ([]time.Duration, error) {
	durations := make([]time.Duration, 0, s.iterations)
	for i := 0; i < s.iterations; i++ {
		t0 := time.Now()
		if _, err := engine.Run(s.steps, n); err != nil {
			return nil, err
		}
		durations = append(durations, time.Since(t0))
	}
	return durations, nil
}
