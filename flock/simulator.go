package flock

import (
	"io"
	"log/slog"
	"runtime"

	"github.com/MarcusSamuelsson/DD2358-Project/config"
	"github.com/MarcusSamuelsson/DD2358-Project/telemetry"
)

// Engine runs the simulation for a step and particle count.
type Engine interface {
	Run(steps, particles int) (*Result, error)
}

// Result is the final ensemble of a run together with the box size and speed.
type Result struct {
	X, Y   []float64
	VX, VY []float64
	Theta  []float64

	BoxSize float64 // L
	Speed   float64 // v0
}

// Observer is called with the initial ensemble (step 0) and after every
// completed step. The ensemble must not be modified or retained.
type Observer func(step int, e *Ensemble)

type options struct {
	observer Observer
	perf     *telemetry.PerfCollector
	workers  int
}

// Option configures an engine.
type Option func(*options)

// WithObserver registers a per-step callback.
func WithObserver(fn Observer) Option {
	return func(o *options) { o.observer = fn }
}

// WithPerf records per-phase step timings into pc.
func WithPerf(pc *telemetry.PerfCollector) Option {
	return func(o *options) { o.perf = pc }
}

// WithWorkers sets the goroutine count of parallel backends (0 = GOMAXPROCS).
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers <= 0 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	return o
}

// NewEngine returns the engine for a backend name (see config.Backends).
func NewEngine(p Params, backend string, opts ...Option) (Engine, error) {
	if backend == config.BackendECS {
		return NewECSEngine(p, opts...)
	}
	return NewSimulator(p, backend, opts...)
}

// Run simulates with the default parameters and the scalar backend.
func Run(steps, particles int) (*Result, error) {
	sim, err := NewSimulator(DefaultParams(), config.BackendScalar)
	if err != nil {
		return nil, err
	}
	return sim.Run(steps, particles)
}

// Simulator is the array-based engine with a pluggable alignment backend.
type Simulator struct {
	params  Params
	backend string
	opts    options
}

// NewSimulator validates p and the backend name.
func NewSimulator(p Params, backend string, opts ...Option) (*Simulator, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)

	// Fail on unknown backends now rather than on the first Run
	probe, err := newAligner(backend, p, 1)
	if err != nil {
		return nil, err
	}
	closeAligner(probe)

	slog.Debug("engine selected", "backend", backend, "workers", o.workers)

	return &Simulator{params: p, backend: backend, opts: o}, nil
}

// Params returns the model parameters.
func (s *Simulator) Params() Params { return s.params }

// Backend returns the alignment backend name.
func (s *Simulator) Backend() string { return s.backend }

// Run creates a fresh seeded ensemble of the given size and advances it by
// steps timesteps. Every call with the same arguments returns the same result.
func (s *Simulator) Run(steps, particles int) (*Result, error) {
	if err := checkRun(steps, particles); err != nil {
		return nil, err
	}

	aligner, err := newAligner(s.backend, s.params, s.opts.workers)
	if err != nil {
		return nil, err
	}
	defer closeAligner(aligner)

	rng := newRNG(s.params.Seed)
	e := newEnsemble(particles, s.params, rng)
	if s.opts.observer != nil {
		s.opts.observer(0, e)
	}

	p, perf := s.params, s.opts.perf
	for step := 1; step <= steps; step++ {
		perf.StartStep()

		perf.StartPhase(telemetry.PhaseIntegrate)
		integrate(e, p.DT, p.BoxSize)

		perf.StartPhase(telemetry.PhaseAlign)
		e.freeze()
		aligner.Align(e.next, e)
		e.swap()

		perf.StartPhase(telemetry.PhaseNoise)
		perturb(e, p.Noise, p.Speed, rng)

		if s.opts.observer != nil {
			perf.StartPhase(telemetry.PhaseObserve)
			s.opts.observer(step, e)
		}

		perf.EndStep()
	}

	return e.result(p), nil
}

func closeAligner(a Aligner) {
	if c, ok := a.(io.Closer); ok {
		c.Close()
	}
}
