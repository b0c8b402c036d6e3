package flock

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/MarcusSamuelsson/DD2358-Project/components"
	"github.com/MarcusSamuelsson/DD2358-Project/config"
	"github.com/MarcusSamuelsson/DD2358-Project/telemetry"
)

// ECSEngine stores the birds as ark entities with Position, Velocity and
// Heading components. Each step integrates through a query, snapshots
// positions and headings, aligns the snapshot with the all-pairs search and
// applies the new headings plus noise in a second query.
type ECSEngine struct {
	params Params
	opts   options
}

// NewECSEngine validates p and returns an ark-backed engine.
func NewECSEngine(p Params, opts ...Option) (*ECSEngine, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	slog.Debug("engine selected", "backend", config.BackendECS)
	return &ECSEngine{params: p, opts: buildOptions(opts)}, nil
}

// Params returns the model parameters.
func (g *ECSEngine) Params() Params { return g.params }

// flockWorld is the ECS state of one run.
type flockWorld struct {
	world  *ecs.World
	mapper *ecs.Map3[components.Position, components.Velocity, components.Heading]
	filter *ecs.Filter3[components.Position, components.Velocity, components.Heading]

	// snapshot holds positions and frozen headings in query order
	snapshot *Ensemble
	aligner  scalarAligner
}

func newFlockWorld(init *Ensemble, p Params) *flockWorld {
	world := ecs.NewWorld()
	w := &flockWorld{
		world:    world,
		mapper:   ecs.NewMap3[components.Position, components.Velocity, components.Heading](world),
		filter:   ecs.NewFilter3[components.Position, components.Velocity, components.Heading](world),
		snapshot: makeEnsemble(init.Len()),
		aligner:  scalarAligner{radiusSq: p.RadiusSq()},
	}

	for i := range init.X {
		pos := components.Position{X: init.X[i], Y: init.Y[i]}
		vel := components.Velocity{X: init.VX[i], Y: init.VY[i]}
		head := components.Heading{Theta: init.Theta[i]}
		w.mapper.NewEntity(&pos, &vel, &head)
	}

	return w
}

// Run mirrors Simulator.Run on ECS storage, drawing random numbers in the
// same order.
func (g *ECSEngine) Run(steps, particles int) (*Result, error) {
	if err := checkRun(steps, particles); err != nil {
		return nil, err
	}

	p, perf := g.params, g.opts.perf
	rng := newRNG(p.Seed)
	w := newFlockWorld(newEnsemble(particles, p, rng), p)

	if g.opts.observer != nil {
		w.export()
		g.opts.observer(0, w.snapshot)
	}

	for step := 1; step <= steps; step++ {
		perf.StartStep()

		perf.StartPhase(telemetry.PhaseIntegrate)
		w.integrate(p.DT, p.BoxSize)

		perf.StartPhase(telemetry.PhaseAlign)
		w.align()

		perf.StartPhase(telemetry.PhaseNoise)
		w.applyHeadings(p, rng.Float64)

		if g.opts.observer != nil {
			perf.StartPhase(telemetry.PhaseObserve)
			w.export()
			g.opts.observer(step, w.snapshot)
		}

		perf.EndStep()
	}

	w.export()
	return w.snapshot.result(p), nil
}

func (w *flockWorld) integrate(dt, boxSize float64) {
	query := w.filter.Query()
	for query.Next() {
		pos, vel, _ := query.Get()
		pos.X = wrap(pos.X+float64(vel.X*dt), boxSize)
		pos.Y = wrap(pos.Y+float64(vel.Y*dt), boxSize)
	}
}

// align snapshots positions and headings, then fills snapshot.next.
func (w *flockWorld) align() {
	s := w.snapshot
	i := 0
	query := w.filter.Query()
	for query.Next() {
		pos, _, head := query.Get()
		s.X[i], s.Y[i], s.Theta[i] = pos.X, pos.Y, head.Theta
		i++
	}

	s.freeze()
	w.aligner.Align(s.next, s)
}

// applyHeadings writes aligned headings plus noise back to the entities.
func (w *flockWorld) applyHeadings(p Params, uniform func() float64) {
	next := w.snapshot.next
	i := 0
	query := w.filter.Query()
	for query.Next() {
		_, vel, head := query.Get()
		head.Theta = next[i] + p.Noise*(uniform()-0.5)
		*vel = components.VelocityFromHeading(head.Theta, p.Speed)
		i++
	}
}

// export copies the full entity state into the snapshot ensemble.
func (w *flockWorld) export() {
	s := w.snapshot
	i := 0
	query := w.filter.Query()
	for query.Next() {
		pos, vel, head := query.Get()
		s.X[i], s.Y[i] = pos.X, pos.Y
		s.VX[i], s.VY[i] = vel.X, vel.Y
		s.Theta[i] = head.Theta
		i++
	}
}
