package flock

import (
	"math"
	"math/rand/v2"

	"github.com/MarcusSamuelsson/DD2358-Project/components"
)

// Ensemble is the particle state of one run. All slices have the same length.
//
// Positions stay in [0, L) and every velocity has magnitude v0 at the end of
// each step. Theta is not normalized.
type Ensemble struct {
	X, Y   []float64
	Theta  []float64
	VX, VY []float64

	next     []float64 // aligned headings written during the alignment stage
	cos, sin []float64 // trig of the frozen headings
}

func makeEnsemble(n int) *Ensemble {
	return &Ensemble{
		X:     make([]float64, n),
		Y:     make([]float64, n),
		Theta: make([]float64, n),
		VX:    make([]float64, n),
		VY:    make([]float64, n),
		next:  make([]float64, n),
		cos:   make([]float64, n),
		sin:   make([]float64, n),
	}
}

// newEnsemble places n birds uniformly in the box with uniform headings.
// Draw order is all x, then all y, then all headings.
func newEnsemble(n int, p Params, rng *rand.Rand) *Ensemble {
	e := makeEnsemble(n)
	for i := range e.X {
		e.X[i] = wrap(rng.Float64()*p.BoxSize, p.BoxSize)
	}
	for i := range e.Y {
		e.Y[i] = wrap(rng.Float64()*p.BoxSize, p.BoxSize)
	}
	for i := range e.Theta {
		e.Theta[i] = 2 * math.Pi * rng.Float64()
	}
	e.updateVelocities(p.Speed)
	return e
}

// Len returns the number of birds.
func (e *Ensemble) Len() int {
	return len(e.X)
}

// freeze caches the trig of the current headings. Aligners read only these
// caches, never Theta, while they fill next.
func (e *Ensemble) freeze() {
	for i, th := range e.Theta {
		e.cos[i] = math.Cos(th)
		e.sin[i] = math.Sin(th)
	}
}

// swap makes the aligned headings current.
func (e *Ensemble) swap() {
	e.Theta, e.next = e.next, e.Theta
}

func (e *Ensemble) updateVelocities(v0 float64) {
	for i, th := range e.Theta {
		v := components.VelocityFromHeading(th, v0)
		e.VX[i], e.VY[i] = v.X, v.Y
	}
}

func (e *Ensemble) result(p Params) *Result {
	return &Result{
		X:       e.X,
		Y:       e.Y,
		VX:      e.VX,
		VY:      e.VY,
		Theta:   e.Theta,
		BoxSize: p.BoxSize,
		Speed:   p.Speed,
	}
}
