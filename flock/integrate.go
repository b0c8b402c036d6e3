package flock

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// integrate advances positions by one timestep and wraps them into the box.
func integrate(e *Ensemble, dt, boxSize float64) {
	floats.AddScaled(e.X, dt, e.VX)
	floats.AddScaled(e.Y, dt, e.VY)
	for i := range e.X {
		e.X[i] = wrap(e.X[i], boxSize)
		e.Y[i] = wrap(e.Y[i], boxSize)
	}
}

// wrap maps v into [0, l) with floored modulo.
func wrap(v, l float64) float64 {
	v = math.Mod(v, l)
	if v < 0 {
		v += l
	}
	// A tiny negative remainder can round up to l itself
	if v >= l {
		v = 0
	}
	return v
}
