package flock

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/MarcusSamuelsson/DD2358-Project/config"
)

// vectorAligner works a whole row of distances at a time with gonum/floats:
// squared distances, a 0/1 neighbor mask, then masked dot products with the
// trig caches. Neighbor sets match scalarAligner exactly; the sums may differ
// in the last bits because Dot accumulates in a different order.
type vectorAligner struct {
	radiusSq float64

	dx, dy, mask []float64
}

func (a *vectorAligner) Name() string { return config.BackendVector }

func (a *vectorAligner) Align(dst []float64, e *Ensemble) {
	n := e.Len()
	if cap(a.dx) < n {
		a.dx = make([]float64, n)
		a.dy = make([]float64, n)
		a.mask = make([]float64, n)
	}
	dx, dy, mask := a.dx[:n], a.dy[:n], a.mask[:n]

	for i := 0; i < n; i++ {
		copy(dx, e.X)
		copy(dy, e.Y)
		floats.AddConst(-e.X[i], dx)
		floats.AddConst(-e.Y[i], dy)
		floats.Mul(dx, dx)
		floats.Mul(dy, dy)
		floats.Add(dx, dy)

		for j, d := range dx {
			if d < a.radiusSq {
				mask[j] = 1
			} else {
				mask[j] = 0
			}
		}

		dst[i] = math.Atan2(floats.Dot(mask, e.sin), floats.Dot(mask, e.cos))
	}
}
