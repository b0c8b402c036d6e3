package flock

import (
	"fmt"
	"math"
	"runtime"

	"github.com/MarcusSamuelsson/DD2358-Project/config"
)

// Aligner computes the neighbor/alignment stage.
//
// Align writes into dst[i] the circular mean heading of every bird j with
// (x_j-x_i)^2 + (y_j-y_i)^2 < R^2, bird i included. Distances are not
// wrapped across the periodic boundary, so birds near an edge see a smaller
// neighborhood. Implementations read positions and the frozen trig caches
// and write only dst, which never aliases Theta.
type Aligner interface {
	Name() string
	Align(dst []float64, e *Ensemble)
}

// newAligner builds the aligner for a backend. The caller must Close
// aligners that implement io.Closer.
func newAligner(backend string, p Params, workers int) (Aligner, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	switch backend {
	case config.BackendScalar:
		return &scalarAligner{radiusSq: p.RadiusSq()}, nil
	case config.BackendVector:
		return &vectorAligner{radiusSq: p.RadiusSq()}, nil
	case config.BackendGrid:
		return newGridAligner(p.BoxSize, p.Radius, workers), nil
	case config.BackendParallel:
		return newParallelAligner(p.RadiusSq(), workers), nil
	}
	return nil, fmt.Errorf("%w: unknown backend %q", ErrInvalidArgument, backend)
}

// scalarAligner is the all-pairs reference implementation.
type scalarAligner struct {
	radiusSq float64
}

func (a *scalarAligner) Name() string { return config.BackendScalar }

func (a *scalarAligner) Align(dst []float64, e *Ensemble) {
	alignRange(dst, e, a.radiusSq, 0, e.Len())
}

// alignRange aligns birds [start, end) by all-pairs search.
func alignRange(dst []float64, e *Ensemble, radiusSq float64, start, end int) {
	x, y := e.X, e.Y
	for i := start; i < end; i++ {
		xi, yi := x[i], y[i]
		var sx, sy float64
		for j := range x {
			if within(x[j]-xi, y[j]-yi, radiusSq) {
				sx += e.cos[j]
				sy += e.sin[j]
			}
		}
		dst[i] = math.Atan2(sy, sx)
	}
}

// within is the neighbor test shared by every backend. The conversions keep
// the compiler from fusing into an FMA so all backends round identically.
func within(dx, dy, radiusSq float64) bool {
	return float64(dx*dx)+float64(dy*dy) < radiusSq
}
