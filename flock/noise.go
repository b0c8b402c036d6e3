package flock

import "math/rand/v2"

// perturb adds uniform noise in [-eta/2, eta/2) to every aligned heading and
// recomputes velocities. Draws exactly one number per bird.
func perturb(e *Ensemble, eta, v0 float64, rng *rand.Rand) {
	for i := range e.Theta {
		e.Theta[i] += eta * (rng.Float64() - 0.5)
	}
	e.updateVelocities(v0)
}
