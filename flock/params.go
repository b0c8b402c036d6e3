// Package flock implements the Vicsek flocking model: self-propelled birds
// moving at constant speed in a periodic box, re-aligning every step with
// the mean heading of their neighbors plus uniform angular noise.
package flock

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/MarcusSamuelsson/DD2358-Project/config"
)

// ErrInvalidArgument is returned for invalid run arguments or parameters.
var ErrInvalidArgument = errors.New("flock: invalid argument")

// Defaults of the reference model.
const (
	DefaultSteps     = 200
	DefaultParticles = 500

	DefaultSpeed   = 1.0
	DefaultNoise   = 0.5
	DefaultBoxSize = 10.0
	DefaultRadius  = 1.0
	DefaultDT      = 0.2
	DefaultSeed    = 17
)

// Params are the model parameters, fixed for the lifetime of a run.
type Params struct {
	Speed   float64 // v0
	Noise   float64 // eta, radians
	BoxSize float64 // L
	Radius  float64 // R
	DT      float64
	Seed    uint64
}

// DefaultParams returns the reference parameter set.
func DefaultParams() Params {
	return Params{
		Speed:   DefaultSpeed,
		Noise:   DefaultNoise,
		BoxSize: DefaultBoxSize,
		Radius:  DefaultRadius,
		DT:      DefaultDT,
		Seed:    DefaultSeed,
	}
}

// ParamsFromConfig extracts model parameters from a loaded configuration.
func ParamsFromConfig(cfg *config.Config) Params {
	s := cfg.Simulation
	return Params{
		Speed:   s.Speed,
		Noise:   s.Noise,
		BoxSize: s.BoxSize,
		Radius:  s.Radius,
		DT:      s.DT,
		Seed:    s.Seed,
	}
}

// RadiusSq is the neighbor threshold; pairs must be strictly closer.
func (p Params) RadiusSq() float64 {
	return p.Radius * p.Radius
}

func (p Params) validate() error {
	switch {
	case !(p.Speed > 0):
		return fmt.Errorf("%w: speed must be positive, got %g", ErrInvalidArgument, p.Speed)
	case !(p.Noise >= 0):
		return fmt.Errorf("%w: noise must not be negative, got %g", ErrInvalidArgument, p.Noise)
	case !(p.BoxSize > 0):
		return fmt.Errorf("%w: box size must be positive, got %g", ErrInvalidArgument, p.BoxSize)
	case !(p.Radius > 0):
		return fmt.Errorf("%w: radius must be positive, got %g", ErrInvalidArgument, p.Radius)
	case !(p.DT > 0):
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidArgument, p.DT)
	}
	return nil
}

// checkRun validates run arguments before anything is allocated.
func checkRun(steps, particles int) error {
	if particles <= 0 {
		return fmt.Errorf("%w: particles must be positive, got %d", ErrInvalidArgument, particles)
	}
	if steps < 0 {
		return fmt.Errorf("%w: steps must not be negative, got %d", ErrInvalidArgument, steps)
	}
	return nil
}

// newRNG returns the generator owned by one run. Placement and noise both
// draw from it, so a seed fixes the whole trajectory.
func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}
