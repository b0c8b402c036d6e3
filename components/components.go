// Package components defines ECS components for the flock simulation.
package components

import "math"

// Position represents a bird's position inside the periodic box.
type Position struct {
	X, Y float64
}

// Velocity represents a bird's velocity.
type Velocity struct {
	X, Y float64
}

// Heading represents a bird's direction of travel in radians.
// The angle is not normalized; only its cosine and sine are observed.
type Heading struct {
	Theta float64
}

// VelocityFromHeading returns the velocity of speed v0 along theta.
func VelocityFromHeading(theta, v0 float64) Velocity {
	return Velocity{X: v0 * math.Cos(theta), Y: v0 * math.Sin(theta)}
}
