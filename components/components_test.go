package components

import (
	"math"
	"testing"
)

func TestVelocityFromHeading(t *testing.T) {
	tests := []struct {
		name   string
		theta  float64
		v0     float64
		wantVX float64
		wantVY float64
	}{
		{"east", 0, 1, 1, 0},
		{"north", math.Pi / 2, 2, 0, 2},
		{"west", math.Pi, 1, -1, 0},
		{"unnormalized", 2*math.Pi + math.Pi/2, 1, 0, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := VelocityFromHeading(tc.theta, tc.v0)
			if math.Abs(v.X-tc.wantVX) > 1e-12 || math.Abs(v.Y-tc.wantVY) > 1e-12 {
				t.Errorf("VelocityFromHeading(%v, %v) = %+v, want (%v, %v)", tc.theta, tc.v0, v, tc.wantVX, tc.wantVY)
			}
		})
	}
}
