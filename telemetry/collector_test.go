package telemetry

import (
	"math"
	"testing"
)

func TestCollector_Windows(t *testing.T) {
	c := NewCollector(2, 0.5, 1)

	aligned := [2][]float64{{1, 1}, {0, 0}}
	opposed := [2][]float64{{1, -1}, {0, 0}}

	if c.ShouldFlush(1) {
		t.Error("window of 2 should not flush after 1 step")
	}
	c.Record(aligned[0], aligned[1])
	c.Record(opposed[0], opposed[1])
	if !c.ShouldFlush(2) {
		t.Fatal("window of 2 should flush at step 2")
	}

	s := c.Flush(2, []float64{0, math.Pi}, opposed[0], opposed[1])
	if s.WindowStart != 0 || s.Step != 2 {
		t.Errorf("window bounds = [%d, %d], want [0, 2]", s.WindowStart, s.Step)
	}
	if math.Abs(s.WindowPolarization-0.5) > 1e-12 {
		t.Errorf("WindowPolarization = %v, want 0.5", s.WindowPolarization)
	}
	if s.Polarization != 0 {
		t.Errorf("Polarization = %v, want 0 for opposed pair", s.Polarization)
	}
	if s.SimTime != 1 {
		t.Errorf("SimTime = %v, want 1", s.SimTime)
	}

	// Next window starts where the last one ended
	if c.ShouldFlush(3) {
		t.Error("new window should not flush after 1 step")
	}
	s = c.Flush(3, []float64{0, 0}, aligned[0], aligned[1])
	if s.WindowStart != 2 {
		t.Errorf("WindowStart = %d, want 2", s.WindowStart)
	}
	// No samples recorded: falls back to the instantaneous value
	if s.WindowPolarization != 1 {
		t.Errorf("WindowPolarization = %v, want 1", s.WindowPolarization)
	}
}

func TestNewCollector_ClampsWindow(t *testing.T) {
	c := NewCollector(0, 0.2, 1)
	if c.ShouldFlush(0) {
		t.Error("empty window should not flush")
	}
	if !c.ShouldFlush(1) {
		t.Error("single-step window should flush every step")
	}
}
