package telemetry

import (
	"log/slog"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// FlockStats holds order statistics of the ensemble at one step.
type FlockStats struct {
	Step      int     `csv:"step"`
	SimTime   float64 `csv:"sim_time"`
	Particles int     `csv:"particles"`

	// Polarization is |sum v| / (N v0): 1 for a fully aligned flock, ~0 for disorder.
	Polarization float64 `csv:"polarization"`
	MeanHeading  float64 `csv:"mean_heading"`

	// Speed extremes; both stay at v0 within rounding.
	SpeedMin float64 `csv:"speed_min"`
	SpeedMax float64 `csv:"speed_max"`

	// Window fields are filled by Collector; zero for one-off snapshots.
	WindowStart        int     `csv:"window_start"`
	WindowPolarization float64 `csv:"window_polarization"`
}

// ComputeFlockStats derives order statistics from headings and velocities.
func ComputeFlockStats(step int, dt float64, theta, vx, vy []float64, v0 float64) FlockStats {
	n := len(vx)
	s := FlockStats{
		Step:      step,
		SimTime:   float64(step) * dt,
		Particles: n,
	}
	if n == 0 {
		return s
	}

	s.Polarization = Polarization(vx, vy, v0)
	s.MeanHeading = stat.CircularMean(theta, nil)

	s.SpeedMin = math.Inf(1)
	for i := range vx {
		speed := math.Hypot(vx[i], vy[i])
		s.SpeedMin = math.Min(s.SpeedMin, speed)
		s.SpeedMax = math.Max(s.SpeedMax, speed)
	}

	return s
}

// Polarization returns |sum v| / (N v0), or 0 for an empty ensemble.
func Polarization(vx, vy []float64, v0 float64) float64 {
	if len(vx) == 0 {
		return 0
	}
	return math.Hypot(floats.Sum(vx), floats.Sum(vy)) / (float64(len(vx)) * v0)
}

// LogValue implements slog.LogValuer for structured logging.
func (s FlockStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("step", s.Step),
		slog.Float64("sim_time", s.SimTime),
		slog.Int("particles", s.Particles),
		slog.Float64("polarization", s.Polarization),
		slog.Float64("mean_heading", s.MeanHeading),
		slog.Float64("speed_min", s.SpeedMin),
		slog.Float64("speed_max", s.SpeedMax),
		slog.Int("window_start", s.WindowStart),
		slog.Float64("window_polarization", s.WindowPolarization),
	)
}

// LogStats logs the flock stats using slog.
func (s FlockStats) LogStats() {
	slog.Info("stats",
		"step", s.Step,
		"sim_time", s.SimTime,
		"particles", s.Particles,
		"polarization", s.Polarization,
		"mean_heading", s.MeanHeading,
		"speed_min", s.SpeedMin,
		"speed_max", s.SpeedMax,
		"window_start", s.WindowStart,
		"window_polarization", s.WindowPolarization,
	)
}

// TimingStats summarizes repeated wall-clock measurements of one configuration.
type TimingStats struct {
	Backend    string  `csv:"backend"`
	Particles  int     `csv:"particles"`
	Steps      int     `csv:"steps"`
	Iterations int     `csv:"iterations"`
	MeanSec    float64 `csv:"mean_sec"`
	StdSec     float64 `csv:"std_sec"` // population standard deviation
	MinSec     float64 `csv:"min_sec"`
	MedianSec  float64 `csv:"median_sec"`
	MaxSec     float64 `csv:"max_sec"`
}

// ComputeTimingStats aggregates run durations.
func ComputeTimingStats(backend string, particles, steps int, durations []time.Duration) TimingStats {
	ts := TimingStats{
		Backend:    backend,
		Particles:  particles,
		Steps:      steps,
		Iterations: len(durations),
	}
	if len(durations) == 0 {
		return ts
	}

	secs := make([]float64, len(durations))
	for i, d := range durations {
		secs[i] = d.Seconds()
	}

	ts.MeanSec, ts.StdSec = stat.PopMeanStdDev(secs, nil)
	ts.MinSec = floats.Min(secs)
	ts.MaxSec = floats.Max(secs)

	sort.Float64s(secs)
	ts.MedianSec = Percentile(secs, 0.5)

	return ts
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// LogStats logs the timing summary using slog.
func (ts TimingStats) LogStats() {
	slog.Info("timing",
		"backend", ts.Backend,
		"particles", ts.Particles,
		"steps", ts.Steps,
		"iterations", ts.Iterations,
		"mean_sec", ts.MeanSec,
		"std_sec", ts.StdSec,
		"min_sec", ts.MinSec,
		"median_sec", ts.MedianSec,
		"max_sec", ts.MaxSec,
	)
}
