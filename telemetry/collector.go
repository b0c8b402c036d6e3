package telemetry

// Collector samples polarization every step and produces one FlockStats per
// window of steps.
type Collector struct {
	windowSteps int
	dt          float64
	v0          float64

	// Current window tracking
	windowStart int
	polSum      float64
	samples     int
}

// NewCollector creates a new stats collector.
// windowSteps: steps per stats window (values below 1 mean one step)
// dt, v0: used for sim time and polarization normalization
func NewCollector(windowSteps int, dt, v0 float64) *Collector {
	if windowSteps < 1 {
		windowSteps = 1
	}
	return &Collector{
		windowSteps: windowSteps,
		dt:          dt,
		v0:          v0,
	}
}

// Record adds the current step's polarization to the window.
func (c *Collector) Record(vx, vy []float64) {
	c.polSum += Polarization(vx, vy, c.v0)
	c.samples++
}

// ShouldFlush returns true if enough steps have passed to flush the window.
func (c *Collector) ShouldFlush(step int) bool {
	return step-c.windowStart >= c.windowSteps
}

// Flush produces stats for the current state and resets the window.
func (c *Collector) Flush(step int, theta, vx, vy []float64) FlockStats {
	s := ComputeFlockStats(step, c.dt, theta, vx, vy, c.v0)
	s.WindowStart = c.windowStart
	if c.samples > 0 {
		s.WindowPolarization = c.polSum / float64(c.samples)
	} else {
		s.WindowPolarization = s.Polarization
	}

	// Reset for next window
	c.windowStart = step
	c.polSum = 0
	c.samples = 0

	return s
}
