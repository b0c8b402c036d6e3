// Package config provides configuration loading and access for the flock simulator.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Backend names accepted by engine.backend.
const (
	BackendScalar   = "scalar"
	BackendVector   = "vector"
	BackendGrid     = "grid"
	BackendParallel = "parallel"
	BackendECS      = "ecs"
)

// Backends lists every known backend in sweep order.
var Backends = []string{BackendScalar, BackendVector, BackendGrid, BackendParallel, BackendECS}

// Config holds all simulation configuration parameters.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Engine     EngineConfig     `yaml:"engine"`
	Sweep      SweepConfig      `yaml:"sweep"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// SimulationConfig holds the Vicsek model parameters.
type SimulationConfig struct {
	Speed     float64 `yaml:"speed"`     // v0, constant particle speed
	Noise     float64 `yaml:"noise"`     // eta, angular noise amplitude in radians
	BoxSize   float64 `yaml:"box_size"`  // L, periodic domain side
	Radius    float64 `yaml:"radius"`    // R, interaction radius
	DT        float64 `yaml:"dt"`        // Integration timestep
	Seed      uint64  `yaml:"seed"`      // RNG seed for placement and noise
	Steps     int     `yaml:"steps"`     // Default step count for single runs
	Particles int     `yaml:"particles"` // Default particle count for single runs
}

// EngineConfig selects the alignment backend.
type EngineConfig struct {
	Backend string `yaml:"backend"` // scalar, vector, grid, parallel, ecs
	Workers int    `yaml:"workers"` // 0 = GOMAXPROCS
}

// SweepConfig holds benchmark sweep parameters.
type SweepConfig struct {
	Iterations int      `yaml:"iterations"` // Timed runs per particle count
	Steps      int      `yaml:"steps"`
	Particles  []int    `yaml:"particles"`
	Backends   []string `yaml:"backends"` // empty = all backends
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsInterval int `yaml:"stats_interval"` // Steps between flock stats records (0 = final only)
	PerfWindow    int `yaml:"perf_window"`    // Steps averaged by the perf collector
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Workers int // Engine.Workers resolved against GOMAXPROCS
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Refresh(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid parameter.
func (c *Config) Validate() error {
	s := c.Simulation
	switch {
	case s.Speed <= 0:
		return fmt.Errorf("simulation.speed must be positive, got %g", s.Speed)
	case s.Noise < 0:
		return fmt.Errorf("simulation.noise must not be negative, got %g", s.Noise)
	case s.BoxSize <= 0:
		return fmt.Errorf("simulation.box_size must be positive, got %g", s.BoxSize)
	case s.Radius <= 0:
		return fmt.Errorf("simulation.radius must be positive, got %g", s.Radius)
	case s.DT <= 0:
		return fmt.Errorf("simulation.dt must be positive, got %g", s.DT)
	case s.Steps < 0:
		return fmt.Errorf("simulation.steps must not be negative, got %d", s.Steps)
	case s.Particles <= 0:
		return fmt.Errorf("simulation.particles must be positive, got %d", s.Particles)
	case c.Engine.Workers < 0:
		return fmt.Errorf("engine.workers must not be negative, got %d", c.Engine.Workers)
	case c.Sweep.Iterations < 1:
		return fmt.Errorf("sweep.iterations must be at least 1, got %d", c.Sweep.Iterations)
	}

	if !KnownBackend(c.Engine.Backend) {
		return fmt.Errorf("engine.backend %q is not one of %v", c.Engine.Backend, Backends)
	}
	for _, b := range c.Sweep.Backends {
		if !KnownBackend(b) {
			return fmt.Errorf("sweep.backends entry %q is not one of %v", b, Backends)
		}
	}
	for _, n := range c.Sweep.Particles {
		if n <= 0 {
			return fmt.Errorf("sweep.particles entries must be positive, got %d", n)
		}
	}
	return nil
}

// KnownBackend reports whether name is a valid engine.backend value.
func KnownBackend(name string) bool {
	for _, b := range Backends {
		if b == name {
			return true
		}
	}
	return false
}

// SweepBackends returns the configured sweep backends, or all of them.
func (c *Config) SweepBackends() []string {
	if len(c.Sweep.Backends) == 0 {
		return Backends
	}
	return c.Sweep.Backends
}

// Refresh validates the configuration and recomputes derived values.
// Call it after changing fields of a loaded config.
func (c *Config) Refresh() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Workers = c.Engine.Workers
	if c.Derived.Workers == 0 {
		c.Derived.Workers = runtime.GOMAXPROCS(0)
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
