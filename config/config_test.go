package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	s := cfg.Simulation
	if s.Speed != 1.0 || s.Noise != 0.5 || s.BoxSize != 10 || s.Radius != 1 || s.DT != 0.2 {
		t.Errorf("unexpected model parameters: %+v", s)
	}
	if s.Seed != 17 {
		t.Errorf("Seed = %d, want 17", s.Seed)
	}
	if s.Steps != 200 || s.Particles != 500 {
		t.Errorf("Steps/Particles = %d/%d, want 200/500", s.Steps, s.Particles)
	}
	if cfg.Engine.Backend != BackendScalar {
		t.Errorf("Backend = %q, want %q", cfg.Engine.Backend, BackendScalar)
	}
	if len(cfg.Sweep.Particles) != 19 {
		t.Errorf("expected 19 sweep particle counts, got %d", len(cfg.Sweep.Particles))
	}
	if cfg.Derived.Workers < 1 {
		t.Errorf("Workers = %d, want resolved positive count", cfg.Derived.Workers)
	}
}

func TestLoad_OverridesMergeWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	data := "simulation:\n  radius: 2.5\n  particles: 64\nengine:\n  backend: grid\n  workers: 3\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Simulation.Radius != 2.5 {
		t.Errorf("Radius = %v, want 2.5", cfg.Simulation.Radius)
	}
	if cfg.Simulation.Particles != 64 {
		t.Errorf("Particles = %d, want 64", cfg.Simulation.Particles)
	}
	// Untouched fields keep their defaults
	if cfg.Simulation.BoxSize != 10 || cfg.Simulation.Noise != 0.5 {
		t.Errorf("defaults lost after merge: %+v", cfg.Simulation)
	}
	if cfg.Engine.Backend != BackendGrid || cfg.Derived.Workers != 3 {
		t.Errorf("engine = %+v workers=%d", cfg.Engine, cfg.Derived.Workers)
	}
}

func TestRefresh_RecomputesDerived(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	cfg.Engine.Workers = 5
	if err := cfg.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if cfg.Derived.Workers != 5 {
		t.Errorf("Derived.Workers = %d after override, want 5", cfg.Derived.Workers)
	}

	cfg.Engine.Workers = 0
	if err := cfg.Refresh(); err != nil {
		t.Fatal(err)
	}
	if cfg.Derived.Workers != runtime.GOMAXPROCS(0) {
		t.Errorf("Derived.Workers = %d, want GOMAXPROCS", cfg.Derived.Workers)
	}

	cfg.Engine.Backend = "cuda"
	if err := cfg.Refresh(); err == nil {
		t.Error("Refresh accepted an unknown backend")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"zero radius", "simulation:\n  radius: 0\n", "simulation.radius"},
		{"negative noise", "simulation:\n  noise: -1\n", "simulation.noise"},
		{"negative steps", "simulation:\n  steps: -1\n", "simulation.steps"},
		{"zero particles", "simulation:\n  particles: 0\n", "simulation.particles"},
		{"unknown backend", "engine:\n  backend: cuda\n", "engine.backend"},
		{"unknown sweep backend", "sweep:\n  backends: [scalar, torch]\n", "sweep.backends"},
		{"bad sweep count", "sweep:\n  particles: [10, 0]\n", "sweep.particles"},
		{"malformed", "simulation: [", "parsing config file"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tc.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "reading config file") {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestWriteYAML_Reloads(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Simulation.Seed = 99
	cfg.Engine.Backend = BackendParallel

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load snapshot: %v", err)
	}
	if reloaded.Simulation.Seed != 99 || reloaded.Engine.Backend != BackendParallel {
		t.Errorf("snapshot not reloaded: seed=%d backend=%q", reloaded.Simulation.Seed, reloaded.Engine.Backend)
	}
}

func TestSweepBackends(t *testing.T) {
	cfg := &Config{}
	if got := cfg.SweepBackends(); len(got) != len(Backends) {
		t.Errorf("empty list should expand to all backends, got %v", got)
	}
	cfg.Sweep.Backends = []string{BackendGrid}
	if got := cfg.SweepBackends(); len(got) != 1 || got[0] != BackendGrid {
		t.Errorf("SweepBackends = %v", got)
	}
}

func TestCfg_PanicsBeforeInit(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Cfg()
}
