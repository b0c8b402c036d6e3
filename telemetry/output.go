package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/MarcusSamuelsson/DD2358-Project/config"
)

// Output file names inside the output directory.
const (
	StatsFile   = "flock_stats.csv"
	PerfFile    = "perf.csv"
	TimingsFile = "timings.csv"
	ConfigFile  = "config.yaml"
)

// csvStream is one lazily created CSV file that writes its header once.
type csvStream struct {
	name          string
	file          *os.File
	headerWritten bool
}

// OutputManager handles structured experiment output with CSV logging.
type OutputManager struct {
	dir     string
	stats   csvStream
	perf    csvStream
	timings csvStream
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &OutputManager{
		dir:     dir,
		stats:   csvStream{name: StatsFile},
		perf:    csvStream{name: PerfFile},
		timings: csvStream{name: TimingsFile},
	}, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, ConfigFile))
}

// WriteStats writes a flock stats record to flock_stats.csv.
func (om *OutputManager) WriteStats(s FlockStats) error {
	if om == nil {
		return nil
	}
	return om.write(&om.stats, []FlockStats{s})
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(rec PerfStatsCSV) error {
	if om == nil {
		return nil
	}
	return om.write(&om.perf, []PerfStatsCSV{rec})
}

// WriteTiming writes a sweep timing record to timings.csv.
func (om *OutputManager) WriteTiming(ts TimingStats) error {
	if om == nil {
		return nil
	}
	return om.write(&om.timings, []TimingStats{ts})
}

func (om *OutputManager) write(s *csvStream, records any) error {
	if s.file == nil {
		f, err := os.Create(filepath.Join(om.dir, s.name))
		if err != nil {
			return fmt.Errorf("creating %s: %w", s.name, err)
		}
		s.file = f
	}

	if !s.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, s.file); err != nil {
			return fmt.Errorf("writing %s: %w", s.name, err)
		}
		s.headerWritten = true
		return nil
	}

	if err := gocsv.MarshalWithoutHeaders(records, s.file); err != nil {
		return fmt.Errorf("writing %s: %w", s.name, err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, s := range []*csvStream{&om.stats, &om.perf, &om.timings} {
		if s.file == nil {
			continue
		}
		if err := s.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		s.file = nil
	}
	return firstErr
}
