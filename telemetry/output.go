package telemetry

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/ggielly/suicideballs/config"
)

// CSVLog appends records of type T as CSV rows. The header goes out with
// the first record only, so a log can be written one window at a time.
type CSVLog[T any] struct {
	name          string
	w             io.Writer
	closer        io.Closer
	headerWritten bool
}

// NewCSVLog writes records to w. name is used in error messages.
func NewCSVLog[T any](name string, w io.Writer) *CSVLog[T] {
	return &CSVLog[T]{name: name, w: w}
}

// CreateCSVLog creates (or truncates) path and logs records to it.
func CreateCSVLog[T any](path string) (*CSVLog[T], error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	l := NewCSVLog[T](filepath.Base(path), f)
	l.closer = f
	return l, nil
}

// Write appends one record.
func (l *CSVLog[T]) Write(rec T) error {
	records := []T{rec}
	marshal := gocsv.MarshalWithoutHeaders
	if !l.headerWritten {
		marshal = gocsv.Marshal
	}
	if err := marshal(records, l.w); err != nil {
		return fmt.Errorf("writing %s: %w", l.name, err)
	}
	l.headerWritten = true
	return nil
}

// Close closes the underlying file, if the log owns one.
func (l *CSVLog[T]) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// OutputManager owns a run's output directory: telemetry.csv, perf.csv and
// a config.yaml snapshot. A nil manager discards everything.
type OutputManager struct {
	dir       string
	telemetry *CSVLog[WindowStats]
	perf      *CSVLog[PerfStatsCSV]
}

// NewOutputManager creates dir and opens the CSV logs in it.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	telemetry, err := CreateCSVLog[WindowStats](filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		return nil, err
	}
	perf, err := CreateCSVLog[PerfStatsCSV](filepath.Join(dir, "perf.csv"))
	if err != nil {
		telemetry.Close()
		return nil, err
	}
	return &OutputManager{dir: dir, telemetry: telemetry, perf: perf}, nil
}

// WriteConfig saves cfg as config.yaml in the output directory.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTelemetry appends one stats window to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	return om.telemetry.Write(stats)
}

// WritePerf appends one perf window to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	if om == nil {
		return nil
	}
	return om.perf.Write(stats.ToCSV(windowEnd))
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes both CSV files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	return errors.Join(om.telemetry.Close(), om.perf.Close())
}
