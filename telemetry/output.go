package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// OutputManager owns the run's CSV output files, mirroring the
// teacher's OutputManager: one file per record kind, headers written
// once on first use. Returns nil from NewOutputManager if dir is
// empty, disabling all output.
type OutputManager struct {
	dir       string
	runFile   *os.File
	stageFile *os.File

	runHeaderWritten   bool
	stageHeaderWritten bool
}

// NewOutputManager creates the output directory and opens run.csv and
// stages.csv within it.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "run.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating run.csv: %w", err)
	}
	om.runFile = f

	f, err = os.Create(filepath.Join(dir, "stages.csv"))
	if err != nil {
		om.runFile.Close()
		return nil, fmt.Errorf("creating stages.csv: %w", err)
	}
	om.stageFile = f

	return om, nil
}

// WriteRunStats appends a RunStats snapshot to run.csv.
func (om *OutputManager) WriteRunStats(s RunStats) error {
	if om == nil {
		return nil
	}
	records := []RunStats{s}
	if !om.runHeaderWritten {
		if err := gocsv.Marshal(records, om.runFile); err != nil {
			return fmt.Errorf("writing run stats: %w", err)
		}
		om.runHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.runFile); err != nil {
		return fmt.Errorf("writing run stats: %w", err)
	}
	return nil
}

// WriteStageStats appends a snapshot of every pipeline stage's
// counters to stages.csv.
func (om *OutputManager) WriteStageStats(rows []StageStats) error {
	if om == nil || len(rows) == 0 {
		return nil
	}
	if !om.stageHeaderWritten {
		if err := gocsv.Marshal(rows, om.stageFile); err != nil {
			return fmt.Errorf("writing stage stats: %w", err)
		}
		om.stageHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(rows, om.stageFile); err != nil {
		return fmt.Errorf("writing stage stats: %w", err)
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

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var firstErr error
	if om.runFile != nil {
		if err := om.runFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if om.stageFile != nil {
		if err := om.stageFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
