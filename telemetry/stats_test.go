package telemetry

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/dfreese/Gray-sub002/daq"
	"github.com/dfreese/Gray-sub002/photon"
)

func TestFromTraceStats(t *testing.T) {
	s := photon.TraceStats{Events: 10, Decays: 5, Photons: 8, Compton: 3}
	row := FromTraceStats(s)
	if row.Events != 10 || row.Decays != 5 || row.Photons != 8 || row.Compton != 3 {
		t.Errorf("unexpected conversion: %+v", row)
	}
}

func TestFromPipelineLabelsStages(t *testing.T) {
	stats := []daq.ProcessorStats{{}, {}}
	rows := FromPipeline([]string{"sort", "coincidence"}, stats)
	if len(rows) != 2 || rows[0].Stage != "sort" || rows[1].Stage != "coincidence" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestComputeEnergySpectrum(t *testing.T) {
	spec := ComputeEnergySpectrum([]float64{0.1, 0.2, 0.3, 0.4, 0.5})
	if spec.Mean != 0.3 {
		t.Errorf("expected mean 0.3, got %v", spec.Mean)
	}
	if spec.P50 < 0.2 || spec.P50 > 0.4 {
		t.Errorf("expected median near the center of the spread, got %v", spec.P50)
	}
}

func TestComputeEnergySpectrumEmpty(t *testing.T) {
	spec := ComputeEnergySpectrum(nil)
	if spec != (EnergySpectrum{}) {
		t.Errorf("expected zero value for empty input, got %+v", spec)
	}
}

func TestRunStatsLogValueIsAGroup(t *testing.T) {
	v := RunStats{Events: 1, Compton: 2}.LogValue()
	if v.Kind() != slog.KindGroup {
		t.Fatalf("expected a group value, got kind %v", v.Kind())
	}
	if len(v.Group()) != 13 {
		t.Errorf("expected 13 attrs (one per RunStats field), got %d", len(v.Group()))
	}
}

func TestEnergySpectrumLogValueIsAGroup(t *testing.T) {
	v := EnergySpectrum{Mean: 0.5}.LogValue()
	if v.Kind() != slog.KindGroup {
		t.Fatalf("expected a group value, got kind %v", v.Kind())
	}
	if len(v.Group()) != 4 {
		t.Errorf("expected 4 attrs, got %d", len(v.Group()))
	}
}

func TestOutputManagerWritesCSVHeadersOnce(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	defer om.Close()

	if err := om.WriteRunStats(RunStats{Events: 1}); err != nil {
		t.Fatalf("WriteRunStats: %v", err)
	}
	if err := om.WriteRunStats(RunStats{Events: 2}); err != nil {
		t.Fatalf("WriteRunStats: %v", err)
	}
	om.Close()

	data, err := os.ReadFile(filepath.Join(dir, "run.csv"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected run.csv to have content")
	}
}

func TestOutputManagerDisabledWithEmptyDir(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	if om != nil {
		t.Fatal("expected nil OutputManager when dir is empty")
	}
	// All methods must be no-ops on a nil receiver.
	if err := om.WriteRunStats(RunStats{}); err != nil {
		t.Errorf("expected nil-safe WriteRunStats, got %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("expected nil-safe Close, got %v", err)
	}
}
