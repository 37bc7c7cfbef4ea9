// Package telemetry aggregates per-run trace and DAQ statistics and
// writes them out as CSV, mirroring the teacher's telemetry package
// shape (gocsv-tagged records, an OutputManager owning the output
// files, slog for terminal summaries).
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/dfreese/Gray-sub002/daq"
	"github.com/dfreese/Gray-sub002/photon"
)

// RunStats is one CSV row summarizing a completed (or periodic,
// mid-run) snapshot of the transport engine's trace counters.
type RunStats struct {
	Events                 int64 `csv:"events"`
	Decays                 int64 `csv:"decays"`
	Photons                int64 `csv:"photons"`
	NoInteraction          int64 `csv:"no_interaction"`
	Photoelectric          int64 `csv:"photoelectric"`
	XrayEscape             int64 `csv:"xray_escape"`
	Compton                int64 `csv:"compton"`
	Rayleigh               int64 `csv:"rayleigh"`
	PhotoelectricSensitive int64 `csv:"photoelectric_sensitive"`
	XrayEscapeSensitive    int64 `csv:"xray_escape_sensitive"`
	ComptonSensitive       int64 `csv:"compton_sensitive"`
	RayleighSensitive      int64 `csv:"rayleigh_sensitive"`
	Error                  int64 `csv:"error"`
}

// FromTraceStats converts an engine's running counters into a CSV row.
func FromTraceStats(s photon.TraceStats) RunStats {
	return RunStats{
		Events: s.Events, Decays: s.Decays, Photons: s.Photons,
		NoInteraction: s.NoInteraction, Photoelectric: s.Photoelectric,
		XrayEscape: s.XrayEscape, Compton: s.Compton, Rayleigh: s.Rayleigh,
		PhotoelectricSensitive: s.PhotoelectricSensitive,
		XrayEscapeSensitive:    s.XrayEscapeSensitive,
		ComptonSensitive:       s.ComptonSensitive,
		RayleighSensitive:      s.RayleighSensitive,
		Error:                  s.Error,
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s RunStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("events", s.Events),
		slog.Int64("decays", s.Decays),
		slog.Int64("photons", s.Photons),
		slog.Int64("no_interaction", s.NoInteraction),
		slog.Int64("photoelectric", s.Photoelectric),
		slog.Int64("xray_escape", s.XrayEscape),
		slog.Int64("compton", s.Compton),
		slog.Int64("rayleigh", s.Rayleigh),
		slog.Int64("photoelectric_sensitive", s.PhotoelectricSensitive),
		slog.Int64("xray_escape_sensitive", s.XrayEscapeSensitive),
		slog.Int64("compton_sensitive", s.ComptonSensitive),
		slog.Int64("rayleigh_sensitive", s.RayleighSensitive),
		slog.Int64("error", s.Error),
	)
}

// LogStats logs the trace counters using slog.
func (s RunStats) LogStats() {
	slog.Info("trace stats", "stats", s)
}

// StageStats is one CSV row for a single DAQ pipeline stage's counters.
type StageStats struct {
	Stage   string `csv:"stage"`
	Events  int64  `csv:"events"`
	Kept    int64  `csv:"kept"`
	Dropped int64  `csv:"dropped"`
}

// FromPipeline converts a Pipeline's per-stage stats into CSV rows,
// labeling row i with names[i], and any row past the end of names with
// "stage".
func FromPipeline(names []string, stats []daq.ProcessorStats) []StageStats {
	rows := make([]StageStats, len(stats))
	for i, s := range stats {
		name := "stage"
		if i < len(names) {
			name = names[i]
		}
		rows[i] = StageStats{Stage: name, Events: s.NoEvents(), Kept: s.NoKept(), Dropped: s.NoDropped()}
	}
	return rows
}

// LogValue implements slog.LogValuer for structured logging.
func (s StageStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("stage", s.Stage),
		slog.Int64("events", s.Events),
		slog.Int64("kept", s.Kept),
		slog.Int64("dropped", s.Dropped),
	)
}

// LogStages logs every pipeline stage's stats using slog, one record
// per stage.
func LogStages(rows []StageStats) {
	for _, r := range rows {
		slog.Info("pipeline stage", "stage", r)
	}
}

// EnergySpectrum computes mean and the 10th/50th/90th percentiles of a
// set of deposited energies, used for a quick photopeak sanity check
// in end-of-run summaries.
type EnergySpectrum struct {
	Mean, P10, P50, P90 float64
}

// LogValue implements slog.LogValuer for structured logging.
func (e EnergySpectrum) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("mean", e.Mean),
		slog.Float64("p10", e.P10),
		slog.Float64("p50", e.P50),
		slog.Float64("p90", e.P90),
	)
}

// ComputeEnergySpectrum summarizes a set of deposit energies.
func ComputeEnergySpectrum(deposits []float64) EnergySpectrum {
	if len(deposits) == 0 {
		return EnergySpectrum{}
	}
	sorted := append([]float64(nil), deposits...)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(len(sorted))

	return EnergySpectrum{
		Mean: mean,
		P10:  stat.Quantile(0.10, stat.Empirical, sorted, nil),
		P50:  stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P90:  stat.Quantile(0.90, stat.Empirical, sorted, nil),
	}
}
