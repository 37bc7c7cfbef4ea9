package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dfreese/Gray-sub002/config"
	"github.com/dfreese/Gray-sub002/daq"
	"github.com/dfreese/Gray-sub002/mc"
	"github.com/dfreese/Gray-sub002/photon"
)

// pipelineStage is the JSON shape of one daq.Stage in a process_pipeline
// file. Type selects which fields apply; unused fields are ignored.
type pipelineStage struct {
	Type string `json:"type"`

	Window      float64 `json:"window"`
	Offset      float64 `json:"offset"`
	Paralyzable bool    `json:"paralyzable"`

	RejectMultiples bool `json:"reject_multiples"`

	MergeMode string `json:"merge_mode"`

	ResolutionAtRef float64 `json:"resolution_at_ref"`
	RefEnergy       float64 `json:"ref_energy"`
	Sigma           float64 `json:"sigma"`

	EnergyLo float64 `json:"energy_lo"`
	EnergyHi float64 `json:"energy_hi"`
}

func timeOf(e photon.Interaction) float64 { return e.Time }
func detOf(e photon.Interaction) int      { return e.DetID }

// identityLookup builds a []int of length n mapping every detector id
// to itself, the default component grouping for stages (deadtime,
// merge) that otherwise group several detectors under one component.
func identityLookup(n int) []int {
	l := make([]int, n)
	for i := range l {
		l[i] = i
	}
	return l
}

// loadPipeline parses a process_pipeline JSON file into stages, and
// wraps them with the mandatory leading sort stage sized from the
// scene's bounding diagonal, per the daq package's §4.7 contract.
func loadPipeline(path string, sceneDiameter float64, numDetectors int, cfg *config.Config, sampler *mc.Sampler, mapping *daq.AngerLogic) (*daq.Pipeline, error) {
	var specs []pipelineStage
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading process pipeline: %w", err)
		}
		if err := json.Unmarshal(data, &specs); err != nil {
			return nil, fmt.Errorf("parsing process pipeline: %w", err)
		}
	}

	idLookup := identityLookup(numDetectors)

	stages := make([]daq.Stage, 0, len(specs))
	for i, s := range specs {
		stage, err := buildStage(s, idLookup, sampler, mapping)
		if err != nil {
			return nil, fmt.Errorf("pipeline stage %d: %w", i, err)
		}
		stages = append(stages, stage)
		if blur, ok := stage.(*daq.BlurTimeStage); ok {
			stages = append(stages, daq.NewSortStage(blur.SortWindow(), timeOf))
		}
	}

	sortMaxWait := cfg.Daq.SortWindowMultiplier * sceneDiameter / cfg.Derived.SpeedOfLightCmPerNs
	return daq.NewPipeline(sortMaxWait, timeOf, stages...), nil
}

func buildStage(s pipelineStage, idLookup []int, sampler *mc.Sampler, mapping *daq.AngerLogic) (daq.Stage, error) {
	switch s.Type {
	case "blur_energy":
		return daq.NewBlurEnergyStage(sampler, s.ResolutionAtRef, s.RefEnergy), nil
	case "blur_time":
		return daq.NewBlurTimeStage(sampler, s.Sigma), nil
	case "deadtime":
		return daq.NewDeadtimeStage(idLookup, s.Window, timeOf, detOf, s.Paralyzable), nil
	case "merge":
		fn, err := mergeFunc(s.MergeMode, mapping)
		if err != nil {
			return nil, err
		}
		return daq.NewMergeStage(idLookup, s.Window, timeOf, detOf, fn), nil
	case "coincidence":
		return daq.NewCoincidenceStage(s.Window, s.Offset, timeOf, s.RejectMultiples, s.Paralyzable), nil
	case "filter_energy":
		return daq.EnergyWindowFilter(s.EnergyLo, s.EnergyHi), nil
	case "filter_coincidence":
		return daq.CoincidenceOnlyFilter(), nil
	default:
		return nil, fmt.Errorf("unknown stage type %q", s.Type)
	}
}

func mergeFunc(mode string, mapping *daq.AngerLogic) (daq.MergeFunc, error) {
	switch mode {
	case "", "first":
		return daq.MergeFirst, nil
	case "max":
		return daq.MergeMax, nil
	case "anger":
		if mapping == nil {
			return nil, fmt.Errorf("merge mode %q requires a detector mapping (-m)", mode)
		}
		return mapping.Merge, nil
	default:
		return nil, fmt.Errorf("unknown merge mode %q", mode)
	}
}
