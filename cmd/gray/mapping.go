package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dfreese/Gray-sub002/daq"
)

// detectorMapping is the on-disk JSON shape for the -m flag: parallel
// per-detector arrays addressing each detector's (block, bx, by, bz)
// position, consumed by daq.NewAngerLogic.
type detectorMapping struct {
	Base []int `json:"block"`
	BX   []int `json:"bx"`
	BY   []int `json:"by"`
	BZ   []int `json:"bz"`
}

func loadDetectorMapping(path string) (*daq.AngerLogic, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading detector mapping: %w", err)
	}
	var m detectorMapping
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing detector mapping: %w", err)
	}
	logic, err := daq.NewAngerLogic(m.Base, m.BX, m.BY, m.BZ)
	if err != nil {
		return nil, fmt.Errorf("building detector mapping: %w", err)
	}
	return logic, nil
}
