// Package sceneio implements Gray's external file formats: the JSON
// material and isotope tables, and the hits/singles/coincidence
// output streams in both their ASCII and fixed-layout binary forms.
// The custom line-oriented scene-description language and the
// OpenGL/GLUT viewer are not implemented.
package sceneio

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dfreese/Gray-sub002/material"
)

// materialFile is the on-disk JSON shape for a material table file.
type materialFile struct {
	Defaults struct {
		WorldMaterial string `json:"world_material"`
	} `json:"defaults"`
	Materials []materialRecord `json:"materials"`
}

type materialRecord struct {
	Index          int       `json:"index"`
	Name           string    `json:"name"`
	Density        float64   `json:"density"`
	Sensitive      bool      `json:"sensitive"`
	Interactive    bool      `json:"interactive"`
	Energy         []float64 `json:"energy"`
	MattenComp     []float64 `json:"matten_comp"`
	MattenPhot     []float64 `json:"matten_phot"`
	MattenRayl     []float64 `json:"matten_rayl"`
	X              []float64 `json:"x"`
	FormFactor     []float64 `json:"form_factor"`
	ScatteringFunc []float64 `json:"scattering_func"`
	Shells         []shellRecord `json:"shells,omitempty"`
}

// shellRecord is the on-disk JSON shape of one material.Shell.
type shellRecord struct {
	BindingEnergy     float64 `json:"binding_energy"`
	SelectionWeight   float64 `json:"selection_weight"`
	FluorescenceYield float64 `json:"fluorescence_yield"`
}

// LoadMaterials parses a material table file, returning the materials
// in file order along with the name of the default (world) material.
func LoadMaterials(r io.Reader) ([]*material.Material, string, error) {
	var mf materialFile
	if err := json.NewDecoder(r).Decode(&mf); err != nil {
		return nil, "", fmt.Errorf("sceneio: decoding material file: %w", err)
	}

	mats := make([]*material.Material, len(mf.Materials))
	for i, rec := range mf.Materials {
		if err := validateMaterialRecord(rec); err != nil {
			return nil, "", fmt.Errorf("sceneio: material %q: %w", rec.Name, err)
		}
		mats[i] = material.NewMaterial(
			rec.Index, rec.Name, rec.Density, rec.Sensitive, rec.Interactive,
			rec.Energy, rec.MattenComp, rec.MattenPhot, rec.MattenRayl,
			rec.X, rec.ScatteringFunc, rec.FormFactor,
		)
		if len(rec.Shells) > 0 {
			shells := make([]material.Shell, len(rec.Shells))
			for j, s := range rec.Shells {
				shells[j] = material.Shell{
					BindingEnergy:     s.BindingEnergy,
					SelectionWeight:   s.SelectionWeight,
					FluorescenceYield: s.FluorescenceYield,
				}
			}
			mats[i].Shells = shells
		}
	}
	return mats, mf.Defaults.WorldMaterial, nil
}

func validateMaterialRecord(rec materialRecord) error {
	n := len(rec.Energy)
	if n == 0 {
		return fmt.Errorf("empty energy grid")
	}
	for name, arr := range map[string][]float64{
		"matten_comp": rec.MattenComp, "matten_phot": rec.MattenPhot, "matten_rayl": rec.MattenRayl,
	} {
		if len(arr) != n {
			return fmt.Errorf("%s has %d entries, energy grid has %d", name, len(arr), n)
		}
	}
	m := len(rec.X)
	if m == 0 {
		return fmt.Errorf("empty momentum-transfer grid")
	}
	for name, arr := range map[string][]float64{
		"form_factor": rec.FormFactor, "scattering_func": rec.ScatteringFunc,
	} {
		if len(arr) != m {
			return fmt.Errorf("%s has %d entries, x grid has %d", name, len(arr), m)
		}
	}
	return nil
}
