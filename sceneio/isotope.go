package sceneio

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dfreese/Gray-sub002/isotope"
)

// isotopeRecord is the on-disk JSON shape for one isotope definition.
type isotopeRecord struct {
	HalfLifeS            float64 `json:"half_life_s"`
	PositronEmissProb    float64 `json:"positron_emiss_prob"`
	PromptGammaEnergyMeV float64 `json:"prompt_gamma_energy_mev"`
	AcolinearityDegFWHM  float64 `json:"acolinearity_deg_fwhm"`
	Model                string  `json:"model"`
	FWHMMM               float64 `json:"fwhm_mm"`
	MaxRangeMM           float64 `json:"max_range_mm"`
	ProbC                float64 `json:"prob_c"`
	K1                   float64 `json:"k1"`
	K2                   float64 `json:"k2"`
}

// LoadIsotopes parses an isotope definition file keyed by isotope name.
func LoadIsotopes(r io.Reader) (map[string]isotope.Isotope, error) {
	var recs map[string]isotopeRecord
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, fmt.Errorf("sceneio: decoding isotope file: %w", err)
	}

	isotopes := make(map[string]isotope.Isotope, len(recs))
	for name, rec := range recs {
		rangeModel, err := buildRangeModel(rec)
		if err != nil {
			return nil, fmt.Errorf("sceneio: isotope %q: %w", name, err)
		}
		isotopes[name] = &isotope.PositronIsotope{
			HalfLifeS:            rec.HalfLifeS,
			PositronEmissionProb: rec.PositronEmissProb,
			PromptGammaEnergyMeV: rec.PromptGammaEnergyMeV,
			AcolinearityFWHMDeg:  rec.AcolinearityDegFWHM,
			Range:                rangeModel,
		}
	}
	return isotopes, nil
}

func buildRangeModel(rec isotopeRecord) (isotope.RangeModel, error) {
	switch rec.Model {
	case "", "none":
		return isotope.NoRange{}, nil
	case "gauss":
		return isotope.GaussianRange{FWHMMM: rec.FWHMMM, MaxRangeMM: rec.MaxRangeMM}, nil
	case "levin_exp":
		return isotope.LevinRange{C: rec.ProbC, K1: rec.K1, K2: rec.K2, MaxRangeMM: rec.MaxRangeMM}, nil
	default:
		return nil, fmt.Errorf("unknown positron range model %q", rec.Model)
	}
}
