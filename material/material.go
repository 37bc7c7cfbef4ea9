// Package material implements per-material cross-section tables and the
// sampling rules for selecting and carrying out a photon interaction.
package material

import "math"

// MaterialRef mirrors geom.MaterialRef so callers can index Scene.Materials
// without importing geom. The scene package is responsible for keeping the
// two numeric spaces aligned.
type MaterialRef int

// Electron rest mass energy, MeV.
const ElectronRestMassMeV = 0.5109989500

// Material holds one material's tabulated cross-sections and scattering
// data, as loaded from a material file.
type Material struct {
	Index       int
	Name        string
	Density     float64 // g/cm^3
	Sensitive   bool    // detector-membership material
	Interactive bool    // false only for the world's default medium

	// Cross-section grid: energy in MeV, increasing. comp/phot/rayl are
	// mass attenuation coefficients in cm^2/g, aligned to energy.
	energy            []float64
	logEnergy         []float64
	comp, phot, rayl  []float64
	logComp, logPhot, logRayl []float64

	// Momentum-transfer grid for the Compton incoherent scattering
	// function S(x, Z) and Rayleigh form factor F(x, Z).
	x              []float64
	scatteringFunc []float64
	formFactor     []float64

	compton  *scatterTable
	rayleigh *scatterTable

	cache attenCache

	// Shells is the material's optional photoelectric shell-fluorescence
	// table. Nil means no shell data: every photoelectric absorption is
	// terminal, matching GammaStats with no escape table loaded.
	Shells []Shell
}

// Shell is one ionizable electron shell's photoelectric fluorescence
// data. A photoelectric absorption can only ionize shells whose binding
// energy is below the incident photon's energy; among those, the shell
// ionized is chosen proportional to SelectionWeight, and its vacancy is
// then filled either by a characteristic x-ray (escape, with probability
// FluorescenceYield) or an Auger electron (full local absorption).
type Shell struct {
	BindingEnergy     float64 // MeV
	SelectionWeight   float64
	FluorescenceYield float64
}

// XrayEscape samples the shell-fluorescence outcome of a photoelectric
// absorption at photonEnergy. selectRand picks the ionized shell among
// those energetically reachable; augerRand decides fluorescence vs.
// Auger emission. escapes is false (full absorption) whenever no shell
// is reachable, including when m.Shells is empty.
func (m *Material) XrayEscape(photonEnergy, selectRand, augerRand float64) (xrayEnergy float64, escapes bool) {
	var totalWeight float64
	reachable := make([]Shell, 0, len(m.Shells))
	for _, sh := range m.Shells {
		if photonEnergy > sh.BindingEnergy {
			reachable = append(reachable, sh)
			totalWeight += sh.SelectionWeight
		}
	}
	if len(reachable) == 0 || totalWeight <= 0 {
		return 0, false
	}

	target := selectRand * totalWeight
	chosen := reachable[len(reachable)-1]
	for _, sh := range reachable {
		target -= sh.SelectionWeight
		if target <= 0 {
			chosen = sh
			break
		}
	}
	if augerRand < chosen.FluorescenceYield {
		return chosen.BindingEnergy, true
	}
	return 0, false
}

// attenCache is the single-entry memoisation cache keyed by energy.
type attenCache struct {
	valid bool
	e     float64
	lens  AttenLengths
}

// AttenLengths holds the linear attenuation coefficients (1/cm) for each
// interaction channel at a given energy. Despite the name (kept in step
// with the photoelectric/compton/rayleigh/total vocabulary used for
// interaction selection), these are coefficients, not lengths: Total is
// their sum, and free flight samples d = -ln(U)/Total.
type AttenLengths struct {
	Photoelectric float64
	Compton       float64
	Rayleigh      float64
	Total         float64
}

// NewMaterial builds a Material from tabulated data. The three energy
// grid arrays (comp/phot/rayl) and the momentum-transfer arrays
// (scatteringFunc/formFactor against x) must each be the same length as
// their companion grid and monotonically increasing in the grid variable.
func NewMaterial(index int, name string, density float64, sensitive, interactive bool,
	energy, comp, phot, rayl []float64,
	x, scatteringFunc, formFactor []float64) *Material {

	m := &Material{
		Index: index, Name: name, Density: density,
		Sensitive: sensitive, Interactive: interactive,
		energy: energy, comp: comp, phot: phot, rayl: rayl,
		x: x, scatteringFunc: scatteringFunc, formFactor: formFactor,
	}
	m.logEnergy = logAll(energy)
	m.logComp = logAll(comp)
	m.logPhot = logAll(phot)
	m.logRayl = logAll(rayl)

	m.compton = buildScatterTable(klineNishinaEnergyGrid(), cosThetaGrid(), func(costheta, e float64) float64 {
		return dKleinNishina(costheta, e) * m.interp(m.x, m.scatteringFunc, xTransfer(e, costheta))
	})
	m.rayleigh = buildScatterTable(klineNishinaEnergyGrid(), cosThetaGrid(), func(costheta, e float64) float64 {
		f := m.interp(m.x, m.formFactor, xTransfer(e, costheta))
		return dThomson(costheta) * f * f
	})
	return m
}

func logAll(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		if x > 0 {
			out[i] = math.Log(x)
		} else {
			out[i] = math.Inf(-1)
		}
	}
	return out
}

// AttenuationAt returns the linear attenuation coefficients at energy e
// (MeV), log-log interpolated across the material's tabulated grid and
// scaled by density. Memoises the most recently requested energy.
func (m *Material) AttenuationAt(e float64) AttenLengths {
	if m.cache.valid && m.cache.e == e {
		return m.cache.lens
	}
	photMass := logLogInterp(m.energy, m.logEnergy, m.phot, m.logPhot, e)
	compMass := logLogInterp(m.energy, m.logEnergy, m.comp, m.logComp, e)
	raylMass := logLogInterp(m.energy, m.logEnergy, m.rayl, m.logRayl, e)

	lens := AttenLengths{
		Photoelectric: photMass * m.Density,
		Compton:       compMass * m.Density,
		Rayleigh:      raylMass * m.Density,
	}
	lens.Total = lens.Photoelectric + lens.Compton + lens.Rayleigh
	m.cache = attenCache{valid: true, e: e, lens: lens}
	return lens
}

// InteractionKind names the sampled interaction channel.
type InteractionKind int

const (
	Photoelectric InteractionKind = iota
	Compton
	Rayleigh
)

// SelectInteraction samples the interaction channel given a uniform draw
// u in [0, lens.Total) and the attenuation coefficients at the current
// energy.
func (m *Material) SelectInteraction(u float64, lens AttenLengths) InteractionKind {
	if u < lens.Photoelectric {
		return Photoelectric
	}
	if u < lens.Photoelectric+lens.Compton {
		return Compton
	}
	return Rayleigh
}

func (m *Material) interp(xs, ys []float64, xv float64) float64 {
	return interpolate(xs, ys, xv)
}
