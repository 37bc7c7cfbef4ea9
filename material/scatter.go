package material

import (
	"math"

	"github.com/dfreese/Gray-sub002/vecmath"
)

// klineNishinaEnergyGrid is the fixed set of energies (MeV) the angular
// scattering tables are built over. Chosen densely enough below 200 keV,
// where Klein-Nishina curvature is sharpest, to keep linear-interpolation
// error under 0.5%.
func klineNishinaEnergyGrid() []float64 {
	return []float64{0.0, 0.010, 0.030, 0.050, 0.100, 0.200, 0.300, 0.400,
		0.500, 0.600, 0.700, 0.900, 1.100, 1.300, 1.500}
}

// cosThetaGrid returns 300 samples spaced linearly in cos(theta) over
// [-1, 1]. In theta they are sparsest near 0 and pi and densest near
// pi/2.
func cosThetaGrid() []float64 {
	const n = 300
	out := make([]float64, n)
	step := 2.0 / float64(n-1)
	for i := range out {
		out[i] = -1 + float64(i)*step
	}
	return out
}

// inverseHCAngstromPerMeV converts an energy in MeV and a half-angle sine
// into the momentum-transfer variable x (1/Angstrom), using hc = 12.398
// keV*Angstrom.
const inverseHCAngstromPerMeV = 1000.0 / 12.398

func xTransfer(eMeV, costheta float64) float64 {
	sinHalf := math.Sqrt(math.Max(0, (1-costheta)/2))
	return eMeV * inverseHCAngstromPerMeV * sinHalf
}

// dKleinNishina is the (unnormalised) Klein-Nishina differential cross
// section with respect to cos theta at incident energy e (MeV).
func dKleinNishina(costheta, e float64) float64 {
	eRatio := 1 / (1 + (e/ElectronRestMassMeV)*(1-costheta))
	sin2 := 1 - costheta*costheta
	return eRatio * eRatio * (eRatio + 1/eRatio - sin2)
}

// dThomson is the (unnormalised) Thomson differential cross section with
// respect to cos theta, the energy-independent baseline that Rayleigh
// scattering's form-factor weighting is applied to.
func dThomson(costheta float64) float64 {
	return 1 + costheta*costheta
}

// scatterTable holds, for each energy row in a fixed energy grid, a
// cumulative distribution over a fixed cos-theta grid.
type scatterTable struct {
	energies []float64
	costheta []float64
	cdfs     [][]float64
}

func buildScatterTable(energies, costheta []float64, weightedDsigma func(costheta, e float64) float64) *scatterTable {
	t := &scatterTable{energies: energies, costheta: costheta}
	t.cdfs = make([][]float64, len(energies))
	for i, e := range energies {
		pdf := make([]float64, len(costheta))
		for j, c := range costheta {
			pdf[j] = weightedDsigma(c, e)
		}
		t.cdfs[i] = pdfToCDF(costheta, pdf)
	}
	return t
}

func trapZ(x, y []float64) []float64 {
	result := make([]float64, len(y))
	for i := 1; i < len(x); i++ {
		result[i] = result[i-1] + (y[i]+y[i-1])/2*(x[i]-x[i-1])
	}
	return result
}

func pdfToCDF(x, pdf []float64) []float64 {
	cdf := trapZ(x, pdf)
	last := cdf[len(cdf)-1]
	if last == 0 {
		return cdf
	}
	for i := range cdf {
		cdf[i] /= last
	}
	return cdf
}

// sampleRow inverts row's CDF at uniform draw u, returning a cos theta
// value via linear interpolation between bracketing grid points.
func (t *scatterTable) sampleRow(row []float64, u float64) float64 {
	idx := upperBound(row, u)
	if idx == 0 {
		return t.costheta[0]
	}
	if idx >= len(t.costheta) {
		return t.costheta[len(t.costheta)-1]
	}
	delta := row[idx] - row[idx-1]
	if delta == 0 {
		return t.costheta[idx]
	}
	alpha := (u - row[idx-1]) / delta
	return (1-alpha)*t.costheta[idx-1] + alpha*t.costheta[idx]
}

// sample draws cos theta at energy e given a uniform random u, blending
// the two nearest energy rows' inverse-CDF samples by e's position
// between them.
func (t *scatterTable) sample(e, u float64) float64 {
	idx := upperBound(t.energies, e)
	if idx == 0 {
		return t.sampleRow(t.cdfs[0], u)
	}
	if idx >= len(t.energies) {
		return t.sampleRow(t.cdfs[len(t.cdfs)-1], u)
	}
	lo, hi := t.cdfs[idx-1], t.cdfs[idx]
	delta := t.energies[idx] - t.energies[idx-1]
	alpha := (e - t.energies[idx-1]) / delta
	cLo := t.sampleRow(lo, u)
	cHi := t.sampleRow(hi, u)
	return (1-alpha)*cLo + alpha*cHi
}

// ComptonScatter samples a Compton interaction's outgoing direction and
// energy given the incoming direction dir and energy e, using uniform
// draws uCos (cos theta inversion) and uPhi (azimuth).
func (m *Material) ComptonScatter(dir vecmath.Vector3, e, uCos, uPhi float64) (vecmath.Vector3, float64) {
	costheta := m.compton.sample(e, uCos)
	theta := math.Acos(clamp(costheta, -1, 1))
	phi := 2 * math.Pi * uPhi
	newDir := vecmath.Deflect(dir, theta, phi)
	eOut := e / (1 + (e/ElectronRestMassMeV)*(1-costheta))
	return newDir, eOut
}

// RayleighScatter samples a Rayleigh interaction's outgoing direction
// given the incoming direction dir and energy e (unchanged on exit).
func (m *Material) RayleighScatter(dir vecmath.Vector3, e, uCos, uPhi float64) vecmath.Vector3 {
	costheta := m.rayleigh.sample(e, uCos)
	theta := math.Acos(clamp(costheta, -1, 1))
	phi := 2 * math.Pi * uPhi
	return vecmath.Deflect(dir, theta, phi)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
