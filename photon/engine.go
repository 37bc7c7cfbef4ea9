package photon

import (
	"math"

	"github.com/dfreese/Gray-sub002/geom"
	"github.com/dfreese/Gray-sub002/material"
	"github.com/dfreese/Gray-sub002/vecmath"
)

// Epsilon is the tiny forward offset added after crossing a face, to
// avoid re-hitting the same boundary on the next k-d tree query.
const Epsilon = 1e-10

// DefaultMaxTraceDepth bounds the transport loop against pathological
// geometries (self-intersecting faces, mismatched stacks).
const DefaultMaxTraceDepth = 500

// World is everything the transport engine needs from the scene: a
// nearest-hit query over the k-d tree, and a lookup from a primitive's
// material reference to its cross-section data.
type World interface {
	Intersect(origin, dir vecmath.Vector3, maxDist float64) (geom.HitRecord, bool)
	MaterialAt(ref geom.MaterialRef) *material.Material
}

// Sampler is the single uniform-random primitive the engine needs; see
// package mc for the production implementation.
type Sampler interface {
	Uniform() float64
}

// Engine runs the transport loop described by TracePhoton/TraceSources.
type Engine struct {
	World World
	Rand  Sampler

	MaxTraceDepth int

	LogNuclearDecays  bool
	LogNonsensitive   bool
	LogNoInteractions bool
	LogErrors         bool

	stats TraceStats
}

// TraceStats mirrors the interaction and error counters accumulated
// across every photon an Engine has traced.
type TraceStats struct {
	Events, Decays, Photons int64

	NoInteraction int64
	Photoelectric int64
	XrayEscape    int64
	Compton       int64
	Rayleigh      int64

	PhotoelectricSensitive int64
	XrayEscapeSensitive    int64
	ComptonSensitive       int64
	RayleighSensitive      int64

	Error int64
}

func (e *Engine) Stats() TraceStats { return e.stats }

// isotropicDir draws a direction uniform on the unit sphere, for the
// x-ray emitted when a photoelectric absorption escapes as shell
// fluorescence instead of being fully absorbed.
func isotropicDir(s Sampler) vecmath.Vector3 {
	cost := 2*s.Uniform() - 1
	phi := 2 * math.Pi * s.Uniform()
	sint := math.Sqrt(1 - cost*cost)
	return vecmath.Vector3{X: sint * math.Cos(phi), Y: sint * math.Sin(phi), Z: cost}
}

func (e *Engine) maxDepth() int {
	if e.MaxTraceDepth == 0 {
		return DefaultMaxTraceDepth
	}
	return e.MaxTraceDepth
}

// TracePhoton advances photon p through World until it is absorbed,
// leaves the scene, or the trace depth cap is reached, appending every
// Interaction it produces to out and returning the extended slice.
func (e *Engine) TracePhoton(p *Photon, out []Interaction) []Interaction {
	// Path lengths are in cm; Photon.Time is in s.
	const speedOfLightCmPerS = 2.99792458e10
	for depth := 0; depth < e.maxDepth(); depth++ {
		if p.Stack.Empty() {
			if e.LogErrors {
				out = append(out, errorEmpty(p))
			}
			e.stats.Error++
			return out
		}
		mat := p.Stack.Top()

		hit, ok := e.World.Intersect(p.Pos, p.Dir, math.Inf(1))
		if !ok {
			e.stats.NoInteraction++
			if e.LogNoInteractions {
				out = append(out, noInteraction(p, mat))
			}
			return out
		}

		lens := mat.AttenuationAt(p.Energy)
		d := -math.Log(e.Rand.Uniform()) / lens.Total

		isSensitive := p.DetID >= 0
		logInteract := (!isSensitive && e.LogNonsensitive) || isSensitive

		if d >= hit.T {
			p.Pos = p.Pos.Add(p.Dir.Scale(hit.T))
			p.Time += hit.T / speedOfLightCmPerS

			if hit.FrontFace {
				p.DetID = hit.DetectorID
				p.Stack = p.Stack.Push(e.World.MaterialAt(hit.MaterialF))
			} else {
				popped := p.Stack.Top()
				hitMat := e.World.MaterialAt(hit.MaterialB)
				if popped != hitMat {
					if e.LogErrors {
						out = append(out, errorTraceDepth(p, mat))
					}
					e.stats.Error++
					return out
				}
				p.DetID = -1
				p.Stack = p.Stack.Pop()
			}
			p.Pos = p.Pos.Add(p.Dir.Scale(Epsilon))
			continue
		}

		p.Pos = p.Pos.Add(p.Dir.Scale(d))
		p.Time += d / speedOfLightCmPerS

		kind := mat.SelectInteraction(e.Rand.Uniform()*lens.Total, lens)
		switch kind {
		case material.Photoelectric:
			xrayEnergy, escapes := mat.XrayEscape(p.Energy, e.Rand.Uniform(), e.Rand.Uniform())
			if !escapes {
				if logInteract {
					out = append(out, photoelectric(p, mat))
				}
				e.stats.Photoelectric++
				if isSensitive {
					e.stats.PhotoelectricSensitive++
				}
				p.Energy = 0
				return out
			}
			deposit := p.Energy - xrayEnergy
			if logInteract {
				out = append(out, xrayEscapeRecord(p, deposit, mat))
			}
			e.stats.XrayEscape++
			if isSensitive {
				e.stats.XrayEscapeSensitive++
			}
			p.Energy = xrayEnergy
			p.Dir = isotropicDir(e.Rand)

		case material.Compton:
			newDir, eOut := mat.ComptonScatter(p.Dir, p.Energy, e.Rand.Uniform(), e.Rand.Uniform())
			deposit := p.Energy - eOut
			if isSensitive {
				p.Scatter.ComptonDetector++
			} else {
				p.Scatter.ComptonPhantom++
			}
			if logInteract {
				out = append(out, comptonRecord(p, deposit, mat))
			}
			e.stats.Compton++
			if isSensitive {
				e.stats.ComptonSensitive++
			}
			p.Dir = newDir
			p.Energy = eOut

		case material.Rayleigh:
			newDir := mat.RayleighScatter(p.Dir, p.Energy, e.Rand.Uniform(), e.Rand.Uniform())
			if isSensitive {
				p.Scatter.RayleighDetector++
			} else {
				p.Scatter.RayleighPhantom++
			}
			if logInteract {
				out = append(out, rayleighRecord(p, mat))
			}
			e.stats.Rayleigh++
			if isSensitive {
				e.stats.RayleighSensitive++
			}
			p.Dir = newDir
		}
	}

	if e.LogErrors {
		out = append(out, errorTraceDepth(p, p.Stack.Top()))
	}
	e.stats.Error++
	return out
}

// TraceSources drains decay, then photon, events produced by next until
// it reports no more are available or out grows past softMaxInteractions
// (a soft cap: the in-flight decay's photons are always fully traced).
func (e *Engine) TraceSources(next func() (*Decay, bool), softMaxInteractions int, out []Interaction) []Interaction {
	for {
		decay, ok := next()
		e.stats.Events++
		if !ok {
			return out
		}
		e.stats.Decays++
		if e.LogNuclearDecays {
			out = append(out, NuclearDecayRecord(decay.ID, decay.SourceID, decay.Time, decay.Pos, decay.Stack.Top()))
		}
		for i := range decay.Photons {
			e.stats.Photons++
			ph := &decay.Photons[i]
			ph.Stack = decay.Stack.Clone()
			out = e.TracePhoton(ph, out)
		}

		if softMaxInteractions > 0 && len(out) >= softMaxInteractions {
			return out
		}
	}
}

// Decay is a single nuclear decay event: its emission time/position and
// the photons it produced, sharing the emitting source's material stack
// as their initial transport state.
type Decay struct {
	ID       int64
	SourceID int
	Time     float64
	Pos      vecmath.Vector3
	Photons  []Photon
	Stack    MaterialStack
}
