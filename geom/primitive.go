// Package geom implements the pluggable shape primitives that make up
// a Gray scene: triangles, parallelograms, spheres, cylinders, cones
// and ellipsoids, each exposing the small ray-intersection surface the
// k-d tree and transport engine need.
package geom

import "github.com/dfreese/Gray-sub002/vecmath"

// MaterialRef is an opaque handle into the scene's material arena.
// geom never depends on the material package directly: primitives carry
// indices, and the scene resolves them. This keeps the geometry layer
// free of any dependency on cross-section data.
type MaterialRef int

// NoMaterial marks an unset material reference.
const NoMaterial MaterialRef = -1

// HitRecord describes a ray/primitive intersection.
type HitRecord struct {
	T         float64
	Point     vecmath.Vector3
	Normal    vecmath.Vector3 // unit normal at Point
	FrontFace bool            // true if Normal points against the ray
	MaterialF MaterialRef     // front-face material
	MaterialB MaterialRef     // back-face material
	DetectorID int
	SourceID   int
}

// Material returns the material that applies on the side the ray hit.
func (h HitRecord) Material() MaterialRef {
	if h.FrontFace {
		return h.MaterialF
	}
	return h.MaterialB
}

// Primitive is a single viewable shape in the scene.
type Primitive interface {
	// FindIntersection returns the nearest hit along the ray
	// (origin, dir) with 0 < t <= maxDist, or ok=false if none.
	FindIntersection(origin, dir vecmath.Vector3, maxDist float64) (HitRecord, bool)

	// CalcAABB returns the tight axis-aligned bound of the primitive.
	CalcAABB() vecmath.AABB

	// CalcExtentsInBox returns the primitive's CalcAABB bound intersected
	// with box, or ok=false if that intersection is empty. The result is
	// not clipped against the primitive's own surface, so it can be larger
	// than the part of the primitive inside box, and ok=true does not
	// guarantee that the primitive itself reaches into box.
	CalcExtentsInBox(box vecmath.AABB) (vecmath.AABB, bool)

	// Materials returns the primitive's front- and back-face material
	// references, for validation against a scene's material arena.
	Materials() (front, back MaterialRef)
}

// PartialDeriver is implemented by primitives that can report surface
// tangent vectors at a hit point. Unused by the core transport engine;
// retained for parity with viewer/shading consumers outside this module.
type PartialDeriver interface {
	CalcPartials(h HitRecord) (dPdu, dPdv vecmath.Vector3)
}
