// Package scene holds the immutable arena of primitives and materials
// that the transport engine queries: a fixed-at-construction scene
// graph indexed by a k-d tree, built once and never mutated afterward.
package scene

import (
	"fmt"

	"github.com/dfreese/Gray-sub002/geom"
	"github.com/dfreese/Gray-sub002/kdtree"
	"github.com/dfreese/Gray-sub002/material"
	"github.com/dfreese/Gray-sub002/vecmath"
)

// Scene is an arena of primitives and materials: ordered slices indexed
// by integer handle, plus a k-d tree over the primitives. Every
// primitive's material indices are valid indices into Materials.
type Scene struct {
	Primitives []geom.Primitive
	Materials  []*material.Material
	// DefaultMaterial fills the unbounded complement of every solid; the
	// bottom of every photon's material stack.
	DefaultMaterial *material.Material

	tree *kdtree.Tree
}

// Builder accumulates primitives and materials before a single call to
// Build freezes them into a Scene.
type Builder struct {
	primitives []geom.Primitive
	materials  []*material.Material
	defaultMat *material.Material
}

func NewBuilder() *Builder { return &Builder{} }

func (b *Builder) AddPrimitive(p geom.Primitive) { b.primitives = append(b.primitives, p) }
func (b *Builder) AddMaterial(m *material.Material) { b.materials = append(b.materials, m) }
func (b *Builder) SetDefaultMaterial(m *material.Material) { b.defaultMat = m }

// Build validates every primitive's material references against the
// accumulated material list, constructs the k-d tree, and returns the
// immutable Scene.
func (b *Builder) Build(opts kdtree.BuildOptions) (*Scene, error) {
	if b.defaultMat == nil {
		return nil, fmt.Errorf("scene: no default material set")
	}
	for i, p := range b.primitives {
		if err := validateMaterialRefs(p, len(b.materials)); err != nil {
			return nil, fmt.Errorf("scene: primitive %d: %w", i, err)
		}
	}

	s := &Scene{Primitives: b.primitives, Materials: b.materials, DefaultMaterial: b.defaultMat}

	extent := func(i int) vecmath.AABB { return s.Primitives[i].CalcAABB() }
	extentInBox := func(i int, box vecmath.AABB) (vecmath.AABB, bool) {
		return s.Primitives[i].CalcExtentsInBox(box)
	}
	s.tree = kdtree.Build(len(s.Primitives), extent, extentInBox, opts)
	return s, nil
}

// validateMaterialRefs checks that a primitive's front and back material
// references are either geom.NoMaterial or a valid index into a material
// arena of size n.
func validateMaterialRefs(p geom.Primitive, n int) error {
	front, back := p.Materials()
	for _, ref := range [2]geom.MaterialRef{front, back} {
		if ref == geom.NoMaterial {
			continue
		}
		if int(ref) < 0 || int(ref) >= n {
			return fmt.Errorf("material ref %d out of range [0,%d)", ref, n)
		}
	}
	return nil
}

// Intersect finds the nearest primitive hit along (origin, dir) within
// [0, maxDist], satisfying photon.World.
func (s *Scene) Intersect(origin, dir vecmath.Vector3, maxDist float64) (geom.HitRecord, bool) {
	var best geom.HitRecord
	var found bool

	hit := func(i int, o, d vecmath.Vector3, currentMax float64) (float64, bool) {
		rec, ok := s.Primitives[i].FindIntersection(o, d, currentMax)
		if !ok {
			return 0, false
		}
		return rec.T, true
	}

	idx, _ := s.tree.Traverse(origin, dir, maxDist, hit)
	if idx < 0 {
		return geom.HitRecord{}, false
	}
	best, found = s.Primitives[idx].FindIntersection(origin, dir, maxDist)
	return best, found
}

// MaterialAt resolves a primitive face's material reference to its
// Material, satisfying photon.World. geom.NoMaterial resolves to the
// scene's default material.
func (s *Scene) MaterialAt(ref geom.MaterialRef) *material.Material {
	if ref == geom.NoMaterial {
		return s.DefaultMaterial
	}
	if int(ref) < 0 || int(ref) >= len(s.Materials) {
		return s.DefaultMaterial
	}
	return s.Materials[ref]
}

// Bound returns the scene's overall bounding box.
func (s *Scene) Bound() vecmath.AABB { return s.tree.Bound() }

// Diameter is the scene's bounding-box space diagonal, used by the DAQ
// pipeline to size its mandatory leading sort stage's window.
func (s *Scene) Diameter() float64 { return s.Bound().Diagonal() }
