package source

import (
	"sort"

	"github.com/dfreese/Gray-sub002/mc"
	"github.com/dfreese/Gray-sub002/vecmath"
)

// VoxelRegion samples from a 3-D grid of per-voxel activity weights,
// e.g. a PET/CT-derived activity map. Weights is flat-indexed
// x*NY*NZ + y*NZ + z.
type VoxelRegion struct {
	Origin    vecmath.Vector3
	VoxelSize vecmath.Vector3
	NX, NY, NZ int
	Weights   []float64

	cumulative []float64
	total      float64
}

// NewVoxelRegion precomputes the cumulative weight table used for
// inverse-CDF voxel selection.
func NewVoxelRegion(origin, voxelSize vecmath.Vector3, nx, ny, nz int, weights []float64) *VoxelRegion {
	r := &VoxelRegion{Origin: origin, VoxelSize: voxelSize, NX: nx, NY: ny, NZ: nz, Weights: weights}
	r.cumulative = make([]float64, len(weights))
	var acc float64
	for i, w := range weights {
		acc += w
		r.cumulative[i] = acc
	}
	r.total = acc
	return r
}

func (r *VoxelRegion) index(x, y, z int) int { return x*r.NY*r.NZ + y*r.NZ + z }

func (r *VoxelRegion) unindex(i int) (x, y, z int) {
	x = i / (r.NY * r.NZ)
	rem := i % (r.NY * r.NZ)
	y = rem / r.NZ
	z = rem % r.NZ
	return
}

func (r *VoxelRegion) SamplePoint(s *mc.Sampler) vecmath.Vector3 {
	if r.total <= 0 {
		return r.Origin
	}
	target := s.Uniform() * r.total
	idx := sort.SearchFloat64s(r.cumulative, target)
	if idx >= len(r.cumulative) {
		idx = len(r.cumulative) - 1
	}
	x, y, z := r.unindex(idx)
	return vecmath.Vector3{
		X: r.Origin.X + (float64(x)+s.Uniform())*r.VoxelSize.X,
		Y: r.Origin.Y + (float64(y)+s.Uniform())*r.VoxelSize.Y,
		Z: r.Origin.Z + (float64(z)+s.Uniform())*r.VoxelSize.Z,
	}
}

func (r *VoxelRegion) Contains(pos vecmath.Vector3) bool {
	d := pos.Sub(r.Origin)
	if d.X < 0 || d.Y < 0 || d.Z < 0 {
		return false
	}
	x := int(d.X / r.VoxelSize.X)
	y := int(d.Y / r.VoxelSize.Y)
	z := int(d.Z / r.VoxelSize.Z)
	return x < r.NX && y < r.NY && z < r.NZ
}
