package sceneio

import (
	"encoding/binary"
	"fmt"
	"io"
)

const voxelVersion uint32 = 1

// VoxelSource is a dense activity grid indexed [x][y][z].
type VoxelSource struct {
	NX, NY, NZ int
	Activity   [][][]float32
}

// WriteVoxelSource writes the 20-byte header (magic, version, dims)
// followed by NX*NY*NZ float32 values in on-disk [x][z][y] order.
func WriteVoxelSource(w io.Writer, v VoxelSource) error {
	if err := binary.Write(w, binaryByteOrder, binaryMagic); err != nil {
		return fmt.Errorf("sceneio: writing voxel magic: %w", err)
	}
	if err := binary.Write(w, binaryByteOrder, voxelVersion); err != nil {
		return fmt.Errorf("sceneio: writing voxel version: %w", err)
	}
	dims := [3]int32{int32(v.NX), int32(v.NY), int32(v.NZ)}
	if err := binary.Write(w, binaryByteOrder, dims); err != nil {
		return fmt.Errorf("sceneio: writing voxel dims: %w", err)
	}
	for x := 0; x < v.NX; x++ {
		for z := 0; z < v.NZ; z++ {
			for y := 0; y < v.NY; y++ {
				if err := binary.Write(w, binaryByteOrder, v.Activity[x][y][z]); err != nil {
					return fmt.Errorf("sceneio: writing voxel data: %w", err)
				}
			}
		}
	}
	return nil
}

// ReadVoxelSource reads a file written by WriteVoxelSource, re-indexing
// the on-disk [x][z][y] layout back to [x][y][z].
func ReadVoxelSource(r io.Reader) (VoxelSource, error) {
	var magic, version uint32
	if err := binary.Read(r, binaryByteOrder, &magic); err != nil {
		return VoxelSource{}, fmt.Errorf("sceneio: reading voxel magic: %w", err)
	}
	if magic != binaryMagic {
		return VoxelSource{}, fmt.Errorf("sceneio: bad voxel magic %#x", magic)
	}
	if err := binary.Read(r, binaryByteOrder, &version); err != nil {
		return VoxelSource{}, fmt.Errorf("sceneio: reading voxel version: %w", err)
	}
	if version != voxelVersion {
		return VoxelSource{}, fmt.Errorf("sceneio: unsupported voxel version %d", version)
	}
	var dims [3]int32
	if err := binary.Read(r, binaryByteOrder, &dims); err != nil {
		return VoxelSource{}, fmt.Errorf("sceneio: reading voxel dims: %w", err)
	}
	nx, ny, nz := int(dims[0]), int(dims[1]), int(dims[2])
	v := VoxelSource{NX: nx, NY: ny, NZ: nz, Activity: make([][][]float32, nx)}
	for x := range v.Activity {
		v.Activity[x] = make([][]float32, ny)
		for y := range v.Activity[x] {
			v.Activity[x][y] = make([]float32, nz)
		}
	}
	for x := 0; x < nx; x++ {
		for z := 0; z < nz; z++ {
			for y := 0; y < ny; y++ {
				var val float32
				if err := binary.Read(r, binaryByteOrder, &val); err != nil {
					return VoxelSource{}, fmt.Errorf("sceneio: reading voxel data: %w", err)
				}
				v.Activity[x][y][z] = val
			}
		}
	}
	return v, nil
}
