package sceneio

import (
	"bytes"
	"io"
	"testing"

	"github.com/dfreese/Gray-sub002/photon"
	"github.com/dfreese/Gray-sub002/vecmath"
)

func sampleRecords() []photon.Interaction {
	return []photon.Interaction{
		{
			Kind: photon.KindPhotoelectric, Time: 1.5, Pos: vecmath.Vector3{X: 1, Y: 2, Z: 3},
			Deposit: 0.511, Color: photon.ColorBlue, DecayID: 42, SourceID: 1, MaterialID: 2, DetID: 7,
			Scatter: photon.ScatterCounts{ComptonPhantom: 1, ComptonDetector: 0, RayleighPhantom: 2, RayleighDetector: 0},
		},
		{
			Kind: photon.KindCompton, Time: 1.6, Pos: vecmath.Vector3{X: -1, Y: 0, Z: 0.25},
			Deposit: 0.2, Color: photon.ColorRed, DecayID: 43, SourceID: 0, MaterialID: 1, DetID: -1,
		},
	}
}

func TestASCIIRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewASCIIWriter(&buf, DefaultFieldMask)
	if err != nil {
		t.Fatalf("NewASCIIWriter: %v", err)
	}
	for _, rec := range sampleRecords() {
		if err := w.Write(rec); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	r, err := NewASCIIReader(&buf)
	if err != nil {
		t.Fatalf("NewASCIIReader: %v", err)
	}
	if r.Mask() != DefaultFieldMask {
		t.Errorf("mask mismatch: got %v want %v", r.Mask(), DefaultFieldMask)
	}
	for i, want := range sampleRecords() {
		got, err := r.Next()
		if err != nil {
			t.Fatalf("Next(%d): %v", i, err)
		}
		if got.DecayID != want.DecayID || got.DetID != want.DetID || got.Kind != want.Kind {
			t.Errorf("record %d: got %+v want %+v", i, got, want)
		}
		if got.Pos.X != want.Pos.X || got.Pos.Y != want.Pos.Y || got.Pos.Z != want.Pos.Z {
			t.Errorf("record %d position: got %+v want %+v", i, got.Pos, want.Pos)
		}
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("expected io.EOF after last record, got %v", err)
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	mask := DefaultFieldMask | FieldScatterComptonPhantom | FieldScatterRayleighPhantom
	w, err := NewBinaryWriter(&buf, mask)
	if err != nil {
		t.Fatalf("NewBinaryWriter: %v", err)
	}
	for _, rec := range sampleRecords() {
		if err := w.Write(rec); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	r, err := NewBinaryReader(&buf)
	if err != nil {
		t.Fatalf("NewBinaryReader: %v", err)
	}
	if r.Mask() != mask {
		t.Errorf("mask mismatch: got %v want %v", r.Mask(), mask)
	}
	for i, want := range sampleRecords() {
		got, err := r.Next()
		if err != nil {
			t.Fatalf("Next(%d): %v", i, err)
		}
		if got.DecayID != want.DecayID || got.DetID != want.DetID || got.Kind != want.Kind {
			t.Errorf("record %d: got %+v want %+v", i, got, want)
		}
		if got.Scatter.ComptonPhantom != want.Scatter.ComptonPhantom {
			t.Errorf("record %d scatter: got %+v want %+v", i, got.Scatter, want.Scatter)
		}
		// position round-trips through float32, so allow that precision loss.
		if diff := got.Pos.X - want.Pos.X; diff > 1e-5 || diff < -1e-5 {
			t.Errorf("record %d position.X: got %v want %v", i, got.Pos.X, want.Pos.X)
		}
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("expected io.EOF after last record, got %v", err)
	}
}

func TestFieldMaskCarriesXrayFluorescenceAndSensitiveMat(t *testing.T) {
	mask := FieldTime | FieldDetID | FieldXrayFluorescence | FieldSensitiveMat
	recs := []photon.Interaction{
		{Kind: photon.KindXrayEscape, Time: 1, DetID: 3, Scatter: photon.ScatterCounts{XrayFluorescence: 2}},
		{Kind: photon.KindPhotoelectric, Time: 2, DetID: -1},
	}

	var buf bytes.Buffer
	w, err := NewASCIIWriter(&buf, mask)
	if err != nil {
		t.Fatalf("NewASCIIWriter: %v", err)
	}
	for _, rec := range recs {
		if err := w.Write(rec); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	r, err := NewASCIIReader(&buf)
	if err != nil {
		t.Fatalf("NewASCIIReader: %v", err)
	}
	for i, want := range recs {
		got, err := r.Next()
		if err != nil {
			t.Fatalf("Next(%d): %v", i, err)
		}
		if got.Scatter.XrayFluorescence != want.Scatter.XrayFluorescence {
			t.Errorf("record %d: xray fluorescence count got %d want %d", i, got.Scatter.XrayFluorescence, want.Scatter.XrayFluorescence)
		}
		if got.DetID != want.DetID {
			t.Errorf("record %d: det id got %d want %d", i, got.DetID, want.DetID)
		}
	}
}

func TestFieldMaskSensitiveMatWithoutDetID(t *testing.T) {
	mask := FieldTime | FieldSensitiveMat
	recs := []photon.Interaction{
		{Kind: photon.KindPhotoelectric, Time: 1, DetID: 5},
		{Kind: photon.KindCompton, Time: 2, DetID: -1},
	}

	var buf bytes.Buffer
	w, err := NewBinaryWriter(&buf, mask)
	if err != nil {
		t.Fatalf("NewBinaryWriter: %v", err)
	}
	for _, rec := range recs {
		if err := w.Write(rec); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	r, err := NewBinaryReader(&buf)
	if err != nil {
		t.Fatalf("NewBinaryReader: %v", err)
	}
	want := []bool{true, false}
	for i := range recs {
		got, err := r.Next()
		if err != nil {
			t.Fatalf("Next(%d): %v", i, err)
		}
		if sensitive := got.DetID >= 0; sensitive != want[i] {
			t.Errorf("record %d: sensitive got %v want %v", i, sensitive, want[i])
		}
	}
}

func TestVoxelSourceRoundTrip(t *testing.T) {
	v := VoxelSource{NX: 2, NY: 3, NZ: 2, Activity: make([][][]float32, 2)}
	n := float32(0)
	for x := range v.Activity {
		v.Activity[x] = make([][]float32, 3)
		for y := range v.Activity[x] {
			v.Activity[x][y] = make([]float32, 2)
			for z := range v.Activity[x][y] {
				v.Activity[x][y][z] = n
				n++
			}
		}
	}

	var buf bytes.Buffer
	if err := WriteVoxelSource(&buf, v); err != nil {
		t.Fatalf("WriteVoxelSource: %v", err)
	}
	got, err := ReadVoxelSource(&buf)
	if err != nil {
		t.Fatalf("ReadVoxelSource: %v", err)
	}
	if got.NX != v.NX || got.NY != v.NY || got.NZ != v.NZ {
		t.Fatalf("dims mismatch: got %d/%d/%d want %d/%d/%d", got.NX, got.NY, got.NZ, v.NX, v.NY, v.NZ)
	}
	for x := range v.Activity {
		for y := range v.Activity[x] {
			for z := range v.Activity[x][y] {
				if got.Activity[x][y][z] != v.Activity[x][y][z] {
					t.Errorf("voxel[%d][%d][%d]: got %v want %v", x, y, z, got.Activity[x][y][z], v.Activity[x][y][z])
				}
			}
		}
	}
}
