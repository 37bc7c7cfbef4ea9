package sceneio

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dfreese/Gray-sub002/photon"
)

const (
	binaryMagic   uint32 = 0xFFFB
	binaryVersion uint32 = 1
)

var binaryByteOrder = binary.LittleEndian

// fieldSize returns the on-disk byte width of one field: 8 for the
// double-precision time/energy fields, 12 for pos (three float32
// components), 4 for everything else (int32 ids, scatter counters,
// and the sensitive_mat flag).
func fieldSize(f FieldMask) int {
	switch f {
	case FieldTime, FieldEnergy:
		return 8
	case FieldPos:
		return 12
	default:
		return 4
	}
}

func recordSize(mask FieldMask) int {
	size := 0
	for _, f := range fieldNames {
		if mask&f.mask != 0 {
			size += fieldSize(f.mask)
		}
	}
	return size
}

// BinaryWriter writes Interaction records in the fixed-layout binary
// format: a 4-byte magic, 4-byte version, 4-byte per-event size, then
// 15 4-byte flag words (one per possible field, in canonical order),
// followed by one fixed-size record per event. time and energy are
// stored as float64; position as float32; every id and scatter
// counter as int32.
type BinaryWriter struct {
	w    io.Writer
	mask FieldMask
	size uint32
}

func NewBinaryWriter(w io.Writer, mask FieldMask) (*BinaryWriter, error) {
	if err := binary.Write(w, binaryByteOrder, binaryMagic); err != nil {
		return nil, fmt.Errorf("sceneio: writing binary magic: %w", err)
	}
	if err := binary.Write(w, binaryByteOrder, binaryVersion); err != nil {
		return nil, fmt.Errorf("sceneio: writing binary version: %w", err)
	}
	size := uint32(recordSize(mask))
	if err := binary.Write(w, binaryByteOrder, size); err != nil {
		return nil, fmt.Errorf("sceneio: writing binary record size: %w", err)
	}
	for _, f := range fieldNames {
		var flag int32
		if mask&f.mask != 0 {
			flag = 1
		}
		if err := binary.Write(w, binaryByteOrder, flag); err != nil {
			return nil, fmt.Errorf("sceneio: writing binary field flags: %w", err)
		}
	}
	return &BinaryWriter{w: w, mask: mask, size: size}, nil
}

func (bw *BinaryWriter) Write(rec photon.Interaction) error {
	write := func(v any) error {
		if err := binary.Write(bw.w, binaryByteOrder, v); err != nil {
			return fmt.Errorf("sceneio: writing binary record field: %w", err)
		}
		return nil
	}
	if bw.mask&FieldTime != 0 {
		if err := write(rec.Time); err != nil {
			return err
		}
	}
	if bw.mask&FieldDecayID != 0 {
		if err := write(int32(rec.DecayID)); err != nil {
			return err
		}
	}
	if bw.mask&FieldColor != 0 {
		if err := write(int32(rec.Color)); err != nil {
			return err
		}
	}
	if bw.mask&FieldType != 0 {
		if err := write(int32(rec.Kind)); err != nil {
			return err
		}
	}
	if bw.mask&FieldPos != 0 {
		if err := write(float32(rec.Pos.X)); err != nil {
			return err
		}
		if err := write(float32(rec.Pos.Y)); err != nil {
			return err
		}
		if err := write(float32(rec.Pos.Z)); err != nil {
			return err
		}
	}
	if bw.mask&FieldEnergy != 0 {
		if err := write(rec.Deposit); err != nil {
			return err
		}
	}
	if bw.mask&FieldDetID != 0 {
		if err := write(int32(rec.DetID)); err != nil {
			return err
		}
	}
	if bw.mask&FieldSrcID != 0 {
		if err := write(int32(rec.SourceID)); err != nil {
			return err
		}
	}
	if bw.mask&FieldMatID != 0 {
		if err := write(int32(rec.MaterialID)); err != nil {
			return err
		}
	}
	if bw.mask&FieldScatterComptonPhantom != 0 {
		if err := write(int32(rec.Scatter.ComptonPhantom)); err != nil {
			return err
		}
	}
	if bw.mask&FieldScatterComptonDetector != 0 {
		if err := write(int32(rec.Scatter.ComptonDetector)); err != nil {
			return err
		}
	}
	if bw.mask&FieldScatterRayleighPhantom != 0 {
		if err := write(int32(rec.Scatter.RayleighPhantom)); err != nil {
			return err
		}
	}
	if bw.mask&FieldScatterRayleighDetector != 0 {
		if err := write(int32(rec.Scatter.RayleighDetector)); err != nil {
			return err
		}
	}
	if bw.mask&FieldXrayFluorescence != 0 {
		if err := write(int32(rec.Scatter.XrayFluorescence)); err != nil {
			return err
		}
	}
	if bw.mask&FieldSensitiveMat != 0 {
		if err := write(int32(boolToInt(rec.DetID >= 0))); err != nil {
			return err
		}
	}
	return nil
}

// BinaryReader reads back a stream written by BinaryWriter.
type BinaryReader struct {
	r    io.Reader
	mask FieldMask
	size uint32
}

func NewBinaryReader(r io.Reader) (*BinaryReader, error) {
	var magic, version, size uint32
	if err := binary.Read(r, binaryByteOrder, &magic); err != nil {
		return nil, fmt.Errorf("sceneio: reading binary magic: %w", err)
	}
	if magic != binaryMagic {
		return nil, fmt.Errorf("sceneio: bad binary magic %#x", magic)
	}
	if err := binary.Read(r, binaryByteOrder, &version); err != nil {
		return nil, fmt.Errorf("sceneio: reading binary version: %w", err)
	}
	if version != binaryVersion {
		return nil, fmt.Errorf("sceneio: unsupported binary version %d", version)
	}
	if err := binary.Read(r, binaryByteOrder, &size); err != nil {
		return nil, fmt.Errorf("sceneio: reading binary record size: %w", err)
	}
	var mask FieldMask
	for _, f := range fieldNames {
		var flag int32
		if err := binary.Read(r, binaryByteOrder, &flag); err != nil {
			return nil, fmt.Errorf("sceneio: reading binary field flags: %w", err)
		}
		if flag != 0 {
			mask |= f.mask
		}
	}
	return &BinaryReader{r: r, mask: mask, size: size}, nil
}

func (br *BinaryReader) Mask() FieldMask { return br.mask }

func (br *BinaryReader) Next() (photon.Interaction, error) {
	read := func(v any) error { return binary.Read(br.r, binaryByteOrder, v) }
	var rec photon.Interaction
	var f32 float32
	var i32 int32

	if br.mask&FieldTime != 0 {
		if err := read(&rec.Time); err != nil {
			return rec, wrapBinaryReadErr(err)
		}
	}
	if br.mask&FieldDecayID != 0 {
		if err := read(&i32); err != nil {
			return rec, wrapBinaryReadErr(err)
		}
		rec.DecayID = int64(i32)
	}
	if br.mask&FieldColor != 0 {
		if err := read(&i32); err != nil {
			return rec, wrapBinaryReadErr(err)
		}
		rec.Color = photon.Color(i32)
	}
	if br.mask&FieldType != 0 {
		if err := read(&i32); err != nil {
			return rec, wrapBinaryReadErr(err)
		}
		rec.Kind = photon.InteractionKind(i32)
	}
	if br.mask&FieldPos != 0 {
		if err := read(&f32); err != nil {
			return rec, wrapBinaryReadErr(err)
		}
		rec.Pos.X = float64(f32)
		if err := read(&f32); err != nil {
			return rec, wrapBinaryReadErr(err)
		}
		rec.Pos.Y = float64(f32)
		if err := read(&f32); err != nil {
			return rec, wrapBinaryReadErr(err)
		}
		rec.Pos.Z = float64(f32)
	}
	if br.mask&FieldEnergy != 0 {
		if err := read(&rec.Deposit); err != nil {
			return rec, wrapBinaryReadErr(err)
		}
	}
	if br.mask&FieldDetID != 0 {
		if err := read(&i32); err != nil {
			return rec, wrapBinaryReadErr(err)
		}
		rec.DetID = int(i32)
	}
	if br.mask&FieldSrcID != 0 {
		if err := read(&i32); err != nil {
			return rec, wrapBinaryReadErr(err)
		}
		rec.SourceID = int(i32)
	}
	if br.mask&FieldMatID != 0 {
		if err := read(&i32); err != nil {
			return rec, wrapBinaryReadErr(err)
		}
		rec.MaterialID = int(i32)
	}
	if br.mask&FieldScatterComptonPhantom != 0 {
		if err := read(&i32); err != nil {
			return rec, wrapBinaryReadErr(err)
		}
		rec.Scatter.ComptonPhantom = int(i32)
	}
	if br.mask&FieldScatterComptonDetector != 0 {
		if err := read(&i32); err != nil {
			return rec, wrapBinaryReadErr(err)
		}
		rec.Scatter.ComptonDetector = int(i32)
	}
	if br.mask&FieldScatterRayleighPhantom != 0 {
		if err := read(&i32); err != nil {
			return rec, wrapBinaryReadErr(err)
		}
		rec.Scatter.RayleighPhantom = int(i32)
	}
	if br.mask&FieldScatterRayleighDetector != 0 {
		if err := read(&i32); err != nil {
			return rec, wrapBinaryReadErr(err)
		}
		rec.Scatter.RayleighDetector = int(i32)
	}
	if br.mask&FieldXrayFluorescence != 0 {
		if err := read(&i32); err != nil {
			return rec, wrapBinaryReadErr(err)
		}
		rec.Scatter.XrayFluorescence = int(i32)
	}
	if br.mask&FieldSensitiveMat != 0 {
		if err := read(&i32); err != nil {
			return rec, wrapBinaryReadErr(err)
		}
		if br.mask&FieldDetID == 0 {
			rec.DetID = sensitiveMatToDetID(i32 != 0)
		}
	}
	return rec, nil
}

func wrapBinaryReadErr(err error) error {
	if err == io.EOF {
		return io.EOF
	}
	return fmt.Errorf("sceneio: reading binary record: %w", err)
}
