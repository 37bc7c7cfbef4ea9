package sceneio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dfreese/Gray-sub002/photon"
)

const asciiOutputVersion = 1

// ASCIIWriter writes Interaction records in the whitespace-separated
// variable-field text format: a "gray_output_version N" header line, a
// field-mask block naming the active fields in order, then one line
// per record carrying only the values the mask selects.
type ASCIIWriter struct {
	w    *bufio.Writer
	mask FieldMask
}

// NewASCIIWriter writes the format header immediately.
func NewASCIIWriter(w io.Writer, mask FieldMask) (*ASCIIWriter, error) {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "gray_output_version %d\n", asciiOutputVersion); err != nil {
		return nil, fmt.Errorf("sceneio: writing ascii header: %w", err)
	}
	var names []string
	for _, f := range fieldNames {
		if mask&f.mask != 0 {
			names = append(names, f.name)
		}
	}
	if _, err := fmt.Fprintln(bw, strings.Join(names, " ")); err != nil {
		return nil, fmt.Errorf("sceneio: writing ascii field mask: %w", err)
	}
	return &ASCIIWriter{w: bw, mask: mask}, nil
}

func (aw *ASCIIWriter) Write(rec photon.Interaction) error {
	var fields []string
	if aw.mask&FieldTime != 0 {
		fields = append(fields, strconv.FormatFloat(rec.Time, 'g', -1, 64))
	}
	if aw.mask&FieldDecayID != 0 {
		fields = append(fields, strconv.FormatInt(rec.DecayID, 10))
	}
	if aw.mask&FieldColor != 0 {
		fields = append(fields, colorName(rec.Color))
	}
	if aw.mask&FieldType != 0 {
		fields = append(fields, kindName(rec.Kind))
	}
	if aw.mask&FieldPos != 0 {
		fields = append(fields,
			strconv.FormatFloat(rec.Pos.X, 'g', -1, 64),
			strconv.FormatFloat(rec.Pos.Y, 'g', -1, 64),
			strconv.FormatFloat(rec.Pos.Z, 'g', -1, 64))
	}
	if aw.mask&FieldEnergy != 0 {
		fields = append(fields, strconv.FormatFloat(rec.Deposit, 'g', -1, 64))
	}
	if aw.mask&FieldDetID != 0 {
		fields = append(fields, strconv.Itoa(rec.DetID))
	}
	if aw.mask&FieldSrcID != 0 {
		fields = append(fields, strconv.Itoa(rec.SourceID))
	}
	if aw.mask&FieldMatID != 0 {
		fields = append(fields, strconv.Itoa(rec.MaterialID))
	}
	if aw.mask&FieldScatterComptonPhantom != 0 {
		fields = append(fields, strconv.Itoa(rec.Scatter.ComptonPhantom))
	}
	if aw.mask&FieldScatterComptonDetector != 0 {
		fields = append(fields, strconv.Itoa(rec.Scatter.ComptonDetector))
	}
	if aw.mask&FieldScatterRayleighPhantom != 0 {
		fields = append(fields, strconv.Itoa(rec.Scatter.RayleighPhantom))
	}
	if aw.mask&FieldScatterRayleighDetector != 0 {
		fields = append(fields, strconv.Itoa(rec.Scatter.RayleighDetector))
	}
	if aw.mask&FieldXrayFluorescence != 0 {
		fields = append(fields, strconv.Itoa(rec.Scatter.XrayFluorescence))
	}
	if aw.mask&FieldSensitiveMat != 0 {
		fields = append(fields, strconv.Itoa(boolToInt(rec.DetID >= 0)))
	}
	if _, err := fmt.Fprintln(aw.w, strings.Join(fields, " ")); err != nil {
		return fmt.Errorf("sceneio: writing ascii record: %w", err)
	}
	return nil
}

func (aw *ASCIIWriter) Flush() error {
	if err := aw.w.Flush(); err != nil {
		return fmt.Errorf("sceneio: flushing ascii writer: %w", err)
	}
	return nil
}

// ASCIIReader reads back a stream written by ASCIIWriter, for tests and
// for round-tripping a hits file into a later processing stage.
type ASCIIReader struct {
	sc   *bufio.Scanner
	mask FieldMask
}

func NewASCIIReader(r io.Reader) (*ASCIIReader, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		return nil, fmt.Errorf("sceneio: ascii stream missing header line")
	}
	var version int
	if _, err := fmt.Sscanf(sc.Text(), "gray_output_version %d", &version); err != nil {
		return nil, fmt.Errorf("sceneio: parsing ascii header: %w", err)
	}
	if !sc.Scan() {
		return nil, fmt.Errorf("sceneio: ascii stream missing field mask line")
	}
	mask, err := parseFieldNames(strings.Fields(sc.Text()))
	if err != nil {
		return nil, err
	}
	return &ASCIIReader{sc: sc, mask: mask}, nil
}

func parseFieldNames(names []string) (FieldMask, error) {
	lookup := make(map[string]FieldMask, len(fieldNames))
	for _, f := range fieldNames {
		lookup[f.name] = f.mask
	}
	var mask FieldMask
	for _, n := range names {
		bit, ok := lookup[n]
		if !ok {
			return 0, fmt.Errorf("sceneio: unknown field name %q", n)
		}
		mask |= bit
	}
	return mask, nil
}

// Mask reports the field set active in the stream, discovered from the
// header.
func (ar *ASCIIReader) Mask() FieldMask { return ar.mask }

// Next reads one record, returning io.EOF when the stream is exhausted.
func (ar *ASCIIReader) Next() (photon.Interaction, error) {
	if !ar.sc.Scan() {
		if err := ar.sc.Err(); err != nil {
			return photon.Interaction{}, fmt.Errorf("sceneio: reading ascii record: %w", err)
		}
		return photon.Interaction{}, io.EOF
	}
	toks := strings.Fields(ar.sc.Text())
	var rec photon.Interaction
	i := 0
	next := func() string {
		v := toks[i]
		i++
		return v
	}
	if ar.mask&FieldTime != 0 {
		rec.Time, _ = strconv.ParseFloat(next(), 64)
	}
	if ar.mask&FieldDecayID != 0 {
		rec.DecayID, _ = strconv.ParseInt(next(), 10, 64)
	}
	if ar.mask&FieldColor != 0 {
		rec.Color = parseColorName(next())
	}
	if ar.mask&FieldType != 0 {
		rec.Kind = parseKindName(next())
	}
	if ar.mask&FieldPos != 0 {
		rec.Pos.X, _ = strconv.ParseFloat(next(), 64)
		rec.Pos.Y, _ = strconv.ParseFloat(next(), 64)
		rec.Pos.Z, _ = strconv.ParseFloat(next(), 64)
	}
	if ar.mask&FieldEnergy != 0 {
		rec.Deposit, _ = strconv.ParseFloat(next(), 64)
	}
	if ar.mask&FieldDetID != 0 {
		d, _ := strconv.Atoi(next())
		rec.DetID = d
	}
	if ar.mask&FieldSrcID != 0 {
		d, _ := strconv.Atoi(next())
		rec.SourceID = d
	}
	if ar.mask&FieldMatID != 0 {
		d, _ := strconv.Atoi(next())
		rec.MaterialID = d
	}
	if ar.mask&FieldScatterComptonPhantom != 0 {
		rec.Scatter.ComptonPhantom, _ = strconv.Atoi(next())
	}
	if ar.mask&FieldScatterComptonDetector != 0 {
		rec.Scatter.ComptonDetector, _ = strconv.Atoi(next())
	}
	if ar.mask&FieldScatterRayleighPhantom != 0 {
		rec.Scatter.RayleighPhantom, _ = strconv.Atoi(next())
	}
	if ar.mask&FieldScatterRayleighDetector != 0 {
		rec.Scatter.RayleighDetector, _ = strconv.Atoi(next())
	}
	if ar.mask&FieldXrayFluorescence != 0 {
		rec.Scatter.XrayFluorescence, _ = strconv.Atoi(next())
	}
	if ar.mask&FieldSensitiveMat != 0 {
		v, _ := strconv.Atoi(next())
		if ar.mask&FieldDetID == 0 {
			rec.DetID = sensitiveMatToDetID(v != 0)
		}
	}
	return rec, nil
}

// boolToInt encodes a bool as the ASCII/binary stream's 0/1 convention.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// sensitiveMatToDetID approximates a detector id from a standalone
// sensitive_mat flag, for streams that carry sensitive_mat without
// det_id. It cannot recover the original id, only whether the record
// was inside a sensitive material.
func sensitiveMatToDetID(sensitive bool) int {
	if sensitive {
		return 0
	}
	return -1
}

func parseKindName(s string) photon.InteractionKind {
	switch s {
	case "compton":
		return photon.KindCompton
	case "photoelectric":
		return photon.KindPhotoelectric
	case "xray_escape":
		return photon.KindXrayEscape
	case "rayleigh":
		return photon.KindRayleigh
	case "nuclear_decay":
		return photon.KindNuclearDecay
	case "no_interaction":
		return photon.KindNoInteraction
	case "error_trace_depth":
		return photon.KindErrorTraceDepth
	default:
		return photon.KindErrorEmpty
	}
}

func parseColorName(s string) photon.Color {
	switch s {
	case "blue":
		return photon.ColorBlue
	case "red":
		return photon.ColorRed
	case "yellow":
		return photon.ColorYellow
	default:
		return photon.ColorNone
	}
}
