package sceneio

import "github.com/dfreese/Gray-sub002/photon"

// FieldMask selects which of the 15 Interaction record fields an
// output stream carries. Bit order matches the ASCII/binary field-mask
// block in the file format: time, decay_id, color, type, pos, energy,
// det_id, src_id, mat_id, scatter_compton_phantom,
// scatter_compton_detector, scatter_rayleigh_phantom,
// scatter_rayleigh_detector, xray_flouresence, sensitive_mat. pos is a
// single bit covering all three position components together.
type FieldMask uint16

const (
	FieldTime FieldMask = 1 << iota
	FieldDecayID
	FieldColor
	FieldType
	FieldPos
	FieldEnergy
	FieldDetID
	FieldSrcID
	FieldMatID
	FieldScatterComptonPhantom
	FieldScatterComptonDetector
	FieldScatterRayleighPhantom
	FieldScatterRayleighDetector
	FieldXrayFluorescence
	FieldSensitiveMat
)

// fieldNames lists every field in the canonical on-disk order, paired
// with its mask bit.
var fieldNames = []struct {
	mask FieldMask
	name string
}{
	{FieldTime, "time"},
	{FieldDecayID, "decay_id"},
	{FieldColor, "color"},
	{FieldType, "type"},
	{FieldPos, "pos"},
	{FieldEnergy, "energy"},
	{FieldDetID, "det_id"},
	{FieldSrcID, "src_id"},
	{FieldMatID, "mat_id"},
	{FieldScatterComptonPhantom, "scatter_compton_phantom"},
	{FieldScatterComptonDetector, "scatter_compton_detector"},
	{FieldScatterRayleighPhantom, "scatter_rayleigh_phantom"},
	{FieldScatterRayleighDetector, "scatter_rayleigh_detector"},
	{FieldXrayFluorescence, "xray_flouresence"},
	{FieldSensitiveMat, "sensitive_mat"},
}

// DefaultFieldMask carries every field except the per-material-channel
// scatter breakdown and xray fluorescence count, matching a typical
// hits stream.
const DefaultFieldMask FieldMask = FieldTime | FieldDecayID | FieldColor | FieldType |
	FieldPos | FieldEnergy | FieldDetID | FieldSrcID | FieldMatID | FieldSensitiveMat

func kindName(k photon.InteractionKind) string {
	switch k {
	case photon.KindCompton:
		return "compton"
	case photon.KindPhotoelectric:
		return "photoelectric"
	case photon.KindXrayEscape:
		return "xray_escape"
	case photon.KindRayleigh:
		return "rayleigh"
	case photon.KindNuclearDecay:
		return "nuclear_decay"
	case photon.KindNoInteraction:
		return "no_interaction"
	case photon.KindErrorEmpty:
		return "error_empty"
	case photon.KindErrorTraceDepth:
		return "error_trace_depth"
	default:
		return "unknown"
	}
}

func colorName(c photon.Color) string {
	switch c {
	case photon.ColorBlue:
		return "blue"
	case photon.ColorRed:
		return "red"
	case photon.ColorYellow:
		return "yellow"
	default:
		return "none"
	}
}
