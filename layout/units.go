package layout

import (
	"math"
	"strconv"
	"strings"
)

// Unit represents the original unit of a length value as written in the document.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers like factors
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
	UnitPercent
)

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// String returns the short suffix for a Unit value.
func (u Unit) String() string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	case UnitPercent:
		return "%"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// ToMM converts to millimeters; unit-less values are taken as mm.
// Percentages need a reference, see Resolve.
func (l Length) ToMM() float64 {
	switch l.Unit {
	case UnitCM:
		return l.Value * 10
	case UnitIN:
		return l.Value * 25.4
	case UnitPT:
		return l.Value * PtToMm
	default:
		return l.Value
	}
}

// ToPT converts to points.
func (l Length) ToPT() float64 {
	if l.Unit == UnitPT {
		return l.Value
	}
	return l.ToMM() * MmToPt
}

// Resolve returns millimeters, resolving percentages against reference (mm).
func (l Length) Resolve(reference float64) float64 {
	if l.Unit == UnitPercent {
		return reference * l.Value / 100
	}
	return l.ToMM()
}

// ParseLength parses a length such as "12pt", "10mm", "50%" or "3".
// ok is false when the numeric part is not a number.
func ParseLength(value string) (Length, bool) {
	lower := strings.ToLower(strings.TrimSpace(value))
	if lower == "" {
		return Length{}, false
	}
	unit := UnitNone
	num := lower
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}, {"%", UnitPercent}} {
		if strings.HasSuffix(lower, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(lower, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, false
	}
	return Length{Value: f, Unit: unit}, true
}

// parseLength returns millimeters, or 0 when the value cannot be parsed.
func parseLength(value string) float64 {
	l, ok := ParseLength(value)
	if !ok {
		return 0
	}
	return l.ToMM()
}

// parseDimension returns millimeters, resolving percentages against reference.
func parseDimension(value string, reference float64) float64 {
	l, ok := ParseLength(value)
	if !ok {
		return 0
	}
	return l.Resolve(reference)
}

// LineHeightSpec is either a factor of the font size (1.2x) or an absolute length (18pt).
type LineHeightSpec struct {
	Factor float64 `json:"factor,omitempty"`
	Len    Length  `json:"len,omitempty"`
}

// defaultLineHeight 与排版后端的 1.4 倍默认行高一致。
var defaultLineHeight = LineHeightSpec{Factor: 1.4}

// ParseLineHeight parses "1.2x", "1.2" or an absolute length. Empty or invalid input yields 1.4x.
func ParseLineHeight(value string) LineHeightSpec {
	v := strings.TrimSpace(strings.ToLower(value))
	if v == "" {
		return defaultLineHeight
	}
	if strings.HasSuffix(v, "x") {
		if f, err := strconv.ParseFloat(strings.TrimSuffix(v, "x"), 64); err == nil && f > 0 {
			return LineHeightSpec{Factor: f}
		}
		return defaultLineHeight
	}
	l, ok := ParseLength(v)
	if !ok || l.Value <= 0 {
		return defaultLineHeight
	}
	if l.Unit == UnitNone {
		return LineHeightSpec{Factor: l.Value}
	}
	return LineHeightSpec{Len: l}
}

// Resolve computes the absolute line height in mm for a font size in mm.
func (s LineHeightSpec) Resolve(fontSizeMM float64) float64 {
	if s.Factor > 0 {
		return fontSizeMM * s.Factor
	}
	return s.Len.ToMM()
}

// roundPt 把毫米换算为整数点，模拟宿主按整数像素取整的测量。
func roundPt(mm float64) float64 {
	return math.Round(mm * MmToPt)
}
