// Package hint models the configuration dictionary handed to barcode codecs.
//
// A Map holds only the hints a caller asked for explicitly; a missing key
// means "use the codec default". Values are a small tagged union so that each
// key carries exactly one value type.
package hint

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/MeKo-Tech/barcli/internal/format"
)

// Key identifies one configuration dimension.
type Key int

const (
	ErrorCorrection Key = iota + 1
	CharacterSet
	DataMatrixCompact
	Margin
	PDF417Compact
	PDF417Compaction
	PDF417AutoECI
	AztecLayers
	QRVersion
	QRMaskPattern
	QRCompact
	GS1Format
	ForceCodeSet
	ForceC40
	Code128Compact

	// Decode side.
	TryHarder
	PossibleFormats
)

var keyNames = map[Key]string{
	ErrorCorrection:   "ERROR_CORRECTION",
	CharacterSet:      "CHARACTER_SET",
	DataMatrixCompact: "DATA_MATRIX_COMPACT",
	Margin:            "MARGIN",
	PDF417Compact:     "PDF417_COMPACT",
	PDF417Compaction:  "PDF417_COMPACTION",
	PDF417AutoECI:     "PDF417_AUTO_ECI",
	AztecLayers:       "AZTEC_LAYERS",
	QRVersion:         "QR_VERSION",
	QRMaskPattern:     "QR_MASK_PATTERN",
	QRCompact:         "QR_COMPACT",
	GS1Format:         "GS1_FORMAT",
	ForceCodeSet:      "FORCE_CODE_SET",
	ForceC40:          "FORCE_C40",
	Code128Compact:    "CODE128_COMPACT",
	TryHarder:         "TRY_HARDER",
	PossibleFormats:   "POSSIBLE_FORMATS",
}

func (k Key) String() string {
	if n, ok := keyNames[k]; ok {
		return n
	}
	return "Key(" + strconv.Itoa(int(k)) + ")"
}

// Kind tags the type held by a Value.
type Kind int

const (
	KindInvalid Kind = iota
	KindString
	KindBool
	KindInt
	KindFormats
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFormats:
		return "formats"
	default:
		return "invalid"
	}
}

// Value is a tagged union of the value types a hint may carry.
type Value struct {
	kind    Kind
	str     string
	boolean bool
	integer int32
	formats []format.Format
}

// String builds a string-valued hint.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Bool builds a boolean hint.
func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }

// Int builds a signed integer hint.
func Int(i int32) Value { return Value{kind: KindInt, integer: i} }

// Formats builds a format-set hint. Duplicates are dropped.
func Formats(fs ...format.Format) Value {
	return Value{kind: KindFormats, formats: format.Dedup(fs)}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

func (v Value) AsBool() (bool, bool) { return v.boolean, v.kind == KindBool }

func (v Value) AsInt() (int32, bool) { return v.integer, v.kind == KindInt }

// AsFormats returns a copy of the held format set.
func (v Value) AsFormats() ([]format.Format, bool) {
	if v.kind != KindFormats {
		return nil, false
	}
	out := make([]format.Format, len(v.formats))
	copy(out, v.formats)
	return out, true
}

// String renders the value as text.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.boolean)
	case KindInt:
		return strconv.FormatInt(int64(v.integer), 10)
	case KindFormats:
		parts := make([]string, len(v.formats))
		for i, f := range v.formats {
			parts[i] = f.String()
		}
		return "[" + strings.Join(parts, ",") + "]"
	default:
		return "<invalid>"
	}
}

// Equal reports whether two values have the same kind and contents.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindBool:
		return v.boolean == o.boolean
	case KindInt:
		return v.integer == o.integer
	case KindFormats:
		if len(v.formats) != len(o.formats) {
			return false
		}
		for i := range v.formats {
			if v.formats[i] != o.formats[i] {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Map is a hint dictionary. Keys are unique by construction.
type Map map[Key]Value

// Get returns the value stored under k.
func (m Map) Get(k Key) (Value, bool) {
	v, ok := m[k]
	return v, ok
}

// Has reports whether k is present.
func (m Map) Has(k Key) bool {
	_, ok := m[k]
	return ok
}

// GetString returns the string stored under k. ok is false when k is absent
// or holds another kind.
func (m Map) GetString(k Key) (string, bool) {
	v, ok := m[k]
	if !ok {
		return "", false
	}
	return v.AsString()
}

func (m Map) GetBool(k Key) (bool, bool) {
	v, ok := m[k]
	if !ok {
		return false, false
	}
	return v.AsBool()
}

func (m Map) GetInt(k Key) (int32, bool) {
	v, ok := m[k]
	if !ok {
		return 0, false
	}
	return v.AsInt()
}

func (m Map) GetFormats(k Key) ([]format.Format, bool) {
	v, ok := m[k]
	if !ok {
		return nil, false
	}
	return v.AsFormats()
}

// Keys returns the present keys in ascending order.
func (m Map) Keys() []Key {
	keys := make([]Key, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// String renders the map deterministically, e.g. "{MARGIN=2 QR_VERSION=5}".
func (m Map) String() string {
	parts := make([]string, 0, len(m))
	for _, k := range m.Keys() {
		parts = append(parts, fmt.Sprintf("%s=%s", k, m[k]))
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// LogValue lets a Map be passed directly as a slog attribute.
func (m Map) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(m))
	for _, k := range m.Keys() {
		attrs = append(attrs, slog.String(k.String(), m[k].String()))
	}
	return slog.GroupValue(attrs...)
}
