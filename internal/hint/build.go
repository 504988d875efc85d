package hint

import (
	"strconv"

	"github.com/MeKo-Tech/barcli/internal/format"
)

// EncodeFields is the flat set of optional encode parameters. A nil field
// was not supplied and contributes nothing to the built Map.
type EncodeFields struct {
	ErrorCorrection   *string
	CharacterSet      *string
	DataMatrixCompact *bool
	Margin            *string
	PDF417Compact     *bool
	PDF417Compaction  *string
	PDF417AutoECI     *bool
	AztecLayers       *int32
	QRVersion         *string
	QRMaskPattern     *string
	QRCompact         *bool
	GS1Format         *bool
	ForceCodeSet      *string
	ForceC40          *bool
	Code128Compact    *bool
}

// BuildEncode maps every supplied field onto its hint key. Boolean fields
// consumed as text by the codec (PDF417_COMPACT, PDF417_AUTO_ECI, QR_COMPACT)
// are rendered with strconv.FormatBool.
func BuildEncode(f EncodeFields) Map {
	m := Map{}
	putString(m, ErrorCorrection, f.ErrorCorrection)
	putString(m, CharacterSet, f.CharacterSet)
	putBool(m, DataMatrixCompact, f.DataMatrixCompact)
	putString(m, Margin, f.Margin)
	putBoolText(m, PDF417Compact, f.PDF417Compact)
	putString(m, PDF417Compaction, f.PDF417Compaction)
	putBoolText(m, PDF417AutoECI, f.PDF417AutoECI)
	if f.AztecLayers != nil {
		m[AztecLayers] = Int(*f.AztecLayers)
	}
	putString(m, QRVersion, f.QRVersion)
	putString(m, QRMaskPattern, f.QRMaskPattern)
	putBoolText(m, QRCompact, f.QRCompact)
	putBool(m, GS1Format, f.GS1Format)
	putString(m, ForceCodeSet, f.ForceCodeSet)
	putBool(m, ForceC40, f.ForceC40)
	putBool(m, Code128Compact, f.Code128Compact)
	return m
}

// BuildDecode builds the decode hints. TRY_HARDER is only inserted to turn
// the exhaustive search off; an empty allow-list means "any format".
func BuildDecode(tryHarder bool, formats []format.Format) Map {
	m := Map{}
	if !tryHarder {
		m[TryHarder] = Bool(false)
	}
	if len(formats) > 0 {
		m[PossibleFormats] = Formats(formats...)
	}
	return m
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

func putString(m Map, k Key, v *string) {
	if v != nil {
		m[k] = String(*v)
	}
}

func putBool(m Map, k Key, v *bool) {
	if v != nil {
		m[k] = Bool(*v)
	}
}

func putBoolText(m Map, k Key, v *bool) {
	if v != nil {
		m[k] = String(strconv.FormatBool(*v))
	}
}
