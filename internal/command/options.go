package command

import (
	"strconv"
	"strings"

	"github.com/MeKo-Tech/barcli/internal/barcode"
	"github.com/MeKo-Tech/barcli/internal/format"
	"github.com/MeKo-Tech/barcli/internal/hint"
)

// Options is the validated per-format encode configuration. The concrete
// variants are QROptions, PDF417Options, AztecOptions, DataMatrixOptions,
// Code128Options and LinearOptions; each carries only the settings that
// apply to its symbology.
type Options interface {
	// Fields renders the options as the flat hint fields.
	Fields() hint.EncodeFields
	family() family
}

type family int

const (
	familyLinear family = iota
	familyQR
	familyPDF417
	familyAztec
	familyDataMatrix
	familyCode128
)

func familyOf(f format.Format) family {
	switch f {
	case format.QRCode:
		return familyQR
	case format.PDF417:
		return familyPDF417
	case format.Aztec:
		return familyAztec
	case format.DataMatrix:
		return familyDataMatrix
	case format.Code128:
		return familyCode128
	default:
		return familyLinear
	}
}

// FlagNames maps each encode hint to the command-line flag that sets it.
var FlagNames = map[hint.Key]string{
	hint.ErrorCorrection:   "error-correction",
	hint.CharacterSet:      "character-set",
	hint.DataMatrixCompact: "data-matrix-compact",
	hint.Margin:            "margin",
	hint.PDF417Compact:     "pdf-417-compact",
	hint.PDF417Compaction:  "pdf-417-compaction",
	hint.PDF417AutoECI:     "pdf-417-auto-eci",
	hint.AztecLayers:       "aztec-layers",
	hint.QRVersion:         "qr-version",
	hint.QRMaskPattern:     "qr-mask-pattern",
	hint.QRCompact:         "qr-compact",
	hint.GS1Format:         "gs1-format",
	hint.ForceCodeSet:      "force-code-set",
	hint.ForceC40:          "force-c40",
	hint.Code128Compact:    "code-128-compact",
}

var applicable = map[family][]hint.Key{
	familyQR: {
		hint.ErrorCorrection, hint.CharacterSet, hint.Margin,
		hint.QRVersion, hint.QRMaskPattern, hint.QRCompact, hint.GS1Format,
	},
	familyPDF417: {
		hint.ErrorCorrection, hint.CharacterSet, hint.Margin,
		hint.PDF417Compact, hint.PDF417Compaction, hint.PDF417AutoECI,
	},
	familyAztec: {
		hint.ErrorCorrection, hint.CharacterSet, hint.Margin, hint.AztecLayers,
	},
	familyDataMatrix: {
		hint.CharacterSet, hint.GS1Format, hint.DataMatrixCompact, hint.ForceC40,
	},
	familyCode128: {
		hint.Margin, hint.GS1Format, hint.Code128Compact, hint.ForceCodeSet,
	},
	familyLinear: {
		hint.Margin,
	},
}

func applies(fam family, k hint.Key) bool {
	for _, a := range applicable[fam] {
		if a == k {
			return true
		}
	}
	return false
}

// NewOptions validates the raw flag values for format f and returns the
// matching variant. A flag that does not apply to f is a usage error.
func NewOptions(f format.Format, raw hint.EncodeFields) (Options, error) {
	fam := familyOf(f)
	for _, k := range hint.BuildEncode(raw).Keys() {
		if !applies(fam, k) {
			return nil, usagef("--%s does not apply to %s", FlagNames[k], f)
		}
	}

	switch fam {
	case familyQR:
		return newQROptions(raw)
	case familyPDF417:
		return newPDF417Options(raw)
	case familyAztec:
		return newAztecOptions(raw)
	case familyDataMatrix:
		return newDataMatrixOptions(raw)
	case familyCode128:
		return newCode128Options(raw)
	default:
		return newLinearOptions(raw)
	}
}

// QROptions configures QR Code symbols.
type QROptions struct {
	ErrorCorrection *string // L, M, Q or H
	CharacterSet    *string
	Margin          *int
	Version         *int // 1..40
	MaskPattern     *int // 0..7
	Compact         *bool
	GS1Format       *bool
}

func (o QROptions) family() family { return familyQR }

func (o QROptions) Fields() hint.EncodeFields {
	return hint.EncodeFields{
		ErrorCorrection: o.ErrorCorrection,
		CharacterSet:    o.CharacterSet,
		Margin:          itoa(o.Margin),
		QRVersion:       itoa(o.Version),
		QRMaskPattern:   itoa(o.MaskPattern),
		QRCompact:       o.Compact,
		GS1Format:       o.GS1Format,
	}
}

func newQROptions(raw hint.EncodeFields) (Options, error) {
	o := QROptions{Compact: raw.QRCompact, GS1Format: raw.GS1Format}
	var err error
	if raw.ErrorCorrection != nil {
		level := strings.ToUpper(strings.TrimSpace(*raw.ErrorCorrection))
		switch level {
		case "L", "M", "Q", "H":
			o.ErrorCorrection = &level
		default:
			return nil, usagef("invalid --error-correction %q for %s: want L, M, Q or H", *raw.ErrorCorrection, format.QRCode)
		}
	}
	if o.CharacterSet, err = parseCharset(raw.CharacterSet); err != nil {
		return nil, err
	}
	if o.Margin, err = parseMargin(raw.Margin); err != nil {
		return nil, err
	}
	if o.Version, err = parseRange("qr-version", raw.QRVersion, 1, 40); err != nil {
		return nil, err
	}
	if o.MaskPattern, err = parseRange("qr-mask-pattern", raw.QRMaskPattern, 0, 7); err != nil {
		return nil, err
	}
	return o, nil
}

// PDF417Options configures PDF417 symbols.
type PDF417Options struct {
	ErrorCorrection *int // 0..8
	CharacterSet    *string
	Margin          *int
	Compact         *bool
	Compaction      *string // AUTO, TEXT, BYTE or NUMERIC
	AutoECI         *bool
}

func (o PDF417Options) family() family { return familyPDF417 }

func (o PDF417Options) Fields() hint.EncodeFields {
	return hint.EncodeFields{
		ErrorCorrection:  itoa(o.ErrorCorrection),
		CharacterSet:     o.CharacterSet,
		Margin:           itoa(o.Margin),
		PDF417Compact:    o.Compact,
		PDF417Compaction: o.Compaction,
		PDF417AutoECI:    o.AutoECI,
	}
}

var pdf417Compactions = []string{"AUTO", "TEXT", "BYTE", "NUMERIC"}

func newPDF417Options(raw hint.EncodeFields) (Options, error) {
	o := PDF417Options{Compact: raw.PDF417Compact, AutoECI: raw.PDF417AutoECI}
	var err error
	if o.ErrorCorrection, err = parseRange("error-correction", raw.ErrorCorrection, 0, 8); err != nil {
		return nil, err
	}
	if o.CharacterSet, err = parseCharset(raw.CharacterSet); err != nil {
		return nil, err
	}
	if o.Margin, err = parseMargin(raw.Margin); err != nil {
		return nil, err
	}
	if raw.PDF417Compaction != nil {
		c, err := parseCompaction(*raw.PDF417Compaction)
		if err != nil {
			return nil, err
		}
		o.Compaction = &c
	}
	return o, nil
}

func parseCompaction(s string) (string, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if n, err := strconv.Atoi(v); err == nil && n >= 0 && n < len(pdf417Compactions) {
		return pdf417Compactions[n], nil
	}
	for _, c := range pdf417Compactions {
		if v == c {
			return c, nil
		}
	}
	return "", usagef("invalid --pdf-417-compaction %q: want one of %s or 0..3", s, strings.Join(pdf417Compactions, ", "))
}

// AztecOptions configures Aztec symbols.
type AztecOptions struct {
	ErrorCorrection *int // minimum error correction percent, 1..99
	CharacterSet    *string
	Margin          *int
	Layers          *int32 // negative selects compact symbols
}

func (o AztecOptions) family() family { return familyAztec }

func (o AztecOptions) Fields() hint.EncodeFields {
	return hint.EncodeFields{
		ErrorCorrection: itoa(o.ErrorCorrection),
		CharacterSet:    o.CharacterSet,
		Margin:          itoa(o.Margin),
		AztecLayers:     o.Layers,
	}
}

func newAztecOptions(raw hint.EncodeFields) (Options, error) {
	o := AztecOptions{}
	var err error
	if o.ErrorCorrection, err = parseRange("error-correction", raw.ErrorCorrection, 1, 99); err != nil {
		return nil, err
	}
	if o.CharacterSet, err = parseCharset(raw.CharacterSet); err != nil {
		return nil, err
	}
	if o.Margin, err = parseMargin(raw.Margin); err != nil {
		return nil, err
	}
	if raw.AztecLayers != nil {
		if l := *raw.AztecLayers; l < -4 || l > 32 {
			return nil, usagef("invalid --aztec-layers %d: want -4..32", l)
		}
		o.Layers = raw.AztecLayers
	}
	return o, nil
}

// DataMatrixEncodation selects at most one Data Matrix encodation strategy.
// It is either DataMatrixCompact or ForceC40.
type DataMatrixEncodation interface {
	dataMatrixEncodation()
}

// DataMatrixCompact toggles the minimal-size encodation.
type DataMatrixCompact bool

// ForceC40 toggles forcing C40 encodation.
type ForceC40 bool

func (DataMatrixCompact) dataMatrixEncodation() {}
func (ForceC40) dataMatrixEncodation()          {}

// DataMatrixOptions configures Data Matrix symbols.
type DataMatrixOptions struct {
	CharacterSet *string
	GS1Format    *bool
	Encodation   DataMatrixEncodation // nil means codec default
}

func (o DataMatrixOptions) family() family { return familyDataMatrix }

func (o DataMatrixOptions) Fields() hint.EncodeFields {
	f := hint.EncodeFields{CharacterSet: o.CharacterSet, GS1Format: o.GS1Format}
	switch e := o.Encodation.(type) {
	case DataMatrixCompact:
		f.DataMatrixCompact = hint.Ptr(bool(e))
	case ForceC40:
		f.ForceC40 = hint.Ptr(bool(e))
	}
	return f
}

func newDataMatrixOptions(raw hint.EncodeFields) (Options, error) {
	if raw.DataMatrixCompact != nil && raw.ForceC40 != nil {
		return nil, usagef("--data-matrix-compact and --force-c40 are mutually exclusive")
	}
	o := DataMatrixOptions{GS1Format: raw.GS1Format}
	var err error
	if o.CharacterSet, err = parseCharset(raw.CharacterSet); err != nil {
		return nil, err
	}
	switch {
	case raw.DataMatrixCompact != nil:
		o.Encodation = DataMatrixCompact(*raw.DataMatrixCompact)
	case raw.ForceC40 != nil:
		o.Encodation = ForceC40(*raw.ForceC40)
	}
	return o, nil
}

// Code128CodeSet selects at most one Code 128 code set strategy. It is
// either Code128Compact or ForceCodeSet.
type Code128CodeSet interface {
	code128CodeSet()
}

// Code128Compact toggles the minimal-size encoding.
type Code128Compact bool

// ForceCodeSet pins the encoder to code set A, B or C.
type ForceCodeSet string

func (Code128Compact) code128CodeSet() {}
func (ForceCodeSet) code128CodeSet()   {}

// Code128Options configures Code 128 symbols.
type Code128Options struct {
	Margin    *int
	GS1Format *bool
	CodeSet   Code128CodeSet // nil means codec default
}

func (o Code128Options) family() family { return familyCode128 }

func (o Code128Options) Fields() hint.EncodeFields {
	f := hint.EncodeFields{Margin: itoa(o.Margin), GS1Format: o.GS1Format}
	switch c := o.CodeSet.(type) {
	case Code128Compact:
		f.Code128Compact = hint.Ptr(bool(c))
	case ForceCodeSet:
		f.ForceCodeSet = hint.Ptr(string(c))
	}
	return f
}

func newCode128Options(raw hint.EncodeFields) (Options, error) {
	if raw.Code128Compact != nil && raw.ForceCodeSet != nil {
		return nil, usagef("--code-128-compact and --force-code-set are mutually exclusive")
	}
	o := Code128Options{GS1Format: raw.GS1Format}
	var err error
	if o.Margin, err = parseMargin(raw.Margin); err != nil {
		return nil, err
	}
	switch {
	case raw.Code128Compact != nil:
		o.CodeSet = Code128Compact(*raw.Code128Compact)
	case raw.ForceCodeSet != nil:
		set := strings.ToUpper(strings.TrimSpace(*raw.ForceCodeSet))
		if set != "A" && set != "B" && set != "C" {
			return nil, usagef("invalid --force-code-set %q: want A, B or C", *raw.ForceCodeSet)
		}
		o.CodeSet = ForceCodeSet(set)
	}
	return o, nil
}

// LinearOptions configures the remaining one-dimensional symbologies.
type LinearOptions struct {
	Margin *int
}

func (o LinearOptions) family() family { return familyLinear }

func (o LinearOptions) Fields() hint.EncodeFields {
	return hint.EncodeFields{Margin: itoa(o.Margin)}
}

func newLinearOptions(raw hint.EncodeFields) (Options, error) {
	m, err := parseMargin(raw.Margin)
	if err != nil {
		return nil, err
	}
	return LinearOptions{Margin: m}, nil
}

func parseMargin(s *string) (*int, error) {
	if s == nil {
		return nil, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(*s))
	if err != nil || n < 0 {
		return nil, usagef("invalid --margin %q: want a non-negative integer", *s)
	}
	return &n, nil
}

func parseRange(flag string, s *string, lo, hi int) (*int, error) {
	if s == nil {
		return nil, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(*s))
	if err != nil || n < lo || n > hi {
		return nil, usagef("invalid --%s %q: want an integer in %d..%d", flag, *s, lo, hi)
	}
	return &n, nil
}

func parseCharset(s *string) (*string, error) {
	if s == nil {
		return nil, nil
	}
	if _, err := barcode.LookupCharset(*s); err != nil {
		return nil, &UsageError{Err: err}
	}
	name := strings.TrimSpace(*s)
	return &name, nil
}

func itoa(n *int) *string {
	if n == nil {
		return nil
	}
	s := strconv.Itoa(*n)
	return &s
}
