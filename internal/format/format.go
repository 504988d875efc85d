// Package format enumerates the barcode symbologies barcli knows about and
// parses the loosely spelled names users type on the command line.
package format

import (
	"fmt"
	"sort"
	"strings"
)

// Format represents a barcode symbology.
type Format int

const (
	Unknown Format = iota
	Aztec
	Codabar
	Code39
	Code93
	Code128
	DataMatrix
	EAN8
	EAN13
	ITF
	MaxiCode
	PDF417
	QRCode
	RSS14
	RSSExpanded
	UPCA
	UPCE
	UPCEANExtension
)

var names = map[Format]string{
	Aztec:           "AZTEC",
	Codabar:         "CODABAR",
	Code39:          "CODE_39",
	Code93:          "CODE_93",
	Code128:         "CODE_128",
	DataMatrix:      "DATA_MATRIX",
	EAN8:            "EAN_8",
	EAN13:           "EAN_13",
	ITF:             "ITF",
	MaxiCode:        "MAXICODE",
	PDF417:          "PDF_417",
	QRCode:          "QR_CODE",
	RSS14:           "RSS_14",
	RSSExpanded:     "RSS_EXPANDED",
	UPCA:            "UPC_A",
	UPCE:            "UPC_E",
	UPCEANExtension: "UPC_EAN_EXTENSION",
}

// aliases maps normalized spellings (upper case, no separators) to formats.
var aliases = map[string]Format{
	"QR":              QRCode,
	"QRCODE":          QRCode,
	"DATAMATRIX":      DataMatrix,
	"DM":              DataMatrix,
	"AZTEC":           Aztec,
	"PDF417":          PDF417,
	"CODE128":         Code128,
	"CODE39":          Code39,
	"CODE93":          Code93,
	"EAN8":            EAN8,
	"EAN13":           EAN13,
	"UPCA":            UPCA,
	"UPCE":            UPCE,
	"ITF":             ITF,
	"INTERLEAVED2OF5": ITF,
	"CODABAR":         Codabar,
	"MAXICODE":        MaxiCode,
	"RSS14":           RSS14,
	"RSSEXPANDED":     RSSExpanded,
	"UPCEANEXTENSION": UPCEANExtension,
}

// String returns the canonical upper-case name, e.g. "QR_CODE".
func (f Format) String() string {
	if n, ok := names[f]; ok {
		return n
	}
	return "UNKNOWN"
}

// Parse resolves a user supplied format name. Matching ignores case and the
// separators '_', '-' and ' ', so "QRCODE", "qr_code" and "qr-code" are the same.
func Parse(s string) (Format, error) {
	key := normalize(s)
	if f, ok := aliases[key]; ok {
		return f, nil
	}
	return Unknown, fmt.Errorf("unknown barcode format %q (valid: %s)", s, strings.Join(Names(), ", "))
}

// All returns every known format in declaration order.
func All() []Format {
	out := make([]Format, 0, len(names))
	for f := Aztec; f <= UPCEANExtension; f++ {
		out = append(out, f)
	}
	return out
}

// Names returns the canonical names of all formats, sorted.
func Names() []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Dedup returns fs with duplicates removed, keeping first-seen order.
func Dedup(fs []Format) []Format {
	if fs == nil {
		return nil
	}
	seen := make(map[Format]struct{}, len(fs))
	out := make([]Format, 0, len(fs))
	for _, f := range fs {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// Is2D reports whether the symbology is a matrix or stacked code.
func (f Format) Is2D() bool {
	switch f {
	case Aztec, DataMatrix, MaxiCode, PDF417, QRCode:
		return true
	default:
		return false
	}
}

func normalize(s string) string {
	r := strings.NewReplacer("_", "", "-", "", " ", "")
	return strings.ToUpper(r.Replace(strings.TrimSpace(s)))
}
