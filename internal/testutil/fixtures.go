package testutil

import (
	"path/filepath"
	"testing"

	"github.com/MeKo-Tech/barcli/internal/format"
)

// SymbolFixture describes a generated symbol image and the text it carries.
type SymbolFixture struct {
	Name   string
	Format format.Format
	Text   string
	Size   ImageSize
}

// File returns the fixture's file name.
func (f SymbolFixture) File() string { return f.Name + ".png" }

// SymbolFixtures is the standard set of decodable fixtures.
func SymbolFixtures() []SymbolFixture {
	return []SymbolFixture{
		{Name: "qr_hello", Format: format.QRCode, Text: "hello", Size: SquareSize},
		{Name: "datamatrix_abc", Format: format.DataMatrix, Text: "ABC123", Size: SquareSize},
		{Name: "code128_item", Format: format.Code128, Text: "ITEM-0042", Size: WideSize},
		{Name: "ean13_product", Format: format.EAN13, Text: "5901234123457", Size: WideSize},
	}
}

// WriteSymbolFixtures generates every fixture into dir and returns the
// fixtures with their paths.
func WriteSymbolFixtures(t *testing.T, dir string) map[string]SymbolFixture {
	t.Helper()

	out := make(map[string]SymbolFixture)
	for _, f := range SymbolFixtures() {
		path := filepath.Join(dir, f.File())
		WriteSymbol(t, path, f.Format, f.Text, f.Size)
		out[path] = f
	}
	return out
}

// WriteMultiFixture writes one image holding a QR code and a Code 128
// symbol next to each other.
func WriteMultiFixture(t *testing.T, path string) []SymbolFixture {
	t.Helper()

	fixtures := []SymbolFixture{
		{Name: "multi_qr", Format: format.QRCode, Text: "first", Size: SquareSize},
		{Name: "multi_code128", Format: format.Code128, Text: "SECOND", Size: WideSize},
	}
	SaveImage(t, SideBySide(40,
		EncodeSymbol(t, fixtures[0].Format, fixtures[0].Text, fixtures[0].Size),
		EncodeSymbol(t, fixtures[1].Format, fixtures[1].Text, fixtures[1].Size),
	), path)
	return fixtures
}
