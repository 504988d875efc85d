package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/barcli/internal/command"
	"github.com/MeKo-Tech/barcli/internal/format"
	"github.com/MeKo-Tech/barcli/internal/testutil"
)

func TestDecodeCommandFlags(t *testing.T) {
	decodeCmd := newDecodeCmd()
	for _, name := range []string{"try-harder", "decode-multi", "barcode-types", "format"} {
		assert.NotNil(t, decodeCmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "t", decodeCmd.Flags().Lookup("try-harder").Shorthand)
	assert.Equal(t, "d", decodeCmd.Flags().Lookup("decode-multi").Shorthand)
	assert.Equal(t, "b", decodeCmd.Flags().Lookup("barcode-types").Shorthand)
}

func TestDecodeSingle(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "hello.png")
	testutil.WriteSymbol(t, path, format.QRCode, "hello", testutil.SquareSize)

	code, out, _ := run(t, "decode", path)
	assert.Equal(t, 0, code)
	assert.Equal(t, "Detection result: \n(QR_CODE) hello\n", out)
}

func TestDecodeFileFirstOrder(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "hello.png")
	testutil.WriteSymbol(t, path, format.QRCode, "hello", testutil.SquareSize)

	code, out, _ := run(t, path, "decode", "--try-harder")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "(QR_CODE) hello")
}

func TestDecodeNothingFoundIsNotAnError(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "text.png")
	testutil.SaveImage(t, testutil.CreateTextImage("plain words", testutil.WideSize), path)

	code, out, _ := run(t, "decode", path)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Error while attempting to locate barcode in '"+path+"'")
}

func TestDecodeAllowListExcludes(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "hello.png")
	testutil.WriteSymbol(t, path, format.QRCode, "hello", testutil.SquareSize)

	code, out, _ := run(t, "decode", path, "-b", "CODE_128,EAN_13")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Error while attempting to locate barcode")
}

func TestDecodeEncodeOnlyFormat(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "hello.png")
	testutil.WriteSymbol(t, path, format.QRCode, "hello", testutil.SquareSize)

	code, out, _ := run(t, "decode", path, "-b", "PDF_417")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Error while attempting to locate barcode in '"+path+"'")
	assert.Contains(t, out, "PDF_417 cannot be decoded")
}

func TestDecodeUnknownBarcodeType(t *testing.T) {
	isolate(t)
	code, _, errOut := run(t, "decode", "x.png", "-b", "SQUIGGLE")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "unknown barcode format")
}

func TestDecodeMultiJSON(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "multi.png")
	fixtures := testutil.WriteMultiFixture(t, path)

	code, out, _ := run(t, "decode", path, "-d", "-f", "json")
	require.Equal(t, 0, code)

	var rep command.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.True(t, rep.Multi)
	texts := []string{}
	for _, r := range rep.Results {
		texts = append(texts, r.Text)
	}
	for _, fx := range fixtures {
		assert.Contains(t, texts, fx.Text)
	}
}

func TestDecodeDefaultsFromConfig(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "hello.png")
	testutil.WriteSymbol(t, path, format.QRCode, "hello", testutil.SquareSize)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "barcli.yaml"),
		[]byte("output:\n  format: yaml\ndecode:\n  multi: true\n"), 0o600))

	code, out, _ := run(t, "decode", path)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "multi: true")
	assert.Contains(t, out, "text: hello")

	code, out, _ = run(t, "decode", path, "--format", "text")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Found 1 results")
}

func TestDecodeInvalidOutputFormat(t *testing.T) {
	isolate(t)
	code, _, errOut := run(t, "decode", "x.png", "-f", "xml")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "invalid output format")
}
