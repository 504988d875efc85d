package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/barcli/internal/command"
	"github.com/MeKo-Tech/barcli/internal/testutil"
)

func TestEncodeCommandFlags(t *testing.T) {
	encodeCmd := newEncodeCmd()
	for _, name := range command.FlagNames {
		assert.NotNil(t, encodeCmd.Flags().Lookup(name), name)
	}
	for _, name := range []string{"width", "height", "data", "data-file"} {
		assert.NotNil(t, encodeCmd.Flags().Lookup(name), name)
	}
}

func TestEncodeThenDecodeQR(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "hello.png")

	code, out, errOut := run(t, "encode", path, "QRCODE", "--width", "200", "--height", "200", "-d", "hello")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "Encode successful, saving...\nSaved to '"+path+"'\n", out)

	img := testutil.LoadImage(t, path)
	assert.GreaterOrEqual(t, img.Bounds().Dx(), 200)

	code, out, _ = run(t, "decode", path)
	assert.Equal(t, 0, code)
	assert.Equal(t, "Detection result: \n(QR_CODE) hello\n", out)
}

func TestEncodeFromDataFile(t *testing.T) {
	dir := isolate(t)
	data := filepath.Join(dir, "sku.txt")
	require.NoError(t, os.WriteFile(data, []byte("SKU-991"), 0o600))
	path := filepath.Join(dir, "sku.png")

	code, _, errOut := run(t, path, "encode", "code-128", "--width", "300", "--height", "100", "--data-file", data)
	require.Equal(t, 0, code, errOut)

	code, out, _ := run(t, "decode", path, "-t")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "(CODE_128) SKU-991")
}

func TestEncodeDeterministic(t *testing.T) {
	dir := isolate(t)
	a, b := filepath.Join(dir, "a.png"), filepath.Join(dir, "b.png")
	for _, p := range []string{a, b} {
		code, _, errOut := run(t, "encode", p, "AZTEC", "--width", "120", "--height", "120", "-d", "same", "--error-correction", "40")
		require.Equal(t, 0, code, errOut)
	}
	assert.True(t, testutil.SameImage(testutil.LoadImage(t, a), testutil.LoadImage(t, b)))
}

func TestEncodeErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"both sources", []string{"-d", "x", "--data-file", "f.txt"}, "provide only data string or data file"},
		{"no source", nil, "must provide either data string or data file"},
		{"missing data file", []string{"--data-file", "absent.txt"}, "absent.txt does not exist"},
		{"foreign flag", []string{"-d", "x", "--aztec-layers", "3"}, "--aztec-layers does not apply to QR_CODE"},
		{"bad level", []string{"-d", "x", "--error-correction", "Z"}, "invalid --error-correction"},
		{"qr version range", []string{"-d", "x", "--qr-version", "50"}, "invalid --qr-version"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			path := filepath.Join(dir, "out.png")
			args := append([]string{"encode", path, "QR_CODE", "--width", "100", "--height", "100"}, tt.args...)

			code, out, errOut := run(t, args...)
			assert.Equal(t, 1, code)
			assert.Contains(t, out+errOut, tt.want)
			assert.False(t, testutil.FileExists(path), "no output file may be written")
		})
	}
}

func TestEncodeCode128ExclusiveFlags(t *testing.T) {
	dir := isolate(t)
	code, _, errOut := run(t, "encode", filepath.Join(dir, "x.png"), "CODE_128", "--width", "100", "--height", "50",
		"-d", "x", "--code-128-compact", "--force-code-set", "B")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "mutually exclusive")
}

func TestEncodeMissingDimensions(t *testing.T) {
	dir := isolate(t)
	code, _, errOut := run(t, "encode", filepath.Join(dir, "x.png"), "QR", "-d", "x")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "required flag")

	code, _, errOut = run(t, "encode", filepath.Join(dir, "x.png"), "QR", "-d", "x", "--width", "0", "--height", "10")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "greater than zero")
}

func TestEncodeUnknownFormat(t *testing.T) {
	dir := isolate(t)
	code, _, errOut := run(t, "encode", filepath.Join(dir, "x.png"), "SQUIGGLE", "--width", "10", "--height", "10", "-d", "x")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "unknown barcode format")
}

func TestEncodeUnsupportedExtension(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "x.svg")
	code, out, errOut := run(t, "encode", path, "QR", "--width", "100", "--height", "100", "-d", "x")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Could not save '"+path+"'")
	assert.Empty(t, errOut, "reported errors are not printed twice")
}
