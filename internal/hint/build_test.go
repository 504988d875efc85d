package hint

import (
	"testing"

	"github.com/MeKo-Tech/barcli/internal/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildEncodeEmpty(t *testing.T) {
	m := BuildEncode(EncodeFields{})
	assert.Empty(t, m)
}

func TestBuildEncodeCoercion(t *testing.T) {
	tests := []struct {
		name   string
		fields EncodeFields
		key    Key
		want   Value
	}{
		{"error correction", EncodeFields{ErrorCorrection: Ptr("H")}, ErrorCorrection, String("H")},
		{"character set", EncodeFields{CharacterSet: Ptr("UTF-8")}, CharacterSet, String("UTF-8")},
		{"data matrix compact", EncodeFields{DataMatrixCompact: Ptr(true)}, DataMatrixCompact, Bool(true)},
		{"margin", EncodeFields{Margin: Ptr("4")}, Margin, String("4")},
		{"pdf417 compact", EncodeFields{PDF417Compact: Ptr(true)}, PDF417Compact, String("true")},
		{"pdf417 compaction", EncodeFields{PDF417Compaction: Ptr("TEXT")}, PDF417Compaction, String("TEXT")},
		{"pdf417 auto eci", EncodeFields{PDF417AutoECI: Ptr(false)}, PDF417AutoECI, String("false")},
		{"aztec layers", EncodeFields{AztecLayers: Ptr(int32(-2))}, AztecLayers, Int(-2)},
		{"qr version", EncodeFields{QRVersion: Ptr("7")}, QRVersion, String("7")},
		{"qr mask pattern", EncodeFields{QRMaskPattern: Ptr("3")}, QRMaskPattern, String("3")},
		{"qr compact", EncodeFields{QRCompact: Ptr(true)}, QRCompact, String("true")},
		{"gs1 format", EncodeFields{GS1Format: Ptr(true)}, GS1Format, Bool(true)},
		{"force code set", EncodeFields{ForceCodeSet: Ptr("B")}, ForceCodeSet, String("B")},
		{"force c40", EncodeFields{ForceC40: Ptr(true)}, ForceC40, Bool(true)},
		{"code128 compact", EncodeFields{Code128Compact: Ptr(false)}, Code128Compact, Bool(false)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := BuildEncode(tt.fields)
			require.Len(t, m, 1)
			got, ok := m.Get(tt.key)
			require.True(t, ok)
			assert.True(t, tt.want.Equal(got), "want %s(%s) got %s(%s)", tt.want.Kind(), tt.want, got.Kind(), got)
		})
	}
}

func TestBuildEncodeAztecLayersIsSignedInt(t *testing.T) {
	m := BuildEncode(EncodeFields{AztecLayers: Ptr(int32(-2))})
	v, ok := m.GetInt(AztecLayers)
	require.True(t, ok)
	assert.Equal(t, int32(-2), v)

	_, isString := m.GetString(AztecLayers)
	assert.False(t, isString)
}

func TestBuildEncodeOnlySuppliedKeys(t *testing.T) {
	m := BuildEncode(EncodeFields{
		ErrorCorrection: Ptr("M"),
		Margin:          Ptr("2"),
		GS1Format:       Ptr(true),
	})
	assert.Equal(t, []Key{ErrorCorrection, Margin, GS1Format}, m.Keys())
	assert.Equal(t, "{ERROR_CORRECTION=M MARGIN=2 GS1_FORMAT=true}", m.String())
}

func TestBuildEncodeAllFields(t *testing.T) {
	m := BuildEncode(EncodeFields{
		ErrorCorrection:   Ptr("L"),
		CharacterSet:      Ptr("ISO-8859-1"),
		DataMatrixCompact: Ptr(true),
		Margin:            Ptr("1"),
		PDF417Compact:     Ptr(true),
		PDF417Compaction:  Ptr("BYTE"),
		PDF417AutoECI:     Ptr(true),
		AztecLayers:       Ptr(int32(5)),
		QRVersion:         Ptr("10"),
		QRMaskPattern:     Ptr("1"),
		QRCompact:         Ptr(false),
		GS1Format:         Ptr(false),
		ForceCodeSet:      Ptr("C"),
		ForceC40:          Ptr(false),
		Code128Compact:    Ptr(true),
	})
	assert.Len(t, m, 15)
	assert.NotContains(t, m, TryHarder)
	assert.NotContains(t, m, PossibleFormats)
}

func TestBuildDecodeTryHarderInverted(t *testing.T) {
	off := BuildDecode(false, nil)
	v, ok := off.GetBool(TryHarder)
	require.True(t, ok, "try_harder=false must insert an explicit hint")
	assert.False(t, v)

	on := BuildDecode(true, nil)
	assert.False(t, on.Has(TryHarder), "try_harder=true must omit the hint")
	assert.Empty(t, on)
}

func TestBuildDecodePossibleFormatsDeduplicated(t *testing.T) {
	m := BuildDecode(true, []format.Format{format.QRCode, format.Code128, format.QRCode})
	fs, ok := m.GetFormats(PossibleFormats)
	require.True(t, ok)
	assert.Equal(t, []format.Format{format.QRCode, format.Code128}, fs)
}

func TestBuildDecodeEmptyAllowList(t *testing.T) {
	m := BuildDecode(true, []format.Format{})
	assert.False(t, m.Has(PossibleFormats))
}

func TestValueKinds(t *testing.T) {
	_, ok := String("x").AsBool()
	assert.False(t, ok)
	_, ok = Bool(true).AsInt()
	assert.False(t, ok)
	_, ok = Int(3).AsFormats()
	assert.False(t, ok)
	assert.Equal(t, "[QR_CODE,AZTEC]", Formats(format.QRCode, format.Aztec).String())
	assert.Equal(t, "-4", Int(-4).String())
	assert.False(t, String("1").Equal(Int(1)))
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "CODE128_COMPACT", Code128Compact.String())
	assert.Equal(t, "Key(99)", Key(99).String())
}
