package barcode

import (
	"context"
	"image"
	"image/color"
	"sort"
	"testing"

	"github.com/disintegration/imaging"
	gozxing "github.com/makiuchi-d/gozxing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/barcli/internal/format"
	"github.com/MeKo-Tech/barcli/internal/hint"
)

func blankImage(w, h int) image.Image {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img
}

func TestDecodeHintsTryHarderDefaultsOn(t *testing.T) {
	zh, allowed := decodeHints(hint.Map{})
	assert.Contains(t, zh, gozxing.DecodeHintType_TRY_HARDER)
	assert.Nil(t, allowed)

	zh, _ = decodeHints(hint.BuildDecode(false, nil))
	assert.NotContains(t, zh, gozxing.DecodeHintType_TRY_HARDER)
}

func TestDecodeHintsPossibleFormats(t *testing.T) {
	zh, allowed := decodeHints(hint.BuildDecode(true, []format.Format{format.QRCode, format.EAN13}))
	assert.Equal(t, []format.Format{format.QRCode, format.EAN13}, allowed)
	assert.Equal(t,
		[]gozxing.BarcodeFormat{gozxing.BarcodeFormat_QR_CODE, gozxing.BarcodeFormat_EAN_13},
		zh[gozxing.DecodeHintType_POSSIBLE_FORMATS])
}

func TestReaderOrder(t *testing.T) {
	r := newMultiFormatReader()

	fast := r.order(map[gozxing.DecodeHintType]interface{}{})
	assert.Equal(t, format.UPCA, fast[0], "linear readers run first without try-harder")

	thorough := r.order(map[gozxing.DecodeHintType]interface{}{gozxing.DecodeHintType_TRY_HARDER: true})
	assert.Equal(t, format.QRCode, thorough[0], "matrix readers run first with try-harder")
	assert.Len(t, thorough, len(readerFactories))

	only := r.order(map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_POSSIBLE_FORMATS: []gozxing.BarcodeFormat{gozxing.BarcodeFormat_AZTEC},
	})
	assert.Equal(t, []format.Format{format.Aztec}, only)
}

func TestFormatMappingRoundTrip(t *testing.T) {
	for f, zf := range zxingFormats {
		assert.Equal(t, f, fromZXing(zf), f.String())
	}
}

func TestDecodeBlankImageNotFound(t *testing.T) {
	b := NewBackend()
	_, err := b.Decode(context.Background(), blankImage(120, 120), hint.Map{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = b.DecodeMulti(context.Background(), blankImage(120, 120), hint.Map{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDecodeCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewBackend().Decode(ctx, blankImage(10, 10), hint.Map{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQRRoundTrip(t *testing.T) {
	ctx := context.Background()
	b := NewBackend()

	img, err := b.Encode(ctx, "hello", format.QRCode, 200, 200, hint.Map{})
	require.NoError(t, err)

	res, err := b.Decode(ctx, img, hint.Map{})
	require.NoError(t, err)
	assert.Equal(t, format.QRCode, res.Format)
	assert.Equal(t, "hello", res.Text)

	all, err := b.DecodeMulti(ctx, img, hint.Map{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "hello", all[0].Text)
}

func TestCode128RoundTrip(t *testing.T) {
	ctx := context.Background()
	b := NewBackend()

	img, err := b.Encode(ctx, "BARCLI-128", format.Code128, 300, 80, hint.Map{})
	require.NoError(t, err)

	res, err := b.Decode(ctx, img, hint.BuildDecode(true, []format.Format{format.Code128}))
	require.NoError(t, err)
	assert.Equal(t, format.Code128, res.Format)
	assert.Equal(t, "BARCLI-128", res.Text)
}

func TestDecodeAllowListExcludesSymbol(t *testing.T) {
	ctx := context.Background()
	b := NewBackend()
	img, err := b.Encode(ctx, "hello", format.QRCode, 200, 200, hint.Map{})
	require.NoError(t, err)

	_, err = b.Decode(ctx, img, hint.BuildDecode(true, []format.Format{format.EAN13}))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRectFromPoints(t *testing.T) {
	assert.True(t, rectFromPoints(nil).Empty())
	r := rectFromPoints([]Point{{3, 9}, {10, 2}, {5, 5}})
	assert.Equal(t, image.Rect(3, 2, 11, 10), r)
}

func TestGoQRFallbackRespectsAllowList(t *testing.T) {
	d := newZXingDecoder()
	assert.Nil(t, d.recognizeQR(blankImage(40, 40), []format.Format{format.Code39}))

	d.qrFallback = false
	assert.Nil(t, d.recognizeQR(blankImage(40, 40), nil))
}

// sideBySide pastes imgs left to right on a white canvas with gap pixels
// between them.
func sideBySide(gap int, imgs ...image.Image) image.Image {
	w, h := 0, 0
	for _, img := range imgs {
		w += img.Bounds().Dx() + gap
		h = max(h, img.Bounds().Dy())
	}
	canvas := imaging.New(w+gap, h+2*gap, color.White)
	x := gap
	for _, img := range imgs {
		canvas = imaging.Paste(canvas, img, image.Pt(x, gap))
		x += img.Bounds().Dx() + gap
	}
	return canvas
}

func TestDecodeMultiTwoSymbols(t *testing.T) {
	ctx := context.Background()
	b := NewBackend()

	qr, err := b.Encode(ctx, "first", format.QRCode, 200, 200, hint.Map{})
	require.NoError(t, err)
	code128, err := b.Encode(ctx, "SECOND", format.Code128, 300, 120, hint.Map{})
	require.NoError(t, err)
	img := sideBySide(40, qr, code128)

	results, err := b.DecodeMulti(ctx, img, hint.Map{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	sort.Slice(results, func(i, j int) bool { return results[i].Text < results[j].Text })
	assert.Equal(t, format.Code128, results[0].Format)
	assert.Equal(t, "SECOND", results[0].Text)
	assert.Equal(t, format.QRCode, results[1].Format)
	assert.Equal(t, "first", results[1].Text)

	// Points found in a cropped region are reported in full-image coordinates.
	assert.Greater(t, results[0].BBox.Min.X, qr.Bounds().Dx())
	assert.Less(t, results[1].BBox.Max.X, qr.Bounds().Dx()+40)
}

func TestDecodeMultiHonorsAllowList(t *testing.T) {
	ctx := context.Background()
	b := NewBackend()

	qr, err := b.Encode(ctx, "first", format.QRCode, 200, 200, hint.Map{})
	require.NoError(t, err)
	code128, err := b.Encode(ctx, "SECOND", format.Code128, 300, 120, hint.Map{})
	require.NoError(t, err)

	results, err := b.DecodeMulti(ctx, sideBySide(40, qr, code128), hint.BuildDecode(true, []format.Format{format.Code128}))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "SECOND", results[0].Text)
}

func TestDecodeUndecodableFormat(t *testing.T) {
	ctx := context.Background()
	b := NewBackend()
	only := hint.BuildDecode(true, []format.Format{format.PDF417})

	_, err := b.Decode(ctx, blankImage(50, 50), only)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), "PDF_417 cannot be decoded")

	_, err = b.DecodeMulti(ctx, blankImage(50, 50), only)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	// A decodable format alongside keeps the search going.
	_, err = b.Decode(ctx, blankImage(50, 50), hint.BuildDecode(true, []format.Format{format.PDF417, format.QRCode}))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTranslateResult(t *testing.T) {
	r := gozxing.NewResult("x", nil, []gozxing.ResultPoint{
		gozxing.NewResultPoint(1, 2), nil, gozxing.NewResultPoint(5, 6),
	}, gozxing.BarcodeFormat_CODE_128)

	assert.Same(t, r, translateResult(r, 0, 0))

	moved := translateResult(r, 10, 20)
	pts := moved.GetResultPoints()
	require.Len(t, pts, 2)
	assert.Equal(t, 11.0, pts[0].GetX())
	assert.Equal(t, 22.0, pts[0].GetY())
	assert.Equal(t, 15.0, pts[1].GetX())
	assert.Equal(t, "x", moved.GetText())
}

func TestMergeResultsDeduplicates(t *testing.T) {
	a := gozxing.NewResult("a", nil, nil, gozxing.BarcodeFormat_QR_CODE)
	b := gozxing.NewResult("a", nil, nil, gozxing.BarcodeFormat_QR_CODE)
	c := gozxing.NewResult("a", nil, nil, gozxing.BarcodeFormat_AZTEC)

	merged := mergeResults([]*gozxing.Result{a}, []*gozxing.Result{b, c})
	assert.Equal(t, []*gozxing.Result{a, c}, merged)
}
