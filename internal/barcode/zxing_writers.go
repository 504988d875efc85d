package barcode

import (
	"fmt"
	"image"
	"strings"

	gozxing "github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/datamatrix"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/makiuchi-d/gozxing/qrcode/decoder"

	"github.com/MeKo-Tech/barcli/internal/format"
	"github.com/MeKo-Tech/barcli/internal/hint"
)

var qrLevels = map[string]decoder.ErrorCorrectionLevel{
	"L": decoder.ErrorCorrectionLevel_L,
	"M": decoder.ErrorCorrectionLevel_M,
	"Q": decoder.ErrorCorrectionLevel_Q,
	"H": decoder.ErrorCorrectionLevel_H,
}

func registerZXingWriters(r *encoderRegistry) {
	linear := keySet(hint.Margin)

	writers := []struct {
		f       format.Format
		accepts map[hint.Key]bool
		mk      func() gozxing.Writer
	}{
		{format.QRCode, keySet(hint.ErrorCorrection, hint.CharacterSet, hint.Margin, hint.QRVersion,
			hint.QRMaskPattern, hint.GS1Format),
			func() gozxing.Writer { return qrcode.NewQRCodeWriter() }},
		// The gozxing Data Matrix writer only reads shape and size hints.
		{format.DataMatrix, keySet(),
			func() gozxing.Writer { return datamatrix.NewDataMatrixWriter() }},
		{format.Code128, keySet(hint.Margin, hint.ForceCodeSet),
			func() gozxing.Writer { return oned.NewCode128Writer() }},
		{format.Code39, linear, func() gozxing.Writer { return oned.NewCode39Writer() }},
		{format.EAN13, linear, func() gozxing.Writer { return oned.NewEAN13Writer() }},
		{format.EAN8, linear, func() gozxing.Writer { return oned.NewEAN8Writer() }},
		{format.UPCA, linear, func() gozxing.Writer { return oned.NewUPCAWriter() }},
		{format.ITF, linear, func() gozxing.Writer { return oned.NewITFWriter() }},
		{format.Codabar, linear, func() gozxing.Writer { return oned.NewCodaBarWriter() }},
	}

	for _, w := range writers {
		zf, _ := toZXing(w.f)
		mk := w.mk
		accepts := w.accepts
		r.register(w.f, symbolEncoder{
			accepts: accepts,
			encode: func(contents string, width, height int, hints hint.Map) (image.Image, error) {
				zh, err := encodeHints(hints, accepts)
				if err != nil {
					return nil, err
				}
				bm, err := mk().Encode(contents, zf, width, height, zh)
				if err != nil {
					return nil, err
				}
				return bm, nil
			},
		})
	}
}

// encodeHints converts the accepted subset of hints into gozxing values.
func encodeHints(hints hint.Map, accepts map[hint.Key]bool) (map[gozxing.EncodeHintType]interface{}, error) {
	zh := make(map[gozxing.EncodeHintType]interface{})

	if s, ok := hints.GetString(hint.ErrorCorrection); ok && accepts[hint.ErrorCorrection] {
		level, ok := qrLevels[strings.ToUpper(s)]
		if !ok {
			return nil, fmt.Errorf("%w: ERROR_CORRECTION=%q (want L, M, Q or H)", ErrInvalidHint, s)
		}
		zh[gozxing.EncodeHintType_ERROR_CORRECTION] = level
	}
	if s, ok := hints.GetString(hint.CharacterSet); ok && accepts[hint.CharacterSet] {
		zh[gozxing.EncodeHintType_CHARACTER_SET] = s
	}
	if accepts[hint.Margin] {
		if m, ok, err := intHint(hints, hint.Margin); err != nil {
			return nil, err
		} else if ok {
			if m < 0 {
				return nil, fmt.Errorf("%w: MARGIN=%d must not be negative", ErrInvalidHint, m)
			}
			zh[gozxing.EncodeHintType_MARGIN] = m
		}
	}
	if accepts[hint.QRVersion] {
		if v, ok, err := intHint(hints, hint.QRVersion); err != nil {
			return nil, err
		} else if ok {
			zh[gozxing.EncodeHintType_QR_VERSION] = v
		}
	}
	if accepts[hint.QRMaskPattern] {
		if m, ok, err := intHint(hints, hint.QRMaskPattern); err != nil {
			return nil, err
		} else if ok {
			if m < 0 || m > 7 {
				return nil, fmt.Errorf("%w: QR_MASK_PATTERN=%d (want 0..7)", ErrInvalidHint, m)
			}
			zh[gozxing.EncodeHintType_QR_MASK_PATTERN] = m
		}
	}
	if b, ok := hints.GetBool(hint.GS1Format); ok && accepts[hint.GS1Format] {
		zh[gozxing.EncodeHintType_GS1_FORMAT] = b
	}
	if s, ok := hints.GetString(hint.ForceCodeSet); ok && accepts[hint.ForceCodeSet] {
		set := strings.ToUpper(strings.TrimSpace(s))
		if set != "A" && set != "B" && set != "C" {
			return nil, fmt.Errorf("%w: FORCE_CODE_SET=%q (want A, B or C)", ErrInvalidHint, s)
		}
		zh[gozxing.EncodeHintType_FORCE_CODE_SET] = set
	}
	return zh, nil
}
