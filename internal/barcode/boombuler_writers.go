package barcode

import (
	"fmt"
	"image"
	"image/color"

	bc "github.com/boombuler/barcode"
	"github.com/boombuler/barcode/aztec"
	"github.com/boombuler/barcode/code93"
	"github.com/boombuler/barcode/pdf417"
	"github.com/disintegration/imaging"

	"github.com/MeKo-Tech/barcli/internal/format"
	"github.com/MeKo-Tech/barcli/internal/hint"
)

// Defaults mirror the zxing writers for the same symbologies.
const (
	aztecDefaultECPercent = 33
	aztecDefaultMargin    = 0
	pdf417DefaultLevel    = 2
	pdf417DefaultMargin   = 2
	linearDefaultMargin   = 10
)

func registerBoombulerWriters(r *encoderRegistry) {
	r.register(format.Aztec, symbolEncoder{
		accepts: keySet(hint.ErrorCorrection, hint.AztecLayers, hint.CharacterSet, hint.Margin),
		encode:  encodeAztec,
	})
	r.register(format.PDF417, symbolEncoder{
		accepts: keySet(hint.ErrorCorrection, hint.Margin),
		encode:  encodePDF417,
	})
	r.register(format.Code93, symbolEncoder{
		accepts: keySet(hint.Margin),
		encode:  encodeCode93,
	})
}

func encodeAztec(contents string, width, height int, hints hint.Map) (image.Image, error) {
	ec, ok, err := intHint(hints, hint.ErrorCorrection)
	if err != nil {
		return nil, err
	}
	if !ok {
		ec = aztecDefaultECPercent
	}
	if ec < 1 || ec > 99 {
		return nil, fmt.Errorf("%w: ERROR_CORRECTION=%d (want 1..99 percent)", ErrInvalidHint, ec)
	}

	layers, _, err := intHint(hints, hint.AztecLayers)
	if err != nil {
		return nil, err
	}

	data := []byte(contents)
	if cs, ok := hints.GetString(hint.CharacterSet); ok {
		if data, err = Transcode(contents, cs); err != nil {
			return nil, err
		}
	}

	margin, err := marginHint(hints, aztecDefaultMargin)
	if err != nil {
		return nil, err
	}
	code, err := aztec.Encode(data, ec, layers)
	if err != nil {
		return nil, err
	}
	return render(code, width, height, margin)
}

func encodePDF417(contents string, width, height int, hints hint.Map) (image.Image, error) {
	level, ok, err := intHint(hints, hint.ErrorCorrection)
	if err != nil {
		return nil, err
	}
	if !ok {
		level = pdf417DefaultLevel
	}
	if level < 0 || level > 8 {
		return nil, fmt.Errorf("%w: ERROR_CORRECTION=%d (want 0..8)", ErrInvalidHint, level)
	}
	margin, err := marginHint(hints, pdf417DefaultMargin)
	if err != nil {
		return nil, err
	}
	code, err := pdf417.Encode(contents, byte(level))
	if err != nil {
		return nil, err
	}
	return render(code, width, height, margin)
}

func encodeCode93(contents string, width, height int, hints hint.Map) (image.Image, error) {
	margin, err := marginHint(hints, linearDefaultMargin)
	if err != nil {
		return nil, err
	}
	code, err := code93.Encode(contents, true, true)
	if err != nil {
		return nil, err
	}
	return render(code, width, height, margin)
}

// render scales code by the largest whole module factor that fits, surrounds
// it with margin modules of white and centers it on a white canvas of at
// least width x height. Linear codes are stretched to the full height.
func render(code bc.Barcode, width, height, margin int) (image.Image, error) {
	b := code.Bounds()
	cols, rows := b.Dx()+2*margin, b.Dy()+2*margin
	linear := code.Metadata().Dimensions == 1

	factor := width / cols
	if !linear {
		factor = min(factor, height/rows)
	}
	factor = max(factor, 1)

	symW, symH := b.Dx()*factor, b.Dy()*factor
	canvasW, canvasH := max(width, cols*factor), max(height, rows*factor)
	if linear {
		symH = height
		canvasH = height
	}

	scaled, err := bc.Scale(code, symW, symH)
	if err != nil {
		return nil, err
	}
	canvas := imaging.New(canvasW, canvasH, color.White)
	return imaging.PasteCenter(canvas, scaled), nil
}
