package barcode

import (
	"context"

	gozxing "github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/multi"
)

const (
	multiMaxDepth     = 4
	multiMinDimension = 100
)

// genericMultiReader finds several symbols by decoding once, then searching
// the regions left of, above, right of and below the symbol it found.
// Results are deduplicated by format and text.
type genericMultiReader struct {
	delegate gozxing.Reader
	ctx      context.Context
}

var _ multi.MultipleBarcodeReader = (*genericMultiReader)(nil)

func newGenericMultiReader(ctx context.Context, delegate gozxing.Reader) *genericMultiReader {
	return &genericMultiReader{delegate: delegate, ctx: ctx}
}

func (g *genericMultiReader) DecodeMultipleWithoutHint(bmp *gozxing.BinaryBitmap) ([]*gozxing.Result, error) {
	return g.DecodeMultiple(bmp, nil)
}

func (g *genericMultiReader) DecodeMultiple(bmp *gozxing.BinaryBitmap, hints map[gozxing.DecodeHintType]interface{}) ([]*gozxing.Result, error) {
	var results []*gozxing.Result
	lastErr := g.search(bmp, hints, &results, 0, 0, 0)
	if len(results) == 0 {
		if lastErr == nil {
			lastErr = gozxing.NewNotFoundException()
		}
		return nil, lastErr
	}
	return results, nil
}

// search decodes bmp and recurses into the uncovered margins. It returns the
// delegate's error when the top-level decode found nothing.
func (g *genericMultiReader) search(bmp *gozxing.BinaryBitmap, hints map[gozxing.DecodeHintType]interface{},
	results *[]*gozxing.Result, xOff, yOff, depth int,
) error {
	if depth > multiMaxDepth {
		return nil
	}
	if err := g.ctx.Err(); err != nil {
		return err
	}

	res, err := g.delegate.Decode(bmp, hints)
	if err != nil {
		return err
	}
	if !containsResult(*results, res) {
		*results = append(*results, translateResult(res, xOff, yOff))
	}

	points := res.GetResultPoints()
	if len(points) == 0 || !bmp.IsCropSupported() {
		return nil
	}

	width, height := bmp.GetWidth(), bmp.GetHeight()
	minX, minY := float64(width), float64(height)
	maxX, maxY := 0.0, 0.0
	for _, p := range points {
		if p == nil {
			continue
		}
		x, y := p.GetX(), p.GetY()
		minX = min(minX, x)
		minY = min(minY, y)
		maxX = max(maxX, x)
		maxY = max(maxY, y)
	}

	regions := []struct {
		cond                     bool
		left, top, width, height int
	}{
		{minX > multiMinDimension, 0, 0, int(minX), height},
		{minY > multiMinDimension, 0, 0, width, int(minY)},
		{maxX < float64(width-multiMinDimension), int(maxX), 0, width - int(maxX), height},
		{maxY < float64(height-multiMinDimension), 0, int(maxY), width, height - int(maxY)},
	}
	for _, r := range regions {
		if !r.cond {
			continue
		}
		sub, err := bmp.Crop(r.left, r.top, r.width, r.height)
		if err != nil {
			continue
		}
		if err := g.search(sub, hints, results, xOff+r.left, yOff+r.top, depth+1); err != nil && g.ctx.Err() != nil {
			return err
		}
	}
	return nil
}

func containsResult(results []*gozxing.Result, r *gozxing.Result) bool {
	for _, e := range results {
		if e.GetText() == r.GetText() && e.GetBarcodeFormat() == r.GetBarcodeFormat() {
			return true
		}
	}
	return false
}

// translateResult moves the result points of a cropped decode back into the
// coordinate space of the full image.
func translateResult(r *gozxing.Result, xOff, yOff int) *gozxing.Result {
	if xOff == 0 && yOff == 0 {
		return r
	}
	old := r.GetResultPoints()
	points := make([]gozxing.ResultPoint, 0, len(old))
	for _, p := range old {
		if p == nil {
			continue
		}
		points = append(points, gozxing.NewResultPoint(p.GetX()+float64(xOff), p.GetY()+float64(yOff)))
	}
	out := gozxing.NewResult(r.GetText(), r.GetRawBytes(), points, r.GetBarcodeFormat())
	out.PutAllMetadata(r.GetResultMetadata())
	return out
}

// mergeResults appends the entries of extra not already present in base.
func mergeResults(base, extra []*gozxing.Result) []*gozxing.Result {
	for _, r := range extra {
		if !containsResult(base, r) {
			base = append(base, r)
		}
	}
	return base
}
