package barcode

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/liyue201/goqr"
	gozxing "github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/aztec"
	"github.com/makiuchi-d/gozxing/datamatrix"
	multiqr "github.com/makiuchi-d/gozxing/multi/qrcode"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/oned/rss"
	"github.com/makiuchi-d/gozxing/qrcode"

	"github.com/MeKo-Tech/barcli/internal/format"
	"github.com/MeKo-Tech/barcli/internal/hint"
)

var zxingFormats = map[format.Format]gozxing.BarcodeFormat{
	format.Aztec:           gozxing.BarcodeFormat_AZTEC,
	format.Codabar:         gozxing.BarcodeFormat_CODABAR,
	format.Code39:          gozxing.BarcodeFormat_CODE_39,
	format.Code93:          gozxing.BarcodeFormat_CODE_93,
	format.Code128:         gozxing.BarcodeFormat_CODE_128,
	format.DataMatrix:      gozxing.BarcodeFormat_DATA_MATRIX,
	format.EAN8:            gozxing.BarcodeFormat_EAN_8,
	format.EAN13:           gozxing.BarcodeFormat_EAN_13,
	format.ITF:             gozxing.BarcodeFormat_ITF,
	format.MaxiCode:        gozxing.BarcodeFormat_MAXICODE,
	format.PDF417:          gozxing.BarcodeFormat_PDF_417,
	format.QRCode:          gozxing.BarcodeFormat_QR_CODE,
	format.RSS14:           gozxing.BarcodeFormat_RSS_14,
	format.RSSExpanded:     gozxing.BarcodeFormat_RSS_EXPANDED,
	format.UPCA:            gozxing.BarcodeFormat_UPC_A,
	format.UPCE:            gozxing.BarcodeFormat_UPC_E,
	format.UPCEANExtension: gozxing.BarcodeFormat_UPC_EAN_EXTENSION,
}

func toZXing(f format.Format) (gozxing.BarcodeFormat, bool) {
	bf, ok := zxingFormats[f]
	return bf, ok
}

func fromZXing(bf gozxing.BarcodeFormat) format.Format {
	for f, z := range zxingFormats {
		if z == bf {
			return f
		}
	}
	return format.Unknown
}

var readerFactories = map[format.Format]func() gozxing.Reader{
	format.QRCode:     func() gozxing.Reader { return qrcode.NewQRCodeReader() },
	format.DataMatrix: func() gozxing.Reader { return datamatrix.NewDataMatrixReader() },
	format.Aztec:      func() gozxing.Reader { return aztec.NewAztecReader() },
	format.UPCA:       func() gozxing.Reader { return oned.NewUPCAReader() },
	format.UPCE:       func() gozxing.Reader { return oned.NewUPCEReader() },
	format.EAN13:      func() gozxing.Reader { return oned.NewEAN13Reader() },
	format.EAN8:       func() gozxing.Reader { return oned.NewEAN8Reader() },
	format.Code39:     func() gozxing.Reader { return oned.NewCode39Reader() },
	format.Code93:     func() gozxing.Reader { return oned.NewCode93Reader() },
	format.Code128:    func() gozxing.Reader { return oned.NewCode128Reader() },
	format.ITF:        func() gozxing.Reader { return oned.NewITFReader() },
	format.Codabar:    func() gozxing.Reader { return oned.NewCodaBarReader() },
	format.RSS14:      func() gozxing.Reader { return rss.NewRSS14Reader() },
}

// Reader order follows zxing's MultiFormatReader: linear symbologies first
// unless the caller asked to try harder, in which case they run last.
var (
	linearOrder = []format.Format{
		format.UPCA, format.UPCE, format.EAN13, format.EAN8,
		format.Code39, format.Code93, format.Code128, format.ITF, format.Codabar,
		format.RSS14,
	}
	matrixOrder = []format.Format{
		format.QRCode, format.DataMatrix, format.Aztec,
	}
)

var errNoReader = errors.New("no reader enabled for the requested formats")

// multiFormatReader dispatches to one gozxing reader per format, honoring
// POSSIBLE_FORMATS. It satisfies gozxing.Reader so genericMultiReader can
// drive it.
type multiFormatReader struct {
	readers map[format.Format]gozxing.Reader
	ctx     context.Context
}

var _ gozxing.Reader = (*multiFormatReader)(nil)

func newMultiFormatReader() *multiFormatReader {
	readers := make(map[format.Format]gozxing.Reader, len(readerFactories))
	for f, mk := range readerFactories {
		readers[f] = mk()
	}
	return &multiFormatReader{readers: readers, ctx: context.Background()}
}

func (m *multiFormatReader) DecodeWithoutHints(bmp *gozxing.BinaryBitmap) (*gozxing.Result, error) {
	return m.Decode(bmp, nil)
}

func (m *multiFormatReader) Decode(bmp *gozxing.BinaryBitmap, hints map[gozxing.DecodeHintType]interface{}) (*gozxing.Result, error) {
	lastErr := errNoReader
	for _, f := range m.order(hints) {
		if err := m.ctx.Err(); err != nil {
			return nil, err
		}
		r, ok := m.readers[f]
		if !ok {
			continue
		}
		res, err := r.Decode(bmp, hints)
		// RSS-14 keeps row pairs between calls; a cropped region must not
		// see pairs from another one.
		r.Reset()
		if err == nil {
			return res, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func (m *multiFormatReader) Reset() {
	for _, r := range m.readers {
		r.Reset()
	}
}

func (m *multiFormatReader) order(hints map[gozxing.DecodeHintType]interface{}) []format.Format {
	_, tryHarder := hints[gozxing.DecodeHintType_TRY_HARDER]

	var allowed map[format.Format]bool
	if v, ok := hints[gozxing.DecodeHintType_POSSIBLE_FORMATS]; ok {
		if bfs, ok := v.([]gozxing.BarcodeFormat); ok && len(bfs) > 0 {
			allowed = make(map[format.Format]bool, len(bfs))
			for _, bf := range bfs {
				allowed[fromZXing(bf)] = true
			}
		}
	}

	out := make([]format.Format, 0, len(linearOrder)+len(matrixOrder))
	pick := func(fs []format.Format) {
		for _, f := range fs {
			if allowed == nil || allowed[f] {
				out = append(out, f)
			}
		}
	}
	if tryHarder {
		pick(matrixOrder)
		pick(linearOrder)
	} else {
		pick(linearOrder)
		pick(matrixOrder)
	}
	return out
}

type zxingDecoder struct {
	qrFallback bool
}

func newZXingDecoder() *zxingDecoder { return &zxingDecoder{qrFallback: true} }

// decodeHints translates barcli hints into gozxing hints. An absent
// TRY_HARDER means the exhaustive search is on; the returned allow-list is
// nil when every format is acceptable.
func decodeHints(hints hint.Map) (map[gozxing.DecodeHintType]interface{}, []format.Format) {
	zh := make(map[gozxing.DecodeHintType]interface{})

	tryHarder := true
	if v, ok := hints.GetBool(hint.TryHarder); ok {
		tryHarder = v
	}
	if tryHarder {
		zh[gozxing.DecodeHintType_TRY_HARDER] = true
	}

	allowed, _ := hints.GetFormats(hint.PossibleFormats)
	if len(allowed) > 0 {
		bfs := make([]gozxing.BarcodeFormat, 0, len(allowed))
		for _, f := range allowed {
			if bf, ok := toZXing(f); ok {
				bfs = append(bfs, bf)
			}
		}
		zh[gozxing.DecodeHintType_POSSIBLE_FORMATS] = bfs
	}
	return zh, allowed
}

func (d *zxingDecoder) Decode(ctx context.Context, img image.Image, hints hint.Map) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	zh, allowed := decodeHints(hints)
	if err := checkDecodable(allowed); err != nil {
		return Result{}, err
	}
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return Result{}, fmt.Errorf("preparing bitmap: %w", err)
	}

	reader := newMultiFormatReader()
	reader.ctx = ctx
	res, err := reader.Decode(bmp, zh)
	if err == nil {
		return convertResult(res), nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{}, ctxErr
	}
	slog.Debug("gozxing found no symbol", "error", err)

	if fb := d.recognizeQR(img, allowed); len(fb) > 0 {
		return fb[0], nil
	}
	return Result{}, fmt.Errorf("%w: %v", ErrNotFound, err)
}

func (d *zxingDecoder) DecodeMulti(ctx context.Context, img image.Image, hints hint.Map) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	zh, allowed := decodeHints(hints)
	if err := checkDecodable(allowed); err != nil {
		return nil, err
	}
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("preparing bitmap: %w", err)
	}

	reader := newMultiFormatReader()
	reader.ctx = ctx
	found, err := newGenericMultiReader(ctx, reader).DecodeMultiple(bmp, zh)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if allows(allowed, format.QRCode) {
		// The QR multi detector sees symbols the region search can miss when
		// they share rows or columns.
		qrs, qrErr := multiqr.NewQRCodeMultiReader().DecodeMultiple(bmp, zh)
		if qrErr != nil {
			slog.Debug("qr multi reader failed", "error", qrErr)
		}
		found = mergeResults(found, qrs)
	}
	if len(found) > 0 {
		out := make([]Result, 0, len(found))
		for _, r := range found {
			out = append(out, convertResult(r))
		}
		return out, nil
	}
	slog.Debug("gozxing found no symbols", "error", err)

	if fb := d.recognizeQR(img, allowed); len(fb) > 0 {
		return fb, nil
	}
	if err == nil {
		return nil, ErrNotFound
	}
	return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
}

// checkDecodable rejects an allow-list naming no format that has a reader.
// Formats without a reader are dropped with a warning when others remain.
func checkDecodable(allowed []format.Format) error {
	if len(allowed) == 0 {
		return nil
	}
	var missing []string
	for _, f := range allowed {
		if !CanDecode(f) {
			missing = append(missing, f.String())
		}
	}
	switch {
	case len(missing) == 0:
		return nil
	case len(missing) == len(allowed):
		return fmt.Errorf("%w: %s cannot be decoded", ErrUnsupportedFormat, strings.Join(missing, ", "))
	default:
		slog.Warn("formats cannot be decoded, ignoring", "formats", missing)
		return nil
	}
}

// recognizeQR runs goqr over img when QR codes are acceptable.
func (d *zxingDecoder) recognizeQR(img image.Image, allowed []format.Format) []Result {
	if !d.qrFallback || !allows(allowed, format.QRCode) {
		return nil
	}
	// goqr assumes the image origin is (0,0).
	codes, err := goqr.Recognize(imaging.Clone(img))
	if err != nil {
		slog.Debug("goqr found no symbol", "error", err)
		return nil
	}
	out := make([]Result, 0, len(codes))
	for _, c := range codes {
		out = append(out, Result{Format: format.QRCode, Text: string(c.Payload)})
	}
	slog.Debug("goqr recognized symbols", "count", len(out))
	return out
}

func allows(allowed []format.Format, f format.Format) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == f {
			return true
		}
	}
	return false
}

func convertResult(r *gozxing.Result) Result {
	pts := r.GetResultPoints()
	var points []Point
	if len(pts) > 0 {
		points = make([]Point, 0, len(pts))
		for _, p := range pts {
			points = append(points, Point{X: int(p.GetX()), Y: int(p.GetY())})
		}
	}
	return Result{
		Format: fromZXing(r.GetBarcodeFormat()),
		Text:   r.GetText(),
		Points: points,
		BBox:   rectFromPoints(points),
	}
}
