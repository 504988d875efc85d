package barcode

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"strconv"
	"strings"

	"github.com/MeKo-Tech/barcli/internal/format"
	"github.com/MeKo-Tech/barcli/internal/hint"
)

// symbolEncoder renders one format. accepts lists the hint keys it honors;
// anything else in the map is reported and ignored.
type symbolEncoder struct {
	accepts map[hint.Key]bool
	encode  func(contents string, width, height int, hints hint.Map) (image.Image, error)
}

type encoderRegistry struct {
	encoders map[format.Format]symbolEncoder
}

func newEncoderRegistry() *encoderRegistry {
	r := &encoderRegistry{encoders: make(map[format.Format]symbolEncoder)}
	registerZXingWriters(r)
	registerBoombulerWriters(r)
	return r
}

func (r *encoderRegistry) register(f format.Format, enc symbolEncoder) {
	r.encoders[f] = enc
}

func (r *encoderRegistry) lookup(f format.Format) (symbolEncoder, bool) {
	enc, ok := r.encoders[f]
	return enc, ok
}

// Encode renders contents as format f. width and height are lower bounds;
// the image grows when the symbol plus its quiet zone does not fit.
func (r *encoderRegistry) Encode(ctx context.Context, contents string, f format.Format, width, height int, hints hint.Map) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d: width and height must be positive", width, height)
	}
	enc, ok := r.lookup(f)
	if !ok {
		return nil, fmt.Errorf("%w: %s cannot be encoded", ErrUnsupportedFormat, f)
	}

	for _, k := range hints.Keys() {
		if !enc.accepts[k] {
			slog.Warn("hint not supported by encoder, ignoring", "format", f.String(), "hint", k.String(), "value", hints[k].String())
		}
	}
	slog.Debug("encoding", "format", f.String(), "width", width, "height", height, "hints", hints)

	img, err := enc.encode(contents, width, height, hints)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", f, err)
	}
	return img, nil
}

func keySet(keys ...hint.Key) map[hint.Key]bool {
	m := make(map[hint.Key]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}

// intHint reads a hint that may be stored as an integer or as decimal text.
func intHint(hints hint.Map, k hint.Key) (int, bool, error) {
	v, ok := hints.Get(k)
	if !ok {
		return 0, false, nil
	}
	if i, ok := v.AsInt(); ok {
		return int(i), true, nil
	}
	s, _ := v.AsString()
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidHint, k, v.String())
	}
	return n, true, nil
}

func marginHint(hints hint.Map, def int) (int, error) {
	m, ok, err := intHint(hints, hint.Margin)
	if err != nil {
		return 0, err
	}
	if !ok {
		return def, nil
	}
	if m < 0 {
		return 0, fmt.Errorf("%w: MARGIN=%d must not be negative", ErrInvalidHint, m)
	}
	return m, nil
}
