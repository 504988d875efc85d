package barcode

import (
	"context"
	"errors"
	"image"

	"github.com/MeKo-Tech/barcli/internal/format"
	"github.com/MeKo-Tech/barcli/internal/hint"
)

var (
	// ErrNotFound is returned when no symbol could be located in an image.
	ErrNotFound = errors.New("no barcode found")

	// ErrUnsupportedFormat is returned when no backend can handle the format.
	ErrUnsupportedFormat = errors.New("unsupported barcode format")

	// ErrInvalidHint is returned when a hint value cannot be applied.
	ErrInvalidHint = errors.New("invalid hint")
)

// Point is an integer point in image coordinates.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Result is one decoded symbol.
type Result struct {
	Format format.Format
	Text   string
	Points []Point          // corner or finder points when the reader reports them
	BBox   image.Rectangle // derived from Points; empty when Points is
}

// Decoder locates and decodes symbols in an image.
type Decoder interface {
	// Decode returns the first symbol found.
	Decode(ctx context.Context, img image.Image, hints hint.Map) (Result, error)
	// DecodeMulti returns every symbol found.
	DecodeMulti(ctx context.Context, img image.Image, hints hint.Map) ([]Result, error)
}

// Encoder renders a payload as a symbol image of at least width x height.
type Encoder interface {
	Encode(ctx context.Context, contents string, f format.Format, width, height int, hints hint.Map) (image.Image, error)
}

// Backend is both halves of the codec.
type Backend interface {
	Decoder
	Encoder
}

type backend struct {
	*zxingDecoder
	*encoderRegistry
}

// NewBackend returns the default backend implementation.
func NewBackend() Backend {
	return &backend{
		zxingDecoder:    newZXingDecoder(),
		encoderRegistry: newEncoderRegistry(),
	}
}

// CanEncode reports whether f has an encoder.
func CanEncode(f format.Format) bool {
	_, ok := newEncoderRegistry().lookup(f)
	return ok
}

// CanDecode reports whether f has a reader.
func CanDecode(f format.Format) bool {
	_, ok := readerFactories[f]
	return ok
}

func rectFromPoints(pts []Point) image.Rectangle {
	if len(pts) == 0 {
		return image.Rectangle{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := pts[0].X, pts[0].Y
	for _, p := range pts[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}
