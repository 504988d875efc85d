package testutil

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/MeKo-Tech/barcli/internal/barcode"
	"github.com/MeKo-Tech/barcli/internal/format"
	"github.com/MeKo-Tech/barcli/internal/hint"
	"github.com/MeKo-Tech/barcli/internal/imageio"
)

// ImageSize represents image dimensions in pixels.
type ImageSize struct {
	Width  int
	Height int
}

var (
	SquareSize = ImageSize{200, 200}
	WideSize   = ImageSize{300, 120}
)

// EncodeSymbol renders text as a symbol of format f with the real backend.
func EncodeSymbol(t *testing.T, f format.Format, text string, size ImageSize) image.Image {
	t.Helper()

	img, err := barcode.NewBackend().Encode(context.Background(), text, f, size.Width, size.Height, hint.Map{})
	require.NoError(t, err, "Failed to encode %s fixture", f)
	return img
}

// WriteSymbol encodes a symbol and saves it to path. The raster format
// follows the extension.
func WriteSymbol(t *testing.T, path string, f format.Format, text string, size ImageSize) {
	t.Helper()

	require.NoError(t, EnsureDir(filepath.Dir(path)))
	require.NoError(t, imageio.New(nil).Save(path, EncodeSymbol(t, f, text, size)))
}

// SideBySide pastes images left to right on a white canvas with gap pixels
// between them.
func SideBySide(gap int, imgs ...image.Image) image.Image {
	width, height := gap, 0
	for _, img := range imgs {
		b := img.Bounds()
		width += b.Dx() + gap
		height = max(height, b.Dy())
	}
	canvas := imaging.New(width, height+2*gap, color.White)
	x := gap
	for _, img := range imgs {
		canvas = imaging.Paste(canvas, img, image.Pt(x, gap))
		x += img.Bounds().Dx() + gap
	}
	return canvas
}

// CreateBlankImage returns a uniformly colored image.
func CreateBlankImage(width, height int, background color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{background}, image.Point{}, draw.Src)
	return img
}

// CreateTextImage renders text in black on white. It contains no symbol and
// serves as a negative decode fixture.
func CreateTextImage(text string, size ImageSize) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)

	face := basicfont.Face7x13
	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{color.Black},
		Face: face,
	}
	textWidth := drawer.MeasureString(text).Ceil()
	textHeight := face.Metrics().Height.Ceil()
	drawer.Dot = fixed.P((size.Width-textWidth)/2, (size.Height+textHeight)/2)
	drawer.DrawString(text)
	return img
}

// SaveImage writes img to path, creating parent directories.
func SaveImage(t *testing.T, img image.Image, path string) {
	t.Helper()

	require.NoError(t, EnsureDir(filepath.Dir(path)), "Failed to create directory for %s", path)
	require.NoError(t, imageio.New(nil).Save(path, img), "Failed to save %s", path)
}

// LoadImage loads an image from path.
func LoadImage(t *testing.T, path string) image.Image {
	t.Helper()

	img, _, err := imageio.New(nil).Load(path)
	require.NoError(t, err, "Failed to load image %s", path)
	return img
}

// SameImage reports whether a and b have equal bounds and identical pixels.
func SameImage(a, b image.Image) bool {
	if a.Bounds().Size() != b.Bounds().Size() {
		return false
	}
	ab, bb := a.Bounds(), b.Bounds()
	for y := 0; y < ab.Dy(); y++ {
		for x := 0; x < ab.Dx(); x++ {
			r1, g1, b1, a1 := a.At(ab.Min.X+x, ab.Min.Y+y).RGBA()
			r2, g2, b2, a2 := b.At(bb.Min.X+x, bb.Min.Y+y).RGBA()
			if r1 != r2 || g1 != g2 || b1 != b2 || a1 != a2 {
				return false
			}
		}
	}
	return true
}
