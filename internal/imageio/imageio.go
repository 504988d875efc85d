// Package imageio loads input images and saves encoded symbols.
package imageio

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/spf13/afero"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedExtension is returned by Save when the output extension does
// not name a raster format that can be written.
var ErrUnsupportedExtension = errors.New("unsupported output image extension")

// WritableExtensions lists the extensions Save understands.
var WritableExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff"}

// Error records which step of loading or saving failed.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("image %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Metadata describes a loaded image.
type Metadata struct {
	Path      string
	Format    string
	SizeBytes int64
	Width     int
	Height    int
}

// IO reads and writes images through an afero filesystem.
type IO struct {
	fs afero.Fs
}

// New returns an IO over fs. A nil fs means the OS filesystem.
func New(fs afero.Fs) *IO {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &IO{fs: fs}
}

// Load opens and decodes the image at path.
func (x *IO) Load(path string) (image.Image, Metadata, error) {
	if path == "" {
		return nil, Metadata{}, &Error{Op: "load", Path: path, Err: errors.New("empty path")}
	}

	f, err := x.fs.Open(path)
	if err != nil {
		return nil, Metadata{}, &Error{Op: "load", Path: path, Err: err}
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Debug("closing image file", "path", path, "error", err)
		}
	}()

	fi, err := f.Stat()
	if err != nil {
		return nil, Metadata{}, &Error{Op: "load", Path: path, Err: err}
	}

	img, kind, err := image.Decode(f)
	if err != nil {
		return nil, Metadata{}, &Error{Op: "decode", Path: path, Err: err}
	}

	b := img.Bounds()
	meta := Metadata{
		Path:      path,
		Format:    kind,
		SizeBytes: fi.Size(),
		Width:     b.Dx(),
		Height:    b.Dy(),
	}
	return img, meta, nil
}

// Save encodes img in the format implied by the extension of path. The image
// is written to a temporary file in the same directory and renamed into
// place, so a failed save never leaves a partial file at path.
func (x *IO) Save(path string, img image.Image) error {
	kind, err := imaging.FormatFromFilename(path)
	if err != nil {
		return &Error{Op: "save", Path: path, Err: fmt.Errorf("%w %q (supported: %s)",
			ErrUnsupportedExtension, filepath.Ext(path), strings.Join(WritableExtensions, ", "))}
	}

	dir := filepath.Dir(path)
	tmp, err := afero.TempFile(x.fs, dir, ".barcli-*"+filepath.Ext(path))
	if err != nil {
		return &Error{Op: "save", Path: path, Err: err}
	}
	tmpName := tmp.Name()

	cleanup := func() {
		if rmErr := x.fs.Remove(tmpName); rmErr != nil {
			slog.Debug("removing temporary image", "path", tmpName, "error", rmErr)
		}
	}

	if err := imaging.Encode(tmp, img, kind); err != nil {
		_ = tmp.Close()
		cleanup()
		return &Error{Op: "encode", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return &Error{Op: "save", Path: path, Err: err}
	}
	// TempFile creates 0600.
	if err := x.fs.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return &Error{Op: "save", Path: path, Err: err}
	}
	if err := x.fs.Rename(tmpName, path); err != nil {
		cleanup()
		return &Error{Op: "save", Path: path, Err: err}
	}
	slog.Debug("saved image", "path", path, "format", kind.String())
	return nil
}
