// Package payload resolves the text handed to an encoder from either an
// inline argument or a file.
package payload

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"unicode/utf8"

	"github.com/spf13/afero"
)

var (
	ErrNoSource    = errors.New("must provide either data string or data file")
	ErrBothSources = errors.New("provide only data string or data file")
	ErrNotExist    = errors.New("does not exist")
	ErrOpen        = errors.New("file cannot be opened")
	ErrNotText     = errors.New("file contents are not valid UTF-8 text")
)

// Source names where the payload comes from. Exactly one of Data and File
// must be set.
type Source struct {
	Data *string
	File *string
}

// Inline returns a Source holding text directly.
func Inline(s string) Source { return Source{Data: &s} }

// FromFile returns a Source reading the named file.
func FromFile(path string) Source { return Source{File: &path} }

// Validate checks the exactly-one-of constraint without touching the disk.
func (s Source) Validate() error {
	switch {
	case s.Data == nil && s.File == nil:
		return ErrNoSource
	case s.Data != nil && s.File != nil:
		return ErrBothSources
	}
	return nil
}

// Resolver reads payload files through an afero filesystem.
type Resolver struct {
	fs afero.Fs
}

// NewResolver returns a Resolver over fs. A nil fs means the OS filesystem.
func NewResolver(fs afero.Fs) *Resolver {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Resolver{fs: fs}
}

// Resolve returns the payload text named by src.
func (r *Resolver) Resolve(src Source) (string, error) {
	if err := src.Validate(); err != nil {
		return "", err
	}
	if src.Data != nil {
		return *src.Data, nil
	}

	path := *src.File
	fi, err := r.fs.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s %w", path, ErrNotExist)
		}
		return "", fmt.Errorf("%w: %s: %v", ErrOpen, path, err)
	}
	if fi.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrOpen, path)
	}

	f, err := r.fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrOpen, path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			slog.Debug("closing data file", "path", path, "error", cerr)
		}
	}()

	b, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrOpen, path, err)
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%s: %w", path, ErrNotText)
	}
	slog.Debug("resolved payload from file", "path", path, "bytes", len(b))
	return string(b), nil
}
