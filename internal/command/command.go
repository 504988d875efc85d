// Package command holds the typed decode and encode commands and the
// dispatcher that runs them against a barcode backend.
package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MeKo-Tech/barcli/internal/format"
	"github.com/MeKo-Tech/barcli/internal/hint"
	"github.com/MeKo-Tech/barcli/internal/payload"
)

// Command is either a Decode or an Encode.
type Command interface {
	Validate() error
	isCommand()
}

// ReportFormat selects how decode results are rendered.
type ReportFormat string

const (
	ReportText ReportFormat = "text"
	ReportJSON ReportFormat = "json"
	ReportYAML ReportFormat = "yaml"
)

// ParseReportFormat accepts text, json or yaml in any case.
func ParseReportFormat(s string) (ReportFormat, error) {
	switch f := ReportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case ReportText, ReportJSON, ReportYAML:
		return f, nil
	case "":
		return ReportText, nil
	default:
		return "", usagef("invalid output format %q: want text, json or yaml", s)
	}
}

// Decode scans an image for symbols.
type Decode struct {
	Input     string
	TryHarder bool
	Multi     bool
	Formats   []format.Format // empty means any format
	Report    ReportFormat
}

func (Decode) isCommand() {}

func (d Decode) Validate() error {
	if d.Input == "" {
		return usagef("missing input file")
	}
	for _, f := range d.Formats {
		if f == format.Unknown {
			return usagef("unknown barcode format in --barcode-types")
		}
	}
	if _, err := ParseReportFormat(string(d.Report)); err != nil {
		return err
	}
	return nil
}

// Hints returns the decode hint map.
func (d Decode) Hints() hint.Map {
	return hint.BuildDecode(d.TryHarder, format.Dedup(d.Formats))
}

// Encode renders a payload as a symbol image.
type Encode struct {
	Output  string
	Format  format.Format
	Width   uint32
	Height  uint32
	Source  payload.Source
	Options Options // nil means codec defaults
}

func (Encode) isCommand() {}

func (e Encode) Validate() error {
	if e.Output == "" {
		return usagef("missing output file")
	}
	if e.Format == format.Unknown {
		return usagef("missing barcode format")
	}
	if e.Width == 0 || e.Height == 0 {
		return usagef("--width and --height must be greater than zero")
	}
	if err := e.Source.Validate(); err != nil {
		return &UsageError{Err: err}
	}
	if e.Options != nil && e.Options.family() != familyOf(e.Format) {
		return usagef("options do not match barcode format %s", e.Format)
	}
	return nil
}

// Hints returns the encode hint map.
func (e Encode) Hints() hint.Map {
	if e.Options == nil {
		return hint.Map{}
	}
	return hint.BuildEncode(e.Options.Fields())
}

// IsUsage reports whether err is a usage error.
func IsUsage(err error) bool {
	var u *UsageError
	return errors.As(err, &u)
}

func (d Decode) String() string {
	return fmt.Sprintf("decode %q try_harder=%t multi=%t formats=%v", d.Input, d.TryHarder, d.Multi, d.Formats)
}

func (e Encode) String() string {
	return fmt.Sprintf("encode %q format=%s size=%dx%d", e.Output, e.Format, e.Width, e.Height)
}
