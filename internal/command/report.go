package command

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/MeKo-Tech/barcli/internal/barcode"
)

// Report is the outcome of one decode run.
type Report struct {
	File    string         `json:"file" yaml:"file"`
	Multi   bool           `json:"multi" yaml:"multi"`
	Results []ReportResult `json:"results" yaml:"results"`
	Error   string         `json:"error,omitempty" yaml:"error,omitempty"`
}

// ReportResult is one decoded symbol.
type ReportResult struct {
	Index  int             `json:"index" yaml:"index"`
	Format string          `json:"format" yaml:"format"`
	Text   string          `json:"text" yaml:"text"`
	Points []barcode.Point `json:"points,omitempty" yaml:"points,omitempty"`
}

func newReport(file string, multi bool, results []barcode.Result) Report {
	r := Report{File: file, Multi: multi, Results: make([]ReportResult, 0, len(results))}
	for i, res := range results {
		r.Results = append(r.Results, ReportResult{
			Index:  i,
			Format: res.Format.String(),
			Text:   res.Text,
			Points: res.Points,
		})
	}
	return r
}

// Write renders the report in the given format.
func (r Report) Write(w io.Writer, f ReportFormat) error {
	switch f {
	case ReportJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case ReportYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	default:
		return r.writeText(w)
	}
}

func (r Report) writeText(w io.Writer) error {
	if r.Error != "" {
		what := "barcode"
		if r.Multi {
			what = "multiple barcodes"
		}
		_, err := fmt.Fprintf(w, "Error while attempting to locate %s in '%s': %s\n", what, r.File, r.Error)
		return err
	}
	if r.Multi {
		if _, err := fmt.Fprintf(w, "Found %d results\n", len(r.Results)); err != nil {
			return err
		}
		for _, res := range r.Results {
			if _, err := fmt.Fprintf(w, "Result %d: (%s) %s\n", res.Index, res.Format, res.Text); err != nil {
				return err
			}
		}
		return nil
	}
	if len(r.Results) == 0 {
		return nil
	}
	_, err := fmt.Fprintf(w, "Detection result: \n(%s) %s\n", r.Results[0].Format, r.Results[0].Text)
	return err
}
