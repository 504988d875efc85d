package command

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/MeKo-Tech/barcli/internal/barcode"
	"github.com/MeKo-Tech/barcli/internal/common"
	"github.com/MeKo-Tech/barcli/internal/hint"
	"github.com/MeKo-Tech/barcli/internal/imageio"
	"github.com/MeKo-Tech/barcli/internal/payload"
)

// Runner executes commands. Result and error messages go to Out; diagnostics
// go to the default slog logger.
type Runner struct {
	Backend  barcode.Backend
	Images   *imageio.IO
	Payloads *payload.Resolver
	Out      io.Writer
}

// NewRunner wires a Runner over fs. A nil fs means the OS filesystem.
func NewRunner(backend barcode.Backend, fs afero.Fs, out io.Writer) *Runner {
	return &Runner{
		Backend:  backend,
		Images:   imageio.New(fs),
		Payloads: payload.NewResolver(fs),
		Out:      out,
	}
}

// Run validates and executes c. A decode that finds nothing is reported
// and returns nil. Encode and save failures are reported and returned as
// *ReportedError.
func (r *Runner) Run(ctx context.Context, c Command) error {
	if err := c.Validate(); err != nil {
		return err
	}
	switch c := c.(type) {
	case Decode:
		return r.decode(ctx, c)
	case Encode:
		return r.encode(ctx, c)
	default:
		return fmt.Errorf("unsupported command %T", c)
	}
}

func (r *Runner) decode(ctx context.Context, d Decode) error {
	hints := d.Hints()
	slog.Debug("decode", "file", d.Input, "try_harder", d.TryHarder, "multi", d.Multi, "hints", hints)

	report, err := r.scan(ctx, d, hints)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		report = Report{File: d.Input, Multi: d.Multi, Results: []ReportResult{}, Error: err.Error()}
	}
	format, _ := ParseReportFormat(string(d.Report))
	return report.Write(r.Out, format)
}

func (r *Runner) scan(ctx context.Context, d Decode, hints hint.Map) (Report, error) {
	timer := common.NewNamedTimer("decode")
	defer func() {
		timer.Stop()
		slog.Debug("decode finished", "timer", timer)
	}()

	img, meta, err := r.Images.Load(d.Input)
	if err != nil {
		return Report{}, err
	}
	slog.Debug("loaded image", "format", meta.Format, "width", meta.Width, "height", meta.Height)

	if d.Multi {
		results, err := r.Backend.DecodeMulti(ctx, img, hints)
		if err != nil {
			return Report{}, err
		}
		return newReport(d.Input, true, results), nil
	}
	res, err := r.Backend.Decode(ctx, img, hints)
	if err != nil {
		return Report{}, err
	}
	return newReport(d.Input, false, []barcode.Result{res}), nil
}

func (r *Runner) encode(ctx context.Context, e Encode) error {
	text, err := r.Payloads.Resolve(e.Source)
	if err != nil {
		r.printf("%v\n", err)
		return &ReportedError{Err: err}
	}

	hints := e.Hints()
	slog.Debug("encode", "file", e.Output, "format", e.Format.String(),
		"width", e.Width, "height", e.Height, "hints", hints)

	timer := common.NewNamedTimer("encode")
	img, err := r.Backend.Encode(ctx, text, e.Format, int(e.Width), int(e.Height), hints)
	timer.Stop()
	slog.Debug("encode finished", "timer", timer)
	if err != nil {
		r.printf("Couldn't encode: %v\n", err)
		return &ReportedError{Err: err}
	}

	r.printf("Encode successful, saving...\n")
	if err := r.Images.Save(e.Output, img); err != nil {
		r.printf("Could not save '%s': %v\n", e.Output, err)
		return &ReportedError{Err: err}
	}
	r.printf("Saved to '%s'\n", e.Output)
	return nil
}

func (r *Runner) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(r.Out, format, args...); err != nil {
		slog.Debug("writing output", "error", err)
	}
}
