package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/barcli/internal/command"
	"github.com/MeKo-Tech/barcli/internal/format"
)

func newDecodeCmd() *cobra.Command {
	var formats []format.Format

	decodeCmd := &cobra.Command{
		Use:   "decode <file>",
		Short: "Detect and decode barcodes in an image",
		Long: `Scan an image file for a barcode and print its format and text.

Supported input formats: PNG, JPEG, GIF, BMP, TIFF, WebP

A failed detection is reported on stdout and is not an error.

Examples:
  barcli decode code.png
  barcli decode shelf.jpg -d
  barcli decode label.png -b QR_CODE -b DATA_MATRIX --try-harder
  barcli decode label.png --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := GetConfig()

			report, err := command.ParseReportFormat(cfg.Output.Format)
			if err != nil {
				return err
			}
			return newRunner(cmd).Run(cmd.Context(), command.Decode{
				Input:     args[0],
				TryHarder: cfg.Decode.TryHarder,
				Multi:     cfg.Decode.Multi,
				Formats:   formats,
				Report:    report,
			})
		},
	}

	flags := decodeCmd.Flags()
	flags.BoolP("try-harder", "t", false, "spend more time looking for a barcode")
	flags.BoolP("decode-multi", "d", false, "report every barcode in the image")
	flags.VarP(format.NewListValue(&formats), "barcode-types", "b",
		"restrict detection to these formats (repeatable or comma separated)")
	flags.StringP("format", "f", "text", "output format (text, json, yaml)")

	_ = viper.BindPFlag("decode.try_harder", flags.Lookup("try-harder"))
	_ = viper.BindPFlag("decode.multi", flags.Lookup("decode-multi"))
	_ = viper.BindPFlag("output.format", flags.Lookup("format"))

	return decodeCmd
}
