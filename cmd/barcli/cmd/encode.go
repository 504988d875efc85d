package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/MeKo-Tech/barcli/internal/command"
	"github.com/MeKo-Tech/barcli/internal/format"
	"github.com/MeKo-Tech/barcli/internal/hint"
	"github.com/MeKo-Tech/barcli/internal/payload"
)

func newEncodeCmd() *cobra.Command {
	encodeCmd := &cobra.Command{
		Use:   "encode <file> <FORMAT>",
		Short: "Render text as a barcode image",
		Long: `Encode inline text or the contents of a file as a barcode and save it.

The image format follows the output extension: png, jpg, jpeg, gif, bmp, tif, tiff.
Per-format flags are rejected for formats they do not apply to.

Examples:
  barcli encode hello.png QRCODE --width 200 --height 200 -d hello
  barcli encode doc.png PDF_417 --width 400 --height 150 --data-file doc.txt --error-correction 4
  barcli encode sku.png CODE_128 --width 300 --height 80 -d ABC123 --force-code-set B`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := format.Parse(args[1])
			if err != nil {
				return &command.UsageError{Err: err}
			}

			flags := cmd.Flags()
			opts, err := command.NewOptions(f, encodeFields(flags))
			if err != nil {
				return err
			}
			width, _ := flags.GetUint32("width")
			height, _ := flags.GetUint32("height")

			return newRunner(cmd).Run(cmd.Context(), command.Encode{
				Output:  args[0],
				Format:  f,
				Width:   width,
				Height:  height,
				Source:  payload.Source{Data: changedString(flags, "data"), File: changedString(flags, "data-file")},
				Options: opts,
			})
		},
	}

	flags := encodeCmd.Flags()
	flags.Uint32("width", 0, "image width in pixels")
	flags.Uint32("height", 0, "image height in pixels")
	_ = encodeCmd.MarkFlagRequired("width")
	_ = encodeCmd.MarkFlagRequired("height")

	flags.StringP("data", "d", "", "text to encode")
	flags.String("data-file", "", "file whose UTF-8 contents are encoded")

	names := command.FlagNames
	flags.String(names[hint.ErrorCorrection], "",
		"error correction: L|M|Q|H for QR, 0-8 for PDF417, minimum percent for Aztec")
	flags.String(names[hint.CharacterSet], "", "character set (IANA name, e.g. UTF-8, ISO-8859-1)")
	flags.Bool(names[hint.DataMatrixCompact], false, "use minimal Data Matrix encodation")
	flags.String(names[hint.Margin], "", "quiet zone in modules")
	flags.Bool(names[hint.PDF417Compact], false, "use compact PDF417")
	flags.String(names[hint.PDF417Compaction], "", "PDF417 compaction: AUTO|TEXT|BYTE|NUMERIC")
	flags.Bool(names[hint.PDF417AutoECI], false, "let PDF417 insert ECI segments")
	flags.Int32(names[hint.AztecLayers], 0, "Aztec layers: negative for compact, 0 for auto")
	flags.String(names[hint.QRVersion], "", "QR version 1-40")
	flags.String(names[hint.QRMaskPattern], "", "QR mask pattern 0-7")
	flags.Bool(names[hint.QRCompact], false, "use minimal QR encodation")
	flags.Bool(names[hint.GS1Format], false, "encode as GS1")
	flags.String(names[hint.ForceCodeSet], "", "Code 128 code set: A|B|C")
	flags.Bool(names[hint.ForceC40], false, "force C40 encodation for Data Matrix")
	flags.Bool(names[hint.Code128Compact], false, "use minimal Code 128 encodation")

	return encodeCmd
}

// encodeFields collects the hint flags the user actually set.
func encodeFields(flags *pflag.FlagSet) hint.EncodeFields {
	names := command.FlagNames
	return hint.EncodeFields{
		ErrorCorrection:   changedString(flags, names[hint.ErrorCorrection]),
		CharacterSet:      changedString(flags, names[hint.CharacterSet]),
		DataMatrixCompact: changedBool(flags, names[hint.DataMatrixCompact]),
		Margin:            changedString(flags, names[hint.Margin]),
		PDF417Compact:     changedBool(flags, names[hint.PDF417Compact]),
		PDF417Compaction:  changedString(flags, names[hint.PDF417Compaction]),
		PDF417AutoECI:     changedBool(flags, names[hint.PDF417AutoECI]),
		AztecLayers:       changedInt32(flags, names[hint.AztecLayers]),
		QRVersion:         changedString(flags, names[hint.QRVersion]),
		QRMaskPattern:     changedString(flags, names[hint.QRMaskPattern]),
		QRCompact:         changedBool(flags, names[hint.QRCompact]),
		GS1Format:         changedBool(flags, names[hint.GS1Format]),
		ForceCodeSet:      changedString(flags, names[hint.ForceCodeSet]),
		ForceC40:          changedBool(flags, names[hint.ForceC40]),
		Code128Compact:    changedBool(flags, names[hint.Code128Compact]),
	}
}

func changedString(flags *pflag.FlagSet, name string) *string {
	if !flags.Changed(name) {
		return nil
	}
	v, _ := flags.GetString(name)
	return &v
}

func changedBool(flags *pflag.FlagSet, name string) *bool {
	if !flags.Changed(name) {
		return nil
	}
	v, _ := flags.GetBool(name)
	return &v
}

func changedInt32(flags *pflag.FlagSet, name string) *int32 {
	if !flags.Changed(name) {
		return nil
	}
	v, _ := flags.GetInt32(name)
	return &v
}
