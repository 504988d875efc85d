package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/barcli/internal/barcode"
	"github.com/MeKo-Tech/barcli/internal/command"
	"github.com/MeKo-Tech/barcli/internal/config"
	"github.com/MeKo-Tech/barcli/internal/version"
)

var (
	// Global configuration loader.
	configLoader *config.Loader
	// Global configuration.
	globalConfig *config.Config
	// Configuration file path.
	cfgFile string

	// newBackend is replaced in tests.
	newBackend = barcode.NewBackend
	// appFs is the filesystem commands read and write through.
	appFs = afero.NewOsFs()
)

var subcommands = []string{"decode", "encode"}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	viper.Reset()
	globalConfig = nil
	configLoader = nil
	cfgFile = ""

	root := &cobra.Command{
		Use:   "barcli",
		Short: "Decode and encode barcodes from the command line",
		Long: `barcli reads barcodes from images and renders payloads as barcode images.

Decoding supports QR Code, Data Matrix, Aztec, RSS-14 and the common linear
symbologies. PDF417 and MaxiCode can be written but not read. Encoding writes PNG, JPEG, GIF, BMP or TIFF depending on the
output file extension.

Examples:
  barcli decode photo.png
  barcli decode shelf.jpg --decode-multi --format json
  barcli encode hello.png QRCODE --width 200 --height 200 -d hello
  barcli label.png encode CODE_128 --width 300 --height 100 --data-file sku.txt`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, _ := cmd.Flags().GetBool("version")
			if v {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), version.String())
				return nil
			}
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if globalConfig == nil {
				if err := initConfig(); err != nil {
					return err
				}
			}
			cfg := GetConfig()
			if err := cfg.Validate(); err != nil {
				return &command.UsageError{Err: err}
			}

			logger := slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: cfg.SlogLevel(),
			}))
			slog.SetDefault(logger)
			slog.Debug("configuration loaded", "file", configLoader.ConfigFileUsed())
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is barcli.yaml in ., $HOME, $XDG_CONFIG_HOME/barcli, /etc/barcli)")
	root.PersistentFlags().BoolP("verbose", "v", false, "verbose output (equivalent to --log-level=debug)")
	root.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	root.Flags().Bool("version", false, "print version information and exit")

	_ = viper.BindPFlag("verbose", root.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &command.UsageError{Err: err}
	})

	root.AddCommand(newDecodeCmd(), newEncodeCmd())
	return root
}

// Run executes the CLI with args and returns the process exit code.
// Errors already printed by the command runner are not repeated.
func Run(args []string, stdout, stderr io.Writer) int {
	rootCmd = newRootCmd()
	rootCmd.SetArgs(normalizeArgs(args))
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err == nil {
		return 0
	}
	var reported *command.ReportedError
	if !errors.As(err, &reported) {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		if command.IsUsage(err) {
			_, _ = fmt.Fprintln(stderr, "Run 'barcli --help' for usage.")
		}
	}
	return 1
}

// normalizeArgs accepts the file-first layout "barcli <file> decode ..." by
// moving the subcommand to the front.
func normalizeArgs(args []string) []string {
	if len(args) < 2 || strings.HasPrefix(args[0], "-") ||
		slices.Contains(subcommands, args[0]) || !slices.Contains(subcommands, args[1]) {
		return args
	}
	out := make([]string, 0, len(args))
	out = append(out, args[1], args[0])
	return append(out, args[2:]...)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	configLoader = config.NewLoader().WithFs(appFs)

	var err error
	if cfgFile != "" {
		globalConfig, err = configLoader.LoadWithFile(cfgFile)
	} else {
		globalConfig, err = configLoader.Load()
	}
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	return nil
}

// GetConfig returns the global configuration with command-line flags merged in.
func GetConfig() *config.Config {
	if globalConfig == nil {
		if err := initConfig(); err != nil {
			slog.Warn("falling back to default configuration", "error", err)
			cfg := config.DefaultConfig()
			return &cfg
		}
	}

	// Flags are bound after the initial load, so unmarshal again.
	var cfg config.Config
	if err := GetConfigLoader().GetViper().Unmarshal(&cfg); err != nil {
		slog.Warn("unmarshaling updated configuration", "error", err)
		return globalConfig
	}
	return &cfg
}

// GetConfigLoader returns the global configuration loader.
func GetConfigLoader() *config.Loader {
	if configLoader == nil {
		configLoader = config.NewLoader().WithFs(appFs)
	}
	return configLoader
}

func newRunner(cmd *cobra.Command) *command.Runner {
	return command.NewRunner(newBackend(), appFs, cmd.OutOrStdout())
}
