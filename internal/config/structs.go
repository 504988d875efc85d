package config

// Config is the barcli configuration. Values come from defaults, an optional
// barcli.yaml, BARCLI_* environment variables and command-line flags, in
// increasing order of precedence.
//
// Encode hints are deliberately absent: an encode flag that is not given
// always means the codec default.
type Config struct {
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`
	Decode DecodeConfig `mapstructure:"decode" yaml:"decode" json:"decode"`
}

// OutputConfig controls how decode results are printed.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" json:"format"` // text, json or yaml
}

// DecodeConfig holds defaults for the decode command's toggles.
type DecodeConfig struct {
	TryHarder bool `mapstructure:"try_harder" yaml:"try_harder" json:"try_harder"`
	Multi     bool `mapstructure:"multi" yaml:"multi" json:"multi"`
}
