package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name for configuration files (without extension).
	ConfigFileName = "barcli"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "BARCLI"
)

// Loader handles loading configuration from various sources.
type Loader struct {
	v  *viper.Viper
	fs afero.Fs
}

// NewLoader creates a loader over the global viper instance so that flags
// bound with viper.BindPFlag take effect.
func NewLoader() *Loader {
	return &Loader{v: viper.GetViper(), fs: afero.NewOsFs()}
}

// NewLoaderWithViper creates a loader over v.
func NewLoaderWithViper(v *viper.Viper) *Loader {
	return &Loader{v: v, fs: afero.NewOsFs()}
}

// WithFs makes the loader and its viper instance read config files from fs.
func (l *Loader) WithFs(fs afero.Fs) *Loader {
	l.fs = fs
	l.v.SetFs(fs)
	return l
}

// Load reads barcli.yaml from the search paths if present, applies
// environment variables and defaults, and validates the result.
func (l *Loader) Load() (*Config, error) {
	l.v.SetConfigName(ConfigFileName)
	l.v.SetConfigType("yaml")
	for _, p := range SearchPaths() {
		l.v.AddConfigPath(p)
	}
	l.setupEnvironmentVariables()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return l.unmarshal()
}

// LoadWithFile loads configuration from a specific file path.
func (l *Loader) LoadWithFile(configFile string) (*Config, error) {
	if configFile == "" {
		return l.Load()
	}
	exists, err := afero.Exists(l.fs, configFile)
	if err != nil {
		return nil, fmt.Errorf("checking config file %s: %w", configFile, err)
	}
	if !exists {
		return nil, fmt.Errorf("config file does not exist: %s", configFile)
	}

	l.v.SetConfigFile(configFile)
	l.setupEnvironmentVariables()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
	}
	return l.unmarshal()
}

func (l *Loader) unmarshal() (*Config, error) {
	var config Config
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

// ConfigFileUsed returns the path of the config file read, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// GetViper returns the underlying viper instance.
func (l *Loader) GetViper() *viper.Viper {
	return l.v
}

// SearchPaths returns the directories searched for barcli.yaml.
func SearchPaths() []string {
	paths := []string{"."}
	home, homeErr := os.UserHomeDir()
	if homeErr == nil {
		paths = append(paths, home)
	}
	if dir, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		paths = append(paths, filepath.Join(dir, "barcli"))
	} else if homeErr == nil {
		paths = append(paths, filepath.Join(home, ".config", "barcli"))
	}
	return append(paths, "/etc/barcli")
}

func (l *Loader) setupEnvironmentVariables() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.AutomaticEnv()
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

func (l *Loader) setDefaults() {
	defaults := DefaultConfig()

	l.v.SetDefault("log_level", defaults.LogLevel)
	l.v.SetDefault("verbose", defaults.Verbose)
	l.v.SetDefault("output.format", defaults.Output.Format)
	l.v.SetDefault("decode.try_harder", defaults.Decode.TryHarder)
	l.v.SetDefault("decode.multi", defaults.Decode.Multi)
}
