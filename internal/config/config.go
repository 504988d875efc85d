package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

var (
	validLogLevels     = []string{"debug", "info", "warn", "error"}
	validOutputFormats = []string{"text", "json", "yaml"}
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel: "warn",
		Verbose:  false,
		Output: OutputConfig{
			Format: "text",
		},
		Decode: DecodeConfig{
			TryHarder: false,
			Multi:     false,
		},
	}
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if !slices.Contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("invalid log level %q: must be one of %s", c.LogLevel, strings.Join(validLogLevels, ", "))
	}
	if !slices.Contains(validOutputFormats, strings.ToLower(c.Output.Format)) {
		return fmt.Errorf("invalid output format %q: must be one of %s",
			c.Output.Format, strings.Join(validOutputFormats, ", "))
	}
	return nil
}

// SlogLevel maps the configured level to slog. Verbose wins over LogLevel.
func (c *Config) SlogLevel() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
