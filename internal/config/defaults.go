package config

import (
	"slices"

	"github.com/hargabyte/clinicdash/internal/fixture"
	"github.com/hargabyte/clinicdash/internal/output"
)

// DefaultConfig returns configuration with sensible defaults.
// These defaults are used when no config file exists or when
// config file is missing specific fields.
func DefaultConfig() *Config {
	return &Config{
		Generator: fixture.DefaultConfig(),
		Output: OutputConfig{
			Format: output.DefaultFormat.String(),
		},
		Log: LogConfig{
			Level:  "info",
			Pretty: false,
		},
	}
}

// ValidLogLevels lists the valid values for log level
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// IsValidLogLevel checks if the given log level is valid
func IsValidLogLevel(level string) bool {
	return slices.Contains(ValidLogLevels, level)
}
