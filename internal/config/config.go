package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/hargabyte/clinicdash/internal/fixture"
	"github.com/hargabyte/clinicdash/internal/output"
)

// ConfigFileName is the name of the clinicdash configuration file
const ConfigFileName = "config.yaml"

// ConfigDirName is the name of the clinicdash configuration directory
const ConfigDirName = ".clinicdash"

// Config holds all clinicdash configuration
type Config struct {
	Generator fixture.Config `yaml:"generator" json:"generator"`
	Dataset   DatasetConfig  `yaml:"dataset" json:"dataset"`
	Output    OutputConfig   `yaml:"output" json:"output"`
	Log       LogConfig      `yaml:"log" json:"log"`
}

// DatasetConfig holds the default input snapshot
type DatasetConfig struct {
	// Path is read by report commands when --input is not given. Empty
	// means a fixture is generated instead.
	Path string `yaml:"path" json:"path"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	Format string `yaml:"format" json:"format"`
}

// LogConfig holds configuration for the stderr logger
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Pretty bool   `yaml:"pretty" json:"pretty"`
}

// ErrConfigNotFound is returned when no config file can be found
var ErrConfigNotFound = errors.New("config file not found")

// ErrInvalidConfig is returned when config validation fails
var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads config from .clinicdash/config.yaml, falling back to defaults.
// It searches for the config directory starting from workDir and walking up
// the directory tree. If no config is found, returns defaults.
func Load(workDir string) (*Config, error) {
	configDir, err := FindConfigDir(workDir)
	if err != nil {
		return DefaultConfig(), nil
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	return LoadFromPath(configPath)
}

// LoadFromPath reads config from a specific path.
// The file is decoded over the defaults, so absent keys keep their default
// while explicit zeros are honoured. The result is validated.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FindConfigDir locates the .clinicdash directory by walking up from startDir.
// Returns the path to the .clinicdash directory if found.
func FindConfigDir(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	currentDir := absDir
	for {
		configDir := filepath.Join(currentDir, ConfigDirName)
		info, err := os.Stat(configDir)
		if err == nil && info.IsDir() {
			return configDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", ErrConfigNotFound
		}
		currentDir = parentDir
	}
}

// EnsureConfigDir creates the .clinicdash directory if it doesn't exist.
// Returns the path to the .clinicdash directory.
func EnsureConfigDir(workDir string) (string, error) {
	absDir, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	configDir := filepath.Join(absDir, ConfigDirName)

	info, err := os.Stat(configDir)
	if err == nil {
		if info.IsDir() {
			return configDir, nil
		}
		return "", fmt.Errorf("%s exists but is not a directory", configDir)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	return configDir, nil
}

// Validate checks that config values are valid and normalizes the output
// format alias (yml, txt) to its canonical name.
// Returns an error if validation fails.
func Validate(cfg *Config) error {
	if err := cfg.Generator.Validate(); err != nil {
		return fmt.Errorf("%w: generator: %v", ErrInvalidConfig, err)
	}

	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return fmt.Errorf("%w: output.format: %v", ErrInvalidConfig, err)
	}
	cfg.Output.Format = format.String()

	if !IsValidLogLevel(cfg.Log.Level) {
		return fmt.Errorf("%w: log.level must be one of %v, got %q",
			ErrInvalidConfig, ValidLogLevels, cfg.Log.Level)
	}

	return nil
}

// SaveDefault writes the default configuration to .clinicdash/config.yaml in
// workDir. Creates the .clinicdash directory if it doesn't exist.
func SaveDefault(workDir string) (string, error) {
	configDir, err := EnsureConfigDir(workDir)
	if err != nil {
		return "", err
	}

	configPath := filepath.Join(configDir, ConfigFileName)

	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists: %s", configPath)
	}

	data, err := Marshal(DefaultConfig())
	if err != nil {
		return "", err
	}

	header := "# clinicdash configuration\n# Environment overrides: CLINICDASH_PATIENTS, CLINICDASH_SEED, CLINICDASH_DATASET,\n# CLINICDASH_FORMAT, CLINICDASH_LOG_LEVEL\n\n"
	data = append([]byte(header), data...)

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}

	return configPath, nil
}

// Marshal encodes cfg as YAML with two-space indentation.
func Marshal(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return buf.Bytes(), nil
}
