package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

// Environment variables that override config file values.
const (
	EnvPatients = "CLINICDASH_PATIENTS"
	EnvSeed     = "CLINICDASH_SEED"
	EnvDataset  = "CLINICDASH_DATASET"
	EnvFormat   = "CLINICDASH_FORMAT"
	EnvLogLevel = "CLINICDASH_LOG_LEVEL"
)

// ApplyEnv overlays CLINICDASH_* variables onto cfg. A .env file in dir is
// read too when present; process environment wins over it. The result is
// validated.
func ApplyEnv(cfg *Config, dir string) error {
	v := viper.New()
	v.SetConfigFile(filepath.Join(dir, ".env"))
	v.SetConfigType("env")

	for _, key := range []string{EnvPatients, EnvSeed, EnvDataset, EnvFormat, EnvLogLevel} {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("binding %s: %w", key, err)
		}
	}

	// A missing .env file is fine, a malformed one is not
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: reading .env: %v", ErrInvalidConfig, err)
	}

	if v.IsSet(EnvPatients) {
		n, err := strconv.Atoi(v.GetString(EnvPatients))
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvPatients, err)
		}
		cfg.Generator.Patients = n
	}
	if v.IsSet(EnvSeed) {
		seed, err := strconv.ParseUint(v.GetString(EnvSeed), 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvSeed, err)
		}
		cfg.Generator.Seed = seed
	}
	if v.IsSet(EnvDataset) {
		cfg.Dataset.Path = v.GetString(EnvDataset)
	}
	if v.IsSet(EnvFormat) {
		cfg.Output.Format = v.GetString(EnvFormat)
	}
	if v.IsSet(EnvLogLevel) {
		cfg.Log.Level = v.GetString(EnvLogLevel)
	}

	return Validate(cfg)
}
