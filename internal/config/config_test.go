package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hargabyte/clinicdash/internal/appointment"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Verify generator defaults
	if cfg.Generator.Patients != 5000 {
		t.Errorf("expected patients 5000, got %d", cfg.Generator.Patients)
	}

	if cfg.Generator.StartDate.String() != "2024-01-01" || cfg.Generator.EndDate.String() != "2024-12-31" {
		t.Errorf("expected 2024 window, got %s..%s", cfg.Generator.StartDate, cfg.Generator.EndDate)
	}

	// Verify output and log defaults
	if cfg.Output.Format != "yaml" {
		t.Errorf("expected format yaml, got %s", cfg.Output.Format)
	}

	if cfg.Log.Level != "info" {
		t.Errorf("expected log level info, got %s", cfg.Log.Level)
	}

	if cfg.Dataset.Path != "" {
		t.Errorf("expected no default dataset, got %q", cfg.Dataset.Path)
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestValidate_NormalizesFormat(t *testing.T) {
	tests := []struct {
		format  string
		want    string
		wantErr bool
	}{
		{"yaml", "yaml", false},
		{"yml", "yaml", false},
		{"json", "json", false},
		{"text", "text", false},
		{"txt", "text", false},
		{"YAML", "yaml", false},
		{"xml", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Output.Format = tt.format
			err := Validate(cfg)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidConfig) {
					t.Fatalf("Validate(%q) error = %v, want ErrInvalidConfig", tt.format, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate(%q) failed: %v", tt.format, err)
			}
			if cfg.Output.Format != tt.want {
				t.Errorf("format = %q, want %q", cfg.Output.Format, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid defaults",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "invalid format",
			modify:  func(c *Config) { c.Output.Format = "xml" },
			wantErr: true,
		},
		{
			name:    "invalid log level",
			modify:  func(c *Config) { c.Log.Level = "trace" },
			wantErr: true,
		},
		{
			name:    "negative patients",
			modify:  func(c *Config) { c.Generator.Patients = -1 },
			wantErr: true,
		},
		{
			name:    "zero patients",
			modify:  func(c *Config) { c.Generator.Patients = 0 },
			wantErr: false,
		},
		{
			name:    "no providers",
			modify:  func(c *Config) { c.Generator.Providers = nil },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error %v does not wrap ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadFromPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `generator:
  patients: 250
  seed: 42
  start_date: 2023-06-01
  end_date: "2023-06-30"
  repeat_visit_probability: 0
  busy_months: []
dataset:
  path: snapshot.db
output:
  format: json
log:
  level: debug
  pretty: true
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Generator.Patients != 250 || cfg.Generator.Seed != 42 {
		t.Errorf("patients/seed = %d/%d, want 250/42", cfg.Generator.Patients, cfg.Generator.Seed)
	}
	if cfg.Generator.StartDate != appointment.MustParseDate("2023-06-01") {
		t.Errorf("start_date = %s, want 2023-06-01", cfg.Generator.StartDate)
	}
	if cfg.Generator.EndDate != appointment.MustParseDate("2023-06-30") {
		t.Errorf("end_date = %s, want 2023-06-30", cfg.Generator.EndDate)
	}

	// Explicit zeros are kept
	if cfg.Generator.RepeatVisitProbability != 0 {
		t.Errorf("repeat_visit_probability = %v, want 0", cfg.Generator.RepeatVisitProbability)
	}
	if len(cfg.Generator.BusyMonths) != 0 {
		t.Errorf("busy_months = %v, want empty", cfg.Generator.BusyMonths)
	}

	// Absent keys keep their defaults
	if len(cfg.Generator.Providers) != 5 {
		t.Errorf("providers = %v, want defaults", cfg.Generator.Providers)
	}
	if cfg.Generator.OutlierProvider != "Michael Spears" {
		t.Errorf("outlier_provider = %q, want default", cfg.Generator.OutlierProvider)
	}

	if cfg.Dataset.Path != "snapshot.db" || cfg.Output.Format != "json" {
		t.Errorf("dataset/format = %q/%q", cfg.Dataset.Path, cfg.Output.Format)
	}
	if cfg.Log.Level != "debug" || !cfg.Log.Pretty {
		t.Errorf("log = %+v, want debug/pretty", cfg.Log)
	}
}

func TestLoadFromPath_Errors(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantInvalid bool
	}{
		{"unknown key", "output:\n  colour: red\n", false},
		{"bad yaml", "output: [\n", false},
		{"bad date", "generator:\n  start_date: yesterday\n", false},
		{"invalid format", "output:\n  format: xml\n", true},
		{"inverted window", "generator:\n  start_date: 2024-05-01\n  end_date: 2024-04-01\n", true},
		{"probability above one", "generator:\n  repeat_visit_probability: 1.5\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, err := LoadFromPath(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, ErrInvalidConfig); got != tt.wantInvalid {
				t.Errorf("errors.Is(ErrInvalidConfig) = %v, want %v (err: %v)", got, tt.wantInvalid, err)
			}
		})
	}
}

func TestLoadFromPath_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.Generator.Patients != DefaultConfig().Generator.Patients {
		t.Errorf("empty file should give defaults, got patients %d", cfg.Generator.Patients)
	}
}

func TestLoadFromPath_NotExists(t *testing.T) {
	cfg, err := LoadFromPath("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("LoadFromPath should return defaults for missing file, got error: %v", err)
	}

	if cfg.Output.Format != "yaml" {
		t.Errorf("expected default format, got %s", cfg.Output.Format)
	}
}

func TestFindConfigDir(t *testing.T) {
	tmpDir := t.TempDir()

	configDir := filepath.Join(tmpDir, ConfigDirName)
	if err := os.Mkdir(configDir, 0755); err != nil {
		t.Fatalf("create config dir: %v", err)
	}

	subDir := filepath.Join(tmpDir, "a", "b", "c")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatalf("create subdir: %v", err)
	}

	found, err := FindConfigDir(subDir)
	if err != nil {
		t.Fatalf("FindConfigDir failed: %v", err)
	}

	if found != configDir {
		t.Errorf("expected %s, got %s", configDir, found)
	}
}

func TestLoad_WalksUp(t *testing.T) {
	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, ConfigDirName)
	if err := os.Mkdir(configDir, 0755); err != nil {
		t.Fatalf("create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, ConfigFileName), []byte("output:\n  format: text\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	subDir := filepath.Join(tmpDir, "reports")
	if err := os.Mkdir(subDir, 0755); err != nil {
		t.Fatalf("create subdir: %v", err)
	}

	cfg, err := Load(subDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("format = %q, want text", cfg.Output.Format)
	}
}

func TestEnsureConfigDir(t *testing.T) {
	tmpDir := t.TempDir()

	configDir, err := EnsureConfigDir(tmpDir)
	if err != nil {
		t.Fatalf("EnsureConfigDir failed: %v", err)
	}

	expected := filepath.Join(tmpDir, ConfigDirName)
	if configDir != expected {
		t.Errorf("expected %s, got %s", expected, configDir)
	}

	info, err := os.Stat(configDir)
	if err != nil || !info.IsDir() {
		t.Error("config dir was not created")
	}

	// Calling again should succeed
	if _, err := EnsureConfigDir(tmpDir); err != nil {
		t.Errorf("second EnsureConfigDir failed: %v", err)
	}
}

func TestSaveDefault(t *testing.T) {
	tmpDir := t.TempDir()

	configPath, err := SaveDefault(tmpDir)
	if err != nil {
		t.Fatalf("SaveDefault failed: %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("read saved config: %v", err)
	}
	if !strings.HasPrefix(string(data), "# clinicdash configuration") {
		t.Errorf("saved config missing header:\n%s", data)
	}

	// Saved defaults load back unchanged
	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("load saved config: %v", err)
	}
	want := DefaultConfig()
	if cfg.Generator.StartDate != want.Generator.StartDate || cfg.Generator.Patients != want.Generator.Patients {
		t.Errorf("reloaded generator = %+v", cfg.Generator)
	}

	// Second save fails
	if _, err := SaveDefault(tmpDir); err == nil {
		t.Error("SaveDefault should fail when config exists")
	}
}
