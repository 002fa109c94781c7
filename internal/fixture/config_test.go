package fixture

import (
	"errors"
	"testing"

	"github.com/hargabyte/clinicdash/internal/appointment"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Patients != 5000 {
		t.Errorf("Patients = %d, want 5000", cfg.Patients)
	}
	if len(cfg.Providers) != 5 {
		t.Errorf("expected 5 providers, got %d", len(cfg.Providers))
	}
	if len(cfg.Treatments) != 9 {
		t.Errorf("expected 9 treatments, got %d", len(cfg.Treatments))
	}

	total := 0
	for _, sw := range cfg.StatusWeights {
		total += sw.Weight
	}
	if total != 10 {
		t.Errorf("status weights total %d, want 10", total)
	}
	if cfg.StartDate.String() != "2024-01-01" || cfg.EndDate.String() != "2024-12-31" {
		t.Errorf("window = %s..%s, want 2024-01-01..2024-12-31", cfg.StartDate, cfg.EndDate)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative patients", func(c *Config) { c.Patients = -1 }},
		{"missing start", func(c *Config) { c.StartDate = appointment.Date{} }},
		{"inverted window", func(c *Config) { c.EndDate = appointment.MustParseDate("2023-12-31") }},
		{"no treatments", func(c *Config) { c.Treatments = nil }},
		{"no statuses", func(c *Config) { c.StatusWeights = nil }},
		{"unknown status", func(c *Config) { c.StatusWeights = []StatusWeight{{Status: "Pending", Weight: 1}} }},
		{"zero weight", func(c *Config) { c.StatusWeights[0].Weight = 0 }},
		{"busy month 0", func(c *Config) { c.BusyMonths = []int{0} }},
		{"quiet month 13", func(c *Config) { c.QuietMonths = []int{13} }},
		{"probability above 1", func(c *Config) { c.RepeatVisitProbability = 1.5 }},
		{"negative rate", func(c *Config) { c.Price.OutlierRate = -0.1 }},
		{"repeat min zero", func(c *Config) { c.RepeatVisitMin = 0 }},
		{"repeat max below min", func(c *Config) { c.RepeatVisitMax = 1 }},
		{"outlier provider missing", func(c *Config) { c.OutlierProvider = "" }},
		{"dominant treatment missing", func(c *Config) { c.DominantTreatment = "" }},
		{"inverted price range", func(c *Config) { c.Price.Normal = Range{Min: 100, Max: 50} }},
		{"negative balance min", func(c *Config) { c.Balance.Outlier.Min = -5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestConfig_ValidateAllowsZeroRatesWithoutTargets(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ProviderOutlierRate = 0
	cfg.OutlierProvider = ""
	cfg.DominantTreatmentProbability = 0
	cfg.DominantTreatment = ""

	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}
