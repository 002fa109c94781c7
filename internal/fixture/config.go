package fixture

import (
	"errors"
	"fmt"
	"time"

	"github.com/hargabyte/clinicdash/internal/appointment"
)

// ErrInvalidConfig is returned when generator configuration fails validation.
var ErrInvalidConfig = errors.New("invalid generator configuration")

// Range is an inclusive [Min, Max] interval of monetary values.
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// MoneyConfig shapes a price or balance draw: most values come from
// Normal, a fraction OutlierRate comes from Outlier.
type MoneyConfig struct {
	Normal      Range   `yaml:"normal" json:"normal"`
	Outlier     Range   `yaml:"outlier" json:"outlier"`
	OutlierRate float64 `yaml:"outlier_rate" json:"outlier_rate"`
}

// StatusWeight gives a status a number of slots in the status pool.
type StatusWeight struct {
	Status appointment.Status `yaml:"status" json:"status"`
	Weight int                `yaml:"weight" json:"weight"`
}

// Config holds every knob of the fixture generator.
type Config struct {
	// Patients is the number of base patients. Each contributes one or
	// more appointment records.
	Patients int `yaml:"patients" json:"patients"`

	// Seed drives the pseudo-random source. Zero lets the caller pick one.
	Seed uint64 `yaml:"seed" json:"seed"`

	StartDate appointment.Date `yaml:"start_date" json:"start_date"`
	EndDate   appointment.Date `yaml:"end_date" json:"end_date"`

	Providers     []string       `yaml:"providers" json:"providers"`
	Treatments    []string       `yaml:"treatments" json:"treatments"`
	StatusWeights []StatusWeight `yaml:"status_weights" json:"status_weights"`

	// BusyMonths trigger a redraw over the full window. QuietMonths trigger
	// a redraw over the first half of the window. Both are 1-based.
	BusyMonths  []int `yaml:"busy_months" json:"busy_months"`
	QuietMonths []int `yaml:"quiet_months" json:"quiet_months"`

	RepeatVisitProbability float64 `yaml:"repeat_visit_probability" json:"repeat_visit_probability"`
	RepeatVisitMin         int     `yaml:"repeat_visit_min" json:"repeat_visit_min"`
	RepeatVisitMax         int     `yaml:"repeat_visit_max" json:"repeat_visit_max"`

	ProviderOutlierRate float64 `yaml:"provider_outlier_rate" json:"provider_outlier_rate"`
	OutlierProvider     string  `yaml:"outlier_provider" json:"outlier_provider"`

	DominantTreatmentProbability float64 `yaml:"dominant_treatment_probability" json:"dominant_treatment_probability"`
	DominantTreatment            string  `yaml:"dominant_treatment" json:"dominant_treatment"`

	Price   MoneyConfig `yaml:"price" json:"price"`
	Balance MoneyConfig `yaml:"balance" json:"balance"`
}

// DefaultConfig returns the generator settings of the demo dashboard.
func DefaultConfig() Config {
	return Config{
		Patients:  5000,
		StartDate: appointment.NewDate(2024, time.January, 1),
		EndDate:   appointment.NewDate(2024, time.December, 31),
		Providers: []string{
			"Mary Johnson",
			"Michael Spears",
			"Samantha Benitez",
			"William Bradley",
			"Elizabeth Carter",
		},
		Treatments: []string{
			"Cavity Filling",
			"Root Canal",
			"Dental Implant",
			"Whitening",
			"Teeth Cleaning",
			"Periodontal Surgery",
			"Dental Crown",
			"Gum Treatment",
			"Orthodontic Braces",
		},
		StatusWeights: []StatusWeight{
			{Status: appointment.StatusCompleted, Weight: 5},
			{Status: appointment.StatusScheduled, Weight: 3},
			{Status: appointment.StatusCancelled, Weight: 1},
			{Status: appointment.StatusNoShow, Weight: 1},
		},
		BusyMonths:                   []int{2, 6, 11},
		QuietMonths:                  []int{3, 9},
		RepeatVisitProbability:       0.3,
		RepeatVisitMin:               2,
		RepeatVisitMax:               5,
		ProviderOutlierRate:          0.2,
		OutlierProvider:              "Michael Spears",
		DominantTreatmentProbability: 0.1,
		DominantTreatment:            "Root Canal",
		Price: MoneyConfig{
			Normal:      Range{Min: 200, Max: 3200},
			Outlier:     Range{Min: 5000, Max: 15000},
			OutlierRate: 0.01,
		},
		Balance: MoneyConfig{
			Normal:      Range{Min: 0, Max: 1000},
			Outlier:     Range{Min: 0, Max: 5000},
			OutlierRate: 0.01,
		},
	}
}

// Validate checks that the configuration can drive a generator.
func (c Config) Validate() error {
	if c.Patients < 0 {
		return fmt.Errorf("%w: patients must be non-negative, got %d", ErrInvalidConfig, c.Patients)
	}
	if c.StartDate.IsZero() || c.EndDate.IsZero() {
		return fmt.Errorf("%w: start_date and end_date are required", ErrInvalidConfig)
	}
	if c.EndDate.Before(c.StartDate) {
		return fmt.Errorf("%w: end_date %s is before start_date %s", ErrInvalidConfig, c.EndDate, c.StartDate)
	}
	if len(c.Providers) == 0 {
		return fmt.Errorf("%w: providers must not be empty", ErrInvalidConfig)
	}
	if len(c.Treatments) == 0 {
		return fmt.Errorf("%w: treatments must not be empty", ErrInvalidConfig)
	}
	if len(c.StatusWeights) == 0 {
		return fmt.Errorf("%w: status_weights must not be empty", ErrInvalidConfig)
	}
	for _, sw := range c.StatusWeights {
		if !sw.Status.Valid() {
			return fmt.Errorf("%w: unknown status %q in status_weights", ErrInvalidConfig, sw.Status)
		}
		if sw.Weight <= 0 {
			return fmt.Errorf("%w: weight for %q must be positive, got %d", ErrInvalidConfig, sw.Status, sw.Weight)
		}
	}
	for _, m := range append(append([]int{}, c.BusyMonths...), c.QuietMonths...) {
		if m < 1 || m > 12 {
			return fmt.Errorf("%w: month %d out of range 1-12", ErrInvalidConfig, m)
		}
	}

	probabilities := []struct {
		name  string
		value float64
	}{
		{"repeat_visit_probability", c.RepeatVisitProbability},
		{"provider_outlier_rate", c.ProviderOutlierRate},
		{"dominant_treatment_probability", c.DominantTreatmentProbability},
		{"price.outlier_rate", c.Price.OutlierRate},
		{"balance.outlier_rate", c.Balance.OutlierRate},
	}
	for _, p := range probabilities {
		if p.value < 0 || p.value > 1 {
			return fmt.Errorf("%w: %s must be between 0 and 1, got %f", ErrInvalidConfig, p.name, p.value)
		}
	}

	if c.RepeatVisitMin < 1 || c.RepeatVisitMax < c.RepeatVisitMin {
		return fmt.Errorf("%w: repeat visit range [%d, %d] is invalid", ErrInvalidConfig, c.RepeatVisitMin, c.RepeatVisitMax)
	}
	if c.ProviderOutlierRate > 0 && c.OutlierProvider == "" {
		return fmt.Errorf("%w: outlier_provider is required when provider_outlier_rate > 0", ErrInvalidConfig)
	}
	if c.DominantTreatmentProbability > 0 && c.DominantTreatment == "" {
		return fmt.Errorf("%w: dominant_treatment is required when dominant_treatment_probability > 0", ErrInvalidConfig)
	}

	if err := c.Price.validate("price"); err != nil {
		return err
	}
	return c.Balance.validate("balance")
}

func (m MoneyConfig) validate(name string) error {
	for _, r := range []struct {
		label string
		rng   Range
	}{{"normal", m.Normal}, {"outlier", m.Outlier}} {
		if r.rng.Min < 0 {
			return fmt.Errorf("%w: %s.%s.min must be non-negative, got %.2f", ErrInvalidConfig, name, r.label, r.rng.Min)
		}
		if r.rng.Max < r.rng.Min {
			return fmt.Errorf("%w: %s.%s range [%.2f, %.2f] is inverted", ErrInvalidConfig, name, r.label, r.rng.Min, r.rng.Max)
		}
	}
	return nil
}
