// Package fixture generates synthetic appointment datasets.
//
// The generator shapes its randomness so that the dashboard charts show
// recognisable patterns: busy and quiet months, an overloaded provider, a
// dominant treatment, repeat visitors and the occasional extreme price or
// balance. The shaping is illustrative, not statistically calibrated.
//
// All randomness comes from an injected *rand.Rand, so a fixed seed gives a
// reproducible dataset.
package fixture

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/hargabyte/clinicdash/internal/appointment"
)

// Generator produces appointment fixtures from a Config.
type Generator struct {
	cfg        Config
	rng        *rand.Rand
	statusPool []appointment.Status
}

// New creates a generator drawing from rng. The config is validated once
// here; Generate itself cannot fail.
func New(cfg Config, rng *rand.Rand) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: random source is required", ErrInvalidConfig)
	}

	// Duplicated slots implement the weighting: 5 Completed, 3 Scheduled,
	// 1 Cancelled and 1 No Show give 50/30/10/10.
	var pool []appointment.Status
	for _, sw := range cfg.StatusWeights {
		for i := 0; i < sw.Weight; i++ {
			pool = append(pool, sw.Status)
		}
	}

	return &Generator{cfg: cfg, rng: rng, statusPool: pool}, nil
}

// NewSeeded creates a generator with a PCG source derived from seed.
func NewSeeded(cfg Config, seed uint64) (*Generator, error) {
	return New(cfg, NewSource(seed))
}

// NewSource returns the deterministic random source used for a seed.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Generate produces the records for cfg.Patients patients. Each patient
// yields between 1 and RepeatVisitMax records.
func (g *Generator) Generate() []appointment.Appointment {
	out := make([]appointment.Appointment, 0, g.cfg.Patients)
	for i := 0; i < g.cfg.Patients; i++ {
		out = append(out, g.patient(i)...)
	}
	return out
}

// patient draws every record of the i-th patient. Provider, date and
// money are shared by all visits; treatment and status are drawn per visit.
func (g *Generator) patient(i int) []appointment.Appointment {
	date := g.appointmentDate()
	visits := g.repeatCount()
	provider := g.provider()
	price := g.money(g.cfg.Price)
	balance := g.money(g.cfg.Balance)
	patientID := fmt.Sprintf("P%04d", i+1)

	records := make([]appointment.Appointment, visits)
	for v := range records {
		records[v] = appointment.Appointment{
			PatientID:         patientID,
			Provider:          provider,
			Treatment:         g.treatment(),
			Price:             price,
			Balance:           balance,
			AppointmentDate:   date,
			AppointmentStatus: g.status(),
		}
	}
	return records
}

// appointmentDate draws a uniform date in the window. A draw landing in a
// busy month is redrawn once over the full window; one landing in a quiet
// month is redrawn over the first half of the window.
func (g *Generator) appointmentDate() appointment.Date {
	span := g.cfg.StartDate.DaysUntil(g.cfg.EndDate)
	date := g.cfg.StartDate.AddDays(g.rng.IntN(span + 1))

	month := int(date.Month())
	if slices.Contains(g.cfg.BusyMonths, month) {
		return g.cfg.StartDate.AddDays(g.rng.IntN(span + 1))
	}
	if slices.Contains(g.cfg.QuietMonths, month) {
		return g.cfg.StartDate.AddDays(g.rng.IntN(span/2 + 1))
	}
	return date
}

func (g *Generator) repeatCount() int {
	if g.rng.Float64() >= g.cfg.RepeatVisitProbability {
		return 1
	}
	return g.cfg.RepeatVisitMin + g.rng.IntN(g.cfg.RepeatVisitMax-g.cfg.RepeatVisitMin+1)
}

func (g *Generator) provider() string {
	if g.rng.Float64() < g.cfg.ProviderOutlierRate {
		return g.cfg.OutlierProvider
	}
	return g.cfg.Providers[g.rng.IntN(len(g.cfg.Providers))]
}

func (g *Generator) treatment() string {
	if g.rng.Float64() < g.cfg.DominantTreatmentProbability {
		return g.cfg.DominantTreatment
	}
	return g.cfg.Treatments[g.rng.IntN(len(g.cfg.Treatments))]
}

func (g *Generator) status() appointment.Status {
	return g.statusPool[g.rng.IntN(len(g.statusPool))]
}

func (g *Generator) money(m MoneyConfig) float64 {
	r := m.Normal
	if g.rng.Float64() < m.OutlierRate {
		r = m.Outlier
	}
	v := r.Min + g.rng.Float64()*(r.Max-r.Min)
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
