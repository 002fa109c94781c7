package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hargabyte/clinicdash/internal/appointment"
)

// Definition describes one dashboard chart and how to compute it.
type Definition struct {
	ID         string
	Title      string
	Type       ChartType
	XAxisTitle string
	YAxisTitle string

	// Exactly one of these is set.
	series func([]appointment.Appointment) SeriesSet
	points func([]appointment.Appointment) []Point

	// seriesName names the single series of a proportion chart.
	seriesName string
}

// Build computes the chart for appts.
func (d Definition) Build(appts []appointment.Appointment) Chart {
	chart := Chart{
		ID:         d.ID,
		Type:       d.Type,
		Title:      d.Title,
		XAxisTitle: d.XAxisTitle,
		YAxisTitle: d.YAxisTitle,
	}

	if d.points != nil {
		points := d.points(appts)
		chart.Categories = make([]string, len(points))
		for i, p := range points {
			chart.Categories[i] = p.Name
		}
		chart.Series = []Series{}
		if len(points) > 0 {
			chart.Series = append(chart.Series, Series{Name: d.seriesName, Points: points})
		}
		return chart
	}

	set := d.series(appts)
	chart.Categories = set.Categories
	chart.Series = set.Series
	return chart
}

// Catalog lists every dashboard chart in display order.
var Catalog = []Definition{
	{
		ID:         "status-breakdown",
		Title:      "Appointment Status Breakdown",
		Type:       ChartTypePie,
		points:     StatusBreakdown,
		seriesName: "Status",
	},
	{
		ID:         "revenue-by-treatment",
		Title:      "Revenue by Treatment",
		Type:       ChartTypeColumn,
		YAxisTitle: "Revenue ($)",
		series:     RevenueByTreatment,
	},
	{
		ID:         "appointments-over-time",
		Title:      "Appointments Over Time",
		Type:       ChartTypeLine,
		XAxisTitle: "Month",
		YAxisTitle: "Number of Appointments",
		series:     AppointmentsOverTime,
	},
	{
		ID:         "balance-distribution",
		Title:      "Balance Distribution",
		Type:       ChartTypeColumn,
		XAxisTitle: "Balance Amount ($)",
		YAxisTitle: "Number of Appointments",
		series:     BalanceDistribution,
	},
	{
		ID:         "provider-performance",
		Title:      "Provider Performance",
		Type:       ChartTypeColumn,
		YAxisTitle: "Number of Appointments",
		series:     ProviderPerformance,
	},
	{
		ID:         "provider-revenue-comparison",
		Title:      "Provider Revenue Comparison",
		Type:       ChartTypeColumn,
		XAxisTitle: "Provider",
		YAxisTitle: "Revenue ($)",
		series:     ProviderRevenueComparison,
	},
	{
		ID:         "revenue-contribution",
		Title:      "Revenue Contribution by Provider",
		Type:       ChartTypePie,
		points:     RevenueContribution,
		seriesName: "Revenue Share (%)",
	},
	{
		ID:         "treatment-popularity",
		Title:      "Treatment Popularity",
		Type:       ChartTypeColumn,
		YAxisTitle: "Frequency",
		series:     TreatmentPopularity,
	},
	{
		ID:         "monthly-revenue-trend",
		Title:      "Monthly Revenue Trend",
		Type:       ChartTypeLine,
		XAxisTitle: "Month",
		YAxisTitle: "Revenue ($)",
		series:     MonthlyRevenueTrend,
	},
	{
		ID:         "appointment-trends-by-provider",
		Title:      "Appointment Trends by Provider",
		Type:       ChartTypeLine,
		XAxisTitle: "Month",
		YAxisTitle: "Number of Appointments",
		series:     AppointmentTrendsByProvider,
	},
	{
		ID:         "treatment-success-by-provider",
		Title:      "Treatment Success by Provider",
		Type:       ChartTypeBar,
		XAxisTitle: "Provider",
		YAxisTitle: "Number of Appointments",
		series:     TreatmentSuccessByProvider,
	},
	{
		ID:         "patient-retention",
		Title:      "Patient Retention",
		Type:       ChartTypePie,
		points:     PatientRetention,
		seriesName: "Patients",
	},
}

// Lookup returns the catalogue entry with the given ID.
func Lookup(id string) (Definition, error) {
	for _, d := range Catalog {
		if d.ID == id {
			return d, nil
		}
	}
	return Definition{}, fmt.Errorf("unknown report: %q (available: %s)", id, strings.Join(IDs(), ", "))
}

// IDs returns the catalogue IDs in display order.
func IDs() []string {
	ids := make([]string, len(Catalog))
	for i, d := range Catalog {
		ids[i] = d.ID
	}
	return ids
}

// BuildDashboard computes the charts of defs for appts, or every catalogue
// chart when defs is empty.
func BuildDashboard(appts []appointment.Appointment, defs ...Definition) *Dashboard {
	if len(defs) == 0 {
		defs = Catalog
	}

	revenue := decimal.Zero
	for _, a := range appts {
		revenue = revenue.Add(money(a.Price))
	}

	header := DashboardHeader{
		RunID:        uuid.New().String(),
		GeneratedAt:  time.Now(),
		Records:      len(appts),
		Patients:     appointment.PatientCount(appts),
		TotalRevenue: round2(revenue),
	}
	if first, last, ok := appointment.DateSpan(appts); ok {
		header.FirstDate = first.String()
		header.LastDate = last.String()
	}

	charts := make([]Chart, 0, len(defs))
	for _, d := range defs {
		charts = append(charts, d.Build(appts))
	}

	return &Dashboard{Header: header, Charts: charts}
}
