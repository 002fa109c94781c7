package report

import (
	"github.com/shopspring/decimal"

	"github.com/hargabyte/clinicdash/internal/appointment"
)

// Balance bucket labels, in display order.
const (
	BucketUpTo100    = "0-100"
	BucketUpTo500    = "101-500"
	BucketUpTo1000   = "501-1000"
	BucketAbove1000  = ">1000"
	SingleVisitLabel = "Single Visit"
	RepeatVisitLabel = "Repeat Visits"
	SuccessfulLabel  = "Successful"
	FailedLabel      = "Unsuccessful"
)

// BalanceBuckets lists the balance distribution categories.
var BalanceBuckets = []string{BucketUpTo100, BucketUpTo500, BucketUpTo1000, BucketAbove1000}

// StatusBreakdown counts appointments per status. Proportions are left to
// the renderer.
func StatusBreakdown(appts []appointment.Appointment) []Point {
	t := newTally()
	for _, a := range appts {
		t.inc(a.AppointmentStatus.String())
	}
	return t.points()
}

// RevenueByTreatment sums prices per treatment.
func RevenueByTreatment(appts []appointment.Appointment) SeriesSet {
	t := newTally()
	for _, a := range appts {
		t.add(a.Treatment, money(a.Price))
	}
	return t.seriesSet("Revenue", t.keys())
}

// AppointmentsOverTime counts appointments per YYYY-MM month, in
// chronological order.
func AppointmentsOverTime(appts []appointment.Appointment) SeriesSet {
	t := newTally()
	for _, a := range appts {
		t.inc(a.AppointmentDate.MonthKey())
	}
	return t.seriesSet("Appointments", t.sortedKeys())
}

// BalanceDistribution counts appointments per outstanding-balance bucket:
// [0,100], (100,500], (500,1000] and above 1000. Every record lands in
// exactly one bucket.
func BalanceDistribution(appts []appointment.Appointment) SeriesSet {
	if len(appts) == 0 {
		return emptySeriesSet()
	}
	t := newTally()
	for _, b := range BalanceBuckets {
		t.touch(b)
	}
	for _, a := range appts {
		t.inc(balanceBucket(a.Balance))
	}
	return t.seriesSet("Balances", BalanceBuckets)
}

func balanceBucket(balance float64) string {
	switch {
	case balance <= 100:
		return BucketUpTo100
	case balance <= 500:
		return BucketUpTo500
	case balance <= 1000:
		return BucketUpTo1000
	default:
		return BucketAbove1000
	}
}

// ProviderPerformance counts appointments per provider.
func ProviderPerformance(appts []appointment.Appointment) SeriesSet {
	t := newTally()
	for _, a := range appts {
		t.inc(a.Provider)
	}
	return t.seriesSet("Appointments", t.keys())
}

// ProviderRevenueComparison sums prices per (provider, treatment). The
// categories are providers and there is one series per treatment; a
// provider that never performed a treatment gets 0 in that series.
func ProviderRevenueComparison(appts []appointment.Appointment) SeriesSet {
	m := newMatrix()
	for _, a := range appts {
		m.register(a.Treatment, a.Provider)
	}
	for _, a := range appts {
		m.add(a.Treatment, a.Provider, money(a.Price))
	}
	return m.dense(m.rows.keys(), m.cols.keys())
}

// RevenueContribution gives each provider's share of total revenue as a
// percentage rounded to two decimals. Rounding is per provider, so the
// shares need not add up to exactly 100. With zero total revenue every
// share is 0.
func RevenueContribution(appts []appointment.Appointment) []Point {
	t := newTally()
	for _, a := range appts {
		t.add(a.Provider, money(a.Price))
	}

	total := t.total()
	hundred := decimal.NewFromInt(100)
	points := make([]Point, 0, t.len())
	for _, provider := range t.keys() {
		share := decimal.Zero
		if !total.IsZero() {
			share = t.get(provider).Mul(hundred).Div(total)
		}
		points = append(points, Point{Name: provider, Y: round2(share)})
	}
	return points
}

// TreatmentPopularity counts appointments per treatment.
func TreatmentPopularity(appts []appointment.Appointment) SeriesSet {
	t := newTally()
	for _, a := range appts {
		t.inc(a.Treatment)
	}
	return t.seriesSet("Treatments", t.keys())
}

// MonthlyRevenueTrend sums prices per YYYY-MM month, in chronological
// order.
func MonthlyRevenueTrend(appts []appointment.Appointment) SeriesSet {
	t := newTally()
	for _, a := range appts {
		t.add(a.AppointmentDate.MonthKey(), money(a.Price))
	}
	return t.seriesSet("Revenue", t.sortedKeys())
}

// AppointmentTrendsByProvider counts appointments per (provider, month).
// The categories are every month present in the data, sorted; there is
// one series per provider with a value, possibly 0, for every month.
func AppointmentTrendsByProvider(appts []appointment.Appointment) SeriesSet {
	m := newMatrix()
	for _, a := range appts {
		m.register(a.Provider, a.AppointmentDate.MonthKey())
	}
	for _, a := range appts {
		m.add(a.Provider, a.AppointmentDate.MonthKey(), one)
	}
	return m.dense(m.rows.keys(), m.cols.sortedKeys())
}

// TreatmentSuccessByProvider counts, per provider, completed visits as
// successful and cancelled or no-show visits as unsuccessful. Scheduled
// visits count toward neither.
func TreatmentSuccessByProvider(appts []appointment.Appointment) SeriesSet {
	m := newMatrix()
	for _, a := range appts {
		m.register(SuccessfulLabel, a.Provider)
		m.register(FailedLabel, a.Provider)
	}
	for _, a := range appts {
		switch {
		case a.AppointmentStatus.Successful():
			m.add(SuccessfulLabel, a.Provider, one)
		case a.AppointmentStatus.Unsuccessful():
			m.add(FailedLabel, a.Provider, one)
		}
	}
	return m.dense(m.rows.keys(), m.cols.keys())
}

// PatientRetention splits distinct patients into those with exactly one
// visit and those with more than one.
func PatientRetention(appts []appointment.Appointment) []Point {
	if len(appts) == 0 {
		return []Point{}
	}

	visits := make(map[string]int, len(appts))
	for _, a := range appts {
		visits[a.PatientID]++
	}

	var single, repeat float64
	for _, n := range visits {
		if n == 1 {
			single++
		} else {
			repeat++
		}
	}
	return []Point{
		{Name: SingleVisitLabel, Y: single},
		{Name: RepeatVisitLabel, Y: repeat},
	}
}
