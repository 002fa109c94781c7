// Package report computes the dashboard's aggregate views from a snapshot
// of appointment records.
//
// Every view is a pure function over []appointment.Appointment: it never
// mutates its input, has no side effects and returns a fresh structure
// shaped for a chart renderer. Views do not depend on each other.
//
// Two output shapes exist:
//   - SeriesSet: ordered categories plus one or more named numeric series,
//     each aligned positionally with the categories.
//   - []Point: (name, y) pairs for proportion charts.
package report

import (
	"encoding/json"
	"fmt"
	"time"
)

// ChartType is the kind of chart a view is drawn as.
type ChartType string

const (
	// ChartTypePie draws proportions of a whole.
	ChartTypePie ChartType = "pie"

	// ChartTypeColumn draws vertical bars per category.
	ChartTypeColumn ChartType = "column"

	// ChartTypeBar draws horizontal bars per category.
	ChartTypeBar ChartType = "bar"

	// ChartTypeLine draws a series over ordered categories, usually months.
	ChartTypeLine ChartType = "line"
)

// String returns the string representation of the chart type.
func (ct ChartType) String() string {
	return string(ct)
}

// Series is one named sequence of values. For category charts Data is
// aligned with the chart categories; for proportion charts Points holds
// the (name, y) pairs instead. Both encode under the "data" key.
type Series struct {
	// Name labels the series in the chart legend.
	Name string

	// Data holds one value per category.
	Data []float64

	// Points holds named values for proportion charts.
	Points []Point
}

// seriesWire is the encoded form of a Series.
type seriesWire struct {
	Name string `yaml:"name" json:"name"`
	Data any    `yaml:"data" json:"data"`
}

func (s Series) wire() seriesWire {
	if s.Points != nil {
		return seriesWire{Name: s.Name, Data: s.Points}
	}
	data := s.Data
	if data == nil {
		data = []float64{}
	}
	return seriesWire{Name: s.Name, Data: data}
}

// MarshalJSON encodes the series as {"name", "data"}.
func (s Series) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.wire())
}

// MarshalYAML encodes the series as name and data keys.
func (s Series) MarshalYAML() (any, error) {
	return s.wire(), nil
}

// UnmarshalJSON decodes data as numbers, or as (name, y) points when the
// array holds objects.
func (s *Series) UnmarshalJSON(b []byte) error {
	var raw struct {
		Name string          `json:"name"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*s = Series{Name: raw.Name}
	if len(raw.Data) == 0 || string(raw.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw.Data, &s.Data); err == nil {
		return nil
	}
	s.Data = nil
	if err := json.Unmarshal(raw.Data, &s.Points); err != nil {
		return fmt.Errorf("series %q: data must be numbers or points: %w", raw.Name, err)
	}
	return nil
}

// SeriesSet is the categories + series structure of a category chart.
type SeriesSet struct {
	// Categories are the x-axis labels, in display order.
	Categories []string `yaml:"categories" json:"categories"`

	// Series holds one or more series, each with len(Categories) values.
	Series []Series `yaml:"series" json:"series"`
}

// Point is a single named value of a proportion chart.
type Point struct {
	Name string  `yaml:"name" json:"name"`
	Y    float64 `yaml:"y" json:"y"`
}

// emptySeriesSet is the result of every category view on empty input.
// The slices are non-nil so they encode as [] rather than null.
func emptySeriesSet() SeriesSet {
	return SeriesSet{Categories: []string{}, Series: []Series{}}
}

// Total returns the sum of every value in every series.
func (s SeriesSet) Total() float64 {
	var total float64
	for _, series := range s.Series {
		for _, v := range series.Data {
			total += v
		}
	}
	return total
}

// Lookup returns the series with the given name.
func (s SeriesSet) Lookup(name string) (Series, bool) {
	for _, series := range s.Series {
		if series.Name == name {
			return series, true
		}
	}
	return Series{}, false
}

// Chart is a render-ready description of one dashboard chart.
type Chart struct {
	// ID is the stable catalogue identifier (e.g. "revenue-by-treatment").
	ID string `yaml:"id" json:"id"`

	// Type is the kind of chart to draw.
	Type ChartType `yaml:"type" json:"type"`

	// Title is the human-readable chart title.
	Title string `yaml:"title" json:"title"`

	// XAxisTitle labels the category axis. Empty for pie charts.
	XAxisTitle string `yaml:"x_axis_title,omitempty" json:"xAxisTitle,omitempty"`

	// YAxisTitle labels the value axis. Empty for pie charts.
	YAxisTitle string `yaml:"y_axis_title,omitempty" json:"yAxisTitle,omitempty"`

	// Categories are the x-axis labels. For pie charts they repeat the
	// point names so legends can be built without walking the points.
	Categories []string `yaml:"categories" json:"categories"`

	// Series holds the chart data.
	Series []Series `yaml:"series" json:"series"`
}

// DashboardHeader contains summary fields shown above the charts.
type DashboardHeader struct {
	// RunID uniquely identifies this dashboard build.
	RunID string `yaml:"run_id" json:"run_id"`

	// GeneratedAt is the timestamp when the dashboard was built.
	GeneratedAt time.Time `yaml:"generated_at" json:"generated_at"`

	// Source describes where the records came from (a file path or
	// "generated (seed N)"). Set by the caller.
	Source string `yaml:"source,omitempty" json:"source,omitempty"`

	// Records is the number of appointment records.
	Records int `yaml:"records" json:"records"`

	// Patients is the number of distinct patients.
	Patients int `yaml:"patients" json:"patients"`

	// TotalRevenue is the sum of all prices, rounded to cents.
	TotalRevenue float64 `yaml:"total_revenue" json:"total_revenue"`

	// FirstDate and LastDate bound the appointment dates. Empty when there
	// are no records.
	FirstDate string `yaml:"first_date,omitempty" json:"first_date,omitempty"`
	LastDate  string `yaml:"last_date,omitempty" json:"last_date,omitempty"`
}

// Dashboard is the full set of charts for one appointment snapshot.
type Dashboard struct {
	Header DashboardHeader `yaml:"dashboard" json:"dashboard"`
	Charts []Chart         `yaml:"charts" json:"charts"`
}

// Chart returns the chart with the given ID.
func (d *Dashboard) Chart(id string) (Chart, bool) {
	for _, c := range d.Charts {
		if c.ID == id {
			return c, true
		}
	}
	return Chart{}, false
}
