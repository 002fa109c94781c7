package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/hargabyte/clinicdash/internal/report"
)

// TextFormatter renders dashboards, charts and command summaries for a
// terminal.
type TextFormatter struct{}

// NewTextFormatter creates a new text formatter.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// Format formats a value as text.
func (f *TextFormatter) Format(v any) (string, error) {
	return formatString(f, v)
}

// FormatToWriter writes text output to a writer.
func (f *TextFormatter) FormatToWriter(w io.Writer, v any) error {
	tw := &textWriter{w: w}
	switch v := v.(type) {
	case *report.Dashboard:
		tw.dashboard(v)
	case report.Chart:
		tw.chart(v)
	case *report.Chart:
		tw.chart(*v)
	case *CatalogOutput:
		tw.catalog(v)
	case *ValidateOutput:
		tw.validation(v)
	default:
		return fmt.Errorf("text formatter does not support type %T", v)
	}
	return tw.err
}

// textWriter remembers the first write error so rendering code can stay
// linear.
type textWriter struct {
	w   io.Writer
	err error
}

func (tw *textWriter) printf(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.w, format, args...)
}

func (tw *textWriter) heading(title, rule string) {
	tw.printf("%s\n%s\n", title, strings.Repeat(rule, max(len(title), 38)))
}

func (tw *textWriter) dashboard(d *report.Dashboard) {
	h := d.Header
	tw.heading("Dental Clinic Dashboard", "=")
	if h.Source != "" {
		tw.printf("Source: %s\n", h.Source)
	}
	tw.printf("Run: %s\n", h.RunID)
	tw.printf("Records: %s | Patients: %s | Revenue: $%s\n",
		humanize.Comma(int64(h.Records)),
		humanize.Comma(int64(h.Patients)),
		money(h.TotalRevenue),
	)
	if h.FirstDate != "" {
		tw.printf("Dates: %s to %s\n", h.FirstDate, h.LastDate)
	}
	for _, c := range d.Charts {
		tw.printf("\n")
		tw.chart(c)
	}
}

func (tw *textWriter) chart(c report.Chart) {
	tw.heading(fmt.Sprintf("%s (%s)", c.Title, c.Type), "-")
	if len(c.Series) == 0 {
		tw.printf("No data.\n")
		return
	}

	if c.Type == report.ChartTypePie {
		tw.points(c.Series[0].Points)
		return
	}

	if c.XAxisTitle != "" || c.YAxisTitle != "" {
		tw.printf("x: %s | y: %s\n", orDash(c.XAxisTitle), orDash(c.YAxisTitle))
	}
	width := labelWidth(c.Categories)
	for i, cat := range c.Categories {
		values := make([]string, 0, len(c.Series))
		for _, s := range c.Series {
			if len(c.Series) == 1 {
				values = append(values, number(s.Data[i]))
			} else {
				values = append(values, fmt.Sprintf("%s %s", s.Name, number(s.Data[i])))
			}
		}
		tw.printf("%-*s | %s\n", width, cat, strings.Join(values, " | "))
	}
}

// points renders proportion values with their share of the total.
func (tw *textWriter) points(points []report.Point) {
	var total float64
	names := make([]string, len(points))
	for i, p := range points {
		total += p.Y
		names[i] = p.Name
	}
	width := labelWidth(names)
	for _, p := range points {
		share := 0.0
		if total > 0 {
			share = p.Y / total * 100
		}
		tw.printf("%-*s | %s | %.1f%%\n", width, p.Name, number(p.Y), share)
	}
}

func (tw *textWriter) catalog(c *CatalogOutput) {
	tw.heading("Available reports", "=")
	ids := make([]string, len(c.Reports))
	for i, r := range c.Reports {
		ids[i] = r.ID
	}
	width := labelWidth(ids)
	for _, r := range c.Reports {
		tw.printf("%-*s | %-6s | %s\n", width, r.ID, r.Type, r.Title)
	}
}

func (tw *textWriter) validation(v *ValidateOutput) {
	tw.heading("Dataset validation", "=")
	tw.printf("Input: %s\n", v.Path)
	if !v.Valid {
		tw.printf("Status: INVALID (%s problem(s))\n", humanize.Comma(int64(len(v.Problems))))
		for _, p := range v.Problems {
			tw.printf("  %s\n", p)
		}
		return
	}
	tw.printf("Status: OK\n")
	tw.printf("Records: %s | Patients: %s\n", humanize.Comma(int64(v.Records)), humanize.Comma(int64(v.Patients)))
	if v.FirstDate != "" {
		tw.printf("Dates: %s to %s\n", v.FirstDate, v.LastDate)
	}
}

func labelWidth(labels []string) int {
	width := 0
	for _, l := range labels {
		width = max(width, len(l))
	}
	return width
}

// number prints whole values as integers and everything else with cents.
func number(v float64) string {
	if v == float64(int64(v)) {
		return humanize.Comma(int64(v))
	}
	return money(v)
}

func money(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
