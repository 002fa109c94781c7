package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hargabyte/clinicdash/internal/appointment"
)

// csvHeader is the column order written by writeCSV.
var csvHeader = []string{
	"patient_id",
	"provider",
	"treatment",
	"price",
	"balance",
	"appointment_date",
	"appointment_status",
}

// csvColumns lists the accepted header aliases per field, matched after
// normalizeHeader.
var csvColumns = []struct {
	field   string
	aliases []string
}{
	{"patientId", []string{"patient_id", "patient", "patientid"}},
	{"provider", []string{"provider", "dentist", "doctor"}},
	{"treatment", []string{"treatment", "procedure"}},
	{"price", []string{"price", "amount", "charge"}},
	{"balance", []string{"balance", "outstanding", "balance_due"}},
	{"appointmentDate", []string{"appointment_date", "date", "visit_date"}},
	{"appointmentStatus", []string{"appointment_status", "status"}},
}

func readCSV(r io.Reader) ([]appointment.Appointment, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode csv: missing header row")
		}
		return nil, fmt.Errorf("decode csv: unable to read header: %w", err)
	}

	colMap := normalizeHeaders(headers)
	idx := make(map[string]int, len(csvColumns))
	var missing []string
	for _, col := range csvColumns {
		i, ok := findColumn(colMap, col.aliases)
		if !ok {
			missing = append(missing, col.aliases[0])
			continue
		}
		idx[col.field] = i
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("decode csv: missing column(s) %s", strings.Join(missing, ", "))
	}

	appts := []appointment.Appointment{}
	var bad problems
	for i := 0; ; {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("decode csv: %w", err)
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}

		if a, ok := csvAppointment(record, idx, i, &bad); ok {
			appts = append(appts, a)
		}
		i++
	}

	if err := bad.err(); err != nil {
		return nil, err
	}
	return appts, nil
}

func csvAppointment(record []string, idx map[string]int, index int, bad *problems) (appointment.Appointment, bool) {
	before := len(*bad)
	a := appointment.Appointment{
		PatientID: getValue(record, idx["patientId"]),
		Provider:  getValue(record, idx["provider"]),
		Treatment: getValue(record, idx["treatment"]),
	}

	var err error
	if a.Price, err = parseMoney(getValue(record, idx["price"])); err != nil {
		bad.add(index, "price", err.Error())
	}
	if a.Balance, err = parseMoney(getValue(record, idx["balance"])); err != nil {
		bad.add(index, "balance", err.Error())
	}
	if a.AppointmentDate, err = appointment.ParseDate(getValue(record, idx["appointmentDate"])); err != nil {
		bad.add(index, "appointmentDate", err.Error())
	}
	if a.AppointmentStatus, err = appointment.ParseStatus(getValue(record, idx["appointmentStatus"])); err != nil {
		bad.add(index, "appointmentStatus", err.Error())
	}

	if len(*bad) > before {
		return a, false
	}
	if err := a.Validate(); err != nil {
		addFieldError(bad, index, err)
		return a, false
	}
	return a, true
}

// parseMoney accepts plain decimals with an optional leading "$" and
// thousands separators.
func parseMoney(s string) (float64, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, fmt.Errorf("is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return d.InexactFloat64(), nil
}

func formatMoney(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func writeCSV(w io.Writer, appts []appointment.Appointment) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}
	for _, a := range appts {
		record := []string{
			a.PatientID,
			a.Provider,
			a.Treatment,
			formatMoney(a.Price),
			formatMoney(a.Balance),
			a.AppointmentDate.String(),
			a.AppointmentStatus.String(),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("encode csv: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}
	return nil
}

func normalizeHeaders(headers []string) map[string]int {
	result := make(map[string]int, len(headers))
	for idx, header := range headers {
		normalized := normalizeHeader(header)
		if _, exists := result[normalized]; !exists {
			result[normalized] = idx
		}
	}
	return result
}

func normalizeHeader(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	value = strings.TrimPrefix(value, "\ufeff")
	value = strings.ReplaceAll(value, " ", "")
	value = strings.ReplaceAll(value, "_", "")
	value = strings.ReplaceAll(value, "-", "")
	return value
}

func findColumn(headers map[string]int, names []string) (int, bool) {
	for _, name := range names {
		if idx, ok := headers[normalizeHeader(name)]; ok {
			return idx, true
		}
	}
	return -1, false
}

func getValue(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
