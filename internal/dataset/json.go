package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/hargabyte/clinicdash/internal/appointment"
)

// jsonRecord mirrors appointment.Appointment with pointer fields so that
// absent keys can be told apart from zero values.
type jsonRecord struct {
	PatientID         *string  `json:"patientId"`
	Provider          *string  `json:"provider"`
	Treatment         *string  `json:"treatment"`
	Price             *float64 `json:"price"`
	Balance           *float64 `json:"balance"`
	AppointmentDate   *string  `json:"appointmentDate"`
	AppointmentStatus *string  `json:"appointmentStatus"`
}

func readJSON(r io.Reader) ([]appointment.Appointment, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, fmt.Errorf("decode json: expected an array of appointments")
	}

	appts := []appointment.Appointment{}
	var bad problems
	for i := 0; dec.More(); i++ {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode json record %d: %w", i, err)
		}

		var rec jsonRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) && typeErr.Field != "" {
				bad.add(i, typeErr.Field, fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value))
			} else {
				bad.add(i, "record", "must be an object")
			}
			continue
		}

		a, ok := rec.appointment(i, &bad)
		if ok {
			appts = append(appts, a)
		}
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode json: unexpected data after array")
	}
	if err := bad.err(); err != nil {
		return nil, err
	}
	return appts, nil
}

// appointment converts the record, adding a problem for every missing or
// invalid field.
func (r jsonRecord) appointment(index int, bad *problems) (appointment.Appointment, bool) {
	before := len(*bad)
	var a appointment.Appointment

	str := func(field string, v *string) string {
		if v == nil {
			bad.add(index, field, "is required")
			return ""
		}
		return *v
	}
	num := func(field string, v *float64) float64 {
		if v == nil {
			bad.add(index, field, "is required")
			return 0
		}
		return *v
	}

	a.PatientID = str("patientId", r.PatientID)
	a.Provider = str("provider", r.Provider)
	a.Treatment = str("treatment", r.Treatment)
	a.Price = num("price", r.Price)
	a.Balance = num("balance", r.Balance)

	if date := str("appointmentDate", r.AppointmentDate); r.AppointmentDate != nil {
		d, err := appointment.ParseDate(date)
		if err != nil {
			bad.add(index, "appointmentDate", err.Error())
		}
		a.AppointmentDate = d
	}
	if status := str("appointmentStatus", r.AppointmentStatus); r.AppointmentStatus != nil {
		s, err := appointment.ParseStatus(status)
		if err != nil {
			bad.add(index, "appointmentStatus", err.Error())
		}
		a.AppointmentStatus = s
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

func addFieldError(bad *problems, index int, err error) {
	var fe *appointment.FieldError
	if errors.As(err, &fe) {
		bad.add(index, fe.Field, fe.Reason)
		return
	}
	bad.add(index, "record", err.Error())
}

func writeJSON(w io.Writer, appts []appointment.Appointment) error {
	if appts == nil {
		appts = []appointment.Appointment{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(appts); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
