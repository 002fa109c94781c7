// Package appointment defines the appointment record every report is
// computed from.
//
// Records are immutable snapshots: the fixture generator and the dataset
// loaders produce them, the report package only reads them.
package appointment

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Status is the lifecycle state of an appointment.
type Status string

const (
	// StatusCompleted is a visit that took place.
	StatusCompleted Status = "Completed"

	// StatusScheduled is a booked visit that has not happened yet.
	StatusScheduled Status = "Scheduled"

	// StatusCancelled is a visit called off before it took place.
	StatusCancelled Status = "Cancelled"

	// StatusNoShow is a visit the patient did not attend.
	StatusNoShow Status = "No Show"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{StatusCompleted, StatusScheduled, StatusCancelled, StatusNoShow}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return slices.Contains(Statuses, s)
}

// Successful reports whether the visit counts as a treatment success.
func (s Status) Successful() bool {
	return s == StatusCompleted
}

// Unsuccessful reports whether the visit counts as a failed visit.
// Scheduled visits are neither successful nor unsuccessful.
func (s Status) Unsuccessful() bool {
	return s == StatusCancelled || s == StatusNoShow
}

// ParseStatus parses a status name. Matching is exact after trimming
// surrounding whitespace.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.TrimSpace(s))
	if !status.Valid() {
		names := make([]string, len(Statuses))
		for i, st := range Statuses {
			names[i] = st.String()
		}
		return "", fmt.Errorf("invalid status: %q (expected one of %s)", s, strings.Join(names, ", "))
	}
	return status, nil
}

// Appointment is one clinical visit.
type Appointment struct {
	PatientID         string  `json:"patientId" yaml:"patient_id"`
	Provider          string  `json:"provider" yaml:"provider"`
	Treatment         string  `json:"treatment" yaml:"treatment"`
	Price             float64 `json:"price" yaml:"price"`
	Balance           float64 `json:"balance" yaml:"balance"`
	AppointmentDate   Date    `json:"appointmentDate" yaml:"appointment_date"`
	AppointmentStatus Status  `json:"appointmentStatus" yaml:"appointment_status"`
}

// FieldError describes a single invalid field of an appointment.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Validate checks the record against the appointment schema.
// It returns a *FieldError for the first offending field.
func (a Appointment) Validate() error {
	if strings.TrimSpace(a.PatientID) == "" {
		return &FieldError{Field: "patientId", Reason: "is required"}
	}
	if strings.TrimSpace(a.Provider) == "" {
		return &FieldError{Field: "provider", Reason: "is required"}
	}
	if strings.TrimSpace(a.Treatment) == "" {
		return &FieldError{Field: "treatment", Reason: "is required"}
	}
	if err := validateMoney("price", a.Price); err != nil {
		return err
	}
	if err := validateMoney("balance", a.Balance); err != nil {
		return err
	}
	if a.AppointmentDate.IsZero() {
		return &FieldError{Field: "appointmentDate", Reason: "is required"}
	}
	if !a.AppointmentStatus.Valid() {
		return &FieldError{Field: "appointmentStatus", Reason: fmt.Sprintf("unknown status %q", a.AppointmentStatus)}
	}
	return nil
}

func validateMoney(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &FieldError{Field: field, Reason: "must be a finite number"}
	}
	if v < 0 {
		return &FieldError{Field: field, Reason: fmt.Sprintf("must be non-negative, got %.2f", v)}
	}
	return nil
}

// PatientCount returns the number of distinct patient IDs.
func PatientCount(appts []Appointment) int {
	seen := make(map[string]struct{}, len(appts))
	for _, a := range appts {
		seen[a.PatientID] = struct{}{}
	}
	return len(seen)
}

// DateSpan returns the earliest and latest appointment dates.
// ok is false when appts is empty.
func DateSpan(appts []Appointment) (first, last Date, ok bool) {
	if len(appts) == 0 {
		return Date{}, Date{}, false
	}
	first, last = appts[0].AppointmentDate, appts[0].AppointmentDate
	for _, a := range appts[1:] {
		if a.AppointmentDate.Before(first) {
			first = a.AppointmentDate
		}
		if a.AppointmentDate.After(last) {
			last = a.AppointmentDate
		}
	}
	return first, last, true
}
