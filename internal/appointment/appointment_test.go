package appointment

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"
)

func validAppointment() Appointment {
	return Appointment{
		PatientID:         "P0001",
		Provider:          "Mary Johnson",
		Treatment:         "Root Canal",
		Price:             1200.50,
		Balance:           75.25,
		AppointmentDate:   NewDate(2024, time.March, 14),
		AppointmentStatus: StatusCompleted,
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    Status
		wantErr bool
	}{
		{"Completed", StatusCompleted, false},
		{"Scheduled", StatusScheduled, false},
		{"Cancelled", StatusCancelled, false},
		{"No Show", StatusNoShow, false},
		{"  No Show ", StatusNoShow, false},
		{"completed", "", true}, // case sensitive
		{"NoShow", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStatus(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStatus(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseStatus(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStatusOutcome(t *testing.T) {
	tests := []struct {
		status       Status
		successful   bool
		unsuccessful bool
	}{
		{StatusCompleted, true, false},
		{StatusScheduled, false, false},
		{StatusCancelled, false, true},
		{StatusNoShow, false, true},
	}

	for _, tt := range tests {
		if got := tt.status.Successful(); got != tt.successful {
			t.Errorf("%s.Successful() = %v, want %v", tt.status, got, tt.successful)
		}
		if got := tt.status.Unsuccessful(); got != tt.unsuccessful {
			t.Errorf("%s.Unsuccessful() = %v, want %v", tt.status, got, tt.unsuccessful)
		}
	}
}

func TestAppointment_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Appointment)
		field  string
	}{
		{"valid", func(*Appointment) {}, ""},
		{"zero price is fine", func(a *Appointment) { a.Price = 0 }, ""},
		{"missing patient", func(a *Appointment) { a.PatientID = " " }, "patientId"},
		{"missing provider", func(a *Appointment) { a.Provider = "" }, "provider"},
		{"missing treatment", func(a *Appointment) { a.Treatment = "" }, "treatment"},
		{"negative price", func(a *Appointment) { a.Price = -1 }, "price"},
		{"NaN price", func(a *Appointment) { a.Price = math.NaN() }, "price"},
		{"negative balance", func(a *Appointment) { a.Balance = -0.01 }, "balance"},
		{"infinite balance", func(a *Appointment) { a.Balance = math.Inf(1) }, "balance"},
		{"missing date", func(a *Appointment) { a.AppointmentDate = Date{} }, "appointmentDate"},
		{"unknown status", func(a *Appointment) { a.AppointmentStatus = "Pending" }, "appointmentStatus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validAppointment()
			tt.mutate(&a)
			err := a.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("Validate() error = %v, want *FieldError", err)
			}
			if fe.Field != tt.field {
				t.Errorf("FieldError.Field = %q, want %q", fe.Field, tt.field)
			}
		})
	}
}

func TestAppointment_JSONFieldNames(t *testing.T) {
	data, err := json.Marshal(validAppointment())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	for _, key := range []string{"patientId", "provider", "treatment", "price", "balance", "appointmentDate", "appointmentStatus"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing JSON key %q in %s", key, data)
		}
	}
	if raw["appointmentDate"] != "2024-03-14" {
		t.Errorf("appointmentDate = %v, want 2024-03-14", raw["appointmentDate"])
	}
	if raw["appointmentStatus"] != "Completed" {
		t.Errorf("appointmentStatus = %v, want Completed", raw["appointmentStatus"])
	}
}

func TestPatientCount(t *testing.T) {
	a := validAppointment()
	b := validAppointment()
	c := validAppointment()
	c.PatientID = "P0002"

	if got := PatientCount([]Appointment{a, b, c}); got != 2 {
		t.Errorf("PatientCount = %d, want 2", got)
	}
	if got := PatientCount(nil); got != 0 {
		t.Errorf("PatientCount(nil) = %d, want 0", got)
	}
}

func TestDateSpan(t *testing.T) {
	if _, _, ok := DateSpan(nil); ok {
		t.Error("DateSpan(nil) ok = true, want false")
	}

	a := validAppointment()
	b := validAppointment()
	b.AppointmentDate = MustParseDate("2024-01-02")
	c := validAppointment()
	c.AppointmentDate = MustParseDate("2024-11-30")

	first, last, ok := DateSpan([]Appointment{a, b, c})
	if !ok {
		t.Fatal("DateSpan ok = false")
	}
	if first.String() != "2024-01-02" || last.String() != "2024-11-30" {
		t.Errorf("DateSpan = %s..%s, want 2024-01-02..2024-11-30", first, last)
	}
}
