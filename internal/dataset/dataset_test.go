package dataset

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/hargabyte/clinicdash/internal/appointment"
	"github.com/hargabyte/clinicdash/internal/fixture"
)

func sample() []appointment.Appointment {
	return []appointment.Appointment{
		{
			PatientID:         "P0001",
			Provider:          "Mary Johnson",
			Treatment:         "Cleaning",
			Price:             150.25,
			Balance:           0,
			AppointmentDate:   appointment.MustParseDate("2024-03-04"),
			AppointmentStatus: appointment.StatusCompleted,
		},
		{
			PatientID:         "P0002",
			Provider:          "Michael Spears",
			Treatment:         "Root Canal",
			Price:             12000,
			Balance:           4500.5,
			AppointmentDate:   appointment.MustParseDate("2024-11-30"),
			AppointmentStatus: appointment.StatusNoShow,
		},
	}
}

func generatedSample(t *testing.T) []appointment.Appointment {
	t.Helper()
	cfg := fixture.DefaultConfig()
	cfg.Patients = 150
	g, err := fixture.NewSeeded(cfg, 99)
	if err != nil {
		t.Fatalf("fixture.NewSeeded failed: %v", err)
	}
	return g.Generate()
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"a.json", FormatJSON, false},
		{"dir/a.JSON", FormatJSON, false},
		{"a.csv", FormatCSV, false},
		{"a.db", FormatSQLite, false},
		{"a.sqlite", FormatSQLite, false},
		{"a.sqlite3", FormatSQLite, false},
		{"a.xlsx", "", true},
		{"noext", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FormatFromPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("error %v does not wrap ErrUnsupportedFormat", err)
			}
			if got != tt.want {
				t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"CSV", FormatCSV, false},
		{"db", FormatSQLite, false},
		{" sqlite ", FormatSQLite, false},
		{"parquet", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	want := generatedSample(t)

	for _, name := range []string{"snapshot.json", "snapshot.csv", "snapshot.db"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := Save(ctx, path, want); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			got, err := Load(ctx, path)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("round trip changed %d records", len(want))
			}
		})
	}
}

func TestSaveSQLite_Overwrites(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "snapshot.sqlite")

	if err := Save(ctx, path, generatedSample(t)); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	if err := Save(ctx, path, sample()); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	got, err := Load(ctx, path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(got, sample()) {
		t.Errorf("Load after overwrite = %d records, want %d", len(got), len(sample()))
	}
}

func TestLoad_MissingFile(t *testing.T) {
	ctx := context.Background()
	for _, name := range []string{"missing.json", "missing.db"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if _, err := Load(ctx, path); !errors.Is(err, os.ErrNotExist) {
				t.Errorf("Load(%s) error = %v, want os.ErrNotExist", name, err)
			}
			if _, err := os.Stat(path); !os.IsNotExist(err) {
				t.Errorf("Load created %s", name)
			}
		})
	}
}

func TestRead_SQLiteStream(t *testing.T) {
	_, err := Read(context.Background(), strings.NewReader(""), FormatSQLite)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Read(sqlite) error = %v, want ErrUnsupportedFormat", err)
	}
	if err := Write(context.Background(), &bytes.Buffer{}, FormatSQLite, nil); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Write(sqlite) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestValidationError_Message(t *testing.T) {
	var ps problems
	for i := 0; i < 12; i++ {
		ps.add(i, "price", "must be non-negative")
	}
	err := ps.err()

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %T, want *ValidationError", err)
	}
	msg := err.Error()
	if !strings.HasPrefix(msg, "12 invalid record(s)") {
		t.Errorf("message = %q", msg)
	}
	if !strings.Contains(msg, "record 9: price") || strings.Contains(msg, "record 10: price") {
		t.Errorf("message should list the first 10 problems only: %q", msg)
	}
	if !strings.HasSuffix(msg, "and 2 more") {
		t.Errorf("message should count the rest: %q", msg)
	}

	var none problems
	if none.err() != nil {
		t.Error("no problems should give a nil error")
	}
}
