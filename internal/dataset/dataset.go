// Package dataset reads and writes appointment snapshots.
//
// Three container formats are supported: a JSON array of appointment
// objects, a CSV file with a header row, and a SQLite file holding a single
// appointments table. Every record is validated once at ingest; report
// views downstream assume well-formed input.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hargabyte/clinicdash/internal/appointment"
)

// ErrUnsupportedFormat is returned for file extensions and stream formats
// that have no codec.
var ErrUnsupportedFormat = errors.New("unsupported dataset format")

// Format identifies a snapshot container.
type Format string

const (
	// FormatJSON is an array of appointment objects.
	FormatJSON Format = "json"

	// FormatCSV is a header row followed by one appointment per line.
	FormatCSV Format = "csv"

	// FormatSQLite is a SQLite database with an appointments table.
	FormatSQLite Format = "sqlite"
)

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "sqlite", "db":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("%w: %q (expected json, csv, or sqlite)", ErrUnsupportedFormat, s)
	}
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("%w: %q (expected .json, .csv, .db, or .sqlite)", ErrUnsupportedFormat, path)
	}
}

// Load reads and validates the snapshot at path.
func Load(ctx context.Context, path string) ([]appointment.Appointment, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	var appts []appointment.Appointment
	if format == FormatSQLite {
		appts, err = loadSQLite(ctx, path)
	} else {
		f, openErr := os.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("open dataset: %w", openErr)
		}
		defer f.Close()
		appts, err = Read(ctx, f, format)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Str("format", format.String()).
		Int("records", len(appts)).
		Msg("dataset loaded")
	return appts, nil
}

// Read decodes and validates a JSON or CSV stream. SQLite snapshots need a
// file and must go through Load.
func Read(ctx context.Context, r io.Reader, format Format) ([]appointment.Appointment, error) {
	switch format {
	case FormatJSON:
		return readJSON(r)
	case FormatCSV:
		return readCSV(r)
	default:
		return nil, fmt.Errorf("%w: cannot stream %q", ErrUnsupportedFormat, format)
	}
}

// Save writes appts to path, replacing any existing file.
func Save(ctx context.Context, path string, appts []appointment.Appointment) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	if format == FormatSQLite {
		err = saveSQLite(ctx, path, appts)
	} else {
		err = saveStream(ctx, path, format, appts)
	}
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Info().
		Str("path", path).
		Str("format", format.String()).
		Int("records", len(appts)).
		Msg("dataset saved")
	return nil
}

func saveStream(ctx context.Context, path string, format Format, appts []appointment.Appointment) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dataset: %w", err)
	}
	if err := Write(ctx, f, format, appts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write encodes appts as JSON or CSV.
func Write(ctx context.Context, w io.Writer, format Format, appts []appointment.Appointment) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, appts)
	case FormatCSV:
		return writeCSV(w, appts)
	default:
		return fmt.Errorf("%w: cannot stream %q", ErrUnsupportedFormat, format)
	}
}
