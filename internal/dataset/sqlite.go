package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"github.com/hargabyte/clinicdash/internal/appointment"
)

// schemaSQL defines the snapshot table. Money is stored as TEXT decimals so
// cents survive the round trip exactly.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS appointments (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    patient_id TEXT NOT NULL,
    provider TEXT NOT NULL,
    treatment TEXT NOT NULL,
    price TEXT NOT NULL,
    balance TEXT NOT NULL,
    appointment_date TEXT NOT NULL,
    appointment_status TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_appointments_patient ON appointments(patient_id);
CREATE INDEX IF NOT EXISTS idx_appointments_date ON appointments(appointment_date);
`

// snapshotDB is an open SQLite snapshot file.
type snapshotDB struct {
	db   *sql.DB
	path string
}

// openSnapshot opens or creates the snapshot database at path and
// initializes the schema.
func openSnapshot(ctx context.Context, path string) (*snapshotDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &snapshotDB{db: db, path: path}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

func (s *snapshotDB) initSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schemaSQL)
	return err
}

// Close closes the database connection.
func (s *snapshotDB) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// replace swaps the table contents for appts in one transaction.
func (s *snapshotDB) replace(ctx context.Context, appts []appointment.Appointment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM appointments"); err != nil {
		return fmt.Errorf("clear appointments: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO appointments
			(patient_id, provider, treatment, price, balance, appointment_date, appointment_status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range appts {
		if _, err := stmt.ExecContext(ctx,
			a.PatientID,
			a.Provider,
			a.Treatment,
			formatMoney(a.Price),
			formatMoney(a.Balance),
			a.AppointmentDate.String(),
			a.AppointmentStatus.String(),
		); err != nil {
			return fmt.Errorf("insert appointment: %w", err)
		}
	}

	return tx.Commit()
}

// all returns every stored row in insertion order, validated.
func (s *snapshotDB) all(ctx context.Context) ([]appointment.Appointment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT patient_id, provider, treatment, price, balance, appointment_date, appointment_status
		FROM appointments
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query appointments: %w", err)
	}
	defer rows.Close()

	appts := []appointment.Appointment{}
	var bad problems
	for i := 0; rows.Next(); i++ {
		var patientID, provider, treatment, price, balance, date, status string
		if err := rows.Scan(&patientID, &provider, &treatment, &price, &balance, &date, &status); err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}

		before := len(bad)
		a := appointment.Appointment{PatientID: patientID, Provider: provider, Treatment: treatment}
		if a.Price, err = parseMoney(price); err != nil {
			bad.add(i, "price", err.Error())
		}
		if a.Balance, err = parseMoney(balance); err != nil {
			bad.add(i, "balance", err.Error())
		}
		if a.AppointmentDate, err = appointment.ParseDate(date); err != nil {
			bad.add(i, "appointmentDate", err.Error())
		}
		if a.AppointmentStatus, err = appointment.ParseStatus(status); err != nil {
			bad.add(i, "appointmentStatus", err.Error())
		}
		if len(bad) > before {
			continue
		}
		if err := a.Validate(); err != nil {
			addFieldError(&bad, i, err)
			continue
		}
		appts = append(appts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate appointments: %w", err)
	}
	if err := bad.err(); err != nil {
		return nil, err
	}
	return appts, nil
}

// count returns the number of stored rows.
func (s *snapshotDB) count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM appointments").Scan(&n); err != nil {
		return 0, fmt.Errorf("count appointments: %w", err)
	}
	return n, nil
}

func loadSQLite(ctx context.Context, path string) ([]appointment.Appointment, error) {
	// sql.Open would silently create a missing file.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}

	s, err := openSnapshot(ctx, path)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.all(ctx)
}

func saveSQLite(ctx context.Context, path string, appts []appointment.Appointment) error {
	s, err := openSnapshot(ctx, path)
	if err != nil {
		return err
	}
	if err := s.replace(ctx, appts); err != nil {
		s.Close()
		return err
	}
	n, err := s.count(ctx)
	if err != nil {
		s.Close()
		return err
	}
	if n != int64(len(appts)) {
		s.Close()
		return fmt.Errorf("snapshot holds %d rows, wrote %d", n, len(appts))
	}
	return s.Close()
}
