// Package archive keeps a durable, flattened copy of confirmed monthly
// records in SQLite, alongside the JSON snapshot. The snapshot is the
// working state; the archive is the append-friendly history that
// survives snapshot resets.
package archive

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/energy-tracker/constants"
	"github.com/joseph-ayodele/energy-tracker/internal/entity"
)

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS monthly_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		meter TEXT NOT NULL,
		kind TEXT NOT NULL DEFAULT 'electricity',
		year INTEGER NOT NULL,
		month TEXT NOT NULL,
		f1 REAL NOT NULL DEFAULT 0,
		f2 REAL NOT NULL DEFAULT 0,
		f3 REAL NOT NULL DEFAULT 0,
		active_power REAL NOT NULL DEFAULT 0,
		power_factor REAL NOT NULL DEFAULT 0,
		gas REAL NOT NULL DEFAULT 0,
		note TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT 'manual',
		created_at TEXT NOT NULL,
		UNIQUE(meter, month)
	);
	CREATE INDEX IF NOT EXISTS idx_records_year ON monthly_records(year);
	CREATE INDEX IF NOT EXISTS idx_records_meter ON monthly_records(meter);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// UpsertRecord writes one confirmed record, replacing any previous row
// for the same (meter, month).
func (db *DB) UpsertRecord(meterID uuid.UUID, year int, rec entity.MonthlyRecord) error {
	query := `
	INSERT INTO monthly_records (meter, kind, year, month, f1, f2, f3, active_power, power_factor, gas, note, source, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(meter, month) DO UPDATE SET
		kind = excluded.kind,
		year = excluded.year,
		f1 = excluded.f1,
		f2 = excluded.f2,
		f3 = excluded.f3,
		active_power = excluded.active_power,
		power_factor = excluded.power_factor,
		gas = excluded.gas,
		note = excluded.note,
		source = excluded.source,
		created_at = excluded.created_at
	`

	var f1, f2, f3, pow, cosfi, gas float64
	if rec.Electricity != nil {
		f1, f2, f3 = rec.Electricity.F1, rec.Electricity.F2, rec.Electricity.F3
		pow, cosfi = rec.Electricity.ActivePower, rec.Electricity.PowerFactor
	}
	if rec.Gas != nil {
		gas = rec.Gas.Volume
	}
	createdAt := time.Now().UTC().Format(time.RFC3339)

	_, err := db.conn.Exec(query, meterID.String(), string(rec.Kind()), year, rec.Month,
		f1, f2, f3, pow, cosfi, gas, rec.Note, string(rec.Source), createdAt)
	if err != nil {
		return fmt.Errorf("archiving record: %w", err)
	}
	return nil
}

// Records returns one meter's archived rows for a year, ordered by
// month.
func (db *DB) Records(meterID uuid.UUID, year int) ([]entity.MonthlyRecord, error) {
	query := `
	SELECT kind, month, f1, f2, f3, active_power, power_factor, gas, note, source
	FROM monthly_records
	WHERE meter = ? AND year = ?
	ORDER BY month
	`

	rows, err := db.conn.Query(query, meterID.String(), year)
	if err != nil {
		return nil, fmt.Errorf("querying archive: %w", err)
	}
	defer rows.Close()

	var out []entity.MonthlyRecord
	for rows.Next() {
		var rec entity.MonthlyRecord
		var f1, f2, f3, pow, cosfi, gas float64
		var kind, source string
		if err := rows.Scan(&kind, &rec.Month, &f1, &f2, &f3, &pow, &cosfi, &gas, &rec.Note, &source); err != nil {
			return nil, fmt.Errorf("scanning archive row: %w", err)
		}
		rec.Source = constants.Provenance(source)
		if constants.MeterKind(kind) == constants.Gas {
			rec.Gas = &entity.GasReading{Volume: gas}
		} else {
			rec.Electricity = &entity.ElectricityReading{
				F1: f1, F2: f2, F3: f3,
				ActivePower: pow, PowerFactor: cosfi,
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Count reports the number of archived rows.
func (db *DB) Count() (int, error) {
	var n int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM monthly_records`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting archive rows: %w", err)
	}
	return n, nil
}
