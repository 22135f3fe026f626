package study

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/npillmayer/airfoil/aero"

	_ "modernc.org/sqlite"
)

// Store keeps study records in an SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("study store: ensure dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("study store: open: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("study store: schema: %w", err)
	}
	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS study_records (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    profile TEXT NOT NULL,
    reynolds REAL,
    mach REAL,
    ncrit REAL,
    mode TEXT,
    spec REAL,
    alpha REAL,
    cl REAL,
    cd REAL,
    cm REAL,
    converged INTEGER,
    failure TEXT
);
CREATE INDEX IF NOT EXISTS study_records_profile ON study_records(profile);`
	_, err := db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save appends records for a profile in a single transaction.
func (s *Store) Save(profile string, recs []Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("study store: begin: %w", err)
	}
	stmt, err := tx.Prepare(`
INSERT INTO study_records (
    profile, reynolds, mach, ncrit, mode, spec, alpha, cl, cd, cm, converged, failure
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("study store: prepare: %w", err)
	}
	defer stmt.Close()
	for _, r := range recs {
		c, k := r.Conditions, r.Coefficients
		_, err = stmt.Exec(profile, c.Reynolds, c.Mach, c.Ncrit, c.Spec.Mode.String(), c.Spec.Value,
			k.Alpha, k.Lift, k.Drag, k.Moment, boolToInt(k.Converged), r.Failure)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("study store: insert: %w", err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("study store: commit: %w", err)
	}
	tracer().Debugf("saved %d study records for %s", len(recs), profile)
	return nil
}

// Load returns the records of a profile in the order they have been saved.
func (s *Store) Load(profile string) ([]Record, error) {
	rows, err := s.db.Query(`
SELECT reynolds, mach, ncrit, mode, spec, alpha, cl, cd, cm, converged, failure
FROM study_records WHERE profile = ? ORDER BY id`, profile)
	if err != nil {
		return nil, fmt.Errorf("study store: query: %w", err)
	}
	defer rows.Close()
	var recs []Record
	for rows.Next() {
		var r Record
		var mode string
		var converged int
		c, k := &r.Conditions, &r.Coefficients
		if err := rows.Scan(&c.Reynolds, &c.Mach, &c.Ncrit, &mode, &c.Spec.Value,
			&k.Alpha, &k.Lift, &k.Drag, &k.Moment, &converged, &r.Failure); err != nil {
			return nil, fmt.Errorf("study store: scan: %w", err)
		}
		if c.Spec.Mode, err = parseMode(mode); err != nil {
			return nil, err
		}
		k.Converged = converged != 0
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("study store: rows: %w", err)
	}
	return recs, nil
}

// Profiles lists the profiles with stored records.
func (s *Store) Profiles() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT profile FROM study_records ORDER BY profile`)
	if err != nil {
		return nil, fmt.Errorf("study store: query: %w", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("study store: scan: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func parseMode(s string) (aero.Mode, error) {
	switch s {
	case aero.Lift.String():
		return aero.Lift, nil
	case aero.Alpha.String():
		return aero.Alpha, nil
	}
	return 0, errors.New("study store: unknown mode " + s)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
