package registry

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/funvibe/contractc/internal/abi"
	"github.com/funvibe/contractc/internal/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS selectors (
	abi       TEXT NOT NULL,
	selector  TEXT NOT NULL,
	signature TEXT NOT NULL,
	method    TEXT NOT NULL,
	unit      TEXT NOT NULL,
	PRIMARY KEY (abi, selector, signature)
);`

// CollisionError is returned when two different signatures of one ABI map
// to the same selector.
type CollisionError struct {
	Abi       string
	Selector  string
	Signature string
	Existing  string
	// Unit that registered Existing.
	Unit uuid.UUID
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("selector %s of `%s` in abi `%s` collides with `%s`",
		e.Selector, e.Signature, e.Abi, e.Existing)
}

// SelectorRegistry records the selectors of ABI methods in a SQLite
// database so that collisions are detected across compilation units.
type SelectorRegistry struct {
	db *sql.DB
}

// Open opens (creating if needed) the registry at path. ":memory:" keeps the
// registry in memory for the lifetime of the returned value.
func Open(path string) (*SelectorRegistry, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening selector registry: %w", err)
	}
	// An in-memory database lives as long as its connection.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating selector registry schema: %w", err)
	}
	return &SelectorRegistry{db: db}, nil
}

// Close releases the database.
func (r *SelectorRegistry) Close() error {
	return r.db.Close()
}

// Record stores the selector of one ABI method. Recording the same signature
// again is a no-op; a different signature with the same selector in the same
// ABI yields a *CollisionError.
func (r *SelectorRegistry) Record(unit uuid.UUID, abiName, method, signature string, selector [config.SelectorLength]byte) error {
	sel := abi.SelectorHex(selector)

	var existing string
	var existingUnit string
	err := r.db.QueryRow(
		`SELECT signature, unit FROM selectors WHERE abi = ? AND selector = ? AND signature <> ? LIMIT 1`,
		abiName, sel, signature,
	).Scan(&existing, &existingUnit)
	switch {
	case err == nil:
		owner, _ := uuid.Parse(existingUnit)
		return &CollisionError{Abi: abiName, Selector: sel, Signature: signature, Existing: existing, Unit: owner}
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("querying selector registry: %w", err)
	}

	_, err = r.db.Exec(
		`INSERT OR IGNORE INTO selectors (abi, selector, signature, method, unit) VALUES (?, ?, ?, ?, ?)`,
		abiName, sel, signature, method, unit.String(),
	)
	if err != nil {
		return fmt.Errorf("recording selector: %w", err)
	}
	return nil
}

// Entry is one recorded selector.
type Entry struct {
	Abi       string
	Selector  string
	Signature string
	Method    string
	Unit      uuid.UUID
}

// Entries returns the selectors recorded for abiName, ordered by selector.
func (r *SelectorRegistry) Entries(abiName string) ([]Entry, error) {
	rows, err := r.db.Query(
		`SELECT abi, selector, signature, method, unit FROM selectors WHERE abi = ? ORDER BY selector, signature`,
		abiName,
	)
	if err != nil {
		return nil, fmt.Errorf("listing selectors: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var unit string
		if err := rows.Scan(&e.Abi, &e.Selector, &e.Signature, &e.Method, &unit); err != nil {
			return nil, fmt.Errorf("reading selector row: %w", err)
		}
		e.Unit, _ = uuid.Parse(unit)
		out = append(out, e)
	}
	return out, rows.Err()
}
