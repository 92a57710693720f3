// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/bioscrape/plasmid-engine/pkg/types"
)

// createTableStmt uses types shared by SQLite and Postgres. size is a
// nullable integer column: absence binds NULL, never a literal string.
const createTableStmt = `CREATE TABLE IF NOT EXISTS plasmids (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	vendor TEXT,
	url TEXT,
	size INTEGER,
	backbone TEXT,
	vector_type TEXT,
	marker TEXT,
	resistance TEXT,
	growth_temp TEXT,
	growth_strain TEXT,
	growth_instructions TEXT,
	copy_number TEXT,
	gene_insert TEXT,
	sequence TEXT
)`

const insertColumns = `id, name, vendor, url, size, backbone, vector_type, marker,
	resistance, growth_temp, growth_strain, growth_instructions, copy_number,
	gene_insert, sequence`

// SQLSink inserts one parameter-bound row per record. The primary key on
// id makes persistence idempotent in the strict sense: re-inserting an
// existing id is rejected by the constraint rather than duplicating the
// row, and that rejection surfaces to the batch caller.
type SQLSink struct {
	db     *sql.DB
	insert string
}

// NewSQLSink opens the database for the given driver ("sqlite3" or
// "postgres") and creates the table if absent.
func NewSQLSink(driver, dsn string) (*SQLSink, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", driver, err)
	}
	s, err := NewSQLSinkFromDB(db, driver)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLSinkFromDB wraps an existing connection; tests use this with
// in-memory SQLite.
func NewSQLSinkFromDB(db *sql.DB, driver string) (*SQLSink, error) {
	if _, err := db.Exec(createTableStmt); err != nil {
		return nil, fmt.Errorf("creating plasmids table: %w", err)
	}
	return &SQLSink{db: db, insert: insertStmt(driver)}, nil
}

// insertStmt renders the INSERT with the driver's placeholder style.
func insertStmt(driver string) string {
	n := 15
	params := make([]string, n)
	for i := range params {
		if driver == "postgres" {
			params[i] = fmt.Sprintf("$%d", i+1)
		} else {
			params[i] = "?"
		}
	}
	return fmt.Sprintf("INSERT INTO plasmids (%s) VALUES (%s)",
		insertColumns, strings.Join(params, ", "))
}

// Write inserts one row. All string fields are parameter-bound, so
// embedded quotes need no escaping; nil optionals bind NULL.
func (s *SQLSink) Write(ctx context.Context, p *types.Plasmid) error {
	var seq any
	if p.Sequence != nil {
		seq = string(p.Sequence)
	}
	_, err := s.db.ExecContext(ctx, s.insert,
		p.ID, p.Name, p.Vendor, p.VendorURL, p.Size,
		p.Backbone, p.VectorType, p.Marker, p.Resistance,
		p.GrowthTemp, p.GrowthStrain, p.GrowthInstructions,
		p.CopyNumber, p.GeneInsert, seq,
	)
	if err != nil {
		return fmt.Errorf("inserting plasmid %d: %w", p.ID, err)
	}
	return nil
}

// Close releases the database connection.
func (s *SQLSink) Close() error {
	return s.db.Close()
}
