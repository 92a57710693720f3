// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bioscrape/plasmid-engine/pkg/types"
)

func newMemorySink(t *testing.T) (*SQLSink, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s, err := NewSQLSinkFromDB(db, "sqlite3")
	require.NoError(t, err)
	return s, db
}

func TestSQLSink_WriteAndReadBack(t *testing.T) {
	s, db := newMemorySink(t)

	p := fullRecord()
	require.NoError(t, s.Write(context.Background(), p))

	var (
		name     string
		size     sql.NullInt64
		backbone sql.NullString
		sequence sql.NullString
	)
	err := db.QueryRow(`SELECT name, size, backbone, sequence FROM plasmids WHERE id = ?`, p.ID).
		Scan(&name, &size, &backbone, &sequence)
	require.NoError(t, err)
	assert.Equal(t, p.Name, name)
	require.True(t, size.Valid)
	assert.Equal(t, int64(*p.Size), size.Int64)
	require.True(t, backbone.Valid)
	assert.Equal(t, *p.Backbone, backbone.String)
	require.True(t, sequence.Valid)
	assert.Equal(t, string(p.Sequence), sequence.String)
}

// Absent attributes bind NULL, never a literal "None" string.
func TestSQLSink_AbsentBindsNull(t *testing.T) {
	s, db := newMemorySink(t)

	require.NoError(t, s.Write(context.Background(), sparseRecord()))

	var size sql.NullInt64
	var backbone, sequence sql.NullString
	err := db.QueryRow(`SELECT size, backbone, sequence FROM plasmids WHERE id = 22222`).
		Scan(&size, &backbone, &sequence)
	require.NoError(t, err)
	assert.False(t, size.Valid)
	assert.False(t, backbone.Valid)
	assert.False(t, sequence.Valid)

	var none int
	require.NoError(t, db.QueryRow(
		`SELECT count(*) FROM plasmids WHERE backbone = 'None' OR size = 'None'`).Scan(&none))
	assert.Zero(t, none)
}

// Persisting the same id twice is rejected by the primary-key constraint;
// it never silently duplicates a row, and the rejection reaches the caller.
func TestSQLSink_DuplicateIDRejected(t *testing.T) {
	s, db := newMemorySink(t)

	p := fullRecord()
	require.NoError(t, s.Write(context.Background(), p))
	err := s.Write(context.Background(), p)
	require.Error(t, err)

	var count int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM plasmids WHERE id = ?`, p.ID).Scan(&count))
	assert.Equal(t, 1, count)
}

// Single quotes flow through parameter binding without escaping games.
func TestSQLSink_QuotesParameterBound(t *testing.T) {
	s, db := newMemorySink(t)

	p := sparseRecord()
	p.Name = "pO'Brien's vector"
	p.GeneInsert = types.String("5' UTR insert")
	require.NoError(t, s.Write(context.Background(), p))

	var name, insert string
	require.NoError(t, db.QueryRow(
		`SELECT name, gene_insert FROM plasmids WHERE id = ?`, p.ID).Scan(&name, &insert))
	assert.Equal(t, p.Name, name)
	assert.Equal(t, *p.GeneInsert, insert)
}

func TestInsertStmt_PlaceholderStyles(t *testing.T) {
	assert.Contains(t, insertStmt("sqlite3"), "VALUES (?, ?")
	assert.Contains(t, insertStmt("postgres"), "VALUES ($1, $2")
	assert.Contains(t, insertStmt("postgres"), "$15)")
}
