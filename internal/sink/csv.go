// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bioscrape/plasmid-engine/pkg/types"
)

// csvHeader defines the flat-file column order. Absent optional values
// are written as empty cells; that convention applies only at this
// boundary.
var csvHeader = []string{
	"id", "name", "vendor", "url", "size",
	"backbone", "vector_type", "marker", "resistance",
	"growth_temp", "growth_strain", "growth_instructions",
	"copy_number", "gene_insert",
}

// CSVSink appends one row per record to a flat CSV file keyed by name.
type CSVSink struct {
	f *os.File
	w *csv.Writer
}

// NewCSVSink creates (or truncates) path and writes the header row.
func NewCSVSink(path string) (*CSVSink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing header: %w", err)
	}
	return &CSVSink{f: f, w: w}, nil
}

// Write appends one record row.
func (s *CSVSink) Write(_ context.Context, p *types.Plasmid) error {
	size := ""
	if p.Size != nil {
		size = strconv.Itoa(*p.Size)
	}
	row := []string{
		strconv.Itoa(p.ID), p.Name, p.Vendor, p.VendorURL, size,
		orEmpty(p.Backbone), orEmpty(p.VectorType), orEmpty(p.Marker),
		orEmpty(p.Resistance), orEmpty(p.GrowthTemp), orEmpty(p.GrowthStrain),
		orEmpty(p.GrowthInstructions), orEmpty(p.CopyNumber), orEmpty(p.GeneInsert),
	}
	if err := s.w.Write(row); err != nil {
		return fmt.Errorf("writing row for %s: %w", p.Name, err)
	}
	s.w.Flush()
	return s.w.Error()
}

// Close flushes and closes the file.
func (s *CSVSink) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}

// ReadCSV reads back a flat file written by CSVSink. Empty cells resolve
// to absent attributes, mirroring the write-side convention.
func ReadCSV(path string) ([]*types.Plasmid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var records []*types.Plasmid
	for _, row := range rows[1:] {
		if len(row) != len(csvHeader) {
			return nil, fmt.Errorf("row has %d columns, want %d", len(row), len(csvHeader))
		}
		id, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("parsing id %q: %w", row[0], err)
		}
		p := &types.Plasmid{ID: id, Name: row[1], Vendor: row[2], VendorURL: row[3]}
		if row[4] != "" {
			n, err := strconv.Atoi(row[4])
			if err != nil {
				return nil, fmt.Errorf("parsing size %q: %w", row[4], err)
			}
			p.Size = &n
		}
		assignOptional(&p.Backbone, row[5])
		assignOptional(&p.VectorType, row[6])
		assignOptional(&p.Marker, row[7])
		assignOptional(&p.Resistance, row[8])
		assignOptional(&p.GrowthTemp, row[9])
		assignOptional(&p.GrowthStrain, row[10])
		assignOptional(&p.GrowthInstructions, row[11])
		assignOptional(&p.CopyNumber, row[12])
		assignOptional(&p.GeneInsert, row[13])
		records = append(records, p)
	}
	return records, nil
}

func assignOptional(dst **string, v string) {
	if v != "" {
		*dst = &v
	}
}
