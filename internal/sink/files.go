// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/bioscrape/plasmid-engine/pkg/types"
)

const plasmidsDir = "Plasmids"

// FilesSink materializes each record as its own directory under
// root/Plasmids/<sanitized-name>/ holding the sequence payload, an
// attributes CSV, and a metadata YAML document. Directory and file names
// go through SanitizeName so vendor names never produce unsafe paths.
type FilesSink struct {
	root string
}

// NewFilesSink creates the Plasmids directory under root.
func NewFilesSink(root string) (*FilesSink, error) {
	if err := os.MkdirAll(filepath.Join(root, plasmidsDir), 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &FilesSink{root: root}, nil
}

// Write materializes one record.
func (s *FilesSink) Write(ctx context.Context, p *types.Plasmid) error {
	name := SanitizeName(p.Name)
	dir := filepath.Join(s.root, plasmidsDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating record directory: %w", err)
	}

	if p.HasSequence() {
		seqPath := filepath.Join(dir, name+".gb")
		if err := os.WriteFile(seqPath, p.Sequence, 0o644); err != nil {
			return fmt.Errorf("writing sequence file: %w", err)
		}
	}

	csvSink, err := NewCSVSink(filepath.Join(dir, name+"_attrs.csv"))
	if err != nil {
		return err
	}
	if err := csvSink.Write(ctx, p); err != nil {
		csvSink.Close()
		return err
	}
	if err := csvSink.Close(); err != nil {
		return err
	}

	meta, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling metadata for %s: %w", p.Name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "metadata.yaml"), meta, 0o644); err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}
	return nil
}

// Close is a no-op; each Write is self-contained.
func (s *FilesSink) Close() error { return nil }
