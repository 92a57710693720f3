// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bioscrape/plasmid-engine/pkg/types"
)

// JSONSink writes one JSON document per record into a directory, keyed
// by sanitized record name. Absent attributes are omitted keys, not
// empty strings.
type JSONSink struct {
	dir string
}

// NewJSONSink creates the output directory if needed.
func NewJSONSink(dir string) (*JSONSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &JSONSink{dir: dir}, nil
}

// Write materializes p as <sanitized-name>.json. A later record with the
// same name overwrites the earlier document, consistent with the batch
// last-write-wins policy.
func (s *JSONSink) Write(_ context.Context, p *types.Plasmid) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", p.Name, err)
	}
	path := filepath.Join(s.dir, SanitizeName(p.Name)+".json")
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Close is a no-op; each Write is self-contained.
func (s *JSONSink) Close() error { return nil }
