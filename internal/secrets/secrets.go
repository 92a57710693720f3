// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads harvesting credentials from a directory of
// plain-text files, one secret per file: the filename is the key and the
// trimmed contents are the value. The relational sink's Postgres DSN
// (key "postgres-dsn") is the one secret the pipeline consumes today.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// postgresDSNKey names the secret file holding the relational sink's
// connection string.
const postgresDSNKey = "postgres-dsn"

// Store holds the credentials loaded at startup.
type Store map[string]string

// Load reads every file in dir into a Store. A missing directory is not
// an error; harvesting to file-based sinks needs no credentials at all.
// Dotfiles, subdirectories, and empty values are skipped; an unreadable
// file produces a warning on stderr but does not abort.
func Load(dir string) (Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Store{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	store := make(Store)
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", entry.Name(), err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			store[entry.Name()] = value
		}
	}
	return store, nil
}

// PostgresDSN returns the connection string for the relational sink:
// the explicit value when set, otherwise the loaded secret, otherwise
// empty.
func (s Store) PostgresDSN(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return s[postgresDSNKey]
}
