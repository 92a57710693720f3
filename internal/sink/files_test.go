// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/bioscrape/plasmid-engine/pkg/types"
)

func TestFilesSink_MaterializesRecordDirectory(t *testing.T) {
	root := t.TempDir()
	s, err := NewFilesSink(root)
	require.NoError(t, err)

	p := fullRecord()
	require.NoError(t, s.Write(context.Background(), p))
	require.NoError(t, s.Close())

	dir := filepath.Join(root, "Plasmids", "pLKO.1 - TRC cloning vector")

	seq, err := os.ReadFile(filepath.Join(dir, "pLKO.1 - TRC cloning vector.gb"))
	require.NoError(t, err)
	assert.Equal(t, p.Sequence, seq)

	records, err := ReadCSV(filepath.Join(dir, "pLKO.1 - TRC cloning vector_attrs.csv"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, p.ID, records[0].ID)

	meta, err := os.ReadFile(filepath.Join(dir, "metadata.yaml"))
	require.NoError(t, err)
	var got types.Plasmid
	require.NoError(t, yaml.Unmarshal(meta, &got))
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, *p.Backbone, *got.Backbone)
}

func TestFilesSink_SanitizesDirectoryName(t *testing.T) {
	root := t.TempDir()
	s, err := NewFilesSink(root)
	require.NoError(t, err)

	p := sparseRecord()
	p.Name = "pUC19/lacZ"
	require.NoError(t, s.Write(context.Background(), p))

	_, err = os.Stat(filepath.Join(root, "Plasmids", "pUC19%2FlacZ"))
	assert.NoError(t, err, "record directory uses the sanitized name")
}

func TestFilesSink_NoSequenceFileWhenAbsent(t *testing.T) {
	root := t.TempDir()
	s, err := NewFilesSink(root)
	require.NoError(t, err)

	require.NoError(t, s.Write(context.Background(), sparseRecord()))

	_, err = os.Stat(filepath.Join(root, "Plasmids", "pSparse", "pSparse.gb"))
	assert.True(t, os.IsNotExist(err))
}

func TestJSONSink_WritesDocumentPerRecord(t *testing.T) {
	dir := t.TempDir()
	s, err := NewJSONSink(dir)
	require.NoError(t, err)

	p := fullRecord()
	require.NoError(t, s.Write(context.Background(), p))
	require.NoError(t, s.Close())

	data, err := os.ReadFile(filepath.Join(dir, "pLKO.1 - TRC cloning vector.json"))
	require.NoError(t, err)

	var got types.Plasmid
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, *p.Size, *got.Size)

	// Absent attributes are omitted keys, not empty strings.
	sparse := sparseRecord()
	require.NoError(t, s.Write(context.Background(), sparse))
	data, err = os.ReadFile(filepath.Join(dir, "pSparse.json"))
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	_, hasBackbone := raw["backbone"]
	assert.False(t, hasBackbone)
}
