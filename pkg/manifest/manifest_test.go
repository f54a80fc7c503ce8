package manifest

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/exseq/pkg/errors"
	"github.com/agentstation/exseq/pkg/logging"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		file string
		want string
	}{
		{"fem4_WT_F11_regions_genes_with_cell_types.csv", "fem4_WT_F11"},
		{"data/csvs/fem3_WTE1_B_R_regions_genes.csv", "fem3_WTE1_B_R"},
		{"other.csv", "other"},
		{"_regions_genes.csv", ""},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayName(tt.file))
		})
	}
}

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("cell\n"), 0o644))
	}
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir,
		"b_regions_genes_with_cell_types.csv",
		"a_regions_genes.csv",
		"notes.txt",
	)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.csv"), 0o755))

	entries, err := Build(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	slash := filepath.ToSlash(dir)
	assert.Equal(t, Entry{Path: slash + "/a_regions_genes.csv", Name: "a"}, entries[0])
	assert.Equal(t, Entry{Path: slash + "/b_regions_genes_with_cell_types.csv", Name: "b"}, entries[1])
}

func TestBuildMissingDir(t *testing.T) {
	_, err := Build(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestBuildNotADirectory(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "file.csv")

	_, err := Build(filepath.Join(dir, "file.csv"))
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestEncode(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))

	data, err = Encode([]Entry{{Path: "data/csvs/x.csv", Name: "x"}})
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"path\": \"data/csvs/x.csv\",\n    \"name\": \"x\"\n  }\n]\n", string(data))
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "fem4_WT_F11_regions_genes_with_cell_types.csv")

	logger := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), logger.Logger)

	entries, err := Write(ctx, dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	require.NoError(t, err)

	var decoded []Entry
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, entries, decoded)
	logger.AssertContains(t, "Wrote manifest")

	// Rebuilding does not pick up the manifest itself.
	again, err := Write(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, entries, again)
}

func TestWriteEmptyDir(t *testing.T) {
	dir := t.TempDir()
	logger := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), logger.Logger)

	entries, err := Write(ctx, dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	data, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
	logger.AssertContains(t, "No CSV files found")
}

func TestWriteMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	logger := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), logger.Logger)

	_, err := Write(ctx, dir)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	logger.AssertContains(t, "CSV directory not found")

	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}
