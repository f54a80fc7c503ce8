package samples

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/exseq/internal/appcontext"
	"github.com/agentstation/exseq/pkg/errors"
	"github.com/agentstation/exseq/pkg/reconciler"
	pkgsamples "github.com/agentstation/exseq/pkg/samples"
)

func run(t *testing.T, out *bytes.Buffer, format string, args ...string) error {
	t.Helper()
	mock := &appcontext.Mock{
		OutputFormatFunc: func() string { return format },
		Out:              out,
	}
	cmd := NewCommand(mock)
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	return cmd.ExecuteContext(context.Background())
}

func TestInitThenValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "samples.yaml")

	var out bytes.Buffer
	require.NoError(t, run(t, &out, "table", "init", path))
	assert.Contains(t, out.String(), "Wrote "+path)
	assert.Contains(t, out.String(), "8 samples")

	cfg, err := pkgsamples.Load(path)
	require.NoError(t, err)
	assert.Equal(t, pkgsamples.Default().Samples, cfg.Samples)

	err = run(t, &bytes.Buffer{}, "table", "init", path)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	require.NoError(t, run(t, &bytes.Buffer{}, "table", "init", "--force", path))

	out.Reset()
	require.NoError(t, run(t, &out, "json", "validate", path))
	var alert map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &alert))
	assert.Equal(t, "success", alert["level"])
}

func TestValidate_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("samples:\n  - name: has space\n    cell_type: x\n"), 0o644))

	var out bytes.Buffer
	err := run(t, &out, "table", "validate", path)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.Contains(t, out.String(), "/samples/0/name")

	err = run(t, &bytes.Buffer{}, "table", "validate", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestList(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(t, &out, "json", "list", "--sample", "fem3_5x_E7_A_left", "--output-dir", "out"))

	var pairs []reconciler.Pair
	require.NoError(t, json.Unmarshal(out.Bytes(), &pairs))
	require.Len(t, pairs, 1)
	assert.Equal(t, "fem3_5x_E7_A_left", pairs[0].Sample)
	assert.Equal(t, filepath.Join("out", "fem3_5x_E7_A_left_regions_genes_with_cell_types.csv"), pairs[0].Output)
}
