package reconciler_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/exseq/pkg/errors"
	"github.com/agentstation/exseq/pkg/logging"
	"github.com/agentstation/exseq/pkg/reconciler"
	"github.com/agentstation/exseq/pkg/table"
)

const (
	primaryCSV = `cell,gene,region,fov,x_coordinate,y_coordinate,z_coordinate,region_area,region_proportion
"""C1 """,Gad1,CA1,3,10.5,20.25,1.0,1200.5,0.12
C2,Snap25,DG,4,11.000,21.5,2.0,800,0.08
C99,Gad1,CA1,3,12,22,3,1200.5,0.12
`
	cellTypeCSV = `cell_index,cell_type
C1,Neuron
 C2 ,"""Astrocyte"""
C1,Interneuron
`
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newPair(t *testing.T, dir, sample string) reconciler.Pair {
	t.Helper()
	return reconciler.Pair{
		Sample:    sample,
		Primary:   writeFile(t, filepath.Join(dir, sample, sample+"_regions_genes.csv"), primaryCSV),
		Secondary: writeFile(t, filepath.Join(dir, "cell_type_"+sample+".csv"), cellTypeCSV),
		Output:    filepath.Join(dir, "out", sample+"_regions_genes_with_cell_types.csv"),
	}
}

func newReconciler(t *testing.T, opts ...reconciler.Option) (reconciler.Reconciler, *logging.TestLogger) {
	t.Helper()
	tl := logging.NewTestLogger(t)
	r, err := reconciler.New(append([]reconciler.Option{reconciler.WithLogger(tl.Logger)}, opts...)...)
	require.NoError(t, err)
	return r, tl
}

func TestReconcile(t *testing.T) {
	dir := t.TempDir()
	pair := newPair(t, dir, "fem4_WT_F11")
	r, tl := newReconciler(t)

	res, err := r.Reconcile(context.Background(), pair)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Observations)
	assert.Equal(t, 3, res.Assignments)
	assert.Equal(t, 2, res.LookupSize)
	assert.Equal(t, 1, res.Duplicates)
	assert.Equal(t, reconciler.Stats{Rows: 3, Matched: 2, Unmatched: 1}, res.Stats)
	assert.True(t, res.Written)

	data, err := os.ReadFile(pair.Output)
	require.NoError(t, err)
	want := `cell,gene,region,fov,x_coordinate,y_coordinate,z_coordinate,region_area,region_proportion,cell_type
"""C1 """,Gad1,CA1,3,10.5,20.25,1.0,1200.5,0.12,Interneuron
C2,Snap25,DG,4,11.000,21.5,2.0,800,0.08,Astrocyte
C99,Gad1,CA1,3,12,22,3,1200.5,0.12,unassigned
`
	assert.Equal(t, want, string(data))

	// inputs untouched
	orig, err := os.ReadFile(pair.Primary)
	require.NoError(t, err)
	assert.Equal(t, primaryCSV, string(orig))

	tl.AssertContains(t, `"sample":"fem4_WT_F11"`)
	tl.AssertContains(t, `"assigned":2`)
	tl.AssertContains(t, `"unassigned":1`)
	tl.AssertContains(t, "last assignment wins")
}

func TestReconcileDryRun(t *testing.T) {
	dir := t.TempDir()
	pair := newPair(t, dir, "fem3_WTE1_B_R")
	r, _ := newReconciler(t, reconciler.WithDryRun(true))

	res, err := r.Reconcile(context.Background(), pair)
	require.NoError(t, err)
	assert.False(t, res.Written)
	assert.Equal(t, 3, res.Stats.Rows)

	_, err = os.Stat(pair.Output)
	assert.True(t, os.IsNotExist(err))
}

func TestReconcileErrors(t *testing.T) {
	r, _ := newReconciler(t)
	ctx := context.Background()

	t.Run("missing primary", func(t *testing.T) {
		dir := t.TempDir()
		pair := newPair(t, dir, "s")
		pair.Primary = filepath.Join(dir, "absent.csv")

		_, err := r.Reconcile(ctx, pair)
		var nf *errors.NotFoundError
		require.True(t, errors.As(err, &nf))
		assert.Equal(t, reconciler.ResourcePrimary, nf.Resource)
		assertNoOutput(t, pair.Output)
	})

	t.Run("missing secondary", func(t *testing.T) {
		dir := t.TempDir()
		pair := newPair(t, dir, "s")
		pair.Secondary = filepath.Join(dir, "absent.csv")

		_, err := r.Reconcile(ctx, pair)
		var nf *errors.NotFoundError
		require.True(t, errors.As(err, &nf))
		assert.Equal(t, reconciler.ResourceSecondary, nf.Resource)
		assertNoOutput(t, pair.Output)
	})

	t.Run("primary without cell column", func(t *testing.T) {
		dir := t.TempDir()
		pair := newPair(t, dir, "s")
		writeFile(t, pair.Primary, "cell_id,gene\nC1,Gad1\n")

		_, err := r.Reconcile(ctx, pair)
		var se *errors.SchemaError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, "cell", se.Column)
		assert.Equal(t, pair.Primary, se.Table)
		assertNoOutput(t, pair.Output)
	})

	t.Run("cell type table without cell_type column", func(t *testing.T) {
		dir := t.TempDir()
		pair := newPair(t, dir, "s")
		writeFile(t, pair.Secondary, "cell_index,label\nC1,Neuron\n")

		_, err := r.Reconcile(ctx, pair)
		var se *errors.SchemaError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, "cell_type", se.Column)
		assert.Equal(t, pair.Secondary, se.Table)
	})

	t.Run("output overwrites input", func(t *testing.T) {
		dir := t.TempDir()
		pair := newPair(t, dir, "s")
		pair.Output = pair.Primary

		_, err := r.Reconcile(ctx, pair)
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("canceled", func(t *testing.T) {
		dir := t.TempDir()
		pair := newPair(t, dir, "s")
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := r.Reconcile(cctx, pair)
		assert.True(t, errors.IsCanceled(err))
		assertNoOutput(t, pair.Output)
	})
}

func TestReconcileEmptyTables(t *testing.T) {
	dir := t.TempDir()
	pair := newPair(t, dir, "s")
	writeFile(t, pair.Primary, "cell,gene\n")
	writeFile(t, pair.Secondary, "cell_index,cell_type\n")
	r, _ := newReconciler(t)

	res, err := r.Reconcile(context.Background(), pair)
	require.NoError(t, err)
	assert.Equal(t, reconciler.Stats{}, res.Stats)

	data, err := os.ReadFile(pair.Output)
	require.NoError(t, err)
	assert.Equal(t, "cell,gene,cell_type\n", string(data))
}

func TestReconcileNormalizesFileInput(t *testing.T) {
	tests := []struct {
		name      string
		primary   string
		secondary string
		want      []string
		stats     reconciler.Stats
	}{
		{
			name:      "padded quoted key and label",
			primary:   "cell,gene\n \"C1\",Gad1\n",
			secondary: "cell_index,cell_type\nC1, \"Neuron\"\n",
			want:      []string{"Neuron"},
			stats:     reconciler.Stats{Rows: 1, Matched: 1},
		},
		{
			name:      "quoted label keeps inner whitespace",
			primary:   "cell,gene\nC2 ,Gfap\n",
			secondary: "cell_index,cell_type\n\"\"\"C2 \"\"\",\"\"\" Astro cyte \"\"\"\n",
			want:      []string{"Astro cyte"},
			stats:     reconciler.Stats{Rows: 1, Matched: 1},
		},
		{
			name:      "empty normalized key matches",
			primary:   "cell,gene\n\"\"\"\"\"\",Gad1\nC5,Mbp\n",
			secondary: "cell_index,cell_type\n\"\",Blank\n",
			want:      []string{"Blank", reconciler.Unassigned},
			stats:     reconciler.Stats{Rows: 2, Matched: 1, Unmatched: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			pair := newPair(t, dir, "s")
			writeFile(t, pair.Primary, tt.primary)
			writeFile(t, pair.Secondary, tt.secondary)
			r, _ := newReconciler(t)

			res, err := r.Reconcile(context.Background(), pair)
			require.NoError(t, err)
			assert.Equal(t, tt.stats, res.Stats)

			out, err := table.Read("output", pair.Output)
			require.NoError(t, err)
			types, err := out.Column("cell_type")
			require.NoError(t, err)
			assert.Equal(t, tt.want, types)

			in, err := table.Read("primary", pair.Primary)
			require.NoError(t, err)
			cells, err := out.Column("cell")
			require.NoError(t, err)
			want, err := in.Column("cell")
			require.NoError(t, err)
			assert.Equal(t, want, cells, "identifiers are written back as read")
		})
	}
}

func TestReconcileWarnsOnExistingCellType(t *testing.T) {
	dir := t.TempDir()
	pair := newPair(t, dir, "s")
	writeFile(t, pair.Primary, "cell,cell_type,gene\nC1,old,Gad1\n")
	writeFile(t, pair.Secondary, "cell_index,cell_type\nC1,Neuron\n")
	r, tl := newReconciler(t)

	res, err := r.Reconcile(context.Background(), pair)
	require.NoError(t, err)
	assert.Equal(t, reconciler.Stats{Rows: 1, Matched: 1}, res.Stats)
	tl.AssertContains(t, "already has a cell_type column")

	data, err := os.ReadFile(pair.Output)
	require.NoError(t, err)
	assert.Equal(t, "cell,cell_type,gene,cell_type\nC1,old,Gad1,Neuron\n", string(data))
}

func TestRunContinuesPastFailures(t *testing.T) {
	dir := t.TempDir()
	good1 := newPair(t, dir, "fem3_5x_E7_A_left")
	bad := newPair(t, dir, "fem2_5x_F5_B_left")
	bad.Secondary = filepath.Join(dir, "cell_type_missing.csv")
	good2 := newPair(t, dir, "fem4_WT_F11")

	r, tl := newReconciler(t)
	report := r.Run(context.Background(), []reconciler.Pair{good1, bad, good2})

	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 3, report.Total())
	assert.False(t, report.IsSuccess())
	require.Len(t, report.Outcomes, 3)
	assert.True(t, report.Outcomes[0].OK())
	assert.False(t, report.Outcomes[1].OK())
	assert.True(t, errors.IsNotFound(report.Outcomes[1].Err))
	assert.NotEmpty(t, report.Outcomes[1].Error)
	assert.True(t, report.Outcomes[2].OK())

	errs := report.Errors()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "fem2_5x_F5_B_left")

	assert.Equal(t, "Processing complete: 2/3 samples processed successfully", report.Summary())
	tl.AssertContains(t, "Failed to add cell types")
	tl.AssertContains(t, `"sample":"fem2_5x_F5_B_left"`)

	for _, p := range []reconciler.Pair{good1, good2} {
		_, err := os.Stat(p.Output)
		assert.NoError(t, err)
	}
}

func TestRunCanceled(t *testing.T) {
	dir := t.TempDir()
	pairs := []reconciler.Pair{newPair(t, dir, "a"), newPair(t, dir, "b")}
	r, _ := newReconciler(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := r.Run(ctx, pairs)
	assert.Equal(t, 2, report.Skipped)
	assert.Empty(t, report.Outcomes)
	assert.Equal(t, 2, report.Total())
	assert.False(t, report.IsSuccess())
	assert.Contains(t, report.Summary(), "2 skipped")
}

func TestNewRejectsNilLogger(t *testing.T) {
	_, err := reconciler.New(reconciler.WithLogger(nil))
	assert.True(t, errors.IsValidationError(err))
}

func TestPair(t *testing.T) {
	p := reconciler.Pair{Primary: "/data/a/a_regions_genes.csv", Secondary: "/data/ct.csv", Output: "/out/a.csv"}
	assert.NoError(t, p.Validate())
	assert.Equal(t, "a_regions_genes.csv", p.Name())

	p.Sample = "a"
	assert.Equal(t, "a", p.Name())

	p.Output = "/data/./ct.csv"
	assert.True(t, errors.IsValidationError(p.Validate()))

	assert.Error(t, reconciler.Pair{Secondary: "x", Output: "y"}.Validate())
	assert.Error(t, reconciler.Pair{Primary: "x", Output: "y"}.Validate())
	assert.Error(t, reconciler.Pair{Primary: "x", Secondary: "y"}.Validate())
}

func assertNoOutput(t *testing.T, path string) {
	t.Helper()
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "no output may be written on failure")
	entries, _ := os.ReadDir(filepath.Dir(path))
	assert.Empty(t, entries, "no temp files may be left on failure")
}
