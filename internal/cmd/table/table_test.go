package table

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/agentstation/exseq/internal/cmd/emoji"
	"github.com/agentstation/exseq/pkg/manifest"
	"github.com/agentstation/exseq/pkg/reconciler"
	"github.com/agentstation/exseq/pkg/viz"
)

func testReport() *reconciler.Report {
	ok := reconciler.Pair{Sample: "fem3_5x_E7_A_left", Primary: "in/a.csv", Secondary: "ct/a.csv", Output: "out/a_with.csv"}
	dry := reconciler.Pair{Sample: "dry", Primary: "in/d.csv", Secondary: "ct/d.csv", Output: "out/d_with.csv"}
	bad := reconciler.Pair{Sample: "broken", Primary: "in/b.csv", Secondary: "ct/b.csv", Output: "out/b_with.csv"}
	return &reconciler.Report{
		Outcomes: []reconciler.Outcome{
			{Pair: ok, Result: &reconciler.Result{
				Pair:       ok,
				Stats:      reconciler.Stats{Rows: 12345, Matched: 12000, Unmatched: 345},
				Duplicates: 2,
				Written:    true,
				Duration:   1500 * time.Millisecond,
			}},
			{Pair: dry, Result: &reconciler.Result{Pair: dry, Stats: reconciler.Stats{Rows: 4, Matched: 1, Unmatched: 3}}},
			{Pair: bad, Err: errors.New("cell type file not found: ct/b.csv"), Error: "cell type file not found: ct/b.csv"},
		},
		Succeeded: 2,
		Failed:    1,
	}
}

func TestReportToTableData(t *testing.T) {
	data := ReportToTableData(testReport(), false)

	want := [][]string{
		{emoji.Success, "fem3_5x_E7_A_left", "12,345", "12,000", "345", "97.2%", "a_with.csv"},
		{emoji.Optional, "dry", "4", "1", "3", "25.0%", "(dry run)"},
		{emoji.Error, "broken", "-", "-", "-", "-", "b_with.csv"},
	}
	if diff := cmp.Diff(want, data.Rows); diff != "" {
		t.Errorf("ReportToTableData() rows mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, data.Headers, 7)
	assert.Len(t, data.ColumnAlignment, len(data.Headers))
}

func TestReportToTableData_Wide(t *testing.T) {
	data := ReportToTableData(testReport(), true)

	assert.Equal(t, []string{"Duplicates", "Duration", "Error"}, data.Headers[7:])
	assert.Len(t, data.ColumnAlignment, len(data.Headers))
	assert.Equal(t, []string{"2", "1.5s", ""}, data.Rows[0][7:])
	assert.Equal(t, []string{"-", "-", "cell type file not found: ct/b.csv"}, data.Rows[2][7:])
	for _, row := range data.Rows {
		assert.Len(t, row, len(data.Headers))
	}
}

func TestPairsAndManifestToTableData(t *testing.T) {
	pairs := []reconciler.Pair{{Primary: "in/s1_regions_genes.csv", Secondary: "ct.csv", Output: "out.csv"}}
	data := PairsToTableData(pairs)
	assert.Equal(t, [][]string{{"s1_regions_genes.csv", "in/s1_regions_genes.csv", "ct.csv", "out.csv"}}, data.Rows)

	entries := []manifest.Entry{{Path: "data/csvs/a.csv", Name: "a"}}
	data = ManifestToTableData(entries)
	assert.Equal(t, []string{"Name", "Path"}, data.Headers)
	assert.Equal(t, [][]string{{"a", "data/csvs/a.csv"}}, data.Rows)
}

func TestSummaryToTableData(t *testing.T) {
	data := SummaryToTableData(&viz.Summary{
		Input:       "in.csv",
		OutDir:      "site",
		TotalPoints: 1000000,
		Regions:     []string{"CA1", "DG"},
		Files:       []string{"index.html", "view_3d.html"},
	})

	values := map[string]string{}
	for _, row := range data.Rows {
		values[row[0]] = row[1]
	}
	assert.Equal(t, "1,000,000", values["Points"])
	assert.Equal(t, "CA1, DG", values["Regions"])
	assert.Equal(t, "index.html\nview_3d.html", values["Files"])
	assert.Equal(t, "-", values["Duration"])
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "-"},
		{1234567 * time.Nanosecond, "1ms"},
		{2*time.Second + 345*time.Millisecond, "2.35s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.in), tt.in.String())
	}
}
