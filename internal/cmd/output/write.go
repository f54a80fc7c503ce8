package output

import (
	"io"

	"github.com/agentstation/exseq/internal/cmd/table"
	"github.com/agentstation/exseq/pkg/manifest"
	"github.com/agentstation/exseq/pkg/reconciler"
	"github.com/agentstation/exseq/pkg/viz"
)

// Write renders tabular for table-like formats and raw for json and yaml.
// This encapsulates the switch every command would otherwise repeat.
func Write(w io.Writer, format Format, tabular Data, raw any) error {
	formatter := NewFormatter(format)
	if format.IsTabular() {
		return formatter.Format(w, tabular)
	}
	return formatter.Format(w, raw)
}

// WriteReport formats a reconcile report.
func WriteReport(w io.Writer, format Format, report *reconciler.Report) error {
	return Write(w, format, table.ReportToTableData(report, format == FormatWide), report)
}

// WritePairs formats the resolved sample pairs.
func WritePairs(w io.Writer, format Format, pairs []reconciler.Pair) error {
	return Write(w, format, table.PairsToTableData(pairs), pairs)
}

// WriteManifest formats manifest entries.
func WriteManifest(w io.Writer, format Format, entries []manifest.Entry) error {
	if entries == nil {
		entries = []manifest.Entry{}
	}
	return Write(w, format, table.ManifestToTableData(entries), entries)
}

// WriteSummary formats a visualization summary.
func WriteSummary(w io.Writer, format Format, summary *viz.Summary) error {
	return Write(w, format, table.SummaryToTableData(summary), summary)
}
