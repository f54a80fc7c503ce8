// Package table provides common table formatting utilities for CLI commands.
package table

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/agentstation/exseq/internal/cmd/emoji"
	"github.com/agentstation/exseq/pkg/manifest"
	"github.com/agentstation/exseq/pkg/reconciler"
	"github.com/agentstation/exseq/pkg/viz"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

var printer = message.NewPrinter(language.English)

// FormatCount renders n with thousands separators ("12,345").
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// FormatPercent renders a 0..1 ratio as a percentage with one decimal.
func FormatPercent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

// FormatDuration rounds d for display.
func FormatDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "-"
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	default:
		return d.Round(10 * time.Millisecond).String()
	}
}

// ReportToTableData converts a reconcile report to table format.
// The wide variant adds the input paths and timing.
func ReportToTableData(report *reconciler.Report, wide bool) Data {
	headers := []string{"", "Sample", "Rows", "Assigned", "Unassigned", "Match", "Output"}
	align := []Align{AlignCenter, AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight, AlignLeft}
	if wide {
		headers = append(headers, "Duplicates", "Duration", "Error")
		align = append(align, AlignRight, AlignRight, AlignLeft)
	}

	rows := make([][]string, 0, len(report.Outcomes))
	for _, o := range report.Outcomes {
		row := []string{emoji.Error, o.Pair.Name(), "-", "-", "-", "-", filepath.Base(o.Pair.Output)}
		duplicates, duration, message := "-", "-", ""
		if res := o.Result; res != nil {
			row[0] = emoji.Success
			row[2] = FormatCount(res.Stats.Rows)
			row[3] = FormatCount(res.Stats.Matched)
			row[4] = FormatCount(res.Stats.Unmatched)
			row[5] = FormatPercent(res.Stats.MatchRate())
			if !res.Written {
				row[0] = emoji.Optional
				row[6] = "(dry run)"
			}
			duplicates = FormatCount(res.Duplicates)
			duration = FormatDuration(res.Duration)
		}
		if o.Err != nil {
			message = o.Err.Error()
		}
		if wide {
			row = append(row, duplicates, duration, message)
		}
		rows = append(rows, row)
	}

	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// PairsToTableData lists the resolved input and output paths per sample.
func PairsToTableData(pairs []reconciler.Pair) Data {
	rows := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, []string{p.Name(), p.Primary, p.Secondary, p.Output})
	}
	return Data{
		Headers: []string{"Sample", "Regions Genes", "Cell Types", "Output"},
		Rows:    rows,
	}
}

// ManifestToTableData converts manifest entries to table format.
func ManifestToTableData(entries []manifest.Entry) Data {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Name, e.Path})
	}
	return Data{
		Headers: []string{"Name", "Path"},
		Rows:    rows,
	}
}

// SummaryToTableData renders a generated site summary as key/value rows.
func SummaryToTableData(s *viz.Summary) Data {
	rows := [][]string{
		{"Input", s.Input},
		{"Output", s.OutDir},
		{"Points", FormatCount(s.TotalPoints)},
		{"Overview Points", FormatCount(s.OverviewPoints)},
		{"Genes", FormatCount(s.Genes)},
		{"Regions", strings.Join(s.Regions, ", ")},
		{"FOVs", FormatCount(s.FOVs)},
		{"Cell Types", FormatCount(s.CellTypes)},
		{"Files", strings.Join(s.Files, "\n")},
		{"Duration", FormatDuration(s.Duration)},
	}
	return Data{
		Headers:         []string{"Property", "Value"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft},
	}
}
