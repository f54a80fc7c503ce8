package reconciler

import (
	"github.com/agentstation/exseq/pkg/constants"
	"github.com/agentstation/exseq/pkg/table"
)

// Augment returns a copy of observations with a cell_type column appended.
// Every row is kept, in order; identifiers without an assignment resolve to
// Unassigned. observations must carry a cell column.
func Augment(observations *table.Table, lookup *Lookup) (*table.Table, error) {
	cells, err := observations.Column(constants.ColumnCell)
	if err != nil {
		return nil, err
	}

	types := make([]string, len(cells))
	for i, raw := range cells {
		types[i] = lookup.Resolve(raw)
	}
	return observations.WithColumn(constants.ColumnCellType, types)
}

// Stats counts how many output rows received a label.
type Stats struct {
	Rows      int `json:"rows" yaml:"rows"`
	Matched   int `json:"matched" yaml:"matched"`
	Unmatched int `json:"unmatched" yaml:"unmatched"`
}

// MatchRate returns the matched fraction, or 0 for an empty table.
func (s Stats) MatchRate() float64 {
	if s.Rows == 0 {
		return 0
	}
	return float64(s.Matched) / float64(s.Rows)
}

// Summarize counts matched and unmatched rows of an augmented table. The
// last cell_type column is used, which is the one Augment appends.
func Summarize(augmented *table.Table) (Stats, error) {
	idx := -1
	for i, col := range augmented.Header {
		if col == constants.ColumnCellType {
			idx = i
		}
	}
	if idx < 0 {
		// reuse the table's schema error formatting
		return Stats{}, augmented.Require(constants.ColumnCellType)
	}

	stats := Stats{Rows: augmented.Len()}
	for i := range augmented.Rows {
		if augmented.Value(i, idx) == Unassigned {
			stats.Unmatched++
		} else {
			stats.Matched++
		}
	}
	return stats, nil
}
