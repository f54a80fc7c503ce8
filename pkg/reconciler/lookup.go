package reconciler

import (
	"github.com/agentstation/exseq/pkg/constants"
	"github.com/agentstation/exseq/pkg/table"
)

// Unassigned is the label given to observations with no matching assignment.
const Unassigned = "unassigned"

// Assignment is one row of a cell-type table.
type Assignment struct {
	CellIndex string
	CellType  string
}

// Lookup maps normalized cell identifiers to normalized cell-type labels.
// It is immutable once built.
type Lookup struct {
	types      map[string]string
	duplicates int
}

// BuildLookup indexes assignments in input order. When two assignments share
// a normalized key the later one wins; the number of overwritten keys is kept
// in Duplicates so callers can report it.
func BuildLookup(assignments []Assignment) *Lookup {
	l := &Lookup{types: make(map[string]string, len(assignments))}
	for _, a := range assignments {
		key := Normalize(a.CellIndex)
		if _, seen := l.types[key]; seen {
			l.duplicates++
		}
		l.types[key] = Normalize(a.CellType)
	}
	return l
}

// Get returns the cell type for an already normalized key.
func (l *Lookup) Get(key string) (string, bool) {
	if l == nil {
		return "", false
	}
	v, ok := l.types[key]
	return v, ok
}

// Resolve normalizes raw and returns its cell type, or Unassigned.
func (l *Lookup) Resolve(raw string) string {
	if v, ok := l.Get(Normalize(raw)); ok {
		return v
	}
	return Unassigned
}

// Len returns the number of distinct keys.
func (l *Lookup) Len() int {
	if l == nil {
		return 0
	}
	return len(l.types)
}

// Duplicates returns how many assignments overwrote an earlier key.
func (l *Lookup) Duplicates() int {
	if l == nil {
		return 0
	}
	return l.duplicates
}

// AssignmentsFromTable extracts assignments from a cell-type table after
// checking it carries the cell_index and cell_type columns.
func AssignmentsFromTable(t *table.Table) ([]Assignment, error) {
	if err := t.Require(constants.ColumnCellIndex, constants.ColumnCellType); err != nil {
		return nil, err
	}
	idx, typ := t.Index(constants.ColumnCellIndex), t.Index(constants.ColumnCellType)

	assignments := make([]Assignment, t.Len())
	for i := range t.Rows {
		assignments[i] = Assignment{
			CellIndex: t.Value(i, idx),
			CellType:  t.Value(i, typ),
		}
	}
	return assignments, nil
}
