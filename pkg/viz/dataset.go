// Package viz turns a regions/genes table into the static visualization
// site: downsampled JSON extracts, per-region statistics and Plotly pages.
package viz

import (
	"math"
	"math/rand/v2"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/agentstation/exseq/pkg/constants"
	"github.com/agentstation/exseq/pkg/errors"
	"github.com/agentstation/exseq/pkg/reconciler"
	"github.com/agentstation/exseq/pkg/table"
)

// Column names read by LoadDataset.
const (
	ColumnGene             = "gene"
	ColumnRegion           = "region"
	ColumnFOV              = "fov"
	ColumnX                = "x_coordinate"
	ColumnY                = "y_coordinate"
	ColumnZ                = "z_coordinate"
	ColumnRegionArea       = "region_area"
	ColumnRegionProportion = "region_proportion"
)

// Point is a single transcript detection.
type Point struct {
	CellID     string  `json:"cell_id"`
	Gene       string  `json:"gene"`
	Region     string  `json:"region"`
	FOV        string  `json:"fov"`
	X          float64 `json:"x_coordinate"`
	Y          float64 `json:"y_coordinate"`
	Z          float64 `json:"z_coordinate"`
	Area       float64 `json:"region_area,omitempty"`
	Proportion float64 `json:"region_proportion,omitempty"`
	CellType   string  `json:"cell_type,omitempty"`
}

// Dataset is a loaded table plus the distinct values used for filters and
// trace grouping. All value lists are sorted.
type Dataset struct {
	Name      string
	Points    []Point
	Genes     []string
	Regions   []string
	FOVs      []string
	CellTypes []string
}

// LoadDataset extracts points from t. The identifier is cell_id when
// present, else cell; cell_type is taken from the last cell_type column.
func LoadDataset(t *table.Table) (*Dataset, error) {
	if err := t.Require(ColumnGene, ColumnRegion, ColumnFOV, ColumnX, ColumnY, ColumnZ); err != nil {
		return nil, err
	}

	idCol := t.Index(constants.ColumnCellID)
	if idCol < 0 {
		idCol = t.Index(constants.ColumnCell)
	}
	if idCol < 0 {
		return nil, errors.NewSchemaError(t.Name, constants.ColumnCellID, t.Header)
	}

	var (
		gene   = t.Index(ColumnGene)
		region = t.Index(ColumnRegion)
		fov    = t.Index(ColumnFOV)
		xs     = t.Index(ColumnX)
		ys     = t.Index(ColumnY)
		zs     = t.Index(ColumnZ)
		area   = t.Index(ColumnRegionArea)
		prop   = t.Index(ColumnRegionProportion)
		ct     = lastIndex(t.Header, constants.ColumnCellType)
	)

	ds := &Dataset{Name: t.Name, Points: make([]Point, 0, t.Len())}
	genes := map[string]bool{}
	regions := map[string]bool{}
	fovs := map[string]bool{}
	cellTypes := map[string]bool{}

	for i := range t.Rows {
		line := i + 2 // header is line 1
		p := Point{
			CellID: reconciler.Normalize(t.Value(i, idCol)),
			Gene:   t.Value(i, gene),
			Region: t.Value(i, region),
			FOV:    t.Value(i, fov),
		}

		var err error
		if p.X, err = parseFloat(t, line, ColumnX, t.Value(i, xs), false); err != nil {
			return nil, err
		}
		if p.Y, err = parseFloat(t, line, ColumnY, t.Value(i, ys), false); err != nil {
			return nil, err
		}
		if p.Z, err = parseFloat(t, line, ColumnZ, t.Value(i, zs), false); err != nil {
			return nil, err
		}
		if p.Area, err = parseFloat(t, line, ColumnRegionArea, t.Value(i, area), true); err != nil {
			return nil, err
		}
		if p.Proportion, err = parseFloat(t, line, ColumnRegionProportion, t.Value(i, prop), true); err != nil {
			return nil, err
		}
		if ct >= 0 {
			p.CellType = t.Value(i, ct)
			cellTypes[p.CellType] = true
		}

		genes[p.Gene] = true
		regions[p.Region] = true
		fovs[p.FOV] = true
		ds.Points = append(ds.Points, p)
	}

	ds.Genes = sortedKeys(genes)
	ds.Regions = sortedKeys(regions)
	ds.FOVs = sortedNatural(fovs)
	ds.CellTypes = sortedKeys(cellTypes)
	return ds, nil
}

// Downsample keeps every n-th point starting with the first. n <= 1 keeps
// everything.
func Downsample(points []Point, every int) []Point {
	if every <= 1 {
		return slices.Clone(points)
	}
	out := make([]Point, 0, (len(points)+every-1)/every)
	for i := 0; i < len(points); i += every {
		out = append(out, points[i])
	}
	return out
}

// Sample picks n points without replacement using rng, keeping their
// original order. The same seed always yields the same subset.
func Sample(points []Point, n int, rng *rand.Rand) []Point {
	if n >= len(points) {
		return slices.Clone(points)
	}
	if n <= 0 {
		return []Point{}
	}

	idx := rng.Perm(len(points))[:n]
	sort.Ints(idx)

	out := make([]Point, n)
	for i, j := range idx {
		out[i] = points[j]
	}
	return out
}

// NewRand returns the generator used for sampling.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// GroupBy splits points by key, preserving order within each group.
func GroupBy(points []Point, key func(Point) string) map[string][]Point {
	groups := make(map[string][]Point)
	for _, p := range points {
		k := key(p)
		groups[k] = append(groups[k], p)
	}
	return groups
}

func parseFloat(t *table.Table, line int, column, raw string, optional bool) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" && optional {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &errors.ParseError{
			Format:  "csv",
			File:    t.Name,
			Line:    line,
			Message: column + ": " + strconv.Quote(raw) + " is not a number",
			Err:     err,
		}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &errors.ParseError{
			Format:  "csv",
			File:    t.Name,
			Line:    line,
			Message: column + ": " + strconv.Quote(raw) + " is not a finite number",
		}
	}
	return v, nil
}

func lastIndex(header []string, name string) int {
	for i := len(header) - 1; i >= 0; i-- {
		if header[i] == name {
			return i
		}
	}
	return -1
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sortedNatural orders numerically when every key is an integer.
func sortedNatural(m map[string]bool) []string {
	keys := sortedKeys(m)
	nums := make(map[string]int, len(keys))
	for _, k := range keys {
		n, err := strconv.Atoi(k)
		if err != nil {
			return keys
		}
		nums[k] = n
	}
	sort.SliceStable(keys, func(i, j int) bool { return nums[keys[i]] < nums[keys[j]] })
	return keys
}
