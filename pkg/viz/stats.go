package viz

// RegionStats summarizes one anatomical region.
type RegionStats struct {
	CellCount   int     `json:"cell_count" yaml:"cell_count"`
	UniqueGenes int     `json:"unique_genes" yaml:"unique_genes"`
	TotalPoints int     `json:"total_points" yaml:"total_points"`
	Area        float64 `json:"area" yaml:"area"`
	Proportion  float64 `json:"proportion" yaml:"proportion"`
}

// ComputeStats aggregates points per region. Area and proportion are taken
// from the first point seen for the region.
func ComputeStats(points []Point) map[string]RegionStats {
	type acc struct {
		stats RegionStats
		cells map[string]struct{}
		genes map[string]struct{}
	}

	byRegion := make(map[string]*acc)
	for _, p := range points {
		a, ok := byRegion[p.Region]
		if !ok {
			a = &acc{
				stats: RegionStats{Area: p.Area, Proportion: p.Proportion},
				cells: map[string]struct{}{},
				genes: map[string]struct{}{},
			}
			byRegion[p.Region] = a
		}
		a.stats.TotalPoints++
		a.cells[p.CellID] = struct{}{}
		a.genes[p.Gene] = struct{}{}
	}

	out := make(map[string]RegionStats, len(byRegion))
	for region, a := range byRegion {
		a.stats.CellCount = len(a.cells)
		a.stats.UniqueGenes = len(a.genes)
		out[region] = a.stats
	}
	return out
}
