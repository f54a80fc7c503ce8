package viz

import (
	"io"
	"math"
	"sort"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/agentstation/exseq/pkg/errors"
)

// Preview image size in pixels.
const (
	PreviewWidth  = 1200
	PreviewHeight = 900
)

// pointStyle renders points only, no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    2,
		DotColor:    col,
	}
}

// RenderPreview draws an SVG scatter of the x/y coordinates with one series
// per cell type. Points without a cell type are grouped by region instead.
func RenderPreview(w io.Writer, title string, points []Point) error {
	if len(points) == 0 {
		return errors.NewValidationError("points", 0, "nothing to plot")
	}

	groups := GroupBy(points, func(p Point) string {
		if p.CellType != "" {
			return p.CellType
		}
		return p.Region
	})
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	series := make([]chart.Series, 0, len(names))
	for i, name := range names {
		ps := groups[name]
		xs := make([]float64, 0, len(ps)+1)
		ys := make([]float64, 0, len(ps)+1)
		for _, p := range ps {
			xs = append(xs, p.X)
			ys = append(ys, p.Y)
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
		// go-chart needs at least two values per series.
		if len(xs) == 1 {
			xs = append(xs, xs[0])
			ys = append(ys, ys[0])
		}
		col := drawing.ColorFromHex(strings.TrimPrefix(pick(geneColors, i), "#"))
		series = append(series, chart.ContinuousSeries{
			Name:    name,
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(col),
		})
	}

	ch := chart.Chart{
		Title:      title,
		Width:      PreviewWidth,
		Height:     PreviewHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "X Coordinate", Range: paddedRange(minX, maxX)},
		YAxis:      chart.YAxis{Name: "Y Coordinate", Range: paddedRange(minY, maxY)},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.LegendLeft(&ch)}

	return ch.Render(chart.SVG, w)
}

// paddedRange widens a degenerate range so the axis never has zero span.
func paddedRange(lo, hi float64) *chart.ContinuousRange {
	if hi-lo < 1e-9 {
		lo, hi = lo-1, hi+1
	}
	pad := (hi - lo) * 0.02
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}
