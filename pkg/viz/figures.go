package viz

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Page file names; the navigation bar links them.
const (
	Page2D        = "index.html"
	Page3D        = "view_3d.html"
	PageDashboard = "dashboard.html"
)

// ColorBy selects how the 2D view groups points into traces.
type ColorBy string

const (
	ColorByGene     ColorBy = "gene"
	ColorByCellType ColorBy = "cell_type"
)

// ParseColorBy validates a colour-by name.
func ParseColorBy(s string) (ColorBy, error) {
	switch c := ColorBy(strings.ToLower(strings.TrimSpace(s))); c {
	case "", ColorByGene:
		return ColorByGene, nil
	case ColorByCellType:
		return c, nil
	default:
		return "", fmt.Errorf("invalid color-by %q (want %s or %s)", s, ColorByGene, ColorByCellType)
	}
}

const (
	titlePrefix = "ExSeq Brain AD - Spatial Transcriptomics"
	gridColor   = "#EBF0F8"
	hoverBold   = "<b>%{text}</b><extra></extra>"
)

var numbers = message.NewPrinter(language.English)

func navigation(y float64, size int) Annotation {
	return Annotation{
		Text: fmt.Sprintf(`<b>Navigation:</b> <a href="%s">2D View</a> | <a href="%s">3D View</a> | <a href="%s">Dashboard</a>`,
			Page2D, Page3D, PageDashboard),
		XRef:    "paper",
		YRef:    "paper",
		X:       0.5,
		Y:       y,
		XAnchor: "center",
		Font:    &Font{Size: size},
	}
}

func whiteLayout(title string, height int) Layout {
	return Layout{
		Title:        &Title{Text: title},
		Height:       height,
		ShowLegend:   boolPtr(true),
		PaperBGColor: "white",
		PlotBGColor:  "white",
	}
}

func axis(title string) *Axis {
	return &Axis{Title: &Title{Text: title}, GridColor: gridColor}
}

func hoverText(p Point, withZ bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Gene: %s<br>Region: %s<br>Cell: %s<br>FOV: %s", p.Gene, p.Region, p.CellID, p.FOV)
	if p.CellType != "" {
		fmt.Fprintf(&b, "<br>Cell type: %s", p.CellType)
	}
	if withZ {
		fmt.Fprintf(&b, "<br>Z: %.2f", p.Z)
	}
	return b.String()
}

func shortHover(p Point) string {
	return fmt.Sprintf("Gene: %s<br>Region: %s", p.Gene, p.Region)
}

type columns struct {
	x, y, z []float64
	text    []string
}

func collect(points []Point, text func(Point) string) columns {
	c := columns{
		x:    make([]float64, 0, len(points)),
		y:    make([]float64, 0, len(points)),
		z:    make([]float64, 0, len(points)),
		text: make([]string, 0, len(points)),
	}
	for _, p := range points {
		c.x = append(c.x, p.X)
		c.y = append(c.y, p.Y)
		c.z = append(c.z, p.Z)
		c.text = append(c.text, text(p))
	}
	return c
}

func groupKey(by ColorBy) func(Point) string {
	if by == ColorByCellType {
		return func(p Point) string { return p.CellType }
	}
	return func(p Point) string { return p.Gene }
}

// Figure2D builds the 2D view: one WebGL scatter trace per gene (or cell
// type) with a region filter and show/hide-all dropdowns.
func Figure2D(points []Point, regions []string, by ColorBy) Figure {
	key := groupKey(by)
	groups := GroupBy(points, key)
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	withZ := func(p Point) string { return hoverText(p, true) }

	fig := Figure{Data: make([]Trace, 0, len(names))}
	allX := make([]any, 0, len(names))
	allY := make([]any, 0, len(names))
	allText := make([]any, 0, len(names))
	for i, name := range names {
		c := collect(groups[name], withZ)
		fig.Data = append(fig.Data, Trace{
			Type:          "scattergl",
			Name:          name,
			Mode:          "markers",
			X:             c.x,
			Y:             c.y,
			Text:          c.text,
			HoverTemplate: hoverBold,
			Marker:        &Marker{Size: 5, Color: pick(geneColors, i), Opacity: 0.6, Line: &Line{Width: 0}},
			Visible:       boolPtr(true),
			ShowLegend:    boolPtr(true),
			LegendRank:    i,
		})
		allX = append(allX, c.x)
		allY = append(allY, c.y)
		allText = append(allText, c.text)
	}

	regionButtons := []Button{{
		Label:  "All Regions",
		Method: "restyle",
		Args:   []any{map[string]any{"x": allX, "y": allY, "text": allText}},
	}}
	for _, region := range regions {
		xs := make([]any, 0, len(names))
		ys := make([]any, 0, len(names))
		texts := make([]any, 0, len(names))
		for _, name := range names {
			var inRegion []Point
			for _, p := range groups[name] {
				if p.Region == region {
					inRegion = append(inRegion, p)
				}
			}
			c := collect(inRegion, withZ)
			xs = append(xs, c.x)
			ys = append(ys, c.y)
			texts = append(texts, c.text)
		}
		regionButtons = append(regionButtons, Button{
			Label:  region,
			Method: "restyle",
			Args:   []any{map[string]any{"x": xs, "y": ys, "text": texts}},
		})
	}

	label := "Genes"
	if by == ColorByCellType {
		label = "Cell Types"
	}
	visibility := func(v bool) []bool {
		out := make([]bool, len(fig.Data))
		for i := range out {
			out[i] = v
		}
		return out
	}
	groupButtons := []Button{
		{Label: "Select All " + label, Method: "update", Args: []any{map[string]any{"visible": visibility(true)}}},
		{Label: "Select None", Method: "update", Args: []any{map[string]any{"visible": visibility(false)}}},
	}

	fig.Layout = whiteLayout(titlePrefix+" (2D View)", 800)
	fig.Layout.XAxis = axis("X Coordinate")
	fig.Layout.YAxis = axis("Y Coordinate")
	fig.Layout.HoverMode = "closest"
	fig.Layout.Legend = &Legend{X: 1.01, Y: 0.99, XAnchor: "left", YAnchor: "top", BGColor: "rgba(255,255,255,0.8)"}
	fig.Layout.UpdateMenus = []UpdateMenu{
		{Buttons: regionButtons, Direction: "down", ShowActive: true, X: 0, XAnchor: "left", Y: 1.02, YAnchor: "top"},
		{Buttons: groupButtons, Direction: "down", ShowActive: false, X: 0.15, XAnchor: "left", Y: 1.02, YAnchor: "top"},
	}
	fig.Layout.Annotations = []Annotation{
		navigation(1.08, 12),
		{
			Text:    "<i>Use dropdown menus above to filter by region or " + strings.ToLower(label) + ". Click legend to toggle individual traces.</i>",
			XRef:    "paper",
			YRef:    "paper",
			X:       0.5,
			Y:       0.96,
			XAnchor: "center",
			Font:    &Font{Size: 11, Color: "gray"},
		},
	}
	return fig
}

var defaultCamera = &Camera{Eye: Vec3{X: 1.5, Y: 1.5, Z: 1.2}}

func scene() *Scene {
	return &Scene{
		XAxis:  axis("X Coordinate"),
		YAxis:  axis("Y Coordinate"),
		ZAxis:  axis("Z Coordinate"),
		Camera: defaultCamera,
	}
}

// regionTraces builds one trace per region that has points. Colours follow
// the region's position in regions so every page agrees.
func regionTraces(points []Point, regions []string, build func(i int, region string, c columns) Trace, text func(Point) string) []Trace {
	groups := GroupBy(points, func(p Point) string { return p.Region })
	traces := make([]Trace, 0, len(groups))
	for i, region := range regions {
		ps := groups[region]
		if len(ps) == 0 {
			continue
		}
		traces = append(traces, build(i, region, collect(ps, text)))
	}
	return traces
}

// Figure3D builds the 3D view: one scatter3d trace per region.
func Figure3D(points []Point, regions []string) Figure {
	text := func(p Point) string { return hoverText(p, false) }
	fig := Figure{
		Data: regionTraces(points, regions, func(i int, region string, c columns) Trace {
			return Trace{
				Type:          "scatter3d",
				Name:          region,
				Mode:          "markers",
				X:             c.x,
				Y:             c.y,
				Z:             c.z,
				Text:          c.text,
				HoverTemplate: hoverBold,
				Marker:        &Marker{Size: 1.5, Color: pick(regionColors, i), Opacity: 0.6},
				ShowLegend:    boolPtr(true),
			}
		}, text),
	}

	fig.Layout = whiteLayout(titlePrefix+" (3D View)", 800)
	fig.Layout.Scene = scene()
	fig.Layout.Legend = &Legend{X: 1.01, Y: 0.99, XAnchor: "left", YAnchor: "top"}
	fig.Layout.Annotations = []Annotation{navigation(1.02, 14)}
	return fig
}

// Dashboard grid cells, as paper fractions.
var (
	colLeft   = []float64{0, 0.425}
	colRight  = []float64{0.575, 1}
	rowTop    = []float64{0.56, 1}
	rowBottom = []float64{0, 0.44}
)

func subplotTitle(text string, x []float64, y []float64) Annotation {
	return Annotation{
		Text:    text,
		XRef:    "paper",
		YRef:    "paper",
		X:       (x[0] + x[1]) / 2,
		Y:       y[1],
		XAnchor: "center",
		YAnchor: "bottom",
		Font:    &Font{Size: 16},
	}
}

// FigureDashboard builds the 2x2 dashboard: 2D scatter by region, a region
// statistics table, a 3D scatter by region and a cell count bar chart.
func FigureDashboard(points []Point, stats map[string]RegionStats, regions []string) Figure {
	var fig Figure

	fig.Data = append(fig.Data, regionTraces(points, regions, func(i int, region string, c columns) Trace {
		return Trace{
			Type:          "scattergl",
			Name:          region,
			Mode:          "markers",
			X:             c.x,
			Y:             c.y,
			Text:          c.text,
			HoverTemplate: hoverBold,
			Marker:        &Marker{Size: 3, Color: pick(regionColors, i), Opacity: 0.7, Line: &Line{Width: 0}},
			ShowLegend:    boolPtr(true),
			XAxis:         "x",
			YAxis:         "y",
		}
	}, shortHover)...)

	var names, cells, genes, pts []string
	for _, region := range regions {
		s, ok := stats[region]
		if !ok {
			continue
		}
		names = append(names, region)
		cells = append(cells, numbers.Sprintf("%d", s.CellCount))
		genes = append(genes, numbers.Sprintf("%d", s.UniqueGenes))
		pts = append(pts, numbers.Sprintf("%d", s.TotalPoints))
	}
	fig.Data = append(fig.Data, Trace{
		Type:   "table",
		Domain: &Domain{X: colRight, Y: rowTop},
		Header: &TableSection{
			Values: []string{"Region", "Cells", "Genes", "Points"},
			Fill:   &Fill{Color: "paleturquoise"},
			Align:  "left",
		},
		Cells: &TableSection{
			Values: [][]string{names, cells, genes, pts},
			Fill:   &Fill{Color: "lavender"},
			Align:  "left",
		},
	})

	fig.Data = append(fig.Data, regionTraces(points, regions, func(i int, region string, c columns) Trace {
		return Trace{
			Type:          "scatter3d",
			Name:          region,
			Mode:          "markers",
			X:             c.x,
			Y:             c.y,
			Z:             c.z,
			Text:          c.text,
			HoverTemplate: hoverBold,
			Marker:        &Marker{Size: 1.5, Color: pick(regionColors, i), Opacity: 0.6},
			ShowLegend:    boolPtr(false),
			Scene:         "scene",
		}
	}, shortHover)...)

	counts := make([]int, len(regions))
	colours := make([]string, len(regions))
	for i, region := range regions {
		counts[i] = stats[region].CellCount
		colours[i] = pick(regionColors, i)
	}
	fig.Data = append(fig.Data, Trace{
		Type:       "bar",
		X:          regions,
		Y:          counts,
		Marker:     &Marker{Color: colours},
		ShowLegend: boolPtr(false),
		XAxis:      "x2",
		YAxis:      "y2",
	})

	fig.Layout = whiteLayout(titlePrefix+" Dashboard", 1000)
	fig.Layout.XAxis = &Axis{Title: &Title{Text: "X Coordinate"}, Domain: colLeft, Anchor: "y", GridColor: gridColor}
	fig.Layout.YAxis = &Axis{Title: &Title{Text: "Y Coordinate"}, Domain: rowTop, Anchor: "x", GridColor: gridColor}
	fig.Layout.XAxis2 = &Axis{Title: &Title{Text: "Region"}, Domain: colRight, Anchor: "y2", GridColor: gridColor}
	fig.Layout.YAxis2 = &Axis{Title: &Title{Text: "Cell Count"}, Domain: rowBottom, Anchor: "x2", GridColor: gridColor}
	fig.Layout.Scene = scene()
	fig.Layout.Scene.Domain = &Domain{X: colLeft, Y: rowBottom}
	fig.Layout.Legend = &Legend{X: 1.02, Y: 0.99, XAnchor: "right", YAnchor: "top", BGColor: "rgba(255,255,255,0.8)"}
	fig.Layout.Annotations = []Annotation{
		subplotTitle("2D View", colLeft, rowTop),
		subplotTitle("Region Statistics", colRight, rowTop),
		subplotTitle("3D View", colLeft, rowBottom),
		subplotTitle("Cell Counts by Region", colRight, rowBottom),
		navigation(1.04, 14),
	}
	return fig
}
