package viz

// Plotly figure JSON. Only the attributes the pages use are modelled; see
// https://plotly.com/javascript/reference/ for their meaning.

// Figure is a Plotly figure: traces plus layout.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is a single Plotly trace of any type.
type Trace struct {
	Type          string        `json:"type"`
	Name          string        `json:"name,omitempty"`
	Mode          string        `json:"mode,omitempty"`
	X             any           `json:"x,omitempty"`
	Y             any           `json:"y,omitempty"`
	Z             []float64     `json:"z,omitempty"`
	Text          []string      `json:"text,omitempty"`
	HoverTemplate string        `json:"hovertemplate,omitempty"`
	Marker        *Marker       `json:"marker,omitempty"`
	Visible       *bool         `json:"visible,omitempty"`
	ShowLegend    *bool         `json:"showlegend,omitempty"`
	LegendRank    int           `json:"legendrank,omitempty"`
	XAxis         string        `json:"xaxis,omitempty"`
	YAxis         string        `json:"yaxis,omitempty"`
	Scene         string        `json:"scene,omitempty"`
	Domain        *Domain       `json:"domain,omitempty"`
	Header        *TableSection `json:"header,omitempty"`
	Cells         *TableSection `json:"cells,omitempty"`
}

// Marker styles scatter points and bars.
type Marker struct {
	Size    float64 `json:"size,omitempty"`
	Color   any     `json:"color,omitempty"`
	Opacity float64 `json:"opacity,omitempty"`
	Line    *Line   `json:"line,omitempty"`
}

// Line is a marker outline.
type Line struct {
	Width float64 `json:"width"`
}

// TableSection is the header or body of a table trace. Values is column
// major for cells and a single row for the header.
type TableSection struct {
	Values any    `json:"values"`
	Fill   *Fill  `json:"fill,omitempty"`
	Align  string `json:"align,omitempty"`
}

// Fill is a background colour.
type Fill struct {
	Color string `json:"color"`
}

// Domain places a trace or scene inside the paper.
type Domain struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

// Layout is the figure layout.
type Layout struct {
	Title        *Title       `json:"title,omitempty"`
	Height       int          `json:"height,omitempty"`
	HoverMode    string       `json:"hovermode,omitempty"`
	ShowLegend   *bool        `json:"showlegend,omitempty"`
	Legend       *Legend      `json:"legend,omitempty"`
	PaperBGColor string       `json:"paper_bgcolor,omitempty"`
	PlotBGColor  string       `json:"plot_bgcolor,omitempty"`
	XAxis        *Axis        `json:"xaxis,omitempty"`
	YAxis        *Axis        `json:"yaxis,omitempty"`
	XAxis2       *Axis        `json:"xaxis2,omitempty"`
	YAxis2       *Axis        `json:"yaxis2,omitempty"`
	Scene        *Scene       `json:"scene,omitempty"`
	UpdateMenus  []UpdateMenu `json:"updatemenus,omitempty"`
	Annotations  []Annotation `json:"annotations,omitempty"`
}

// Title is a figure or axis title.
type Title struct {
	Text string `json:"text"`
}

// Legend positions the legend box.
type Legend struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	XAnchor string  `json:"xanchor,omitempty"`
	YAnchor string  `json:"yanchor,omitempty"`
	BGColor string  `json:"bgcolor,omitempty"`
}

// Axis is a cartesian or scene axis.
type Axis struct {
	Title     *Title    `json:"title,omitempty"`
	Domain    []float64 `json:"domain,omitempty"`
	Anchor    string    `json:"anchor,omitempty"`
	GridColor string    `json:"gridcolor,omitempty"`
}

// Scene is a 3D subplot.
type Scene struct {
	XAxis  *Axis   `json:"xaxis,omitempty"`
	YAxis  *Axis   `json:"yaxis,omitempty"`
	ZAxis  *Axis   `json:"zaxis,omitempty"`
	Camera *Camera `json:"camera,omitempty"`
	Domain *Domain `json:"domain,omitempty"`
}

// Camera sets the initial 3D viewpoint.
type Camera struct {
	Eye Vec3 `json:"eye"`
}

// Vec3 is a point in scene coordinates.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// UpdateMenu is a dropdown of buttons.
type UpdateMenu struct {
	Buttons    []Button `json:"buttons"`
	Direction  string   `json:"direction,omitempty"`
	ShowActive bool     `json:"showactive"`
	X          float64  `json:"x"`
	XAnchor    string   `json:"xanchor,omitempty"`
	Y          float64  `json:"y"`
	YAnchor    string   `json:"yanchor,omitempty"`
}

// Button is one dropdown entry. Args are passed to the Plotly method.
type Button struct {
	Label  string `json:"label"`
	Method string `json:"method"`
	Args   []any  `json:"args"`
}

// Annotation is free text placed on the figure.
type Annotation struct {
	Text      string  `json:"text"`
	XRef      string  `json:"xref,omitempty"`
	YRef      string  `json:"yref,omitempty"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	XAnchor   string  `json:"xanchor,omitempty"`
	YAnchor   string  `json:"yanchor,omitempty"`
	ShowArrow bool    `json:"showarrow"`
	Font      *Font   `json:"font,omitempty"`
}

// Font styles annotation text.
type Font struct {
	Size  int    `json:"size,omitempty"`
	Color string `json:"color,omitempty"`
}

func boolPtr(b bool) *bool { return &b }
