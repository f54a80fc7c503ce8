package viz

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"

	"github.com/Masterminds/semver/v3"

	"github.com/agentstation/exseq/pkg/constants"
	"github.com/agentstation/exseq/pkg/errors"
)

// SupportedPlotly is the range of Plotly releases whose trace and layout
// attributes match the figures built here.
const SupportedPlotly = ">= 2.0.0, < 4.0.0"

const plotlyCDNFormat = "https://cdn.plot.ly/plotly-%s.min.js"

//go:embed templates/page.html.tmpl
var pageTemplate string

var page = template.Must(template.New("page").Parse(pageTemplate))

type pageData struct {
	Title     string
	PlotlyURL string
	Figure    Figure
}

// RenderHTML writes a standalone page that draws fig with Plotly loaded
// from plotlyURL (the default CDN build when empty).
func RenderHTML(w io.Writer, title, plotlyURL string, fig Figure) error {
	if plotlyURL == "" {
		plotlyURL = constants.PlotlyCDN
	}
	// Render into a buffer so a template error never leaves half a page.
	var buf bytes.Buffer
	if err := page.Execute(&buf, pageData{Title: title, PlotlyURL: plotlyURL, Figure: fig}); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

// PlotlyURL returns the CDN script URL for version, which must be a
// release within SupportedPlotly. An empty version selects the default build.
func PlotlyURL(version string) (string, error) {
	if version == "" {
		return constants.PlotlyCDN, nil
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return "", errors.NewValidationError("plotly_version", version, err.Error())
	}
	c, err := semver.NewConstraint(SupportedPlotly)
	if err != nil {
		return "", err
	}
	if !c.Check(v) {
		return "", errors.NewValidationError("plotly_version", version,
			fmt.Sprintf("unsupported Plotly release, want %s", SupportedPlotly))
	}
	return fmt.Sprintf(plotlyCDNFormat, v.String()), nil
}
