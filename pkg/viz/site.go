package viz

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/agentstation/exseq/pkg/constants"
	"github.com/agentstation/exseq/pkg/errors"
	"github.com/agentstation/exseq/pkg/logging"
	"github.com/agentstation/exseq/pkg/reconciler"
	"github.com/agentstation/exseq/pkg/table"
)

// Files written under the data directory.
const (
	DataDir      = "data"
	OverviewFile = "overview.json"
	StatsFile    = "stats.json"
	PreviewFile  = "preview.svg"
)

// Options configures Generate. Zero values fall back to the defaults in
// pkg/constants.
type Options struct {
	Input           string
	OutDir          string
	Seed            uint64
	ColorBy         ColorBy
	Downsample      int
	Sample2D        int
	Sample3D        int
	SampleDashboard int
	PlotlyURL       string
	Preview         bool
}

func (o Options) withDefaults() Options {
	if o.OutDir == "" {
		o.OutDir = "."
	}
	if o.ColorBy == "" {
		o.ColorBy = ColorByGene
	}
	if o.Downsample == 0 {
		o.Downsample = constants.DownsampleFactor
	}
	if o.Sample2D == 0 {
		o.Sample2D = constants.Sample2D
	}
	if o.Sample3D == 0 {
		o.Sample3D = constants.Sample3D
	}
	if o.SampleDashboard == 0 {
		o.SampleDashboard = constants.SampleDashboard
	}
	if o.PlotlyURL == "" {
		o.PlotlyURL = constants.PlotlyCDN
	}
	return o
}

// Summary describes a generated site.
type Summary struct {
	Input          string        `json:"input" yaml:"input"`
	OutDir         string        `json:"out_dir" yaml:"out_dir"`
	TotalPoints    int           `json:"total_points" yaml:"total_points"`
	OverviewPoints int           `json:"overview_points" yaml:"overview_points"`
	Genes          int           `json:"genes" yaml:"genes"`
	Regions        []string      `json:"regions" yaml:"regions"`
	FOVs           int           `json:"fovs" yaml:"fovs"`
	CellTypes      int           `json:"cell_types" yaml:"cell_types"`
	Files          []string      `json:"files" yaml:"files"`
	Duration       time.Duration `json:"duration" yaml:"duration"`
}

// Generate reads opts.Input and writes the visualization site to opts.OutDir:
// the three Plotly pages, data/overview.json, data/stats.json and, when
// requested, data/preview.svg.
func Generate(ctx context.Context, opts Options) (*Summary, error) {
	start := time.Now()
	opts = opts.withDefaults()
	log := logging.FromContext(ctx).With().Str("input", opts.Input).Logger()

	if opts.Input == "" {
		return nil, errors.NewValidationError("input", opts.Input, "input file is required")
	}
	t, err := table.Read(reconciler.ResourcePrimary, opts.Input)
	if err != nil {
		return nil, err
	}
	ds, err := LoadDataset(t)
	if err != nil {
		return nil, err
	}
	if opts.ColorBy == ColorByCellType && len(ds.CellTypes) == 0 {
		return nil, errors.NewSchemaError(t.Name, constants.ColumnCellType, t.Header)
	}
	log.Info().Int("rows", len(ds.Points)).Strs("columns", t.Header).Msg("Loaded data")

	overview := Downsample(ds.Points, opts.Downsample)
	log.Info().
		Int("points", len(overview)).
		Int("every", opts.Downsample).
		Msg("Downsampled overview")

	summary := &Summary{
		Input:          opts.Input,
		OutDir:         opts.OutDir,
		TotalPoints:    len(ds.Points),
		OverviewPoints: len(overview),
		Genes:          len(ds.Genes),
		Regions:        ds.Regions,
		FOVs:           len(ds.FOVs),
		CellTypes:      len(ds.CellTypes),
	}

	write := func(rel string, data []byte) error {
		if err := ctx.Err(); err != nil {
			return errors.Join(errors.ErrCanceled, err)
		}
		path := filepath.Join(opts.OutDir, rel)
		if err := table.WriteAtomic(path, data); err != nil {
			return err
		}
		summary.Files = append(summary.Files, rel)
		log.Info().Str("path", path).Msg("Wrote file")
		return nil
	}

	overviewJSON, err := json.Marshal(overview)
	if err != nil {
		return nil, errors.WrapParse("json", OverviewFile, err)
	}
	if err := write(filepath.Join(DataDir, OverviewFile), overviewJSON); err != nil {
		return nil, err
	}

	stats := ComputeStats(ds.Points)
	statsJSON, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return nil, errors.WrapParse("json", StatsFile, err)
	}
	if err := write(filepath.Join(DataDir, StatsFile), statsJSON); err != nil {
		return nil, err
	}
	log.Info().Int("regions", len(stats)).Msg("Saved statistics")

	rng := NewRand(opts.Seed)
	pages := []struct {
		file  string
		title string
		build func() Figure
	}{
		{Page2D, titlePrefix + " (2D View)", func() Figure {
			return Figure2D(Sample(overview, opts.Sample2D, rng), ds.Regions, opts.ColorBy)
		}},
		{Page3D, titlePrefix + " (3D View)", func() Figure {
			return Figure3D(Sample(overview, opts.Sample3D, rng), ds.Regions)
		}},
		{PageDashboard, titlePrefix + " Dashboard", func() Figure {
			return FigureDashboard(Sample(overview, opts.SampleDashboard, rng), stats, ds.Regions)
		}},
	}
	for _, p := range pages {
		var buf bytes.Buffer
		if err := RenderHTML(&buf, p.title, opts.PlotlyURL, p.build()); err != nil {
			return nil, errors.WrapParse("html", p.file, err)
		}
		if err := write(p.file, buf.Bytes()); err != nil {
			return nil, err
		}
	}

	if opts.Preview && len(overview) == 0 {
		log.Warn().Msg("No points to plot, skipping preview")
	} else if opts.Preview {
		var buf bytes.Buffer
		if err := RenderPreview(&buf, filepath.Base(opts.Input), overview); err != nil {
			return nil, err
		}
		if err := write(filepath.Join(DataDir, PreviewFile), buf.Bytes()); err != nil {
			return nil, err
		}
	}

	summary.Duration = time.Since(start)
	log.Info().
		Int("total_points", summary.TotalPoints).
		Int("overview_points", summary.OverviewPoints).
		Int("genes", summary.Genes).
		Int("regions", len(summary.Regions)).
		Int("fovs", summary.FOVs).
		Dur("duration", summary.Duration).
		Msg("All visualizations generated successfully")
	return summary, nil
}
