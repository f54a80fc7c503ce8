// Package visualize provides the command that renders the explorer pages.
package visualize

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/exseq/internal/appcontext"
	"github.com/agentstation/exseq/internal/cmd/output"
	"github.com/agentstation/exseq/pkg/constants"
	"github.com/agentstation/exseq/pkg/logging"
	"github.com/agentstation/exseq/pkg/viz"
)

// Flags holds the visualize command flags.
type Flags struct {
	Input           string
	OutDir          string
	Seed            uint64
	ColorBy         string
	Downsample      int
	Sample2D        int
	Sample3D        int
	SampleDashboard int
	PlotlyVersion   string
	Preview         bool
}

// NewCommand creates the visualize command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "visualize",
		Aliases: []string{"viz"},
		GroupID: "site",
		Short:   "Render the 2D, 3D and dashboard pages for a table",
		Long: fmt.Sprintf(`Visualize reads a regions/genes table (with or without cell types) and
writes a static site:

  %-16s 2D scatter, one trace per gene (or cell type), region filter
  %-16s 3D scatter, one trace per region
  %-16s 2D, 3D, region statistics and cell counts on one page
  data/%-11s every %d-th row, for client-side exploration
  data/%-11s per-region cell counts, genes, points, area, proportion

Each page draws a seeded random sample of the overview rows, so the same
seed produces the same pages.`,
			viz.Page2D, viz.Page3D, viz.PageDashboard, viz.OverviewFile, constants.DownsampleFactor, viz.StatsFile),
		Example: `  exseq visualize --input data/csvs/fem3_5x_E7_A_left_regions_genes_with_cell_types.csv
  exseq visualize -i sample.csv --out site --color-by cell_type --preview
  exseq visualize -i sample.csv --plotly-version 2.27.0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.Input, "input", "i", "", "Regions/genes table to render (required)")
	cmd.Flags().StringVar(&flags.OutDir, "out", "", "Site directory (default: configured site_dir)")
	cmd.Flags().Uint64Var(&flags.Seed, "seed", 0, fmt.Sprintf("Sampling seed (default: configured seed, else %d)", constants.DefaultSeed))
	cmd.Flags().StringVar(&flags.ColorBy, "color-by", string(viz.ColorByGene), "Colour the 2D view by gene or cell_type")
	cmd.Flags().IntVar(&flags.Downsample, "downsample", constants.DownsampleFactor, "Keep every n-th row for the overview")
	cmd.Flags().IntVar(&flags.Sample2D, "sample-2d", constants.Sample2D, "Points drawn on the 2D page")
	cmd.Flags().IntVar(&flags.Sample3D, "sample-3d", constants.Sample3D, "Points drawn on the 3D page")
	cmd.Flags().IntVar(&flags.SampleDashboard, "sample-dashboard", constants.SampleDashboard, "Points drawn on the dashboard")
	cmd.Flags().StringVar(&flags.PlotlyVersion, "plotly-version", "", fmt.Sprintf("Plotly release to load, %s (default %s)", viz.SupportedPlotly, constants.PlotlyVersion))
	cmd.Flags().BoolVar(&flags.Preview, "preview", false, "Also write data/preview.svg")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func run(cmd *cobra.Command, app appcontext.Interface, flags *Flags) error {
	settings := app.Settings()

	colorBy, err := viz.ParseColorBy(flags.ColorBy)
	if err != nil {
		return err
	}

	version := flags.PlotlyVersion
	if version == "" {
		version = settings.PlotlyVersion
	}
	plotlyURL, err := viz.PlotlyURL(version)
	if err != nil {
		return err
	}

	opts := viz.Options{
		Input:           flags.Input,
		OutDir:          flags.OutDir,
		Seed:            flags.Seed,
		ColorBy:         colorBy,
		Downsample:      flags.Downsample,
		Sample2D:        flags.Sample2D,
		Sample3D:        flags.Sample3D,
		SampleDashboard: flags.SampleDashboard,
		PlotlyURL:       plotlyURL,
		Preview:         flags.Preview,
	}
	if opts.OutDir == "" {
		opts.OutDir = settings.SiteDir
	}
	if !cmd.Flags().Changed("seed") {
		opts.Seed = settings.Seed
	}

	ctx := cmd.Context()
	if logging.FromContext(ctx) == logging.Default() {
		ctx = logging.WithLogger(ctx, app.Logger())
	}

	summary, err := viz.Generate(ctx, opts)
	if err != nil {
		return err
	}
	return output.WriteSummary(app.Stdout(), output.DetectFormat(app.OutputFormat()), summary)
}
