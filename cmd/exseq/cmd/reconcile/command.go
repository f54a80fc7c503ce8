// Package reconcile provides the command that adds cell types to regions/genes tables.
package reconcile

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/exseq/internal/appcontext"
	"github.com/agentstation/exseq/internal/cmd/cmdutil"
	"github.com/agentstation/exseq/internal/cmd/output"
	"github.com/agentstation/exseq/pkg/constants"
	"github.com/agentstation/exseq/pkg/errors"
	"github.com/agentstation/exseq/pkg/reconciler"
)

// Flags holds the reconcile command flags.
type Flags struct {
	Samples   *cmdutil.SampleFlags
	DryRun    bool
	List      bool
	Primary   string
	Secondary string
	Output    string
}

// NewCommand creates the reconcile command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "reconcile",
		Aliases: []string{"add-cell-types"},
		GroupID: "core",
		Short:   "Add cell types to regions/genes tables",
		Long: `Reconcile joins each sample's regions/genes table with its cell-type
table on the normalized cell identifier and writes the table with one
extra cell_type column.

Identifiers are compared after trimming whitespace and one enclosing pair
of double quotes, so "C1 " and C1 match. Cells without an assignment are
labelled "unassigned"; no row is ever dropped. When a cell index appears
twice in the cell-type table the last assignment wins and a warning is
logged.

Samples are processed one after another. A failing sample is reported and
the rest still run; the command exits non-zero if any sample failed.`,
		Example: `  # Process the configured (or built-in) samples
  exseq reconcile

  # Use a samples file and only two of its samples
  exseq reconcile --samples samples.yaml -s fem3_5x_E7_A_left,fem3_5x_E7_A_right

  # Show the statistics without writing anything
  exseq reconcile --dry-run --format wide

  # Join one ad-hoc pair of files
  exseq reconcile --primary s1_regions_genes.csv --secondary cell_type_s1.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app, flags)
		},
	}

	flags.Samples = cmdutil.AddSampleFlags(cmd)
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Join and report statistics without writing output")
	cmd.Flags().BoolVar(&flags.List, "list", false, "Print the resolved input and output paths and exit")
	cmd.Flags().StringVar(&flags.Primary, "primary", "", "Single regions/genes table (bypasses the samples file)")
	cmd.Flags().StringVar(&flags.Secondary, "secondary", "", "Cell-type table for --primary")
	cmd.Flags().StringVar(&flags.Output, "output", "", "Output path for --primary (default: next to it, with _with_cell_types)")
	cmd.MarkFlagsRequiredTogether("primary", "secondary")
	cmd.MarkFlagsMutuallyExclusive("primary", "samples")
	cmd.MarkFlagsMutuallyExclusive("primary", "sample")

	return cmd
}

func run(cmd *cobra.Command, app appcontext.Interface, flags *Flags) error {
	format := output.DetectFormat(app.OutputFormat())

	pairs, err := resolvePairs(app, flags)
	if err != nil {
		return err
	}
	if flags.List {
		return output.WritePairs(app.Stdout(), format, pairs)
	}

	r, err := app.Reconciler(reconciler.WithDryRun(flags.DryRun))
	if err != nil {
		return err
	}

	report := r.Run(cmd.Context(), pairs)
	if err := output.WriteReport(app.Stdout(), format, report); err != nil {
		return err
	}

	if report.IsSuccess() {
		return nil
	}
	if report.Skipped > 0 {
		return errors.Join(errors.ErrCanceled, fmt.Errorf("%d of %d samples not processed", report.Skipped, report.Total()))
	}
	return fmt.Errorf("%d of %d samples failed: %w", report.Failed, report.Total(), errors.Join(report.Errors()...))
}

func resolvePairs(app appcontext.Interface, flags *Flags) ([]reconciler.Pair, error) {
	if flags.Primary != "" {
		pair := reconciler.Pair{
			Primary:   flags.Primary,
			Secondary: flags.Secondary,
			Output:    flags.Output,
		}
		if pair.Output == "" {
			pair.Output = DefaultOutput(flags.Primary)
		}
		return []reconciler.Pair{pair}, nil
	}
	if flags.Output != "" {
		return nil, errors.NewValidationError("output", flags.Output, "--output requires --primary")
	}

	cfg, err := flags.Samples.Resolve(app)
	if err != nil {
		return nil, err
	}
	return cfg.Pairs(), nil
}

// DefaultOutput derives the augmented table path from a primary table path:
// dir/s1_regions_genes.csv becomes dir/s1_regions_genes_with_cell_types.csv.
func DefaultOutput(primary string) string {
	dir, file := filepath.Split(primary)
	stem := strings.TrimSuffix(file, filepath.Ext(file))
	stem = strings.TrimSuffix(stem, constants.RegionsGenesSuffix)
	return filepath.Join(dir, stem+constants.WithCellTypesSuffix+constants.CSVExt)
}
