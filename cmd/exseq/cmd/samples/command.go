// Package samples provides commands for inspecting and writing samples files.
package samples

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/exseq/internal/appcontext"
	"github.com/agentstation/exseq/internal/cmd/alerts"
	"github.com/agentstation/exseq/internal/cmd/cmdutil"
	"github.com/agentstation/exseq/internal/cmd/output"
	"github.com/agentstation/exseq/pkg/errors"
	pkgsamples "github.com/agentstation/exseq/pkg/samples"
)

// DefaultFile is where init writes when no path is given.
const DefaultFile = "samples.yaml"

// NewCommand creates the samples command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "samples",
		GroupID: "core",
		Short:   "Inspect, validate and create samples files",
		Long: `A samples file maps each sample to its cell-type table and names the
directories the regions/genes tables are read from and written to:

  cell_typing_dir: /data/cell_typing_all_samples
  regions_genes_dir: /data/assign_regions/output_correct
  output_dir: /data/explore-ExSeq-brain-AD
  samples:
    - name: fem3_5x_E7_A_left
      cell_type: 5x_E7_A_left

Without a samples file the built-in mapping of the eight brain sections
is used.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newListCommand(app))
	cmd.AddCommand(newValidateCommand(app))
	cmd.AddCommand(newInitCommand(app))

	return cmd
}

func newListCommand(app appcontext.Interface) *cobra.Command {
	var flags *cmdutil.SampleFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List samples with their resolved paths",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := flags.Resolve(app)
			if err != nil {
				return err
			}
			return output.WritePairs(app.Stdout(), output.DetectFormat(app.OutputFormat()), cfg.Pairs())
		},
	}
	flags = cmdutil.AddSampleFlags(cmd)
	return cmd
}

func newValidateCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a samples file against the schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := args[0]
			w := alerts.NewFormatWriter(app.Stdout(), output.DetectFormat(app.OutputFormat()))

			data, err := os.ReadFile(path)
			if err != nil {
				if os.IsNotExist(err) {
					return errors.NewNotFoundError("samples file", path, err)
				}
				return errors.WrapIO("read", path, err)
			}

			result, err := pkgsamples.Validate(data)
			if err != nil {
				return err
			}
			if !result.Valid {
				details := make([]string, 0, len(result.Issues))
				for _, issue := range result.Issues {
					details = append(details, fmt.Sprintf("%s: %s", issue.Path, issue.Message))
				}
				if err := w.WriteAlert(alerts.NewError(path + " is invalid").WithDetails(details...)); err != nil {
					return err
				}
				return errors.NewConfigError("samples", result.String(), nil)
			}

			cfg, err := pkgsamples.Parse(data, path)
			if err != nil {
				_ = w.WriteAlert(alerts.NewError(path + " is invalid").WithError(err))
				return err
			}
			return w.WriteAlert(alerts.NewSuccess(path + " is valid").
				WithDetails(fmt.Sprintf("%d samples", len(cfg.Samples))))
		},
	}
}

func newInitCommand(app appcontext.Interface) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [FILE]",
		Short: "Write the built-in sample mapping to a samples file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := DefaultFile
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errors.NewValidationError("file", path, "already exists (use --force to overwrite)")
			}

			cfg := pkgsamples.Default()
			if err := cfg.Save(path); err != nil {
				return err
			}
			app.Logger().Debug().Str("path", path).Msg("Wrote samples file")

			w := alerts.NewFormatWriter(app.Stdout(), output.DetectFormat(app.OutputFormat()))
			return w.WriteAlert(alerts.NewSuccess("Wrote " + path).
				WithDetails(fmt.Sprintf("%d samples", len(cfg.Samples))))
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}
