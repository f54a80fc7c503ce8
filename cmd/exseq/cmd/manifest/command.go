// Package manifest provides the command that indexes CSV exports for the site.
package manifest

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentstation/exseq/internal/appcontext"
	"github.com/agentstation/exseq/internal/cmd/output"
	"github.com/agentstation/exseq/pkg/constants"
	pkgmanifest "github.com/agentstation/exseq/pkg/manifest"
)

// NewCommand creates the manifest command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		dir    string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:     "manifest",
		GroupID: "site",
		Short:   "Write manifest.json listing the CSV files for the site",
		Long: fmt.Sprintf(`Manifest lists every *.csv file in a directory, sorted by name, and
writes %s next to them so the explorer page can offer them
without a directory listing.

Each entry carries the file path and a display name: the file name
without its extension and without the %s or %s suffix.`,
			constants.ManifestFile, constants.WithCellTypesSuffix, constants.RegionsGenesSuffix),
		Example: `  exseq manifest
  exseq manifest --dir site/data/csvs
  exseq manifest --dry-run --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dir == "" {
				dir = app.Settings().CSVDir
			}
			format := output.DetectFormat(app.OutputFormat())

			var (
				entries []pkgmanifest.Entry
				err     error
			)
			if dryRun {
				entries, err = pkgmanifest.Build(dir)
			} else {
				entries, err = pkgmanifest.Write(cmd.Context(), dir)
			}
			if err != nil {
				return err
			}

			app.Logger().Debug().
				Str("path", filepath.Join(dir, constants.ManifestFile)).
				Int("entries", len(entries)).
				Bool("dry_run", dryRun).
				Msg("Manifest built")
			return output.WriteManifest(app.Stdout(), format, entries)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", fmt.Sprintf("Directory of CSV files (default %q)", constants.DefaultCSVDir))
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the entries without writing the manifest")

	return cmd
}
