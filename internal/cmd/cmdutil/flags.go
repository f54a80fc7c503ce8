// Package cmdutil provides shared flags and configuration utilities for exseq commands.
package cmdutil

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/exseq/internal/appcontext"
	"github.com/agentstation/exseq/pkg/samples"
)

// SampleFlags selects and relocates the samples a command works on.
type SampleFlags struct {
	File            string
	Names           []string
	CellTypingDir   string
	RegionsGenesDir string
	OutputDir       string
}

// AddSampleFlags adds sample selection flags to a command.
func AddSampleFlags(cmd *cobra.Command) *SampleFlags {
	flags := &SampleFlags{}

	cmd.Flags().StringVar(&flags.File, "samples", "",
		"Samples file (default: configured samples_file, else the built-in mapping)")
	cmd.Flags().StringSliceVarP(&flags.Names, "sample", "s", nil,
		"Only process the named samples (repeatable or comma-separated)")
	cmd.Flags().StringVar(&flags.CellTypingDir, "cell-typing-dir", "",
		"Directory holding cell_type_<name>.csv files")
	cmd.Flags().StringVar(&flags.RegionsGenesDir, "regions-genes-dir", "",
		"Directory holding <sample>/<sample>_regions_genes.csv files")
	cmd.Flags().StringVar(&flags.OutputDir, "output-dir", "",
		"Directory the augmented tables are written to")

	return flags
}

// Resolve loads the sample configuration and applies the flag overrides.
// An explicit --samples file is used as written; otherwise the app resolves
// the file and its directory overrides. Directory flags always win.
func (f *SampleFlags) Resolve(app appcontext.Interface) (*samples.Config, error) {
	var (
		cfg *samples.Config
		err error
	)
	if f.File != "" {
		cfg, err = samples.Load(f.File)
	} else {
		cfg, err = app.Samples()
	}
	if err != nil {
		return nil, err
	}
	overridden := *cfg
	cfg = &overridden

	if f.CellTypingDir != "" {
		cfg.CellTypingDir = f.CellTypingDir
	}
	if f.RegionsGenesDir != "" {
		cfg.RegionsGenesDir = f.RegionsGenesDir
	}
	if f.OutputDir != "" {
		cfg.OutputDir = f.OutputDir
	}

	cfg, err = cfg.Select(f.Names...)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
