package app

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/agentstation/exseq/cmd/exseq/cmd/manifest"
	"github.com/agentstation/exseq/cmd/exseq/cmd/reconcile"
	"github.com/agentstation/exseq/cmd/exseq/cmd/samples"
	"github.com/agentstation/exseq/cmd/exseq/cmd/serve"
	"github.com/agentstation/exseq/cmd/exseq/cmd/visualize"
)

// registerCommands registers all subcommands with the root command.
// This is where we wire up all the command handlers.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(reconcile.NewCommand(a))
	rootCmd.AddCommand(samples.NewCommand(a))

	// Site commands
	rootCmd.AddCommand(manifest.NewCommand(a))
	rootCmd.AddCommand(visualize.NewCommand(a))
	rootCmd.AddCommand(serve.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(a.NewVersionCommand())
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Show version information for the exseq CLI.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := a.Stdout()
			_, err := fmt.Fprintf(w,
				"exseq version %s\ncommit: %s\nbuilt: %s\nbuilt by: %s\ngo version: %s\nplatform: %s/%s\n",
				a.version, a.commit, a.date, a.builtBy,
				runtime.Version(), runtime.GOOS, runtime.GOARCH)
			return err
		},
	}
}
