// Package appcontext provides the shared application context interface
// used by all commands. This eliminates interface duplication across
// command packages and provides a single source of truth for app dependencies.
package appcontext

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/agentstation/exseq/pkg/reconciler"
	"github.com/agentstation/exseq/pkg/samples"
)

// Interface defines the application context interface that commands need.
// The App struct from cmd/exseq/app implements this interface, providing
// dependency injection for commands while maintaining testability.
//
// Commands should accept this interface rather than the concrete App type,
// allowing for easier testing with mock implementations.
type Interface interface {
	// Samples returns the sample configuration: the configured samples file
	// when one is set, the built-in mapping otherwise. Directory overrides
	// from config or environment are applied.
	Samples() (*samples.Config, error)

	// Reconciler creates a reconciler bound to the application logger.
	Reconciler(opts ...reconciler.Option) (reconciler.Reconciler, error)

	// Settings returns the configured defaults for command flags.
	Settings() Settings

	// Logger returns the configured logger instance.
	// Commands should use this for all logging operations.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, etc).
	OutputFormat() string

	// Stdout is where command results are written. Logs go to the logger.
	Stdout() io.Writer

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}

// Settings are the config-file and environment defaults commands fall back
// to when a flag is not given.
type Settings struct {
	CSVDir        string
	SiteDir       string
	ServeAddr     string
	PlotlyVersion string
	Seed          uint64
}
