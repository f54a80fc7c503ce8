// Package app provides the application context and dependency management
// for the exseq CLI. It centralizes configuration, logging and the
// construction of the reconciler so commands only see appcontext.Interface.
package app

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/agentstation/exseq/internal/appcontext"
	"github.com/agentstation/exseq/pkg/errors"
	"github.com/agentstation/exseq/pkg/reconciler"
	"github.com/agentstation/exseq/pkg/samples"
)

// App represents the exseq application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger
	stdout io.Writer

	// fixedLogger is set by WithLogger; flags then no longer rebuild the logger.
	fixedLogger bool
}

// New creates a new App instance with the given version information.
// The app is initialized with configuration from files and environment
// that can be customized using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		stdout:  os.Stdout,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the --format value, or the configured one.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Stdout returns where command results are written.
func (a *App) Stdout() io.Writer {
	return a.stdout
}

// Settings returns the configured flag defaults.
func (a *App) Settings() appcontext.Settings {
	return appcontext.Settings{
		CSVDir:        a.config.CSVDir,
		SiteDir:       a.config.SiteDir,
		ServeAddr:     a.config.ServeAddr,
		PlotlyVersion: a.config.PlotlyVersion,
		Seed:          a.config.Seed,
	}
}

// Samples loads the configured samples file, or the built-in mapping when
// none is set, and applies directory overrides from config and environment.
// Callers validate after applying their own overrides.
func (a *App) Samples() (*samples.Config, error) {
	var cfg *samples.Config
	if a.config.SamplesFile != "" {
		loaded, err := samples.Load(a.config.SamplesFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		a.logger.Debug().Str("path", a.config.SamplesFile).Int("samples", len(cfg.Samples)).Msg("Loaded samples file")
	} else {
		cfg = samples.Default()
	}

	if a.config.CellTypingDir != "" {
		cfg.CellTypingDir = a.config.CellTypingDir
	}
	if a.config.RegionsGenesDir != "" {
		cfg.RegionsGenesDir = a.config.RegionsGenesDir
	}
	if a.config.OutputDir != "" {
		cfg.OutputDir = a.config.OutputDir
	}

	return cfg, nil
}

// Reconciler creates a reconciler that logs through the app logger.
func (a *App) Reconciler(opts ...reconciler.Option) (reconciler.Reconciler, error) {
	r, err := reconciler.New(append([]reconciler.Option{reconciler.WithLogger(a.logger)}, opts...)...)
	if err != nil {
		return nil, errors.NewConfigError("reconciler", "invalid options", err)
	}
	return r, nil
}

// Shutdown performs graceful shutdown of the application.
// Commands stop their own long-running work through the command context.
func (a *App) Shutdown(_ context.Context) error {
	a.logger.Debug().Msg("Shutdown complete")
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return errors.NewValidationError("config", nil, "config is required")
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		a.fixedLogger = true
		return nil
	}
}

// WithStdout redirects command results, mainly for tests.
func WithStdout(w io.Writer) Option {
	return func(a *App) error {
		a.stdout = w
		return nil
	}
}

// Ensure App implements appcontext.Interface at compile time.
var _ appcontext.Interface = (*App)(nil)
