// Package logging provides structured logging for exseq using zerolog.
// Terminals get human-readable console output; pipes and files get JSON so
// batch runs can be post-processed.
//
// Example usage:
//
//	log := logging.Default()
//	log.Info().Str("sample", "fem4_WT_F11").Int("rows", 1200).Msg("Loaded primary table")
//
//	ctx := logging.WithSample(context.Background(), "fem4_WT_F11")
//	logging.FromContext(ctx).Warn().Msg("No cell type assignments")
package logging

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// defaultLogger backs Default and the package-level event helpers. It is
// configured from LOG_LEVEL and LOG_FORMAT until the CLI replaces it.
var defaultLogger zerolog.Logger

func init() {
	cfg := DefaultConfig()
	cfg.Level = envOr("LOG_LEVEL", cfg.Level)
	cfg.Format = envOr("LOG_FORMAT", cfg.Format)
	defaultLogger = NewLoggerFromConfig(cfg)
}

// Default returns the default global logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the default logger and zerolog's global log.Logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// Debug starts a debug event on the default logger.
func Debug() *zerolog.Event { return defaultLogger.Debug() }

// Info starts an info event on the default logger.
func Info() *zerolog.Event { return defaultLogger.Info() }

// Warn starts a warning event on the default logger.
func Warn() *zerolog.Event { return defaultLogger.Warn() }

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
