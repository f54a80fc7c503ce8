package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/exseq/pkg/constants"
)

// Config describes how a logger is built.
type Config struct {
	Level  string // trace, debug, info, warn, error, off
	Format string // auto, console, json
	Output string // stderr, stdout, discard, or a file path

	// TimeFormat is one of kitchen, rfc3339, stamp or unix.
	TimeFormat string
	NoColor    bool

	// AddCaller includes file:line. It is implied at debug and below.
	AddCaller bool

	// Fields are attached to every event, e.g. a run identifier.
	Fields map[string]any
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Level:      "info",
		Format:     "auto",
		Output:     "stderr",
		TimeFormat: "kitchen",
		NoColor:    os.Getenv("NO_COLOR") != "",
	}
}

var levels = map[string]zerolog.Level{
	"trace":    zerolog.TraceLevel,
	"debug":    zerolog.DebugLevel,
	"":         zerolog.InfoLevel,
	"info":     zerolog.InfoLevel,
	"warn":     zerolog.WarnLevel,
	"warning":  zerolog.WarnLevel,
	"error":    zerolog.ErrorLevel,
	"off":      zerolog.Disabled,
	"none":     zerolog.Disabled,
	"disabled": zerolog.Disabled,
}

var timeFormats = map[string]string{
	"rfc3339": time.RFC3339,
	"stamp":   time.Stamp,
	"unix":    zerolog.TimeFormatUnix,
	"epoch":   zerolog.TimeFormatUnix,
}

// NewLoggerFromConfig builds a logger and sets the zerolog global level to
// match, so package-level helpers agree with it.
func NewLoggerFromConfig(cfg *Config) zerolog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	level := parseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	logCtx := zerolog.New(newWriter(cfg)).Level(level).With().Timestamp()
	if cfg.AddCaller || level <= zerolog.DebugLevel {
		logCtx = logCtx.Caller()
	}
	if len(cfg.Fields) > 0 {
		logCtx = logCtx.Fields(cfg.Fields)
	}
	return logCtx.Logger()
}

// Configure replaces the default logger.
func Configure(cfg *Config) {
	SetDefault(NewLoggerFromConfig(cfg))
}

// newWriter opens cfg.Output and wraps it in a console writer when the
// format asks for one, or when format is auto and the output is a terminal.
func newWriter(cfg *Config) io.Writer {
	out, file := openOutput(cfg.Output)

	switch strings.ToLower(cfg.Format) {
	case "console", "pretty":
	case "", "auto":
		if file == nil || !isTerminal(file) {
			return out
		}
	default:
		return out
	}

	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: parseTimeFormat(cfg.TimeFormat),
		NoColor:    cfg.NoColor,
	}
}

// openOutput resolves an output name. file is nil for outputs that can never
// be a terminal. An unopenable path falls back to stderr.
func openOutput(name string) (out io.Writer, file *os.File) {
	switch strings.ToLower(name) {
	case "stdout":
		return os.Stdout, os.Stdout
	case "", "stderr":
		return os.Stderr, os.Stderr
	case "discard", "none":
		return io.Discard, nil
	}

	f, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, constants.FilePermissions)
	if err != nil {
		return os.Stderr, os.Stderr
	}
	return f, nil
}

func parseLevel(level string) zerolog.Level {
	if l, ok := levels[strings.ToLower(level)]; ok {
		return l
	}
	if l, err := zerolog.ParseLevel(level); err == nil {
		return l
	}
	return zerolog.InfoLevel
}

func parseTimeFormat(format string) string {
	if f, ok := timeFormats[strings.ToLower(format)]; ok {
		return f
	}
	return time.Kitchen
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
