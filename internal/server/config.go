package server

import (
	"time"

	"github.com/agentstation/exseq/pkg/constants"
)

// Config holds server configuration.
type Config struct {
	// Listen address, e.g. ":8080" or "127.0.0.1:0".
	Addr string

	// Site root served as static files.
	Dir string
	// CSV directory, relative to Dir, listed by /api/manifest.
	CSVDir string

	// Watch enables file watching and WebSocket live reload.
	Watch bool

	// CORS settings
	CORSEnabled bool
	CORSOrigins []string

	// CacheTTL bounds how long computed API responses are reused when
	// watching is off.
	CacheTTL time.Duration

	// HTTP timeouts
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:              constants.DefaultServeAddr,
		Dir:               ".",
		CSVDir:            constants.DefaultCSVDir,
		CORSOrigins:       []string{},
		CacheTTL:          time.Minute,
		ReadHeaderTimeout: constants.ReadHeaderTimeout,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ShutdownTimeout:   constants.ShutdownTimeout,
	}
}
