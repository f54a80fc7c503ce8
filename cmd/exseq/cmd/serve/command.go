// Package serve provides the local preview server command.
package serve

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/exseq/internal/appcontext"
	"github.com/agentstation/exseq/internal/server"
	"github.com/agentstation/exseq/pkg/constants"
)

// NewCommand creates the serve command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	defaults := server.DefaultConfig()

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		GroupID: "site",
		Short:   "Preview the generated site locally",
		Long: `Serve the site directory over HTTP for local preview.

Endpoints:
  /               static files from --dir
  /api/manifest   the CSV manifest, built on request from --csv-dir
  /healthz        liveness and uptime
  /livereload     WebSocket reload notifications (with --watch)

With --watch, changes under --dir invalidate cached responses and every
open page reloads itself.`,
		Example: `  # Serve the current directory on :8080
  exseq serve

  # Serve a generated site with live reload
  exseq serve --dir site --watch

  # Allow another origin to fetch the manifest
  exseq serve --cors-origins http://localhost:3000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := parseConfig(cmd, app.Settings())
			if err != nil {
				return err
			}

			logger := app.Logger()
			logger.Info().
				Str("addr", cfg.Addr).
				Str("dir", cfg.Dir).
				Str("csv_dir", cfg.CSVDir).
				Bool("watch", cfg.Watch).
				Bool("cors", cfg.CORSEnabled).
				Dur("cache_ttl", cfg.CacheTTL).
				Msg("Starting preview server")

			srv, err := server.New(cfg, logger)
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringP("dir", "d", "", "Site directory (default: configured site_dir)")
	cmd.Flags().String("addr", "", fmt.Sprintf("Listen address (default: configured serve_addr, else %s)", constants.DefaultServeAddr))
	cmd.Flags().String("csv-dir", "", fmt.Sprintf("CSV directory relative to --dir (default: configured csv_dir, else %s)", constants.DefaultCSVDir))
	cmd.Flags().BoolP("watch", "w", false, "Watch --dir and live-reload open pages")

	cmd.Flags().Bool("cors", false, "Enable CORS for all origins")
	cmd.Flags().StringSlice("cors-origins", []string{}, "Allowed CORS origins (comma-separated)")

	cmd.Flags().Duration("cache-ttl", defaults.CacheTTL, "How long API responses are cached")
	cmd.Flags().Duration("write-timeout", defaults.WriteTimeout, "HTTP write timeout")
	cmd.Flags().Duration("idle-timeout", defaults.IdleTimeout, "HTTP idle timeout")
	cmd.Flags().Duration("shutdown-timeout", defaults.ShutdownTimeout, "Grace period for open connections on shutdown")

	return cmd
}

// parseConfig merges flags over the configured settings.
func parseConfig(cmd *cobra.Command, settings appcontext.Settings) (server.Config, error) {
	cfg := server.DefaultConfig()
	if settings.SiteDir != "" {
		cfg.Dir = settings.SiteDir
	}
	if settings.ServeAddr != "" {
		cfg.Addr = settings.ServeAddr
	}
	if settings.CSVDir != "" {
		cfg.CSVDir = settings.CSVDir
	}

	flags := cmd.Flags()
	if v, _ := flags.GetString("dir"); v != "" {
		cfg.Dir = v
	}
	if v, _ := flags.GetString("addr"); v != "" {
		cfg.Addr = v
	}
	if v, _ := flags.GetString("csv-dir"); v != "" {
		cfg.CSVDir = v
	}
	cfg.Watch, _ = flags.GetBool("watch")

	cfg.CORSEnabled, _ = flags.GetBool("cors")
	cfg.CORSOrigins, _ = flags.GetStringSlice("cors-origins")
	if len(cfg.CORSOrigins) > 0 {
		cfg.CORSEnabled = true
	}

	var err error
	durations := []struct {
		name string
		dst  *time.Duration
	}{
		{"cache-ttl", &cfg.CacheTTL},
		{"write-timeout", &cfg.WriteTimeout},
		{"idle-timeout", &cfg.IdleTimeout},
		{"shutdown-timeout", &cfg.ShutdownTimeout},
	}
	for _, d := range durations {
		if *d.dst, err = flags.GetDuration(d.name); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}
