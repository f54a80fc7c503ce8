// Package server serves a generated visualization site for local preview,
// with an optional file watcher that live-reloads open pages.
package server

import (
	"context"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/agentstation/exseq/internal/server/cache"
	ws "github.com/agentstation/exseq/internal/server/websocket"
	"github.com/agentstation/exseq/pkg/errors"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	cfg       Config
	logger    *zerolog.Logger
	cache     *cache.Cache
	hub       *ws.Hub
	startTime time.Time
}

// New creates a server for cfg.Dir, which must exist.
func New(cfg Config, logger *zerolog.Logger) (*Server, error) {
	defaults := DefaultConfig()
	if cfg.Dir == "" {
		cfg.Dir = defaults.Dir
	}
	if cfg.Addr == "" {
		cfg.Addr = defaults.Addr
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = defaults.CacheTTL
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if cfg.ReadHeaderTimeout == 0 {
		cfg.ReadHeaderTimeout = defaults.ReadHeaderTimeout
	}

	info, err := os.Stat(cfg.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.NewNotFoundError("site directory", cfg.Dir, err)
		}
		return nil, errors.WrapIO("stat", cfg.Dir, err)
	}
	if !info.IsDir() {
		return nil, errors.NewValidationError("dir", cfg.Dir, "not a directory")
	}

	return &Server{
		cfg:       cfg,
		logger:    logger,
		cache:     cache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		hub:       ws.NewHub(logger),
		startTime: time.Now(),
	}, nil
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Run listens on cfg.Addr and serves until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return errors.WrapIO("listen", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled, then shuts down
// gracefully within cfg.ShutdownTimeout. The watcher and live reload hub
// run alongside when cfg.Watch is set.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       s.cfg.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.hub.Run(gctx)
		return nil
	})

	if s.cfg.Watch {
		w, err := newWatcher(s.cfg.Dir, s.logger, s.onChange)
		if err != nil {
			_ = ln.Close()
			return err
		}
		g.Go(func() error { return w.run(gctx) })
	}

	g.Go(func() error {
		s.logger.Info().
			Str("addr", ln.Addr().String()).
			Str("dir", s.cfg.Dir).
			Bool("watch", s.cfg.Watch).
			Msg("Preview server listening")
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.WrapIO("serve", ln.Addr().String(), err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info().Msg("Shutting down preview server")

		// The parent context is already done.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return errors.WrapIO("shutdown", ln.Addr().String(), err)
		}
		s.logger.Info().Msg("Preview server stopped gracefully")
		return nil
	})

	return g.Wait()
}

// onChange drops cached API responses and tells pages to reload.
func (s *Server) onChange(paths []string) {
	s.cache.Clear()
	s.hub.Reload(paths...)
	s.logger.Info().Strs("paths", paths).Int("clients", s.hub.ClientCount()).Msg("Site changed, reloading clients")
}

// Uptime returns how long the server has existed.
func (s *Server) Uptime() time.Duration {
	return time.Since(s.startTime)
}
