package server

import (
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/agentstation/exseq/internal/server/middleware"
	"github.com/agentstation/exseq/internal/server/response"
	"github.com/agentstation/exseq/pkg/manifest"
)

// Routes served besides the static site.
const (
	RouteHealth     = "/healthz"
	RouteManifest   = "/api/manifest"
	RouteLiveReload = "/livereload"
)

const manifestCacheKey = "manifest"

// reloadScript reconnects to the live reload socket and reloads the page on
// every change notification.
const reloadScript = `<script>(function(){` +
	`var p=location.protocol==="https:"?"wss:":"ws:";` +
	`var s=new WebSocket(p+"//"+location.host+"` + RouteLiveReload + `");` +
	`s.onmessage=function(e){if(JSON.parse(e.data).type==="reload"){location.reload();}};` +
	`})();</script>`

func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET "+RouteHealth, s.handleHealth)
	mux.HandleFunc("GET "+RouteManifest, s.handleManifest)
	if s.cfg.Watch {
		mux.Handle("GET "+RouteLiveReload, s.hub)
	}
	mux.Handle("/", s.staticHandler())

	chain := []func(http.Handler) http.Handler{
		middleware.Recovery(s.logger),
		middleware.Logger(s.logger),
	}
	if s.cfg.CORSEnabled {
		cors := middleware.DefaultCORSConfig()
		if len(s.cfg.CORSOrigins) > 0 {
			cors.AllowedOrigins = s.cfg.CORSOrigins
		} else {
			cors.AllowAll = true
		}
		chain = append(chain, middleware.CORS(cors))
	}
	return middleware.Chain(chain...)(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":         "healthy",
		"service":        "exseq-preview",
		"uptime_seconds": int64(s.Uptime() / time.Second),
		"watch":          s.cfg.Watch,
		"clients":        s.hub.ClientCount(),
	})
}

// handleManifest lists the CSV directory the way manifest.json does, with
// paths relative to the site root.
func (s *Server) handleManifest(w http.ResponseWriter, _ *http.Request) {
	v, _, err := s.cache.GetOrLoad(manifestCacheKey, func() (any, error) {
		entries, err := manifest.Build(filepath.Join(s.cfg.Dir, s.cfg.CSVDir))
		if err != nil {
			return nil, err
		}
		prefix := filepath.ToSlash(s.cfg.CSVDir)
		for i := range entries {
			entries[i].Path = path.Join(prefix, path.Base(entries[i].Path))
		}
		return entries, nil
	})
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, v)
}

// staticHandler serves the site. With watching on, HTML pages get the live
// reload script injected and are never cached by the browser.
func (s *Server) staticHandler() http.Handler {
	files := http.FileServer(http.Dir(s.cfg.Dir))
	if !s.cfg.Watch {
		return files
	}

	root := os.DirFS(s.cfg.Dir)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Path
		if strings.HasSuffix(name, "/") {
			name += "index.html"
		}
		if path.Ext(name) != ".html" {
			files.ServeHTTP(w, r)
			return
		}

		data, err := fs.ReadFile(root, strings.TrimPrefix(path.Clean(name), "/"))
		if err != nil {
			files.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(InjectReload(data))
	})
}

// InjectReload inserts the live reload script before the closing body tag,
// or appends it when there is none.
func InjectReload(page []byte) []byte {
	i := lastIndexASCIIFold(page, closeBody)
	if i < 0 {
		return append(append([]byte{}, page...), reloadScript...)
	}
	out := make([]byte, 0, len(page)+len(reloadScript))
	out = append(out, page[:i]...)
	out = append(out, reloadScript...)
	return append(out, page[i:]...)
}

const closeBody = "</body>"

// lastIndexASCIIFold is bytes.LastIndex with ASCII case folding. Offsets are
// into page itself; non-ASCII bytes only ever match themselves.
func lastIndexASCIIFold(page []byte, lower string) int {
	for i := len(page) - len(lower); i >= 0; i-- {
		if equalASCIIFold(page[i:i+len(lower)], lower) {
			return i
		}
	}
	return -1
}

func equalASCIIFold(b []byte, lower string) bool {
	for j := range len(lower) {
		c := b[j]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != lower[j] {
			return false
		}
	}
	return true
}
