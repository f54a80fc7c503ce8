package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDefaultCORSConfig tests default CORS configuration.
func TestDefaultCORSConfig(t *testing.T) {
	config := DefaultCORSConfig()

	assert.False(t, config.AllowAll)
	assert.Equal(t, []string{"*"}, config.AllowedOrigins)
	assert.Equal(t, []string{"GET", "HEAD", "OPTIONS"}, config.AllowedMethods)
}

// TestCORS tests the CORS middleware with various scenarios.
func TestCORS(t *testing.T) {
	tests := []struct {
		name         string
		config       CORSConfig
		method       string
		origin       string
		wantOrigin   string
		wantVary     bool
		wantStatus   int
		reachHandler bool
	}{
		{
			name:         "allow all",
			config:       CORSConfig{AllowAll: true, AllowedMethods: []string{"GET"}},
			method:       "GET",
			origin:       "https://example.com",
			wantOrigin:   "*",
			wantStatus:   http.StatusOK,
			reachHandler: true,
		},
		{
			name:         "specific origin allowed",
			config:       CORSConfig{AllowedOrigins: []string{"https://example.com", "https://lab.example.org"}},
			method:       "GET",
			origin:       "https://lab.example.org",
			wantOrigin:   "https://lab.example.org",
			wantVary:     true,
			wantStatus:   http.StatusOK,
			reachHandler: true,
		},
		{
			name:         "origin not allowed",
			config:       CORSConfig{AllowedOrigins: []string{"https://example.com"}},
			method:       "GET",
			origin:       "https://evil.example",
			wantStatus:   http.StatusOK,
			reachHandler: true,
		},
		{
			name:         "empty allowed list means all",
			config:       CORSConfig{},
			method:       "GET",
			wantOrigin:   "*",
			wantStatus:   http.StatusOK,
			reachHandler: true,
		},
		{
			name:       "preflight",
			config:     DefaultCORSConfig(),
			method:     http.MethodOptions,
			origin:     "https://example.com",
			wantOrigin: "https://example.com",
			wantVary:   true,
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(tt.method, "/data/stats.json", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			CORS(tt.config)(handler).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.reachHandler, reached)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			if tt.wantVary {
				assert.Equal(t, "Origin", w.Header().Get("Vary"))
			}
			assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))
		})
	}
}

func TestIsOriginAllowed(t *testing.T) {
	tests := []struct {
		name    string
		origin  string
		allowed []string
		want    bool
	}{
		{"exact match", "https://example.com", []string{"https://example.com"}, true},
		{"no match", "https://other.com", []string{"https://example.com"}, false},
		{"wildcard", "https://any.com", []string{"*"}, true},
		{"second entry", "https://b.com", []string{"https://a.com", "https://b.com"}, true},
		{"empty list", "https://example.com", nil, false},
		{"case sensitive", "https://Example.com", []string{"https://example.com"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isOriginAllowed(tt.origin, tt.allowed))
		})
	}
}
