package serve

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/exseq/internal/appcontext"
	"github.com/agentstation/exseq/pkg/errors"
)

func TestParseConfig(t *testing.T) {
	cmd := NewCommand(&appcontext.Mock{})
	require.NoError(t, cmd.ParseFlags([]string{"--dir", "site", "--cors-origins", "http://a.test", "--cache-ttl", "5s", "-w"}))

	cfg, err := parseConfig(cmd, appcontext.Settings{SiteDir: "ignored", ServeAddr: ":9999", CSVDir: "tables"})
	require.NoError(t, err)
	assert.Equal(t, "site", cfg.Dir)
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, "tables", cfg.CSVDir)
	assert.True(t, cfg.Watch)
	assert.True(t, cfg.CORSEnabled, "origins imply CORS")
	assert.Equal(t, []string{"http://a.test"}, cfg.CORSOrigins)
	assert.Equal(t, 5*time.Second, cfg.CacheTTL)
}

func TestServe_MissingDir(t *testing.T) {
	cmd := NewCommand(&appcontext.Mock{})
	cmd.SetArgs([]string{"--dir", filepath.Join(t.TempDir(), "missing"), "--addr", "127.0.0.1:0"})
	cmd.SetOut(&bytes.Buffer{})

	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestServe_StopsWithContext(t *testing.T) {
	// The server logs from several goroutines.
	var buf bytes.Buffer
	logger := zerolog.New(zerolog.SyncWriter(&buf))
	mock := &appcontext.Mock{LoggerFunc: func() *zerolog.Logger { return &logger }}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := NewCommand(mock)
	cmd.SetArgs([]string{"--dir", t.TempDir(), "--addr", "127.0.0.1:0", "--shutdown-timeout", "1s"})
	require.NoError(t, cmd.ExecuteContext(ctx))
	assert.Contains(t, buf.String(), "Starting preview server")
	assert.Contains(t, buf.String(), "Shutting down preview server")
}
