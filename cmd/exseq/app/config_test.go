package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/exseq/pkg/constants"
	"github.com/agentstation/exseq/pkg/errors"
)

// chdir moves into an empty directory so no stray .exseq.yaml or .env is read.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t)

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, constants.DefaultCSVDir, config.CSVDir)
	assert.Equal(t, ".", config.SiteDir)
	assert.Equal(t, constants.DefaultServeAddr, config.ServeAddr)
	assert.Equal(t, uint64(constants.DefaultSeed), config.Seed)
	assert.Equal(t, "auto", config.LogFormat)
	assert.Empty(t, config.SamplesFile)
	assert.Empty(t, config.ConfigFile)
}

func TestLoadConfig_Environment(t *testing.T) {
	chdir(t)
	t.Setenv("EXSEQ_SAMPLES_FILE", "samples.yaml")
	t.Setenv("EXSEQ_OUTPUT_DIR", "/data/out")
	t.Setenv("EXSEQ_SEED", "7")
	t.Setenv("EXSEQ_VERBOSE", "true")
	t.Setenv("LOG_LEVEL", "error")

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "samples.yaml", config.SamplesFile)
	assert.Equal(t, "/data/out", config.OutputDir)
	assert.Equal(t, uint64(7), config.Seed)
	assert.True(t, config.Verbose)
	assert.Equal(t, "error", config.EnvLogLevel)
	assert.Empty(t, config.LogLevel, "LOG_LEVEL must not masquerade as --log-level")
}

func TestLoadConfig_File(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".exseq.yaml"),
		[]byte("site_dir: site\nplotly_version: 2.27.0\ncell_typing_dir: /ct\n"), 0o644))

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "site", config.SiteDir)
	assert.Equal(t, "2.27.0", config.PlotlyVersion)
	assert.Equal(t, "/ct", config.CellTypingDir)
	assert.Equal(t, ".exseq.yaml", filepath.Base(config.ConfigFile))

	t.Setenv("EXSEQ_SITE_DIR", "from-env")
	config, err = LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "from-env", config.SiteDir, "environment beats the config file")
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("EXSEQ_CSV_DIR=from-dotenv\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("EXSEQ_CSV_DIR=from-local\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("EXSEQ_CSV_DIR") })

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "from-local", config.CSVDir)
}

func TestLoadConfig_ExplicitFileMissing(t *testing.T) {
	dir := chdir(t)

	_, err := LoadConfig(filepath.Join(dir, "nope.yaml"))
	require.Error(t, err)
	var cfgErr *errors.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestUpdateFromFlags(t *testing.T) {
	config := &Config{Format: "yaml", Quiet: true}
	config.UpdateFromFlags(true, false, true, "", "debug")

	assert.True(t, config.Verbose)
	assert.True(t, config.Quiet, "a config-file quiet stays on")
	assert.True(t, config.NoColor)
	assert.Equal(t, "yaml", config.Format, "empty flag keeps the configured format")
	assert.Equal(t, "debug", config.LogLevel)

	config.UpdateFromFlags(false, false, false, "json", "")
	assert.Equal(t, "json", config.Format)
	assert.Equal(t, "debug", config.LogLevel)
}
