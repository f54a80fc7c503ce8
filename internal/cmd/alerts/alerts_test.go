package alerts

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/exseq/internal/cmd/emoji"
	"github.com/agentstation/exseq/internal/cmd/output"
)

func TestLevel(t *testing.T) {
	assert.Equal(t, "warning", LevelWarning.String())
	assert.Equal(t, emoji.Success, LevelSuccess.Icon())
	assert.Equal(t, emoji.Info, LevelInfo.Icon())
	assert.Equal(t, "unknown(9)", Level(9).String())
}

func TestWriteAlert_Plain(t *testing.T) {
	var buf bytes.Buffer
	alert := NewWarning("No CSV files found").
		WithError(errors.New("empty directory")).
		WithDetails("data/csvs")

	require.NoError(t, NewFormatWriter(&buf, output.FormatTable).WriteAlert(alert))
	assert.Equal(t, emoji.Warning+" No CSV files found: empty directory\n   data/csvs\n", buf.String())
}

func TestWriteAlert_JSON(t *testing.T) {
	var buf bytes.Buffer
	alert := NewSuccess("Wrote manifest").WithDetails("3 files")

	require.NoError(t, NewFormatWriter(&buf, output.FormatJSON).WithTimestamp().WriteAlert(alert))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "success", got["level"])
	assert.Equal(t, "Wrote manifest", got["message"])
	assert.Equal(t, []any{"3 files"}, got["details"])
	assert.NotEmpty(t, got["timestamp"])
	assert.NotContains(t, got, "error")
}
