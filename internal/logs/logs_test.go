package logs

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewFanout(t *testing.T) {
	var buf bytes.Buffer
	file := filepath.Join(t.TempDir(), "spajson.log")

	logger, closeLog, err := New(Config{Writer: &buf, Level: slog.LevelDebug, File: file})
	require.NoError(t, err)
	logger.Debug("skipping unknown key", "path", "$.a")
	require.NoError(t, closeLog())

	require.Contains(t, buf.String(), `msg="skipping unknown key" path=$.a`)

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &rec))
	require.Equal(t, "skipping unknown key", rec["msg"])
	require.Equal(t, "$.a", rec["path"])
}

func TestNewLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(Config{Writer: &buf})
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")

	_, _, err = New(Config{File: filepath.Join(t.TempDir(), "missing", "x.log")})
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("debug")
	require.NoError(t, err)
	require.Equal(t, slog.LevelDebug, l)

	l, err = ParseLevel("WARN")
	require.NoError(t, err)
	require.Equal(t, slog.LevelWarn, l)

	_, err = ParseLevel("loud")
	require.Error(t, err)
}

func TestToJournalKey(t *testing.T) {
	require.Equal(t, "NODE_NAME", toJournalKey("node.name"))
	require.Equal(t, "PATH", toJournalKey("path"))
}
