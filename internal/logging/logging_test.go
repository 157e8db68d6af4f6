package logging

import (
	"bytes"
	"encoding/json"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Domenick1991/airfare/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreDefaults(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(prev)
		log.SetOutput(os.Stderr)
		log.SetFlags(log.LstdFlags)
	})
}

func TestNew_EmitsServiceFields(t *testing.T) {
	restoreDefaults(t)
	var buf bytes.Buffer

	logger := New("airfare-api", config.LogConfig{Level: "info", Env: "test"}, &buf)
	logger.Info("booking confirmed", "booking_id", 7)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "airfare-api", line["service"])
	assert.Equal(t, "test", line["env"])
	assert.Equal(t, "INFO", line["severity"])
	assert.Equal(t, "booking confirmed", line["message"])
	assert.EqualValues(t, 7, line["booking_id"])
	assert.Contains(t, line, "timestamp")
}

func TestNew_BridgesStdLog(t *testing.T) {
	restoreDefaults(t)
	var buf bytes.Buffer

	New("airfare-worker", config.LogConfig{}, &buf)
	log.Printf("legacy %s", "line")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "legacy line", line["message"])
	assert.Equal(t, "airfare-worker", line["service"])
}

func TestNew_LevelFilters(t *testing.T) {
	restoreDefaults(t)
	var buf bytes.Buffer

	logger := New("svc", config.LogConfig{Level: "warn"}, &buf)
	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestSetup_WritesRotatedFile(t *testing.T) {
	restoreDefaults(t)
	path := filepath.Join(t.TempDir(), "airfare.log")

	logger := Setup("svc", config.LogConfig{File: path, MaxSizeMB: 1})
	logger.Info("to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}
