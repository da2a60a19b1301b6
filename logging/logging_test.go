package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		" warn ":  zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"verbose": zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New("warn", "json", &buf)
	log.Info("dropped")
	log.Warn("saved flowchart", zap.Int("blocks", 3))
	require.NoError(t, log.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "saved flowchart", entry["msg"])
	assert.Equal(t, float64(3), entry["blocks"])
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	log := New("debug", "text", &buf)
	log.Debug("rerouted", zap.String("block", "block-1"))

	out := buf.String()
	assert.Contains(t, out, "DEBUG")
	assert.Contains(t, out, "rerouted")
	assert.Contains(t, out, `"block": "block-1"`)
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowedit.log")
	log, closeFn, err := Open("info", "json", path)
	require.NoError(t, err)
	log.Info("hello")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)

	_, _, err = Open("info", "json", filepath.Join(t.TempDir(), "missing", "x.log"))
	assert.Error(t, err)
}
