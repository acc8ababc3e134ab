package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"trace": LevelTrace,
		"DEBUG": slog.LevelDebug,
		"":      slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"fatal": LevelFatal,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestJSONHandlerNamesCustomLevels(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(Options{Level: "trace", Format: "json", Output: &buf})
	require.NoError(t, err)
	defer closer()

	logger.Log(context.Background(), LevelTrace, "tokenizing", "table", "dict_words")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "TRACE", rec["level"])
	assert.Equal(t, "dict_words", rec["table"])
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(Options{Level: "warn", Output: &buf})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "trigdict.log")
	logger, closer, err := New(Options{File: path, Format: "json"})
	require.NoError(t, err)
	logger.Info("migration finished")
	require.NoError(t, closer())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "migration finished")
}

func TestForServiceAddsAttribute(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	var buf bytes.Buffer
	closer, err := Init(Options{Output: &buf})
	require.NoError(t, err)
	defer closer()

	ForService("migrate").Info("hello")
	assert.Contains(t, buf.String(), "service=migrate")

	_, _, err = New(Options{Format: "xml"})
	assert.Error(t, err)
}
