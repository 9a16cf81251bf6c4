package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in   string
		want slog.Level
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: " INFO ", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "", want: slog.LevelWarn},
		{in: "verbose", want: slog.LevelWarn},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, ParseLevel(tc.in), tc.in)
	}
}

func TestNewJSONLoggerFiltersByLevel(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	logger := New("info", FormatJSON, &out)

	logger.Debug("hidden")
	logger.Info("account switched", slog.String("backend_url", "https://a.example.com"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &record))
	assert.Equal(t, "account switched", record["msg"])
	assert.Equal(t, "https://a.example.com", record["backend_url"])
}

func TestNewDefaultsToText(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	New("debug", "yaml", &out).Debug("hello")
	assert.Contains(t, out.String(), "msg=hello")
}
