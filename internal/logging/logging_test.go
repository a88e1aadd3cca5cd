package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/chaisql/sqlfixture/internal/logging"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw  string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{" DEBUG ", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"info", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, test := range tests {
		t.Run(test.raw, func(t *testing.T) {
			require.Equal(t, test.want, logging.ParseLevel(test.raw))
		})
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: "warn", Output: &buf})

	logger.Info("hidden")
	logger.Warn("table not seeded", zap.String("table", "books"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "warn", entry["level"])
	require.Equal(t, "table not seeded", entry["message"])
	require.Equal(t, "books", entry["table"])
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: "debug", Format: logging.FormatConsole, Output: &buf})

	logger.Debug("running query")
	require.Contains(t, buf.String(), "DEBUG")
	require.Contains(t, buf.String(), "running query")
}
