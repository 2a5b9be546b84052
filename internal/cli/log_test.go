package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		want  string
	}{
		{"Info", LogInfo, "exported graph"},
		{"Debug", LogDebug, "schedule failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			logger.Debug("schedule failed", "graph", "loop")
			logger.Info("exported graph", "graph", "loop")

			out := buf.String()
			if !strings.Contains(out, tt.want) {
				t.Errorf("output %q missing %q", out, tt.want)
			}
			if tt.level == LogInfo && strings.Contains(out, "schedule failed") {
				t.Errorf("debug message logged at info level: %q", out)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, LogInfo)).done("Dumped loop.toml")

	out := buf.String()
	if !strings.Contains(out, "Dumped loop.toml (") || !strings.Contains(out, "s)") {
		t.Errorf("done() output = %q, want message with elapsed time", out)
	}
}

func TestLoggerFromContext(t *testing.T) {
	custom := newLogger(&bytes.Buffer{}, LogDebug)
	tests := []struct {
		name string
		ctx  context.Context
		want *log.Logger
	}{
		{"NilContext", nil, log.Default()},
		{"NoLogger", context.Background(), log.Default()},
		{"Attached", withLogger(context.Background(), custom), custom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := loggerFromContext(tt.ctx); got != tt.want {
				t.Errorf("loggerFromContext() = %p, want %p", got, tt.want)
			}
		})
	}
}
