package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level string
		debug bool
		want  zerolog.Level
	}{
		{"debug", false, zerolog.DebugLevel},
		{"info", false, zerolog.InfoLevel},
		{"WARN", false, zerolog.WarnLevel},
		{"warning", false, zerolog.WarnLevel},
		{"error", false, zerolog.ErrorLevel},
		{"", false, zerolog.InfoLevel},
		{"bogus", false, zerolog.InfoLevel},
		{"error", true, zerolog.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := ParseLevel(tt.level, tt.debug); got != tt.want {
				t.Errorf("ParseLevel(%q, %v) = %v, want %v", tt.level, tt.debug, got, tt.want)
			}
		})
	}
}

func TestNew_Component(t *testing.T) {
	var buf bytes.Buffer
	logger := Component(New(&buf, zerolog.InfoLevel), "downloader")

	logger.Debug().Msg("hidden")
	logger.Info().Str("track", "aurora").Msg("Downloaded")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["component"] != "downloader" || entry["track"] != "aurora" || entry["message"] != "Downloaded" {
		t.Errorf("entry = %v", entry)
	}
	if _, ok := entry["time"]; !ok {
		t.Error("entry has no timestamp")
	}
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "fomu.log")

	logger, closer, err := NewFile(path, zerolog.DebugLevel)
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}
	logger.Info().Msg("hello")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"message":"hello"`) {
		t.Errorf("log file = %q", data)
	}
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	NewConsole(&buf, zerolog.InfoLevel).Warn().Msg("Retry 1 for aurora")

	if !strings.Contains(buf.String(), "Retry 1 for aurora") {
		t.Errorf("console output = %q", buf.String())
	}
}
