package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"  debug  ", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.name); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSetup_TextOutput(t *testing.T) {
	var buf bytes.Buffer
	log := Setup("info", false, &buf)

	log.Info("camera ready", "type", "mock")

	out := buf.String()
	if !strings.Contains(out, "camera ready") {
		t.Errorf("output missing message: %q", out)
	}
	if !strings.Contains(out, "type=mock") {
		t.Errorf("output missing attribute: %q", out)
	}
}

func TestSetup_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := Setup("warn", false, &buf)

	log.Info("should be dropped")
	log.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be dropped") {
		t.Errorf("info record not filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Errorf("warn record missing: %q", out)
	}
}

func TestSetup_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := Setup("debug", true, &buf)

	log.Debug("low disk", "free_mb", 12)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal JSON record: %v (raw: %q)", err, buf.String())
	}
	if rec["msg"] != "low disk" {
		t.Errorf("msg = %v, want \"low disk\"", rec["msg"])
	}
	if rec["level"] != "DEBUG" {
		t.Errorf("level = %v, want DEBUG", rec["level"])
	}
}

func TestSetup_InstallsDefault(t *testing.T) {
	var buf bytes.Buffer
	Setup("info", false, &buf)

	slog.Info("through the default")

	if !strings.Contains(buf.String(), "through the default") {
		t.Errorf("slog default not installed, output: %q", buf.String())
	}
}
