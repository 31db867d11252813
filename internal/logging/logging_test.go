package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"WARN":    zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"off":     zerolog.Disabled,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var console, file bytes.Buffer
	log := New("warn", &console, &file)

	log.Info().Msg("hidden")
	log.Warn().Str("source", "gravity").Msg("sensor missing")

	for name, buf := range map[string]*bytes.Buffer{"console": &console, "file": &file} {
		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Errorf("%s: info line should be filtered: %q", name, out)
		}
		if !strings.Contains(out, "sensor missing") || !strings.Contains(out, "gravity") {
			t.Errorf("%s: expected warn line, got %q", name, out)
		}
	}
	if strings.Contains(file.String(), "\x1b[") {
		t.Error("file output should not contain color codes")
	}
}

func TestFilePath(t *testing.T) {
	at := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)
	got := FilePath("logs", "live", at)
	if !strings.HasSuffix(got, "live.20261017_093000.log") {
		t.Errorf("unexpected path %s", got)
	}
}
