package main

import (
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestParseSlogLevel(t *testing.T) {
	cases := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "", want: slog.LevelInfo},
		{in: "info", want: slog.LevelInfo},
		{in: "DEBUG", want: slog.LevelDebug},
		{in: " warn ", want: slog.LevelWarn},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "verbose", wantErr: true},
	}
	for _, tc := range cases {
		got, err := parseSlogLevel(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("parseSlogLevel(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("parseSlogLevel(%q) = %v, %v", tc.in, got, err)
		}
	}
}

func TestNewLoggerFromConfigRejectsUnknownFormat(t *testing.T) {
	if _, err := newLoggerFromConfig(loggerConfig{Format: "xml"}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestViperDefaults(t *testing.T) {
	initViperDefaults()

	if got := viper.GetDuration("ratelimit.message_interval"); got != 800*time.Millisecond {
		t.Fatalf("ratelimit.message_interval = %v", got)
	}
	if got := viper.GetDuration("ratelimit.action_interval"); got != 300*time.Millisecond {
		t.Fatalf("ratelimit.action_interval = %v", got)
	}
	if got := viper.GetFloat64("knowledge.match_threshold"); got != 0.63 {
		t.Fatalf("knowledge.match_threshold = %v", got)
	}
	if got := viper.GetString("telegram.mode"); got != "polling" {
		t.Fatalf("telegram.mode = %q", got)
	}
}
