package obs

import (
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tc := range cases {
		if got := parseLevel(tc.in); got != tc.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNewLoggerHonorsEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	for _, env := range []string{"local", "prod"} {
		logger := NewLogger(env)
		if logger.Enabled(nil, slog.LevelWarn) {
			t.Errorf("env %q: warn enabled despite LOG_LEVEL=error", env)
		}
		if !logger.Enabled(nil, slog.LevelError) {
			t.Errorf("env %q: error level disabled", env)
		}
	}
}
