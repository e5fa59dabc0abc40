package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		expected string
		warning  string
	}{
		{name: "default", config: Config{}, expected: "info"},
		{name: "env", config: Config{EnvLogLevel: "error"}, expected: "error"},
		{name: "invalid env", config: Config{EnvLogLevel: "loud"}, expected: "info"},
		{name: "verbose beats env", config: Config{Verbose: true, EnvLogLevel: "error"}, expected: "debug"},
		{name: "quiet", config: Config{Quiet: true}, expected: "warn"},
		{name: "verbose and quiet", config: Config{Verbose: true, Quiet: true}, expected: "warn", warning: "both --verbose and --quiet"},
		{name: "flag beats shortcuts", config: Config{LogLevel: "trace", Quiet: true}, expected: "trace"},
		{name: "flag is case insensitive", config: Config{LogLevel: "DEBUG"}, expected: "debug"},
		{name: "invalid flag", config: Config{LogLevel: "chatty"}, expected: "info", warning: `invalid log level "chatty"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var warn bytes.Buffer
			assert.Equal(t, tt.expected, determineLogLevel(&tt.config, &warn))
			if tt.warning == "" {
				assert.Empty(t, warn.String())
			} else {
				assert.Contains(t, warn.String(), tt.warning)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	logger := NewLogger(&Config{Quiet: true, LogFormat: "json", LogOutput: "discard"})
	assert.Equal(t, "warn", logger.GetLevel().String())
}
