// Package logging provides structured logging for nbctx using zerolog.
// Human-readable console output is used when stderr is a terminal and
// structured JSON otherwise, so the same binary works interactively and
// from CI pipelines.
//
// Commands carry their logger in the context. Packages without one,
// such as the HTTP transport, log through the default logger, which the
// CLI replaces once flags are parsed.
package logging

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// defaultLogger serves until the CLI installs its configured logger.
var defaultLogger = NewLoggerFromConfig(envConfig())

// envConfig reads LOG_LEVEL and LOG_FORMAT, the only settings known
// before the command line is parsed.
func envConfig() *Config {
	cfg := DefaultConfig()
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Level = level
	} else if os.Getenv("DEBUG") != "" {
		cfg.Level = "debug"
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		cfg.Format = format
	}
	return cfg
}

// Default returns the default global logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault sets the default global logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// Warn starts a new warning level event on the default logger.
func Warn() *zerolog.Event {
	return defaultLogger.Warn()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
