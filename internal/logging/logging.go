// Package logging sets up scrapex's zerolog.Logger from configuration,
// the structured-logging counterpart to the source system's
// Logger.warning/2-style calls referenced throughout spec.md §7.
package logging

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Config is the subset of internal/config's LoggingConfig this package
// needs, kept local so internal/logging does not depend on
// internal/config.
type Config struct {
	Level  string
	Pretty bool
}

// New builds a zerolog.Logger writing to stderr, pretty-printed if
// cfg.Pretty is set (useful at a terminal; production deployments want
// the default JSON lines).
func New(cfg Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	if cfg.Pretty {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
			With().Timestamp().Logger().Level(level)
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger().Level(level)
}
