// Package logging configures the process-wide zerolog logger. Diagnostics go
// to stderr so that stdout stays reserved for agent output and tool results.
package logging

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init sets up the global logger for the named binary and returns it.
// level accepts zerolog level names (trace, debug, info, warn, error);
// anything unrecognized falls back to info.
func Init(app, level string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	logger := zerolog.New(output).
		Level(parseLevel(level)).
		With().Timestamp().Str("app", app).
		Logger()
	log.Logger = logger
	return logger
}

func parseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
