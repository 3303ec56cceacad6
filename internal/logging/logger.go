package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options selects the level and format of the process logger.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // json or console
	AppEnv string
}

// New constructs a zerolog logger. Unknown levels fall back to info.
func New(opts Options, out io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level))); err == nil && parsed != zerolog.NoLevel {
		level = parsed
	}

	if out == nil {
		out = os.Stdout
	}
	if strings.ToLower(strings.TrimSpace(opts.Format)) == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("app", "shareit").
		Str("env", opts.AppEnv).
		Logger()
}
