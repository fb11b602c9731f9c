// Package logging defines the structured-logging interface used across the
// client and the adapters that back it (log/slog and zerolog).
package logging

import (
	"context"
	"io"
	"os"
	"strings"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "login succeeded", "user_id", id)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Format selects the logger backend.
type Format string

const (
	FormatText    Format = "text"
	FormatJSON    Format = "json"
	FormatZerolog Format = "zerolog"
)

// Level is a backend-neutral log level.
type Level int

const (
	LevelDebug Level = iota - 1
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel converts "debug", "info", "warn"/"warning" and "error" to a
// Level. Anything else yields LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Options controls New.
type Options struct {
	Format Format
	Level  string
	// Output defaults to os.Stderr so log lines do not interleave with the REPL.
	Output io.Writer
}

// New builds a Logger for the requested format.
func New(opts Options) Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	lvl := ParseLevel(opts.Level)

	switch opts.Format {
	case FormatZerolog:
		return NewZerologLogger(out, lvl)
	case FormatJSON:
		return NewSlogJSONLogger(out, lvl)
	default:
		return NewSlogTextLogger(out, lvl)
	}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return NewSlogTextLogger(io.Discard, LevelError)
}
