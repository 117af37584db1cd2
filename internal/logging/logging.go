// Package logging builds the process-wide slog logger. Output goes to
// stdout and, when a file is configured, to a size-rotated log file.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures New.
type Options struct {
	Level     string // debug, info, warn, error
	JSON      bool   // JSON handler instead of text
	File      string // optional rotating log file
	MaxSizeMB int
}

// New returns a logger per opts. The returned closer flushes and closes the
// log file; it is a no-op when no file is configured.
func New(opts Options) (*slog.Logger, io.Closer) {
	return newLogger(os.Stdout, opts)
}

func newLogger(stdout io.Writer, opts Options) (*slog.Logger, io.Closer) {
	var out io.Writer = stdout
	var closer io.Closer = nopCloser{}

	if opts.File != "" {
		size := opts.MaxSizeMB
		if size <= 0 {
			size = 10
		}
		file := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    size,
			MaxBackups: 5,
			MaxAge:     7,
			Compress:   true,
		}
		out = io.MultiWriter(stdout, file)
		closer = file
	}

	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}
	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(out, handlerOpts)
	} else {
		handler = slog.NewTextHandler(out, handlerOpts)
	}
	return slog.New(handler), closer
}

// ParseLevel maps a level name to a slog.Level. Unknown names mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
