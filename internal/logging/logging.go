// Package logging provides the structured logger used across the renderer.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects the level, format and destination of a Logger.
type Options struct {
	Level  string // debug, info, warn or error
	Format string // json or text
	File   string // rotated log file; empty logs to stderr

	MaxSizeMB  int
	MaxBackups int
}

// Logger wraps slog.Logger. A nil *Logger is valid: debug and info
// messages are dropped, warnings and errors go to slog's default logger.
type Logger struct {
	*slog.Logger
	closer io.Closer
}

// ParseLevel maps a level name onto slog; unknown names yield info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// New builds a Logger writing to a rotated file or stderr.
func New(opts Options) *Logger {
	var (
		w      io.Writer = os.Stderr
		closer io.Closer
	)
	if opts.File != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB, // MB
			MaxBackups: opts.MaxBackups,
			Compress:   true,
		}
		if lj.MaxSize == 0 {
			lj.MaxSize = 32
		}
		w, closer = lj, lj
	}
	return NewWithWriter(w, opts, closer)
}

// NewWithWriter builds a Logger on an arbitrary writer.
func NewWithWriter(w io.Writer, opts Options, closer io.Closer) *Logger {
	ho := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}
	var h slog.Handler
	if strings.ToLower(opts.Format) == "text" {
		h = slog.NewTextHandler(w, ho)
	} else {
		h = slog.NewJSONHandler(w, ho)
	}
	return &Logger{Logger: slog.New(h), closer: closer}
}

func (l *Logger) Debug(msg string, args ...any) {
	if l != nil && l.Logger.Enabled(context.Background(), slog.LevelDebug) {
		l.Logger.Debug(msg, args...)
	}
}

func (l *Logger) Info(msg string, args ...any) {
	if l != nil && l.Logger.Enabled(context.Background(), slog.LevelInfo) {
		l.Logger.Info(msg, args...)
	}
}

func (l *Logger) Warn(msg string, args ...any) {
	if l == nil {
		slog.Warn(msg, args...)
	} else {
		l.Logger.Warn(msg, args...)
	}
}

func (l *Logger) Error(msg string, args ...any) {
	if l == nil {
		slog.Error(msg, args...)
	} else {
		l.Logger.Error(msg, args...)
	}
}

// With returns a Logger that adds args to every record. With on a nil
// Logger returns nil.
func (l *Logger) With(args ...any) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{Logger: l.Logger.With(args...), closer: l.closer}
}

// Close flushes and closes the rotated log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
