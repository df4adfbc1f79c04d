package app

import (
	"io"
	"log/slog"
	"strings"
)

// Logger adapts slog to the Debug/Info/Error ports used across the app.
type Logger struct {
	l *slog.Logger
}

// NewLogger writes text records at or above level ("debug", "info", "warn",
// "error"; unknown values mean info) to w.
func NewLogger(w io.Writer, level string) *Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	return &Logger{l: slog.New(h)}
}

func parseLevel(s string) slog.Level {
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

func (l *Logger) Debug(msg string) { l.l.Debug(msg) }
func (l *Logger) Info(msg string)  { l.l.Info(msg) }
func (l *Logger) Warn(msg string)  { l.l.Warn(msg) }
func (l *Logger) Error(msg string) { l.l.Error(msg) }

// With returns a logger that adds attrs to every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{l: l.l.With(args...)}
}

// Slog exposes the underlying logger, e.g. for http.Server.ErrorLog.
func (l *Logger) Slog() *slog.Logger {
	return l.l
}
