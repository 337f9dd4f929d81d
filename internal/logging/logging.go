// Package logging is the structured logging facade shared by the signer, the
// signature file client and the command line tool.
//
// Secrets (private scalars, nonces) are never logged. Code that wants to
// record that a secret took part in an operation attaches Redacted(key)
// instead of the value.
package logging

import (
	"context"
	"io"
	"log/slog"
)

// RedactedValue is logged in place of secret material.
const RedactedValue = "[redacted]"

// Logger is the context-aware subset of slog used in this module. Components
// derive a tagged child with With, e.g. With("component", "signer").
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	With(args ...any) Logger
}

// New wraps l. A nil l uses slog.Default().
func New(l *slog.Logger) Logger {
	if l == nil {
		l = slog.Default()
	}
	return handlerLogger{l: l}
}

// NewText returns a Logger writing slog text records at or above level to w.
func NewText(w io.Writer, level slog.Level) Logger {
	return New(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return New(slog.New(discardHandler{}))
}

type handlerLogger struct {
	l *slog.Logger
}

func (h handlerLogger) Debug(ctx context.Context, msg string, args ...any) {
	h.l.Log(ctx, slog.LevelDebug, msg, args...)
}

func (h handlerLogger) Info(ctx context.Context, msg string, args ...any) {
	h.l.Log(ctx, slog.LevelInfo, msg, args...)
}

func (h handlerLogger) Warn(ctx context.Context, msg string, args ...any) {
	h.l.Log(ctx, slog.LevelWarn, msg, args...)
}

func (h handlerLogger) Error(ctx context.Context, msg string, args ...any) {
	h.l.Log(ctx, slog.LevelError, msg, args...)
}

func (h handlerLogger) With(args ...any) Logger {
	return handlerLogger{l: h.l.With(args...)}
}

// Redacted returns an attribute recording that key was withheld.
func Redacted(key string) slog.Attr {
	return slog.String(key, RedactedValue)
}

// discardHandler drops every record without formatting it.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }
