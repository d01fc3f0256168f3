// Package log provides the structured logger used across this module. It is
// a thin wrapper around log/slog, in the shape the go-ethereum log package
// itself has taken since moving off log15: a Logger that carries a fixed set
// of key-value pairs and exposes leveled methods that accept more of the
// same.
package log

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps an slog.Logger and is safe to embed in long-lived components
// such as a subscription driver, where New is called once with identifying
// context (stream_id, session id, ...) and every subsequent call site only
// adds the fields specific to that line.
type Logger struct {
	inner *slog.Logger
}

var root = Logger{inner: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))}

// SetDefault replaces the package-level root logger, e.g. to swap in a JSON
// handler for production or a discard handler in tests.
func SetDefault(l Logger) {
	root = l
}

// New returns a logger with an slog.Handler and carries no preset fields.
func New(handler slog.Handler) Logger {
	return Logger{inner: slog.New(handler)}
}

// With returns a derived logger that always includes ctx as a prefix to
// every subsequent call's key-value pairs.
func (l Logger) With(ctx ...any) Logger {
	return Logger{inner: l.inner.With(ctx...)}
}

func (l Logger) Debug(msg string, ctx ...any) { l.inner.Debug(msg, ctx...) }
func (l Logger) Info(msg string, ctx ...any)  { l.inner.Info(msg, ctx...) }
func (l Logger) Warn(msg string, ctx ...any)  { l.inner.Warn(msg, ctx...) }
func (l Logger) Error(msg string, ctx ...any) { l.inner.Error(msg, ctx...) }

// Package-level helpers delegate to the root logger, mirroring the
// log.Info(...)-style call sites used throughout the teacher tree.
func Debug(msg string, ctx ...any) { root.Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { root.Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { root.Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { root.Error(msg, ctx...) }

// With returns a derived logger from the package root.
func With(ctx ...any) Logger {
	return root.With(ctx...)
}

// Discard returns a logger that drops everything, used to silence logging
// in unit tests that exercise error paths on purpose.
func Discard() Logger {
	return Logger{inner: slog.New(slog.NewTextHandler(discardWriter{}, &slog.HandlerOptions{Level: slog.LevelError + 1}))}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// NewContext attaches l to ctx so that deeply nested calls (e.g. inside a
// BatchProducer implementation) can recover the subscription's logger
// without threading it through every function signature.
func NewContext(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// FromContext recovers a logger attached with NewContext, or the package
// root logger if none was attached.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey{}).(Logger); ok {
		return l
	}
	return root
}

type loggerKey struct{}
