// Package logger wraps log/slog with request-ID-aware helpers shared by the
// HTTP layer and the background jobs.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// ContextKey is the type for context keys owned by this package.
type ContextKey string

// RequestIDKey carries the request ID assigned by the request-ID middleware.
const RequestIDKey ContextKey = "request_id"

var root *slog.Logger

// Init configures the process-wide logger. Output is JSON when LOG_FORMAT
// is "json" or ENV is "production", text otherwise.
func Init(level string) {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") || os.Getenv("ENV") == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	root = slog.New(handler)
	slog.SetDefault(root)
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Get returns the process-wide logger, initializing it at info level if
// Init was never called.
func Get() *slog.Logger {
	if root == nil {
		Init("info")
	}
	return root
}

// WithComponent returns a logger tagged with a component label.
func WithComponent(name string) *slog.Logger {
	return Get().With("component", name)
}

// fromContext attaches the request ID from ctx, when one is present.
func fromContext(ctx context.Context) *slog.Logger {
	l := Get()
	if id, ok := ctx.Value(RequestIDKey).(string); ok && id != "" {
		l = l.With("request_id", id)
	}
	return l
}

func Info(msg string, args ...any)  { Get().Info(msg, args...) }
func Warn(msg string, args ...any)  { Get().Warn(msg, args...) }
func Error(msg string, args ...any) { Get().Error(msg, args...) }

// The *Context variants tag the entry with the request ID, so one request's
// log lines can be correlated across packages.

func InfoContext(ctx context.Context, msg string, args ...any) {
	fromContext(ctx).Info(msg, args...)
}

func WarnContext(ctx context.Context, msg string, args ...any) {
	fromContext(ctx).Warn(msg, args...)
}

func ErrorContext(ctx context.Context, msg string, args ...any) {
	fromContext(ctx).Error(msg, args...)
}
