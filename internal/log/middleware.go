package log

import (
	"context"
	"log/slog"
)

type contextKey string

const loggerContextKey contextKey = "logger"

// NewContext returns ctx carrying logger
func NewContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

// FromContext extracts the request logger, falling back to the default logger
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*Logger); ok {
		return logger
	}
	return &Logger{Logger: slog.Default(), component: ComponentApp}
}

// ForContext returns the request logger carried by ctx under l's component.
// Outside a request it returns l.
func (l *Logger) ForContext(ctx context.Context) *Logger {
	if reqLogger, ok := ctx.Value(loggerContextKey).(*Logger); ok {
		return reqLogger.WithComponent(l.component)
	}
	return l
}
