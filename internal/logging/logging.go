// Package logging passes request-scoped loggers through context so the
// service and storage layers can annotate records without threading a logger
// argument through every call.
package logging

import (
	"context"
	"log/slog"
)

type loggerKey struct{}

// ContextWithLogger stores logger in ctx. Nil arguments leave the context
// untouched so call sites need no guards.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if ctx == nil || logger == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger stored by ContextWithLogger, or nil when the
// context carries none.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return nil
	}
	logger, _ := ctx.Value(loggerKey{}).(*slog.Logger)
	return logger
}
