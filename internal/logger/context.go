package logger

import (
	"context"

	"go.uber.org/zap"
)

type contextKey struct{}

var key = contextKey{}

// FromContext returns the Logger carried by the context, or a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	logger, ok := ctx.Value(key).(*zap.Logger)
	if !ok {
		return zap.NewNop()
	}
	return logger
}

// NewContext returns a new Context, derived from ctx, carrying the provided
// Logger.
func NewContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, key, logger)
}
