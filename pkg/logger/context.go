package logger

import (
	"context"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ctxKey string

const (
	loggerKey  ctxKey = "logger"
	contextKey        = "logger"
)

// FromContext retrieves the logger from the context, falling back to the given logger
func FromContext(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return logger
	}
	return orNop(fallback)
}

// WithContext adds the logger to the context
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromEcho retrieves the request logger from the Echo context
func FromEcho(c echo.Context, fallback *zap.Logger) *zap.Logger {
	if logger, ok := c.Get(contextKey).(*zap.Logger); ok {
		return logger
	}
	return orNop(fallback)
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
