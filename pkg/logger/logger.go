package logger

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogConfig holds logger configuration
type LogConfig struct {
	Level       string
	Environment string
	ServiceName string
}

// New builds a zap logger for the given configuration
func New(config LogConfig) (*zap.Logger, error) {
	level := parseLevel(config.Level)
	fields := zap.Fields(
		zap.String("service", config.ServiceName),
		zap.String("environment", config.Environment),
	)

	if config.Environment == "production" {
		prodConfig := zap.NewProductionConfig()
		prodConfig.Level = zap.NewAtomicLevelAt(level)
		prodConfig.EncoderConfig.TimeKey = "timestamp"
		prodConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return prodConfig.Build(fields)
	}

	// Human-friendly output for local development
	devConfig := zap.NewDevelopmentConfig()
	devConfig.Level = zap.NewAtomicLevelAt(level)
	devConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return devConfig.Build(fields)
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Middleware returns an Echo middleware that attaches a request-scoped logger and logs HTTP requests
func Middleware(base *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			requestID := c.Request().Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = c.Response().Header().Get(echo.HeaderXRequestID)
			}

			ctxLogger := base.With(zap.String("request_id", requestID))
			c.Set(contextKey, ctxLogger)
			c.SetRequest(c.Request().WithContext(WithContext(c.Request().Context(), ctxLogger)))

			err := next(c)
			if err != nil {
				// let echo write the response so the logged status is final
				c.Error(err)
			}

			ctxLogger.Info("HTTP Request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.String("route", c.Path()),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", c.RealIP()),
			)

			return nil
		}
	}
}
