package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const RequestIDKey = echo.HeaderXRequestID

// RequestID reuses the caller's X-Request-ID or mints one, and echoes it back
func RequestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(RequestIDKey)
		if requestID == "" {
			requestID = uuid.New().String()
			c.Request().Header.Set(RequestIDKey, requestID)
		}
		c.Set(RequestIDKey, requestID)
		c.Response().Header().Set(RequestIDKey, requestID)
		return next(c)
	}
}
