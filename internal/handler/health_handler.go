package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db          *gorm.DB
	serviceName string
}

func NewHealthHandler(db *gorm.DB, serviceName string) *HealthHandler {
	return &HealthHandler{db: db, serviceName: serviceName}
}

// HealthCheck godoc
// @Summary  Service and database health
// @Tags     health
// @Produce  json
// @Success  200 {object} map[string]string
// @Failure  503 {object} map[string]string
// @Router   /health [get]
func (h *HealthHandler) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"status":   "unhealthy",
			"service":  h.serviceName,
			"database": "down",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":   "healthy",
		"service":  h.serviceName,
		"database": "up",
	})
}
