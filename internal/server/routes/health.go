package routes

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthRoutes serves the deployment probes.
type HealthRoutes struct {
	version   string
	startedAt time.Time
}

// NewHealthRoutes constructs health routes.
func NewHealthRoutes(version string) *HealthRoutes {
	return &HealthRoutes{version: version, startedAt: time.Now()}
}

// RegisterRoutes registers health endpoints.
func (h *HealthRoutes) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.handleRoot)
	e.GET("/health", h.handleHealth)
}

func (h *HealthRoutes) handleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "Price Drop Notifier",
		"version": h.version,
	})
}

func (h *HealthRoutes) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":         "healthy",
		"uptime_seconds": time.Since(h.startedAt).Seconds(),
	})
}
