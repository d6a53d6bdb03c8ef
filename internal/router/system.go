package router

import (
	"github.com/labstack/echo/v4"

	"github.com/jaksoftwares/Backend-Fasthub/internal/handler"
)

// registerSystemRoutes registers the endpoints that are not part of the
// shop API. They run outside the rate limiter and the session middleware:
// the health check must answer even when the pool is exhausted.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/", h.Health.Root)
	r.GET("/health", h.Health.CheckHealth)
	r.GET("/status", h.Health.CheckHealth)
	r.GET("/metrics", h.Health.Metrics())
}
