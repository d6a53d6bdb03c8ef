package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jaksoftwares/Backend-Fasthub/internal/database"
	"github.com/jaksoftwares/Backend-Fasthub/internal/middleware"
	"github.com/jaksoftwares/Backend-Fasthub/internal/server"
)

// HealthCheckTimeout bounds each dependency ping of the health endpoint.
const HealthCheckTimeout = 5 * time.Second

// HealthHandler serves the system endpoints: root, health and metrics.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

type HealthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]HealthCheck `json:"checks"`
}

// HealthCheck is one dependency's result. Error is a category, never a
// driver message, so a connection string cannot leak through it.
type HealthCheck struct {
	Status       string                  `json:"status"`
	ResponseTime string                  `json:"response_time"`
	Target       string                  `json:"target,omitempty"`
	Error        string                  `json:"error,omitempty"`
	Sessions     *database.Stats         `json:"sessions,omitempty"`
	LastPrePing  *database.MonitorResult `json:"last_pre_ping,omitempty"`
}

func (h *HealthHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Fasthub e-commerce API is running",
	})
}

// CheckHealth answers 200 when the database answers a ping and 503
// otherwise. Redis is reported but optional.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := HealthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks:      map[string]HealthCheck{},
	}

	dbCheck := h.checkDatabase(c.Request().Context())
	response.Checks["database"] = dbCheck
	if dbCheck.Status != "healthy" {
		response.Status = "unhealthy"
		logger.Error().Str("error", dbCheck.Error).Msg("database health check failed")
		h.recordHealthCheckError("database", dbCheck.Error)
	}

	if h.server.Redis != nil {
		redisCheck := h.checkRedis(c.Request().Context())
		response.Checks["redis"] = redisCheck
		if redisCheck.Status != "healthy" {
			logger.Warn().Str("error", redisCheck.Error).Msg("redis health check failed")
			h.recordHealthCheckError("redis", redisCheck.Error)
		}
	}

	status := http.StatusOK
	if response.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Int("status", status).
		Msg("health check completed")

	return c.JSON(status, response)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) HealthCheck {
	ctx, cancel := context.WithTimeout(ctx, HealthCheckTimeout)
	defer cancel()

	start := time.Now()
	check := HealthCheck{
		Status: "healthy",
		Target: h.server.DB.Target(),
	}

	if err := h.server.DB.Ping(ctx); err != nil {
		check.Status = "unhealthy"
		check.Error = database.ClassifyError(err)
	}
	check.ResponseTime = time.Since(start).String()

	stats := h.server.DB.Sessions.Stats()
	check.Sessions = &stats

	if h.server.Monitor != nil {
		if last, ok := h.server.Monitor.Last(); ok {
			check.LastPrePing = &last
		}
	}

	return check
}

func (h *HealthHandler) checkRedis(ctx context.Context) HealthCheck {
	ctx, cancel := context.WithTimeout(ctx, HealthCheckTimeout)
	defer cancel()

	start := time.Now()
	check := HealthCheck{Status: "healthy"}
	if err := h.server.Redis.Ping(ctx).Err(); err != nil {
		check.Status = "unhealthy"
		check.Error = "unreachable"
	}
	check.ResponseTime = time.Since(start).String()
	return check
}

func (h *HealthHandler) recordHealthCheckError(checkType, category string) {
	if h.server.LoggerService == nil || h.server.LoggerService.GetApplication() == nil {
		return
	}
	h.server.LoggerService.GetApplication().RecordCustomEvent("HealthCheckError", map[string]interface{}{
		"check_type": checkType,
		"operation":  "health_check",
		"error_type": checkType + "_" + category,
	})
}

// Metrics serves the Prometheus registry of the server.
func (h *HealthHandler) Metrics() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(h.server.Metrics, promhttp.HandlerOpts{}))
}
