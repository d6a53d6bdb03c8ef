package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	"github.com/jaksoftwares/Backend-Fasthub/internal/errs"
	"github.com/jaksoftwares/Backend-Fasthub/internal/server"
)

// RateLimitMiddleware throttles clients per IP with a token bucket and
// reports every rejection to New Relic and Prometheus.
type RateLimitMiddleware struct {
	server *server.Server
	hits   *prometheus.CounterVec
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	var reg prometheus.Registerer = s.Metrics
	if s.Metrics == nil {
		reg = prometheus.NewRegistry()
	}

	return &RateLimitMiddleware{
		server: s,
		hits: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "fasthub",
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}, []string{"route"}),
	}
}

// Limit returns the limiter configured by server.rate_limit, or a
// pass-through when requests_per_second is zero.
func (r *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	cfg := r.server.Config.Server.RateLimit
	if cfg.RequestsPerSecond <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	retryAfter := time.Duration(float64(time.Second) / cfg.RequestsPerSecond)

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(cfg.RequestsPerSecond),
			Burst:     cfg.Burst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errs.NewInternalServerError()
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			r.RecordRateLimitHit(c.Path())
			return errs.NewTooManyRequestsError("Too many requests, please slow down", retryAfter)
		},
	})
}

// RecordRateLimitHit counts a rejected request.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	r.hits.WithLabelValues(endpoint).Inc()

	if r.server.LoggerService != nil && r.server.LoggerService.GetApplication() != nil {
		r.server.LoggerService.GetApplication().RecordCustomEvent("RateLimitHit", map[string]interface{}{
			"endpoint": endpoint,
		})
	}
}
