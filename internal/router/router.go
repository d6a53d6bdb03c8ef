// Package router builds the echo instance: the global middleware chain,
// the system routes and the /api/v1 resource routes.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/jaksoftwares/Backend-Fasthub/internal/handler"
	"github.com/jaksoftwares/Backend-Fasthub/internal/middleware"
	"github.com/jaksoftwares/Backend-Fasthub/internal/server"
)

// NewRouter wires middlewares and routes.
//
// Order matters: tracing and the request ID come first so every later log
// line carries them; Recover wraps the session middleware of the API routes,
// so a panicking handler has already released its session when Recover
// turns the panic into a 500.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middleware.RequestID(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.Secure(),
		middlewares.Global.CORS(),
		middlewares.Global.BodyLimit(),
	)

	registerSystemRoutes(router, h)

	session := middlewares.Session.Open()

	v1 := router.Group("/api/v1", middlewares.RateLimit.Limit())
	registerProductRoutes(v1, h, session)
	registerCustomerRoutes(v1, h, session)
	registerOrderRoutes(v1, h, session)
	registerRepairRoutes(v1, h, session)
	registerSettingRoutes(v1, h, session)
	registerAnalyticsRoutes(v1, h, session)

	// The payment status needs no database session.
	registerPaymentRoutes(v1.Group("/payments"), h)

	return router
}
