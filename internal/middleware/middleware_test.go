package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaksoftwares/Backend-Fasthub/internal/config"
	"github.com/jaksoftwares/Backend-Fasthub/internal/database"
	"github.com/jaksoftwares/Backend-Fasthub/internal/errs"
	"github.com/jaksoftwares/Backend-Fasthub/internal/server"
)

func newTestServer(t *testing.T, maxConns int) *server.Server {
	t.Helper()

	logger := zerolog.Nop()
	cfg := &config.Config{
		Primary: config.Primary{Env: "development"},
		Server: config.ServerConfig{
			Port:               "0",
			CORSAllowedOrigins: []string{"https://shop.example.com"},
		},
		Database: config.DatabaseConfig{
			URL:            "sqlite://" + filepath.Join(t.TempDir(), "middleware.db"),
			MaxConns:       maxConns,
			MaxIdleConns:   maxConns,
			AcquireTimeout: 300 * time.Millisecond,
			ReleaseTimeout: time.Second,
		},
	}

	reg := prometheus.NewRegistry()
	db, err := database.New(context.Background(), cfg, &logger, nil, reg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), &logger, db))

	return &server.Server{Config: cfg, Logger: &logger, DB: db, Metrics: reg}
}

func newTestEcho(s *server.Server) (*echo.Echo, *Middlewares) {
	mw := NewMiddlewares(s)
	e := echo.New()
	e.HTTPErrorHandler = mw.Global.GlobalErrorHandler
	e.Use(RequestID(), mw.Global.Recover(), mw.Global.CORS())
	return e, mw
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t, 1)
	e, _ := newTestEcho(s)
	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, GetRequestID(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc-123", rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "bad id\nwith newline")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
}

func TestCORS_OnlyConfiguredOrigins(t *testing.T) {
	s := newTestServer(t, 1)
	e, _ := newTestEcho(s)
	e.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(echo.HeaderOrigin, "https://shop.example.com")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "https://shop.example.com", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(echo.HeaderOrigin, "https://evil.example.com")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestGlobalErrorHandler(t *testing.T) {
	s := newTestServer(t, 1)
	e, _ := newTestEcho(s)

	e.GET("/exhausted", func(c echo.Context) error {
		return fmt.Errorf("%w: no connection within 1s", database.ErrPoolExhausted)
	})
	e.GET("/unknown", func(c echo.Context) error {
		return errors.New("dial tcp postgres://admin:secret@db: refused")
	})
	e.GET("/conflict", func(c echo.Context) error {
		return errs.NewConflictError("Not enough stock", true, nil)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/exhausted", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get(echo.HeaderRetryAfter))
	assert.Contains(t, rec.Body.String(), "POOL_EXHAUSTED")

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/unknown", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret")

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/conflict", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not enough stock")

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Route not found")
}

func assertNoSessionsOutstanding(t *testing.T, s *server.Server) {
	t.Helper()
	stats := s.DB.Sessions.Stats()
	assert.Equal(t, stats.Opened, stats.Released)
	assert.Zero(t, stats.InUse)
}

func TestSession_ReleasedOnEveryOutcome(t *testing.T) {
	s := newTestServer(t, 1)
	e, mw := newTestEcho(s)
	api := e.Group("/api", mw.Session.Open())

	api.GET("/ok", func(c echo.Context) error {
		session := GetSession(c)
		require.NotNil(t, session)
		var one int
		if err := session.QueryRowContext(c.Request().Context(), `SELECT 1`).Scan(&one); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, map[string]int{"one": one})
	})
	api.GET("/error", func(c echo.Context) error {
		return errs.NewNotFoundError("Product not found", true, nil)
	})
	api.GET("/panic", func(c echo.Context) error {
		panic("handler exploded")
	})
	api.POST("/uncommitted", func(c echo.Context) error {
		_, err := GetSession(c).ExecContext(c.Request().Context(),
			`INSERT INTO settings (key, value, updated_at) VALUES ('draft', 'x', CURRENT_TIMESTAMP)`)
		if err != nil {
			return err
		}
		return c.NoContent(http.StatusAccepted)
	})

	for _, tc := range []struct {
		method, path string
		status       int
	}{
		{http.MethodGet, "/api/ok", http.StatusOK},
		{http.MethodGet, "/api/error", http.StatusNotFound},
		{http.MethodGet, "/api/panic", http.StatusInternalServerError},
		{http.MethodPost, "/api/uncommitted", http.StatusAccepted},
		{http.MethodGet, "/api/ok", http.StatusOK},
	} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, tc.status, rec.Code, tc.path)
		assertNoSessionsOutstanding(t, s)
	}

	var drafts int
	require.NoError(t, s.DB.DB.QueryRow(`SELECT COUNT(*) FROM settings WHERE key = 'draft'`).Scan(&drafts))
	assert.Zero(t, drafts)

	assert.Nil(t, GetSession(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())))
}

func TestSession_PoolExhaustedAnswers503(t *testing.T) {
	s := newTestServer(t, 1)
	e, mw := newTestEcho(s)
	e.GET("/api/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, mw.Session.Open())

	held, err := s.DB.Sessions.Open(context.Background())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ok", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get(echo.HeaderRetryAfter))

	require.NoError(t, held.Close())

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ok", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, 1)
	s.Config.Server.RateLimit = config.RateLimitConfig{RequestsPerSecond: 0.5, Burst: 1}
	e, mw := newTestEcho(s)
	e.GET("/limited", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, mw.RateLimit.Limit())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/limited", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/limited", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get(echo.HeaderRetryAfter))
}

func TestRateLimit_DisabledByDefault(t *testing.T) {
	s := newTestServer(t, 1)
	e, mw := newTestEcho(s)
	e.GET("/free", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, mw.RateLimit.Limit())

	for range 5 {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/free", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
