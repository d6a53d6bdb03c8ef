package handler

import (
	"context"
	"encoding/json"
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
	"github.com/jaksoftwares/Backend-Fasthub/internal/model"
	"github.com/jaksoftwares/Backend-Fasthub/internal/server"
)

func newTestServer(t *testing.T) *server.Server {
	t.Helper()

	logger := zerolog.Nop()
	cfg := &config.Config{
		Primary: config.Primary{Env: "development"},
		Database: config.DatabaseConfig{
			URL:            "sqlite://" + filepath.Join(t.TempDir(), "handler.db"),
			MaxConns:       1,
			MaxIdleConns:   1,
			AcquireTimeout: time.Second,
			ReleaseTimeout: time.Second,
		},
	}

	reg := prometheus.NewRegistry()
	db, err := database.New(context.Background(), cfg, &logger, nil, reg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return &server.Server{Config: cfg, Logger: &logger, DB: db, Metrics: reg}
}

func TestNewRequest_FreshValuePerCall(t *testing.T) {
	template := &model.IDParam{ID: 42}

	first := newRequest(template)
	second := newRequest(template)

	assert.NotSame(t, template, first)
	assert.NotSame(t, first, second)
	assert.Zero(t, first.ID)
}

func TestHandle_BindsValidatesAndWrites(t *testing.T) {
	s := newTestServer(t)
	h := NewHandler(s)

	e := echo.New()
	e.GET("/items/:id", Handle(h, func(c echo.Context, req *model.IDParam) (map[string]int64, error) {
		return map[string]int64{"id": req.ID}, nil
	}, http.StatusOK, &model.IDParam{}))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/7", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":7}`, rec.Body.String())

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/0", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_SessionMissing(t *testing.T) {
	h := NewHandler(newTestServer(t))

	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	_, err := h.session(c)
	assert.ErrorIs(t, err, errNoSession)
}

func TestCheckHealth(t *testing.T) {
	s := newTestServer(t)
	h := NewHealthHandler(s)

	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)
	require.NoError(t, h.CheckHealth(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, s.DB.Target(), body.Checks["database"].Target)
	assert.NotContains(t, body.Checks, "redis")
}

func TestCheckHealth_DatabaseDown(t *testing.T) {
	s := newTestServer(t)
	h := NewHealthHandler(s)
	require.NoError(t, s.DB.Close())

	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)
	require.NoError(t, h.CheckHealth(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unhealthy", body.Status)
	assert.NotEmpty(t, body.Checks["database"].Error)
	assert.NotContains(t, rec.Body.String(), "sql:")
}
