package server

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaksoftwares/Backend-Fasthub/internal/config"
	"github.com/jaksoftwares/Backend-Fasthub/internal/database"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Primary: config.Primary{Env: "development"},
		Server:  config.ServerConfig{Port: "0", ReadTimeout: 5, WriteTimeout: 5, IdleTimeout: 5},
		Database: config.DatabaseConfig{
			URL:                 "sqlite://" + filepath.Join(t.TempDir(), "server.db"),
			MaxConns:            2,
			MaxIdleConns:        2,
			AcquireTimeout:      time.Second,
			ReleaseTimeout:      time.Second,
			PrePing:             true,
			HealthCheckInterval: time.Minute,
			MigrateOnStart:      true,
			SeedOnStart:         true,
		},
		Observability: config.DefaultObservabilityConfig(),
	}
}

func TestNew_WiresDatabaseAndShutsDown(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	s, err := New(ctx, testConfig(t), &logger, nil)
	require.NoError(t, err)

	require.NotNil(t, s.DB)
	require.NotNil(t, s.Monitor)
	assert.Nil(t, s.Redis)
	assert.Nil(t, s.Job)

	var products int
	require.NoError(t, s.DB.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&products))
	assert.Positive(t, products)

	families, err := s.Metrics.Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["go_goroutines"])
	assert.True(t, names["go_sql_max_open_connections"])

	shutdownCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(shutdownCtx))
}

func TestNew_ConfigurationErrorAbortsStartup(t *testing.T) {
	logger := zerolog.Nop()
	cfg := testConfig(t)
	cfg.Database.URL = "postgres://shop:secret@:5432/shop"

	s, err := New(context.Background(), cfg, &logger, nil)
	require.Error(t, err)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, database.ErrConfiguration)
}

func TestStart_RequiresHTTPServer(t *testing.T) {
	logger := zerolog.Nop()
	s := &Server{Config: testConfig(t), Logger: &logger}
	assert.Error(t, s.Start())
}
