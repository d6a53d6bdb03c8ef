// Package server defines the Server container that composes the
// application's long-lived dependencies and owns their lifecycle:
//
//   - configuration
//   - logger + optional New Relic service
//   - the database connection manager (pool + session factory)
//   - the background pool monitor
//   - the Prometheus registry served on /metrics
//   - optional Redis client and background job service (asynq)
//   - the http.Server
//
// Everything is created once in New and torn down in Shutdown; nothing is
// kept in package globals.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jaksoftwares/Backend-Fasthub/internal/config"
	"github.com/jaksoftwares/Backend-Fasthub/internal/database"
	"github.com/jaksoftwares/Backend-Fasthub/internal/lib/email"
	"github.com/jaksoftwares/Backend-Fasthub/internal/lib/job"
	loggerPkg "github.com/jaksoftwares/Backend-Fasthub/internal/logger"
)

// RedisPingTimeout bounds the startup Redis ping.
const RedisPingTimeout = 5 * time.Second

// Server is the application container. It is not the HTTP server itself.
type Server struct {
	Config        *config.Config
	Logger        *zerolog.Logger
	LoggerService *loggerPkg.LoggerService

	// DB is the connection manager; request handlers borrow sessions from
	// DB.Sessions.
	DB *database.Database

	// Monitor pre-pings the pool in the background. Nil when
	// database.health_check_interval is zero.
	Monitor *database.Monitor

	// Metrics is the registry served on /metrics.
	Metrics *prometheus.Registry

	// Redis and Job are nil when no Redis address is configured.
	Redis *redis.Client
	Job   *job.JobService

	httpServer *http.Server
}

// New initializes the core dependencies. It does not start serving; see
// SetupHTTPServer and Start.
//
// A database that fails validation or the startup ping aborts
// initialization. Redis is optional: when configured but unreachable the
// failure is logged and the job queue keeps retrying in the background.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	db, err := database.New(ctx, cfg, logger, loggerService, reg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	s := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		DB:            db,
		Metrics:       reg,
	}

	if err := s.prepareSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if interval := cfg.Database.HealthCheckInterval; interval > 0 {
		timeout := interval
		if cfg.Observability != nil && cfg.Observability.HealthChecks.Timeout > 0 {
			timeout = cfg.Observability.HealthChecks.Timeout
		}
		monitor, err := database.NewMonitor(db.DB, interval, timeout, logger, db.Metrics)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		monitor.Start()
		s.Monitor = monitor
	}

	if cfg.Redis.Address != "" {
		if err := s.setupRedis(ctx); err != nil {
			s.closeResources(ctx)
			return nil, err
		}
	} else {
		logger.Info().Msg("no redis address configured, background jobs disabled")
	}

	return s, nil
}

// prepareSchema runs migrations and seed data when configured to.
func (s *Server) prepareSchema(ctx context.Context) error {
	if s.Config.Database.MigrateOnStart {
		if err := database.Migrate(ctx, s.Logger, s.DB); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	if s.Config.Database.SeedOnStart {
		if _, err := database.Seed(ctx, s.Logger, s.DB); err != nil {
			return fmt.Errorf("failed to seed database: %w", err)
		}
	}

	return nil
}

// setupRedis creates the Redis client and starts the job service.
func (s *Server) setupRedis(ctx context.Context) error {
	s.Redis = redis.NewClient(&redis.Options{
		Addr: s.Config.Redis.Address,
	})

	if s.LoggerService.GetApplication() != nil {
		s.Redis.AddHook(nrredis.NewHook(s.Redis.Options()))
	}

	pingCtx, cancel := context.WithTimeout(ctx, RedisPingTimeout)
	defer cancel()
	if err := s.Redis.Ping(pingCtx).Err(); err != nil {
		s.Logger.Error().Err(err).Msg("failed to connect to redis, jobs will be retried once it is reachable")
	}

	mailer, err := email.NewClient(s.Config, s.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize email client: %w", err)
	}

	s.Job = job.NewJobService(s.Logger, s.Config, mailer)
	if err := s.Job.Start(); err != nil {
		return fmt.Errorf("failed to start job service: %w", err)
	}

	return nil
}

// SetupHTTPServer configures the http.Server around handler. Config
// timeouts are seconds.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start serves HTTP until Shutdown. It returns http.ErrServerClosed after
// a graceful shutdown.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Str("database", s.DB.Target()).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting requests, waits for in-flight ones (and so for
// their sessions to be released) until ctx expires, then stops the monitor
// and job workers and closes Redis and the pool, in that order.
func (s *Server) Shutdown(ctx context.Context) error {
	var errList []error

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errList = append(errList, fmt.Errorf("failed to shutdown HTTP server: %w", err))
		}
	}

	errList = append(errList, s.closeResources(ctx)...)

	return errors.Join(errList...)
}

func (s *Server) closeResources(ctx context.Context) []error {
	var errList []error

	if s.Monitor != nil {
		s.Monitor.Stop(ctx)
	}

	if s.Job != nil {
		s.Job.Stop()
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			errList = append(errList, fmt.Errorf("failed to close redis client: %w", err))
		}
	}

	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			errList = append(errList, fmt.Errorf("failed to close database connection: %w", err))
		}
	}

	return errList
}
