// Package database owns the connection pool and the per-request sessions
// borrowed from it.
//
// It handles:
//   - validating the connection string before any dial
//   - opening one database/sql pool (pgx for PostgreSQL, modernc for SQLite)
//   - wiring query tracing/logging (pgx tracelog, New Relic nrpgx5)
//   - handing out sessions with a bounded wait and guaranteed release
//   - schema migrations and seed data
package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	// Registers the "sqlite" database/sql driver.
	_ "modernc.org/sqlite"

	"github.com/jaksoftwares/Backend-Fasthub/internal/config"
	loggerConfig "github.com/jaksoftwares/Backend-Fasthub/internal/logger"
)

// DatabasePingTimeout is the number of seconds the startup ping may take
// before the database is considered unreachable.
const DatabasePingTimeout = 10

// Database is the connection manager: the pool, its session factory and the
// redacted target it points at. It is created once at process start and
// closed at shutdown.
type Database struct {
	DB       *sql.DB
	Sessions *SessionFactory
	Metrics  *Metrics

	conn *ConnectionString
	log  *zerolog.Logger

	closeOnce sync.Once
	closeErr  error
}

// multiTracer chains pgx tracers; pgx accepts a single one. Besides query
// tracing it forwards the batch, copy, prepare and connect hooks to the
// tracers implementing them.
type multiTracer struct {
	tracers []pgx.QueryTracer
}

var (
	_ pgx.QueryTracer    = (*multiTracer)(nil)
	_ pgx.BatchTracer    = (*multiTracer)(nil)
	_ pgx.CopyFromTracer = (*multiTracer)(nil)
	_ pgx.PrepareTracer  = (*multiTracer)(nil)
	_ pgx.ConnectTracer  = (*multiTracer)(nil)
)

func (mt *multiTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, tracer := range mt.tracers {
		ctx = tracer.TraceQueryStart(ctx, conn, data)
	}
	return ctx
}

func (mt *multiTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, tracer := range mt.tracers {
		tracer.TraceQueryEnd(ctx, conn, data)
	}
}

func (mt *multiTracer) TraceBatchStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceBatchStartData) context.Context {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(pgx.BatchTracer); ok {
			ctx = t.TraceBatchStart(ctx, conn, data)
		}
	}
	return ctx
}

func (mt *multiTracer) TraceBatchQuery(ctx context.Context, conn *pgx.Conn, data pgx.TraceBatchQueryData) {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(pgx.BatchTracer); ok {
			t.TraceBatchQuery(ctx, conn, data)
		}
	}
}

func (mt *multiTracer) TraceBatchEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceBatchEndData) {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(pgx.BatchTracer); ok {
			t.TraceBatchEnd(ctx, conn, data)
		}
	}
}

func (mt *multiTracer) TraceCopyFromStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceCopyFromStartData) context.Context {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(pgx.CopyFromTracer); ok {
			ctx = t.TraceCopyFromStart(ctx, conn, data)
		}
	}
	return ctx
}

func (mt *multiTracer) TraceCopyFromEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceCopyFromEndData) {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(pgx.CopyFromTracer); ok {
			t.TraceCopyFromEnd(ctx, conn, data)
		}
	}
}

func (mt *multiTracer) TracePrepareStart(ctx context.Context, conn *pgx.Conn, data pgx.TracePrepareStartData) context.Context {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(pgx.PrepareTracer); ok {
			ctx = t.TracePrepareStart(ctx, conn, data)
		}
	}
	return ctx
}

func (mt *multiTracer) TracePrepareEnd(ctx context.Context, conn *pgx.Conn, data pgx.TracePrepareEndData) {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(pgx.PrepareTracer); ok {
			t.TracePrepareEnd(ctx, conn, data)
		}
	}
}

func (mt *multiTracer) TraceConnectStart(ctx context.Context, data pgx.TraceConnectStartData) context.Context {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(pgx.ConnectTracer); ok {
			ctx = t.TraceConnectStart(ctx, data)
		}
	}
	return ctx
}

func (mt *multiTracer) TraceConnectEnd(ctx context.Context, data pgx.TraceConnectEndData) {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(pgx.ConnectTracer); ok {
			t.TraceConnectEnd(ctx, data)
		}
	}
}

// New validates the connection string, opens the pool, applies its limits
// and pings it.
//
// A malformed connection string fails with ErrConfiguration before anything
// is dialed; an unreachable database fails with ErrConnection. Metrics are
// registered on reg when it is not nil.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService, reg prometheus.Registerer) (*Database, error) {
	cs, err := ParseConnectionString(cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	if cfg.Database.MaxConns < 1 {
		return nil, fmt.Errorf("%w: max_conns must be at least 1", ErrConfiguration)
	}
	if cfg.Database.AcquireTimeout <= 0 {
		return nil, fmt.Errorf("%w: acquire_timeout must be positive, an unbounded wait is not allowed", ErrConfiguration)
	}

	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	metrics := NewMetrics(reg)

	var sqlDB *sql.DB
	if cs.IsSQLite() {
		sqlDB, err = sql.Open(DriverSQLite, cs.DriverDSN())
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
	} else {
		pgxConfig, err := pgx.ParseConfig(cs.DriverDSN())
		if err != nil {
			return nil, fmt.Errorf("%w: parsing postgres parameters: %w", ErrConfiguration, err)
		}
		pgxConfig.Tracer = queryTracer(cfg, logger, loggerService)
		sqlDB = stdlib.OpenDB(*pgxConfig)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, DatabasePingTimeout*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("%w: ping %s: %w", ErrConnection, cs.Redacted(), err)
	}

	if err := registerPoolStats(reg, sqlDB); err != nil {
		logger.Warn().Err(err).Msg("pool statistics collector not registered")
	}

	var slowQuery time.Duration
	if cfg.Observability != nil {
		slowQuery = cfg.Observability.Logging.SlowQueryThreshold
	}

	sessions, err := NewSessionFactory(sqlDB, SessionOptions{
		AcquireTimeout:     cfg.Database.AcquireTimeout,
		ReleaseTimeout:     cfg.Database.ReleaseTimeout,
		PrePing:            cfg.Database.PrePing,
		SlowQueryThreshold: slowQuery,
		BeginImmediate:     cs.IsSQLite(),
	}, logger, metrics)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	logger.Info().
		Str("target", cs.Redacted()).
		Int("max_conns", cfg.Database.MaxConns).
		Dur("acquire_timeout", cfg.Database.AcquireTimeout).
		Bool("pre_ping", cfg.Database.PrePing).
		Msg("connected to the database")

	return &Database{
		DB:       sqlDB,
		Sessions: sessions,
		Metrics:  metrics,
		conn:     cs,
		log:      logger,
	}, nil
}

// queryTracer returns the pgx tracer for the environment, nil when none applies.
func queryTracer(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) pgx.QueryTracer {
	var tracers []pgx.QueryTracer

	if loggerService.GetApplication() != nil {
		tracers = append(tracers, nrpgx5.NewTracer())
	}

	// SQL statement logging is noisy, so it only runs locally.
	if cfg.IsLocal() {
		globalLevel := logger.GetLevel()
		tracers = append(tracers, &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(loggerConfig.NewPgxLogger(globalLevel)),
			LogLevel: tracelog.LogLevel(loggerConfig.GetPgxTraceLogLevel(globalLevel)),
		})
	}

	switch len(tracers) {
	case 0:
		return nil
	case 1:
		return tracers[0]
	default:
		return &multiTracer{tracers: tracers}
	}
}

// Target returns the redacted database target identifier.
func (db *Database) Target() string {
	return db.conn.Redacted()
}

// ConnectionString returns the parsed connection string.
func (db *Database) ConnectionString() *ConnectionString {
	return db.conn
}

// Ping checks that the database answers within ctx.
func (db *Database) Ping(ctx context.Context) error {
	return wrapConnErr(db.DB.PingContext(ctx))
}

// Close closes the pool. It is safe to call more than once.
func (db *Database) Close() error {
	db.closeOnce.Do(func() {
		db.log.Info().Str("target", db.Target()).Msg("closing database connection pool")
		db.closeErr = db.DB.Close()
	})
	return db.closeErr
}
