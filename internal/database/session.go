package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Querier is the statement surface of a Session. Repositories depend on it
// instead of a concrete handle.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *Row
}

// SessionOptions tunes the session factory.
type SessionOptions struct {
	// AcquireTimeout bounds the wait for a free connection. Must be positive.
	AcquireTimeout time.Duration

	// ReleaseTimeout bounds the rollback issued by Close.
	ReleaseTimeout time.Duration

	// PrePing pings every checked out connection before handing it out.
	PrePing bool

	// SlowQueryThreshold logs statements slower than this. Zero disables it.
	SlowQueryThreshold time.Duration

	// BeginImmediate opens transactions with BEGIN IMMEDIATE. SQLite needs
	// it: a deferred transaction that reads and then writes cannot wait for
	// the write lock and fails with SQLITE_BUSY.
	BeginImmediate bool
}

// SessionFactory hands out per-request sessions bound to the shared pool.
//
// It is safe for concurrent use. Every session it opens borrows exactly one
// connection and must be closed; WithSession does that on every exit path.
type SessionFactory struct {
	db      *sql.DB
	opts    SessionOptions
	log     *zerolog.Logger
	metrics *Metrics

	opened    atomic.Int64
	released  atomic.Int64
	inUse     atomic.Int64
	exhausted atomic.Int64
}

// NewSessionFactory binds a factory to db. metrics may be nil.
func NewSessionFactory(db *sql.DB, opts SessionOptions, logger *zerolog.Logger, metrics *Metrics) (*SessionFactory, error) {
	if db == nil {
		return nil, fmt.Errorf("%w: session factory needs a pool", ErrConfiguration)
	}
	if opts.AcquireTimeout <= 0 {
		return nil, fmt.Errorf("%w: acquire timeout must be positive, got %s", ErrConfiguration, opts.AcquireTimeout)
	}
	if opts.ReleaseTimeout <= 0 {
		return nil, fmt.Errorf("%w: release timeout must be positive, got %s", ErrConfiguration, opts.ReleaseTimeout)
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &SessionFactory{
		db:      db,
		opts:    opts,
		log:     logger,
		metrics: metrics,
	}, nil
}

// Open checks out one connection and wraps it in a Session.
//
// The wait is bounded by the acquire timeout. When it elapses while ctx is
// still live the error wraps ErrPoolExhausted; when ctx itself ends first its
// error is returned unchanged. Transport failures wrap ErrConnection.
func (f *SessionFactory) Open(ctx context.Context) (*Session, error) {
	start := time.Now()

	acquireCtx, cancel := context.WithTimeout(ctx, f.opts.AcquireTimeout)
	defer cancel()

	conn, err := f.checkout(acquireCtx)
	if f.metrics != nil {
		f.metrics.AcquireDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, context.DeadlineExceeded) {
			f.exhausted.Add(1)
			if f.metrics != nil {
				f.metrics.PoolExhausted.Inc()
			}
			f.log.Warn().
				Dur("acquire_timeout", f.opts.AcquireTimeout).
				Int64("in_use", f.inUse.Load()).
				Msg("no database connection available")
			return nil, fmt.Errorf("%w: no connection within %s: %w", ErrPoolExhausted, f.opts.AcquireTimeout, err)
		}
		f.connectionFailed()
		if IsConnectionFailure(err) {
			return nil, wrapConnErr(err)
		}
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}

	f.opened.Add(1)
	f.inUse.Add(1)
	if f.metrics != nil {
		f.metrics.SessionsOpened.Inc()
		f.metrics.SessionsInUse.Inc()
	}

	return &Session{
		factory:  f,
		conn:     conn,
		ctx:      ctx,
		openedAt: time.Now(),
	}, nil
}

// checkout borrows a connection, pre-pinging it when enabled. A connection
// failing the ping is discarded and one replacement is tried within the same
// wait budget.
func (f *SessionFactory) checkout(ctx context.Context) (*sql.Conn, error) {
	for attempt := 1; ; attempt++ {
		conn, err := f.db.Conn(ctx)
		if err != nil {
			return nil, err
		}
		if !f.opts.PrePing {
			return conn, nil
		}

		pingErr := conn.PingContext(ctx)
		if pingErr == nil {
			return conn, nil
		}

		discard(conn)
		if f.metrics != nil {
			f.metrics.PrePingFailures.Inc()
		}
		f.log.Warn().Err(pingErr).Int("attempt", attempt).Msg("discarded dead database connection")

		if attempt >= 2 || ctx.Err() != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, pingErr
		}
	}
}

// discard drops conn from the pool instead of returning it.
func discard(conn *sql.Conn) {
	// Returning driver.ErrBadConn from Raw makes database/sql close the
	// underlying connection.
	_ = conn.Raw(func(any) error { return driver.ErrBadConn })
	_ = conn.Close()
}

func (f *SessionFactory) connectionFailed() {
	if f.metrics != nil {
		f.metrics.ConnectionErrors.Inc()
	}
}

func (f *SessionFactory) release(s *Session) {
	f.released.Add(1)
	f.inUse.Add(-1)
	if f.metrics != nil {
		f.metrics.SessionsReleased.Inc()
		f.metrics.SessionsInUse.Dec()
		f.metrics.SessionDuration.Observe(time.Since(s.openedAt).Seconds())
	}
}

// WithSession opens a session, runs fn with it and releases it on every exit
// path: normal return, error, panic and cancellation. A panic propagates after
// the release. fn's error is always returned; a release error is joined to it.
func (f *SessionFactory) WithSession(ctx context.Context, fn func(ctx context.Context, s *Session) error) (err error) {
	s, err := f.Open(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := s.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	return fn(ctx, s)
}

// Stats is a snapshot of the session counters and the pool.
type Stats struct {
	Opened    int64     `json:"sessions_opened"`
	Released  int64     `json:"sessions_released"`
	InUse     int64     `json:"sessions_in_use"`
	Exhausted int64     `json:"pool_exhausted"`
	Pool      PoolStats `json:"pool"`
}

// PoolStats mirrors sql.DBStats with stable JSON names.
type PoolStats struct {
	MaxOpenConnections int    `json:"max_open_connections"`
	OpenConnections    int    `json:"open_connections"`
	InUse              int    `json:"in_use"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"wait_count"`
	WaitDuration       string `json:"wait_duration"`
	MaxIdleClosed      int64  `json:"max_idle_closed"`
	MaxIdleTimeClosed  int64  `json:"max_idle_time_closed"`
	MaxLifetimeClosed  int64  `json:"max_lifetime_closed"`
}

// Stats returns the current counters.
func (f *SessionFactory) Stats() Stats {
	pool := f.db.Stats()

	return Stats{
		Opened:    f.opened.Load(),
		Released:  f.released.Load(),
		InUse:     f.inUse.Load(),
		Exhausted: f.exhausted.Load(),
		Pool: PoolStats{
			MaxOpenConnections: pool.MaxOpenConnections,
			OpenConnections:    pool.OpenConnections,
			InUse:              pool.InUse,
			Idle:               pool.Idle,
			WaitCount:          pool.WaitCount,
			WaitDuration:       pool.WaitDuration.String(),
			MaxIdleClosed:      pool.MaxIdleClosed,
			MaxIdleTimeClosed:  pool.MaxIdleTimeClosed,
			MaxLifetimeClosed:  pool.MaxLifetimeClosed,
		},
	}
}

// Session is a per-request unit of work bound to one borrowed connection.
//
// Nothing is committed implicitly: the first statement begins a transaction,
// Commit persists it and Rollback discards it. Close discards whatever is
// still pending and returns the connection to the pool exactly once.
// A Session belongs to a single request and must not be shared.
type Session struct {
	factory  *SessionFactory
	conn     *sql.Conn
	ctx      context.Context
	openedAt time.Time

	mu     sync.Mutex
	inTx   bool
	closed bool

	closeOnce sync.Once
	closeErr  error
}

// begin starts the transaction on first use.
func (s *Session) begin(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.inTx {
		return nil
	}

	stmt := "BEGIN"
	if s.factory.opts.BeginImmediate {
		stmt = "BEGIN IMMEDIATE"
	}
	if _, err := s.conn.ExecContext(ctx, stmt); err != nil {
		return s.fail(err)
	}
	s.inTx = true
	return nil
}

// fail counts transport failures and tags them with ErrConnection.
func (s *Session) fail(err error) error {
	if IsConnectionFailure(err) {
		s.factory.connectionFailed()
	}
	return wrapConnErr(err)
}

func (s *Session) observe(query string, start time.Time) {
	threshold := s.factory.opts.SlowQueryThreshold
	if threshold <= 0 {
		return
	}
	if elapsed := time.Since(start); elapsed > threshold {
		if s.factory.metrics != nil {
			s.factory.metrics.SlowStatements.Inc()
		}
		s.factory.log.Warn().
			Dur("duration", elapsed).
			Str("query", query).
			Msg("slow database statement")
	}
}

// ExecContext runs a statement inside the session transaction.
func (s *Session) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if err := s.begin(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := s.conn.ExecContext(ctx, query, args...)
	s.observe(query, start)
	if err != nil {
		return nil, s.fail(err)
	}
	return res, nil
}

// QueryContext runs a query inside the session transaction.
func (s *Session) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if err := s.begin(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	rows, err := s.conn.QueryContext(ctx, query, args...)
	s.observe(query, start)
	if err != nil {
		return nil, s.fail(err)
	}
	return rows, nil
}

// QueryRowContext runs a query expected to return at most one row.
func (s *Session) QueryRowContext(ctx context.Context, query string, args ...any) *Row {
	if err := s.begin(ctx); err != nil {
		return &Row{err: err}
	}

	start := time.Now()
	row := s.conn.QueryRowContext(ctx, query, args...)
	s.observe(query, start)
	return &Row{row: row, session: s}
}

// Commit persists the pending transaction. Without one it is a no-op.
// The session stays usable: the next statement begins a new transaction.
func (s *Session) Commit(ctx context.Context) error {
	return s.finish(ctx, "COMMIT")
}

// Rollback discards the pending transaction. Without one it is a no-op.
func (s *Session) Rollback(ctx context.Context) error {
	return s.finish(ctx, "ROLLBACK")
}

func (s *Session) finish(ctx context.Context, stmt string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if !s.inTx {
		return nil
	}

	// The transaction is over either way: a failed COMMIT leaves nothing to
	// roll back on Postgres and SQLite alike.
	s.inTx = false
	if _, err := s.conn.ExecContext(ctx, stmt); err != nil {
		return s.fail(err)
	}
	return nil
}

// Close rolls back pending work and returns the connection to the pool.
//
// It is idempotent: only the first call releases, later calls return the
// same result. The rollback runs on a context detached from the request's
// cancellation and bounded by the release timeout; if it fails the
// connection is discarded rather than returned with an open transaction.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		pending := s.inTx
		s.inTx = false
		s.closed = true
		s.mu.Unlock()

		var rollbackErr error
		if pending {
			ctx, cancel := context.WithTimeout(context.WithoutCancel(s.ctx), s.factory.opts.ReleaseTimeout)
			if _, err := s.conn.ExecContext(ctx, "ROLLBACK"); err != nil {
				rollbackErr = fmt.Errorf("rollback on release: %w", s.fail(err))
				discard(s.conn)
				s.factory.log.Warn().Err(err).Msg("discarded database connection after failed rollback")
			}
			cancel()
		}

		closeErr := s.conn.Close()
		if errors.Is(closeErr, sql.ErrConnDone) {
			closeErr = nil
		}

		s.factory.release(s)
		s.closeErr = errors.Join(rollbackErr, closeErr)
	})

	return s.closeErr
}

// Row is the result of QueryRowContext. Transport failures surfaced by Scan
// wrap ErrConnection.
type Row struct {
	row     *sql.Row
	session *Session
	err     error
}

// Scan copies the row into dest. It returns sql.ErrNoRows when the query
// selected nothing.
func (r *Row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if err := r.row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}
		return r.session.fail(err)
	}
	return nil
}

// Err returns the error, if any, that was encountered while running the query.
func (r *Row) Err() error {
	if r.err != nil {
		return r.err
	}
	return r.session.fail(r.row.Err())
}
