package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// MonitorResult is the outcome of one background pre-ping.
//
// Error is a category, never the driver message: driver errors may carry the
// user name or host of the connection string.
type MonitorResult struct {
	CheckedAt time.Time `json:"checked_at"`
	Healthy   bool      `json:"healthy"`
	Latency   string    `json:"latency"`
	Error     string    `json:"error,omitempty"`
}

// Monitor pings the pool on a fixed interval so a dead database shows up in
// the health endpoint and metrics before the next request hits it.
type Monitor struct {
	db       *sql.DB
	cron     *cron.Cron
	interval time.Duration
	timeout  time.Duration
	log      *zerolog.Logger
	metrics  *Metrics

	mu      sync.RWMutex
	last    MonitorResult
	checked bool
}

// NewMonitor schedules a pre-ping every interval. It does not start the
// scheduler; call Start.
func NewMonitor(db *sql.DB, interval, timeout time.Duration, logger *zerolog.Logger, metrics *Metrics) (*Monitor, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("%w: health check interval must be positive", ErrConfiguration)
	}
	if timeout <= 0 {
		timeout = interval
	}

	m := &Monitor{
		db:       db,
		cron:     cron.New(),
		interval: interval,
		timeout:  timeout,
		log:      logger,
		metrics:  metrics,
	}

	if _, err := m.cron.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		m.Check(context.Background())
	}); err != nil {
		return nil, fmt.Errorf("%w: scheduling health check: %w", ErrConfiguration, err)
	}

	return m, nil
}

// Start runs the scheduler in its own goroutine.
func (m *Monitor) Start() {
	m.log.Info().Dur("interval", m.interval).Msg("starting database health monitor")
	m.cron.Start()
}

// Stop halts the scheduler and waits for a running check to finish or ctx
// to end.
func (m *Monitor) Stop(ctx context.Context) {
	done := m.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// Check pings the pool once and records the result.
func (m *Monitor) Check(ctx context.Context) MonitorResult {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	start := time.Now()
	err := m.db.PingContext(ctx)

	result := MonitorResult{
		CheckedAt: start.UTC(),
		Healthy:   err == nil,
		Latency:   time.Since(start).String(),
	}

	if err != nil {
		result.Error = ClassifyError(err)
		m.log.Error().Err(err).Str("category", result.Error).Msg("database pre-ping failed")
	}

	if m.metrics != nil {
		if result.Healthy {
			m.metrics.MonitorUp.Set(1)
		} else {
			m.metrics.MonitorUp.Set(0)
		}
	}

	m.mu.Lock()
	m.last = result
	m.checked = true
	m.mu.Unlock()

	return result
}

// Last returns the most recent result and whether any check ran yet.
func (m *Monitor) Last() (MonitorResult, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last, m.checked
}

// ClassifyError reduces a ping failure to a category safe to expose:
// "timeout", "unreachable" or "error".
func ClassifyError(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case IsConnectionFailure(err):
		return "unreachable"
	default:
		return "error"
	}
}
