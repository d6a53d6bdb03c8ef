package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrConfiguration reports a missing or malformed connection string or
	// pool setting. It is fatal at startup.
	ErrConfiguration = errors.New("database configuration error")

	// ErrPoolExhausted reports that no connection became available within
	// the acquire timeout. The caller may retry.
	ErrPoolExhausted = errors.New("database pool exhausted")

	// ErrConnection reports a broken transport: the dial failed or the
	// connection died mid-session.
	ErrConnection = errors.New("database connection error")

	// ErrSessionClosed is returned by statements issued after Close.
	ErrSessionClosed = errors.New("database session is closed")
)

// IsConnectionFailure reports whether err comes from the transport rather
// than from the statement itself. Context cancellation is not a transport
// failure.
func IsConnectionFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrConnection) {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// wrapConnErr tags transport failures with ErrConnection and keeps the cause
// in the chain. Other errors pass through untouched.
func wrapConnErr(err error) error {
	if err == nil || errors.Is(err, ErrConnection) || !IsConnectionFailure(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrConnection, err)
}
