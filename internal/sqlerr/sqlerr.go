// Package sqlerr translates database driver errors into API errors.
//
// It understands PostgreSQL errors (pgconn.PgError, by SQLSTATE) and SQLite
// errors (modernc sqlite.Error, by extended result code), normalizes both
// into *Error, and maps the result onto errs.HTTPError so a duplicate email
// becomes a 409 "A customer with this Email already exists" rather than a
// raw driver message. The connection sentinels of package database become
// 503 responses.
package sqlerr
