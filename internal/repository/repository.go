// Package repository holds the SQL of every resource.
//
// Repositories are stateless: each method receives the database.Querier
// (the request's session) it runs on, so all statements of one request share
// one connection and one transaction. Statements use $N placeholders, which
// both pgx and SQLite accept.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jaksoftwares/Backend-Fasthub/internal/database"
	"github.com/jaksoftwares/Backend-Fasthub/internal/errs"
)

// errorCode turns "repair request" into "REPAIR_REQUEST".
func errorCode(entity string) string {
	return strings.ToUpper(strings.ReplaceAll(entity, " ", "_"))
}

// notFound builds the 404 for a missing row of entity, e.g. PRODUCT_NOT_FOUND.
func notFound(entity string) error {
	code := errorCode(entity) + "_NOT_FOUND"
	return errs.NewNotFoundError(fmt.Sprintf("%s not found", strings.ToUpper(entity[:1])+entity[1:]), true, &code)
}

// inUse builds the 409 for deleting a row other rows still reference.
func inUse(entity, referencedBy string) error {
	code := errorCode(entity) + "_IN_USE"
	return errs.NewConflictError(fmt.Sprintf("The %s is still referenced by %s", entity, referencedBy), true, &code)
}

// checkFound maps sql.ErrNoRows to the entity's 404.
func checkFound(err error, entity string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(entity)
	}
	return err
}

// checkAffected turns an UPDATE/DELETE that touched nothing into a 404.
func checkAffected(res sql.Result, entity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound(entity)
	}
	return nil
}

// whereBuilder accumulates AND-ed conditions with numbered placeholders.
type whereBuilder struct {
	conds []string
	args  []any
}

func (w *whereBuilder) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(w.args))))
}

func (w *whereBuilder) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// page appends LIMIT/OFFSET placeholders and returns the clause and args.
func (w *whereBuilder) page(limit, offset int) (string, []any) {
	args := append(append([]any{}, w.args...), limit, offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(w.args)+1, len(w.args)+2), args
}

func count(ctx context.Context, q database.Querier, table string, w *whereBuilder) (int, error) {
	var total int
	err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table+w.sql(), w.args...).Scan(&total)
	return total, err
}
