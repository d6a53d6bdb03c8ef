package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jaksoftwares/Backend-Fasthub/internal/database"
	"github.com/jaksoftwares/Backend-Fasthub/internal/model"
	"github.com/jaksoftwares/Backend-Fasthub/internal/sqlerr"
)

type CustomerRepository struct{}

const customerColumns = `id, name, email, phone, address, created_at, updated_at`

func scanCustomer(row scanner) (model.Customer, error) {
	var c model.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *CustomerRepository) List(ctx context.Context, q database.Querier, query model.ListCustomersQuery) ([]model.Customer, int, error) {
	page := query.Page.Normalize()

	w := &whereBuilder{}
	if query.Search != "" {
		w.add("(LOWER(name) LIKE ? OR LOWER(email) LIKE ?)", "%"+strings.ToLower(query.Search)+"%")
	}

	total, err := count(ctx, q, "customers", w)
	if err != nil {
		return nil, 0, fmt.Errorf("counting customers: %w", err)
	}

	limit, args := w.page(page.Limit, page.Offset)
	rows, err := q.QueryContext(ctx, "SELECT "+customerColumns+" FROM customers"+w.sql()+" ORDER BY id"+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing customers: %w", err)
	}
	defer rows.Close()

	customers := make([]model.Customer, 0, page.Limit)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		customers = append(customers, c)
	}
	return customers, total, rows.Err()
}

func (r *CustomerRepository) Get(ctx context.Context, q database.Querier, id int64) (model.Customer, error) {
	c, err := scanCustomer(q.QueryRowContext(ctx, "SELECT "+customerColumns+" FROM customers WHERE id = $1", id))
	return c, checkFound(err, "customer")
}

func (r *CustomerRepository) Create(ctx context.Context, q database.Querier, payload *model.CreateCustomerPayload) (model.Customer, error) {
	now := time.Now().UTC()
	c := model.Customer{
		Name:      payload.Name,
		Email:     strings.ToLower(payload.Email),
		Phone:     payload.Phone,
		Address:   payload.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := q.QueryRowContext(ctx, `
		INSERT INTO customers (name, email, phone, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id`,
		c.Name, c.Email, c.Phone, c.Address, now,
	).Scan(&c.ID)
	if err != nil {
		return model.Customer{}, fmt.Errorf("creating customer: %w", err)
	}
	return c, nil
}

func (r *CustomerRepository) Update(ctx context.Context, q database.Querier, c model.Customer) (model.Customer, error) {
	c.Email = strings.ToLower(c.Email)
	c.UpdatedAt = time.Now().UTC()
	res, err := q.ExecContext(ctx, `
		UPDATE customers SET name = $1, email = $2, phone = $3, address = $4, updated_at = $5
		WHERE id = $6`,
		c.Name, c.Email, c.Phone, c.Address, c.UpdatedAt, c.ID,
	)
	if err != nil {
		return model.Customer{}, fmt.Errorf("updating customer: %w", err)
	}
	return c, checkAffected(res, "customer")
}

func (r *CustomerRepository) Delete(ctx context.Context, q database.Querier, id int64) error {
	res, err := q.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		if sqlerr.ErrCode(err) == sqlerr.ForeignKeyViolation {
			return inUse("customer", "orders")
		}
		return fmt.Errorf("deleting customer: %w", err)
	}
	return checkAffected(res, "customer")
}
