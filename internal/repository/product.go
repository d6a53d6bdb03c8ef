package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jaksoftwares/Backend-Fasthub/internal/database"
	"github.com/jaksoftwares/Backend-Fasthub/internal/errs"
	"github.com/jaksoftwares/Backend-Fasthub/internal/model"
	"github.com/jaksoftwares/Backend-Fasthub/internal/sqlerr"
)

type ProductRepository struct{}

const productColumns = `id, name, description, category, price, stock, image_url, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Price, &p.Stock, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *ProductRepository) List(ctx context.Context, q database.Querier, query model.ListProductsQuery) ([]model.Product, int, error) {
	page := query.Page.Normalize()

	w := &whereBuilder{}
	if query.Category != "" {
		w.add("category = ?", query.Category)
	}
	if query.Search != "" {
		w.add("LOWER(name) LIKE ?", "%"+strings.ToLower(query.Search)+"%")
	}

	total, err := count(ctx, q, "products", w)
	if err != nil {
		return nil, 0, fmt.Errorf("counting products: %w", err)
	}

	limit, args := w.page(page.Limit, page.Offset)
	rows, err := q.QueryContext(ctx, "SELECT "+productColumns+" FROM products"+w.sql()+" ORDER BY id"+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	products := make([]model.Product, 0, page.Limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func (r *ProductRepository) Get(ctx context.Context, q database.Querier, id int64) (model.Product, error) {
	p, err := scanProduct(q.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id))
	return p, checkFound(err, "product")
}

// GetForUpdate reads a product and, on PostgreSQL, locks its row until the
// session's transaction ends. SQLite serializes writers on its own.
func (r *ProductRepository) GetForUpdate(ctx context.Context, q database.Querier, id int64, lock bool) (model.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE id = $1"
	if lock {
		query += " FOR UPDATE"
	}
	p, err := scanProduct(q.QueryRowContext(ctx, query, id))
	return p, checkFound(err, "product")
}

func (r *ProductRepository) Create(ctx context.Context, q database.Querier, payload *model.CreateProductPayload) (model.Product, error) {
	now := time.Now().UTC()
	p := model.Product{
		Name:        payload.Name,
		Description: payload.Description,
		Category:    payload.Category,
		Price:       payload.Price,
		Stock:       payload.Stock,
		ImageURL:    payload.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := q.QueryRowContext(ctx, `
		INSERT INTO products (name, description, category, price, stock, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING id`,
		p.Name, p.Description, p.Category, p.Price, p.Stock, p.ImageURL, now,
	).Scan(&p.ID)
	if err != nil {
		return model.Product{}, fmt.Errorf("creating product: %w", err)
	}
	return p, nil
}

func (r *ProductRepository) Update(ctx context.Context, q database.Querier, p model.Product) (model.Product, error) {
	p.UpdatedAt = time.Now().UTC()
	res, err := q.ExecContext(ctx, `
		UPDATE products
		SET name = $1, description = $2, category = $3, price = $4, stock = $5, image_url = $6, updated_at = $7
		WHERE id = $8`,
		p.Name, p.Description, p.Category, p.Price, p.Stock, p.ImageURL, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return model.Product{}, fmt.Errorf("updating product: %w", err)
	}
	return p, checkAffected(res, "product")
}

// DecrementStock takes quantity units out of stock, failing with a 409 when
// fewer are left.
func (r *ProductRepository) DecrementStock(ctx context.Context, q database.Querier, id int64, quantity int) error {
	res, err := q.ExecContext(ctx, `
		UPDATE products SET stock = stock - $1, updated_at = $2
		WHERE id = $3 AND stock >= $1`,
		quantity, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("decrementing stock: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		code := "PRODUCT_OUT_OF_STOCK"
		return errs.NewConflictError(fmt.Sprintf("Not enough stock for product %d", id), true, &code)
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, q database.Querier, id int64) error {
	res, err := q.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if sqlerr.ErrCode(err) == sqlerr.ForeignKeyViolation {
			return inUse("product", "orders")
		}
		return fmt.Errorf("deleting product: %w", err)
	}
	return checkAffected(res, "product")
}
