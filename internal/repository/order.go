package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jaksoftwares/Backend-Fasthub/internal/database"
	"github.com/jaksoftwares/Backend-Fasthub/internal/model"
)

type OrderRepository struct{}

const orderColumns = `id, customer_id, status, total, payment_method, shipping_address, created_at, updated_at`

func scanOrder(row scanner) (model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.CustomerID, &o.Status, &o.Total, &o.PaymentMethod, &o.ShippingAddress, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func (r *OrderRepository) List(ctx context.Context, q database.Querier, query model.ListOrdersQuery) ([]model.Order, int, error) {
	page := query.Page.Normalize()

	w := &whereBuilder{}
	if query.Status != "" {
		w.add("status = ?", query.Status)
	}
	if query.CustomerID != 0 {
		w.add("customer_id = ?", query.CustomerID)
	}

	total, err := count(ctx, q, "orders", w)
	if err != nil {
		return nil, 0, fmt.Errorf("counting orders: %w", err)
	}

	limit, args := w.page(page.Limit, page.Offset)
	rows, err := q.QueryContext(ctx, "SELECT "+orderColumns+" FROM orders"+w.sql()+" ORDER BY id DESC"+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	orders := make([]model.Order, 0, page.Limit)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	return orders, total, rows.Err()
}

// Get returns the order with its items.
func (r *OrderRepository) Get(ctx context.Context, q database.Querier, id int64) (model.Order, error) {
	o, err := scanOrder(q.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id))
	if err != nil {
		return model.Order{}, checkFound(err, "order")
	}

	o.Items, err = r.items(ctx, q, id)
	return o, err
}

func (r *OrderRepository) items(ctx context.Context, q database.Querier, orderID int64) ([]model.OrderItem, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, p.name, oi.quantity, oi.unit_price
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("listing order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Create inserts the order and its items. Total and unit prices must
// already be computed.
func (r *OrderRepository) Create(ctx context.Context, q database.Querier, o model.Order) (model.Order, error) {
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now

	err := q.QueryRowContext(ctx, `
		INSERT INTO orders (customer_id, status, total, payment_method, shipping_address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING id`,
		o.CustomerID, o.Status, o.Total, o.PaymentMethod, o.ShippingAddress, now,
	).Scan(&o.ID)
	if err != nil {
		return model.Order{}, fmt.Errorf("creating order: %w", err)
	}

	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID
		err := q.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			item.OrderID, item.ProductID, item.Quantity, item.UnitPrice,
		).Scan(&item.ID)
		if err != nil {
			return model.Order{}, fmt.Errorf("creating order item: %w", err)
		}
	}

	return o, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, q database.Querier, id int64, status string) error {
	res, err := q.ExecContext(ctx, `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}
	return checkAffected(res, "order")
}

// RestockItems puts the items of an order back into stock.
func (r *OrderRepository) RestockItems(ctx context.Context, q database.Querier, id int64) error {
	_, err := q.ExecContext(ctx, `
		UPDATE products
		SET stock = stock + (SELECT COALESCE(SUM(oi.quantity), 0) FROM order_items oi WHERE oi.order_id = $1 AND oi.product_id = products.id),
		    updated_at = $2
		WHERE id IN (SELECT product_id FROM order_items WHERE order_id = $1)`,
		id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("restocking order items: %w", err)
	}
	return nil
}

// Delete removes the order; its items go with it (ON DELETE CASCADE).
func (r *OrderRepository) Delete(ctx context.Context, q database.Querier, id int64) error {
	res, err := q.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting order: %w", err)
	}
	return checkAffected(res, "order")
}
