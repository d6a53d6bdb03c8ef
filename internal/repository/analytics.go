package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jaksoftwares/Backend-Fasthub/internal/database"
	"github.com/jaksoftwares/Backend-Fasthub/internal/model"
)

type AnalyticsRepository struct{}

// Summary aggregates the dashboard figures. Revenue counts every order that
// was not cancelled. Money is summed in Go so SQLite's TEXT columns and
// PostgreSQL's NUMERIC give the same exact result.
func (r *AnalyticsRepository) Summary(ctx context.Context, q database.Querier, lowStock int) (model.Summary, error) {
	summary := model.Summary{
		OrdersByStatus:   map[string]int{},
		Revenue:          decimal.Zero,
		LowStockProducts: []model.LowStockRecord{},
	}

	for table, dest := range map[string]*int{
		"products":  &summary.Products,
		"customers": &summary.Customers,
		"orders":    &summary.Orders,
	} {
		if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(dest); err != nil {
			return model.Summary{}, fmt.Errorf("counting %s: %w", table, err)
		}
	}

	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM repair_requests WHERE status IN ($1, $2)`,
		model.RepairStatusPending, model.RepairStatusInProgress).Scan(&summary.OpenRepairs)
	if err != nil {
		return model.Summary{}, fmt.Errorf("counting open repairs: %w", err)
	}

	rows, err := q.QueryContext(ctx, `SELECT status, total FROM orders`)
	if err != nil {
		return model.Summary{}, fmt.Errorf("reading orders: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var total decimal.Decimal
		if err := rows.Scan(&status, &total); err != nil {
			return model.Summary{}, err
		}
		summary.OrdersByStatus[status]++
		if status != model.OrderStatusCancelled {
			summary.Revenue = summary.Revenue.Add(total)
		}
	}
	if err := rows.Err(); err != nil {
		return model.Summary{}, err
	}

	lowRows, err := q.QueryContext(ctx, `SELECT id, name, stock FROM products WHERE stock <= $1 ORDER BY stock, id`, lowStock)
	if err != nil {
		return model.Summary{}, fmt.Errorf("reading low stock products: %w", err)
	}
	defer lowRows.Close()
	for lowRows.Next() {
		var rec model.LowStockRecord
		if err := lowRows.Scan(&rec.ID, &rec.Name, &rec.Stock); err != nil {
			return model.Summary{}, err
		}
		summary.LowStockProducts = append(summary.LowStockProducts, rec)
	}

	return summary, lowRows.Err()
}
