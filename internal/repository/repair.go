package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jaksoftwares/Backend-Fasthub/internal/database"
	"github.com/jaksoftwares/Backend-Fasthub/internal/model"
)

type RepairRepository struct{}

const repairColumns = `id, customer_name, phone, email, device_type, issue_description, status, estimated_cost, created_at, updated_at`

func scanRepair(row scanner) (model.RepairRequest, error) {
	var rr model.RepairRequest
	err := row.Scan(&rr.ID, &rr.CustomerName, &rr.Phone, &rr.Email, &rr.DeviceType, &rr.IssueDescription,
		&rr.Status, &rr.EstimatedCost, &rr.CreatedAt, &rr.UpdatedAt)
	return rr, err
}

func (r *RepairRepository) List(ctx context.Context, q database.Querier, query model.ListRepairsQuery) ([]model.RepairRequest, int, error) {
	page := query.Page.Normalize()

	w := &whereBuilder{}
	if query.Status != "" {
		w.add("status = ?", query.Status)
	}

	total, err := count(ctx, q, "repair_requests", w)
	if err != nil {
		return nil, 0, fmt.Errorf("counting repair requests: %w", err)
	}

	limit, args := w.page(page.Limit, page.Offset)
	rows, err := q.QueryContext(ctx, "SELECT "+repairColumns+" FROM repair_requests"+w.sql()+" ORDER BY id DESC"+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing repair requests: %w", err)
	}
	defer rows.Close()

	repairs := make([]model.RepairRequest, 0, page.Limit)
	for rows.Next() {
		rr, err := scanRepair(rows)
		if err != nil {
			return nil, 0, err
		}
		repairs = append(repairs, rr)
	}
	return repairs, total, rows.Err()
}

func (r *RepairRepository) Get(ctx context.Context, q database.Querier, id int64) (model.RepairRequest, error) {
	rr, err := scanRepair(q.QueryRowContext(ctx, "SELECT "+repairColumns+" FROM repair_requests WHERE id = $1", id))
	return rr, checkFound(err, "repair request")
}

func (r *RepairRepository) Create(ctx context.Context, q database.Querier, payload *model.CreateRepairPayload) (model.RepairRequest, error) {
	now := time.Now().UTC()
	rr := model.RepairRequest{
		CustomerName:     payload.CustomerName,
		Phone:            payload.Phone,
		Email:            payload.Email,
		DeviceType:       payload.DeviceType,
		IssueDescription: payload.IssueDescription,
		Status:           model.RepairStatusPending,
		EstimatedCost:    decimal.Zero,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err := q.QueryRowContext(ctx, `
		INSERT INTO repair_requests (customer_name, phone, email, device_type, issue_description, status, estimated_cost, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING id`,
		rr.CustomerName, rr.Phone, rr.Email, rr.DeviceType, rr.IssueDescription, rr.Status, rr.EstimatedCost, now,
	).Scan(&rr.ID)
	if err != nil {
		return model.RepairRequest{}, fmt.Errorf("creating repair request: %w", err)
	}
	return rr, nil
}

func (r *RepairRepository) Update(ctx context.Context, q database.Querier, rr model.RepairRequest) (model.RepairRequest, error) {
	rr.UpdatedAt = time.Now().UTC()
	res, err := q.ExecContext(ctx, `
		UPDATE repair_requests SET status = $1, estimated_cost = $2, issue_description = $3, updated_at = $4
		WHERE id = $5`,
		rr.Status, rr.EstimatedCost, rr.IssueDescription, rr.UpdatedAt, rr.ID,
	)
	if err != nil {
		return model.RepairRequest{}, fmt.Errorf("updating repair request: %w", err)
	}
	return rr, checkAffected(res, "repair request")
}

func (r *RepairRepository) Delete(ctx context.Context, q database.Querier, id int64) error {
	res, err := q.ExecContext(ctx, `DELETE FROM repair_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting repair request: %w", err)
	}
	return checkAffected(res, "repair request")
}
