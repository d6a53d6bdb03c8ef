package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jaksoftwares/Backend-Fasthub/internal/validation"
)

const (
	RepairStatusPending    = "pending"
	RepairStatusInProgress = "in_progress"
	RepairStatusCompleted  = "completed"
	RepairStatusCancelled  = "cancelled"
)

type RepairRequest struct {
	ID               int64           `json:"id"`
	CustomerName     string          `json:"customer_name"`
	Phone            string          `json:"phone"`
	Email            string          `json:"email"`
	DeviceType       string          `json:"device_type"`
	IssueDescription string          `json:"issue_description"`
	Status           string          `json:"status"`
	EstimatedCost    decimal.Decimal `json:"estimated_cost"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type ListRepairsQuery struct {
	Page
	Status string `query:"status" validate:"omitempty,oneof=pending in_progress completed cancelled"`
}

func (q *ListRepairsQuery) Validate() error {
	return validation.Struct(q)
}

type CreateRepairPayload struct {
	CustomerName     string `json:"customer_name" validate:"required,min=1,max=200"`
	Phone            string `json:"phone" validate:"required,e164"`
	Email            string `json:"email" validate:"omitempty,email,max=254"`
	DeviceType       string `json:"device_type" validate:"required,max=100"`
	IssueDescription string `json:"issue_description" validate:"required,max=2000"`
}

func (p *CreateRepairPayload) Validate() error {
	return validation.Struct(p)
}

type UpdateRepairPayload struct {
	ID               int64            `param:"id" json:"-" validate:"required,gt=0"`
	Status           *string          `json:"status" validate:"omitempty,oneof=pending in_progress completed cancelled"`
	EstimatedCost    *decimal.Decimal `json:"estimated_cost" validate:"omitempty,gte=0"`
	IssueDescription *string          `json:"issue_description" validate:"omitempty,max=2000"`
}

func (p *UpdateRepairPayload) Validate() error {
	return validation.Struct(p)
}

func (p *UpdateRepairPayload) Apply(repair *RepairRequest) {
	if p.Status != nil {
		repair.Status = *p.Status
	}
	if p.EstimatedCost != nil {
		repair.EstimatedCost = *p.EstimatedCost
	}
	if p.IssueDescription != nil {
		repair.IssueDescription = *p.IssueDescription
	}
}
