package model

import (
	"github.com/shopspring/decimal"

	"github.com/jaksoftwares/Backend-Fasthub/internal/validation"
)

// Summary is the dashboard overview.
type Summary struct {
	Products         int              `json:"products"`
	Customers        int              `json:"customers"`
	Orders           int              `json:"orders"`
	OrdersByStatus   map[string]int   `json:"orders_by_status"`
	Revenue          decimal.Decimal  `json:"revenue"`
	OpenRepairs      int              `json:"open_repairs"`
	LowStockProducts []LowStockRecord `json:"low_stock_products"`
}

type LowStockRecord struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

type SummaryQuery struct {
	LowStock int `query:"low_stock" validate:"omitempty,min=0,max=10000"`
}

func (q *SummaryQuery) Validate() error {
	return validation.Struct(q)
}

// PaymentGatewayStatus describes the M-Pesa configuration without any
// credential.
type PaymentGatewayStatus struct {
	Provider    string `json:"provider"`
	Environment string `json:"environment"`
	BaseURL     string `json:"base_url"`
	Configured  bool   `json:"configured"`
	Shortcode   string `json:"shortcode,omitempty"`
}

// NoPayload is the request of endpoints that take no input.
type NoPayload struct{}

func (NoPayload) Validate() error { return nil }
