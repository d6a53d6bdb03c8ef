package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jaksoftwares/Backend-Fasthub/internal/validation"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusPaid       = "paid"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

const (
	PaymentMethodMpesa = "mpesa"
	PaymentMethodCash  = "cash"
	PaymentMethodCard  = "card"
)

type Order struct {
	ID              int64           `json:"id"`
	CustomerID      int64           `json:"customer_id"`
	Status          string          `json:"status"`
	Total           decimal.Decimal `json:"total"`
	PaymentMethod   string          `json:"payment_method"`
	ShippingAddress string          `json:"shipping_address"`
	Items           []OrderItem     `json:"items,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type OrderItem struct {
	ID          int64           `json:"id"`
	OrderID     int64           `json:"order_id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Subtotal is quantity times unit price.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type ListOrdersQuery struct {
	Page
	Status     string `query:"status" validate:"omitempty,oneof=pending paid processing shipped delivered cancelled"`
	CustomerID int64  `query:"customer_id" validate:"omitempty,gt=0"`
}

func (q *ListOrdersQuery) Validate() error {
	return validation.Struct(q)
}

type OrderItemInput struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0,max=1000"`
}

// CreateOrderPayload places an order. Prices are read from the catalogue,
// never from the client.
type CreateOrderPayload struct {
	CustomerID      int64            `json:"customer_id" validate:"required,gt=0"`
	PaymentMethod   string           `json:"payment_method" validate:"omitempty,oneof=mpesa cash card"`
	ShippingAddress string           `json:"shipping_address" validate:"max=500"`
	Items           []OrderItemInput `json:"items" validate:"required,min=1,max=50,dive"`
}

func (p *CreateOrderPayload) Validate() error {
	if err := validation.Struct(p); err != nil {
		return err
	}

	seen := make(map[int64]bool, len(p.Items))
	var dup validation.CustomValidationErrors
	for _, item := range p.Items {
		if seen[item.ProductID] {
			dup = append(dup, validation.CustomValidationError{
				Field:   "items",
				Message: "each product may appear only once",
			})
			break
		}
		seen[item.ProductID] = true
	}
	if len(dup) > 0 {
		return dup
	}
	return nil
}

type UpdateOrderStatusPayload struct {
	ID     int64  `param:"id" json:"-" validate:"required,gt=0"`
	Status string `json:"status" validate:"required,oneof=pending paid processing shipped delivered cancelled"`
}

func (p *UpdateOrderStatusPayload) Validate() error {
	return validation.Struct(p)
}

// HoldsStock reports whether an order in status still has its items taken
// out of stock but not yet handed over, so cancelling or deleting it puts
// them back.
func HoldsStock(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusPaid, OrderStatusProcessing:
		return true
	default:
		return false
	}
}
