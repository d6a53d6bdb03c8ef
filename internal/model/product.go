package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jaksoftwares/Backend-Fasthub/internal/validation"
)

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"image_url"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type ListProductsQuery struct {
	Page
	Category string `query:"category" validate:"omitempty,max=100"`
	Search   string `query:"q" validate:"omitempty,max=100"`
}

func (q *ListProductsQuery) Validate() error {
	return validation.Struct(q)
}

type CreateProductPayload struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	Category    string          `json:"category" validate:"max=100"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	Stock       int             `json:"stock" validate:"gte=0"`
	ImageURL    string          `json:"image_url" validate:"omitempty,url,max=500"`
}

func (p *CreateProductPayload) Validate() error {
	return validation.Struct(p)
}

// UpdateProductPayload changes only the fields that are present.
type UpdateProductPayload struct {
	ID          int64            `param:"id" json:"-" validate:"required,gt=0"`
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	Category    *string          `json:"category" validate:"omitempty,max=100"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0"`
	ImageURL    *string          `json:"image_url" validate:"omitempty,url,max=500"`
}

func (p *UpdateProductPayload) Validate() error {
	return validation.Struct(p)
}

// Apply copies the present fields onto product.
func (p *UpdateProductPayload) Apply(product *Product) {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.Category != nil {
		product.Category = *p.Category
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.Stock != nil {
		product.Stock = *p.Stock
	}
	if p.ImageURL != nil {
		product.ImageURL = *p.ImageURL
	}
}
