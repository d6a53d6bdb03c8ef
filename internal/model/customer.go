package model

import (
	"time"

	"github.com/jaksoftwares/Backend-Fasthub/internal/validation"
)

type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListCustomersQuery struct {
	Page
	Search string `query:"q" validate:"omitempty,max=100"`
}

func (q *ListCustomersQuery) Validate() error {
	return validation.Struct(q)
}

type CreateCustomerPayload struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Phone   string `json:"phone" validate:"omitempty,e164"`
	Address string `json:"address" validate:"max=500"`
}

func (p *CreateCustomerPayload) Validate() error {
	return validation.Struct(p)
}

type UpdateCustomerPayload struct {
	ID      int64   `param:"id" json:"-" validate:"required,gt=0"`
	Name    *string `json:"name" validate:"omitempty,min=1,max=200"`
	Email   *string `json:"email" validate:"omitempty,email,max=254"`
	Phone   *string `json:"phone" validate:"omitempty,e164"`
	Address *string `json:"address" validate:"omitempty,max=500"`
}

func (p *UpdateCustomerPayload) Validate() error {
	return validation.Struct(p)
}

func (p *UpdateCustomerPayload) Apply(customer *Customer) {
	if p.Name != nil {
		customer.Name = *p.Name
	}
	if p.Email != nil {
		customer.Email = *p.Email
	}
	if p.Phone != nil {
		customer.Phone = *p.Phone
	}
	if p.Address != nil {
		customer.Address = *p.Address
	}
}
