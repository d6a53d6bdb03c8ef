// Package model defines the shop's records and the request payloads that
// create or change them.
package model

import "github.com/jaksoftwares/Backend-Fasthub/internal/validation"

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

// Page is the offset pagination accepted by every list endpoint.
type Page struct {
	Limit  int `query:"limit" validate:"omitempty,min=1,max=200"`
	Offset int `query:"offset" validate:"omitempty,min=0"`
}

// Normalize fills the default limit.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// ListResult wraps a page of items with the total matching count.
type ListResult[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// IDParam binds the ":id" path parameter.
type IDParam struct {
	ID int64 `param:"id" validate:"required,gt=0"`
}

func (p *IDParam) Validate() error {
	return validation.Struct(p)
}
