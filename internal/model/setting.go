package model

import (
	"time"

	"github.com/jaksoftwares/Backend-Fasthub/internal/validation"
)

type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SettingKeyParam struct {
	Key string `param:"key" validate:"required,max=100"`
}

func (p *SettingKeyParam) Validate() error {
	return validation.Struct(p)
}

type UpsertSettingPayload struct {
	Key   string `param:"key" json:"-" validate:"required,max=100"`
	Value string `json:"value" validate:"max=2000"`
}

func (p *UpsertSettingPayload) Validate() error {
	return validation.Struct(p)
}
