package service

import (
	"github.com/jaksoftwares/Backend-Fasthub/internal/config"
	"github.com/jaksoftwares/Backend-Fasthub/internal/model"
)

// PaymentService exposes the M-Pesa gateway configuration. Credentials are
// only ever reported as present or absent.
type PaymentService struct {
	cfg config.PaymentConfig
}

func NewPaymentService(cfg config.PaymentConfig) *PaymentService {
	return &PaymentService{cfg: cfg}
}

func (s *PaymentService) MpesaStatus() *model.PaymentGatewayStatus {
	status := &model.PaymentGatewayStatus{
		Provider:    "mpesa",
		Environment: s.cfg.Environment,
		BaseURL:     s.cfg.BaseURL(),
		Configured:  s.cfg.Configured(),
	}
	if status.Configured {
		status.Shortcode = s.cfg.Shortcode
	}
	return status
}
