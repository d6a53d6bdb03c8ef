package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/jaksoftwares/Backend-Fasthub/internal/model"
	"github.com/jaksoftwares/Backend-Fasthub/internal/server"
	"github.com/jaksoftwares/Backend-Fasthub/internal/service"
)

// PaymentHandler reports the payment gateway setup. It never touches the
// database.
type PaymentHandler struct {
	Handler
	paymentService *service.PaymentService
}

func NewPaymentHandler(s *server.Server, paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		Handler:        NewHandler(s),
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) GetMpesaStatus(c echo.Context, _ *model.NoPayload) (*model.PaymentGatewayStatus, error) {
	return h.paymentService.MpesaStatus(), nil
}
