package handler

import (
	"github.com/jaksoftwares/Backend-Fasthub/internal/server"
	"github.com/jaksoftwares/Backend-Fasthub/internal/service"
)

// Handlers groups every HTTP handler so the router receives one value.
type Handlers struct {
	Health    *HealthHandler
	Product   *ProductHandler
	Customer  *CustomerHandler
	Order     *OrderHandler
	Repair    *RepairHandler
	Setting   *SettingHandler
	Analytics *AnalyticsHandler
	Payment   *PaymentHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(s),
		Product:   NewProductHandler(s, services.Products),
		Customer:  NewCustomerHandler(s, services.Customers),
		Order:     NewOrderHandler(s, services.Orders),
		Repair:    NewRepairHandler(s, services.Repairs),
		Setting:   NewSettingHandler(s, services.Settings),
		Analytics: NewAnalyticsHandler(s, services.Analytics),
		Payment:   NewPaymentHandler(s, services.Payments),
	}
}
