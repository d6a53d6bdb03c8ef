package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/jaksoftwares/Backend-Fasthub/internal/model"
	"github.com/jaksoftwares/Backend-Fasthub/internal/server"
	"github.com/jaksoftwares/Backend-Fasthub/internal/service"
)

type CustomerHandler struct {
	Handler
	customerService *service.CustomerService
}

func NewCustomerHandler(s *server.Server, customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		Handler:         NewHandler(s),
		customerService: customerService,
	}
}

func (h *CustomerHandler) ListCustomers(c echo.Context, query *model.ListCustomersQuery) (*model.ListResult[model.Customer], error) {
	sess, err := h.session(c)
	if err != nil {
		return nil, err
	}
	return h.customerService.List(c.Request().Context(), sess, query)
}

func (h *CustomerHandler) GetCustomer(c echo.Context, param *model.IDParam) (*model.Customer, error) {
	sess, err := h.session(c)
	if err != nil {
		return nil, err
	}
	return h.customerService.Get(c.Request().Context(), sess, param.ID)
}

func (h *CustomerHandler) CreateCustomer(c echo.Context, payload *model.CreateCustomerPayload) (*model.Customer, error) {
	sess, err := h.session(c)
	if err != nil {
		return nil, err
	}
	return h.customerService.Create(c.Request().Context(), sess, payload)
}

func (h *CustomerHandler) UpdateCustomer(c echo.Context, payload *model.UpdateCustomerPayload) (*model.Customer, error) {
	sess, err := h.session(c)
	if err != nil {
		return nil, err
	}
	return h.customerService.Update(c.Request().Context(), sess, payload)
}

func (h *CustomerHandler) DeleteCustomer(c echo.Context, param *model.IDParam) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	return h.customerService.Delete(c.Request().Context(), sess, param.ID)
}
