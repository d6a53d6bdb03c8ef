package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/jaksoftwares/Backend-Fasthub/internal/model"
	"github.com/jaksoftwares/Backend-Fasthub/internal/server"
	"github.com/jaksoftwares/Backend-Fasthub/internal/service"
)

type OrderHandler struct {
	Handler
	orderService *service.OrderService
}

func NewOrderHandler(s *server.Server, orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{
		Handler:      NewHandler(s),
		orderService: orderService,
	}
}

func (h *OrderHandler) ListOrders(c echo.Context, query *model.ListOrdersQuery) (*model.ListResult[model.Order], error) {
	sess, err := h.session(c)
	if err != nil {
		return nil, err
	}
	return h.orderService.List(c.Request().Context(), sess, query)
}

func (h *OrderHandler) GetOrder(c echo.Context, param *model.IDParam) (*model.Order, error) {
	sess, err := h.session(c)
	if err != nil {
		return nil, err
	}
	return h.orderService.Get(c.Request().Context(), sess, param.ID)
}

func (h *OrderHandler) CreateOrder(c echo.Context, payload *model.CreateOrderPayload) (*model.Order, error) {
	sess, err := h.session(c)
	if err != nil {
		return nil, err
	}
	return h.orderService.Create(c.Request().Context(), sess, payload)
}

func (h *OrderHandler) UpdateOrderStatus(c echo.Context, payload *model.UpdateOrderStatusPayload) (*model.Order, error) {
	sess, err := h.session(c)
	if err != nil {
		return nil, err
	}
	return h.orderService.UpdateStatus(c.Request().Context(), sess, payload)
}

func (h *OrderHandler) DeleteOrder(c echo.Context, param *model.IDParam) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	return h.orderService.Delete(c.Request().Context(), sess, param.ID)
}
