package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jaksoftwares/Backend-Fasthub/internal/handler"
	"github.com/jaksoftwares/Backend-Fasthub/internal/model"
)

// Resource routes take the session middleware per route rather than per
// group, so unmatched paths answer 404 without borrowing a connection.
func registerProductRoutes(g *echo.Group, h *handler.Handlers, session echo.MiddlewareFunc) {
	products := g.Group("/products")
	ph := h.Product

	products.GET("", handler.Handle(ph.Handler, ph.ListProducts, http.StatusOK, &model.ListProductsQuery{}), session)
	products.GET("/export", handler.HandleFile(ph.Handler, ph.ExportProducts, http.StatusOK, &model.ListProductsQuery{}, "products.csv", "text/csv"), session)
	products.GET("/:id", handler.Handle(ph.Handler, ph.GetProduct, http.StatusOK, &model.IDParam{}), session)
	products.POST("", handler.Handle(ph.Handler, ph.CreateProduct, http.StatusCreated, &model.CreateProductPayload{}), session)
	products.PATCH("/:id", handler.Handle(ph.Handler, ph.UpdateProduct, http.StatusOK, &model.UpdateProductPayload{}), session)
	products.DELETE("/:id", handler.HandleNoContent(ph.Handler, ph.DeleteProduct, http.StatusNoContent, &model.IDParam{}), session)
}

func registerCustomerRoutes(g *echo.Group, h *handler.Handlers, session echo.MiddlewareFunc) {
	customers := g.Group("/customers")
	ch := h.Customer

	customers.GET("", handler.Handle(ch.Handler, ch.ListCustomers, http.StatusOK, &model.ListCustomersQuery{}), session)
	customers.GET("/:id", handler.Handle(ch.Handler, ch.GetCustomer, http.StatusOK, &model.IDParam{}), session)
	customers.POST("", handler.Handle(ch.Handler, ch.CreateCustomer, http.StatusCreated, &model.CreateCustomerPayload{}), session)
	customers.PATCH("/:id", handler.Handle(ch.Handler, ch.UpdateCustomer, http.StatusOK, &model.UpdateCustomerPayload{}), session)
	customers.DELETE("/:id", handler.HandleNoContent(ch.Handler, ch.DeleteCustomer, http.StatusNoContent, &model.IDParam{}), session)
}

func registerOrderRoutes(g *echo.Group, h *handler.Handlers, session echo.MiddlewareFunc) {
	orders := g.Group("/orders")
	oh := h.Order

	orders.GET("", handler.Handle(oh.Handler, oh.ListOrders, http.StatusOK, &model.ListOrdersQuery{}), session)
	orders.GET("/:id", handler.Handle(oh.Handler, oh.GetOrder, http.StatusOK, &model.IDParam{}), session)
	orders.POST("", handler.Handle(oh.Handler, oh.CreateOrder, http.StatusCreated, &model.CreateOrderPayload{}), session)
	orders.PATCH("/:id/status", handler.Handle(oh.Handler, oh.UpdateOrderStatus, http.StatusOK, &model.UpdateOrderStatusPayload{}), session)
	orders.DELETE("/:id", handler.HandleNoContent(oh.Handler, oh.DeleteOrder, http.StatusNoContent, &model.IDParam{}), session)
}

func registerRepairRoutes(g *echo.Group, h *handler.Handlers, session echo.MiddlewareFunc) {
	repairs := g.Group("/repairs")
	rh := h.Repair

	repairs.GET("", handler.Handle(rh.Handler, rh.ListRepairs, http.StatusOK, &model.ListRepairsQuery{}), session)
	repairs.GET("/:id", handler.Handle(rh.Handler, rh.GetRepair, http.StatusOK, &model.IDParam{}), session)
	repairs.POST("", handler.Handle(rh.Handler, rh.CreateRepair, http.StatusCreated, &model.CreateRepairPayload{}), session)
	repairs.PATCH("/:id", handler.Handle(rh.Handler, rh.UpdateRepair, http.StatusOK, &model.UpdateRepairPayload{}), session)
	repairs.DELETE("/:id", handler.HandleNoContent(rh.Handler, rh.DeleteRepair, http.StatusNoContent, &model.IDParam{}), session)
}

func registerSettingRoutes(g *echo.Group, h *handler.Handlers, session echo.MiddlewareFunc) {
	settings := g.Group("/settings")
	sh := h.Setting

	settings.GET("", handler.Handle(sh.Handler, sh.ListSettings, http.StatusOK, &model.NoPayload{}), session)
	settings.GET("/:key", handler.Handle(sh.Handler, sh.GetSetting, http.StatusOK, &model.SettingKeyParam{}), session)
	settings.PUT("/:key", handler.Handle(sh.Handler, sh.UpsertSetting, http.StatusOK, &model.UpsertSettingPayload{}), session)
	settings.DELETE("/:key", handler.HandleNoContent(sh.Handler, sh.DeleteSetting, http.StatusNoContent, &model.SettingKeyParam{}), session)
}

func registerAnalyticsRoutes(g *echo.Group, h *handler.Handlers, session echo.MiddlewareFunc) {
	ah := h.Analytics
	g.GET("/analytics/summary", handler.Handle(ah.Handler, ah.GetSummary, http.StatusOK, &model.SummaryQuery{}), session)
}

func registerPaymentRoutes(g *echo.Group, h *handler.Handlers) {
	ph := h.Payment
	g.GET("/mpesa", handler.Handle(ph.Handler, ph.GetMpesaStatus, http.StatusOK, &model.NoPayload{}))
}
