package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/jaksoftwares/Backend-Fasthub/internal/model"
	"github.com/jaksoftwares/Backend-Fasthub/internal/server"
	"github.com/jaksoftwares/Backend-Fasthub/internal/service"
)

type ProductHandler struct {
	Handler
	productService *service.ProductService
}

func NewProductHandler(s *server.Server, productService *service.ProductService) *ProductHandler {
	return &ProductHandler{
		Handler:        NewHandler(s),
		productService: productService,
	}
}

func (h *ProductHandler) ListProducts(c echo.Context, query *model.ListProductsQuery) (*model.ListResult[model.Product], error) {
	sess, err := h.session(c)
	if err != nil {
		return nil, err
	}
	return h.productService.List(c.Request().Context(), sess, query)
}

func (h *ProductHandler) ExportProducts(c echo.Context, query *model.ListProductsQuery) ([]byte, error) {
	sess, err := h.session(c)
	if err != nil {
		return nil, err
	}
	return h.productService.ExportCSV(c.Request().Context(), sess, query)
}

func (h *ProductHandler) GetProduct(c echo.Context, param *model.IDParam) (*model.Product, error) {
	sess, err := h.session(c)
	if err != nil {
		return nil, err
	}
	return h.productService.Get(c.Request().Context(), sess, param.ID)
}

func (h *ProductHandler) CreateProduct(c echo.Context, payload *model.CreateProductPayload) (*model.Product, error) {
	sess, err := h.session(c)
	if err != nil {
		return nil, err
	}
	return h.productService.Create(c.Request().Context(), sess, payload)
}

func (h *ProductHandler) UpdateProduct(c echo.Context, payload *model.UpdateProductPayload) (*model.Product, error) {
	sess, err := h.session(c)
	if err != nil {
		return nil, err
	}
	return h.productService.Update(c.Request().Context(), sess, payload)
}

func (h *ProductHandler) DeleteProduct(c echo.Context, param *model.IDParam) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	return h.productService.Delete(c.Request().Context(), sess, param.ID)
}
