package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/jaksoftwares/Backend-Fasthub/internal/model"
	"github.com/jaksoftwares/Backend-Fasthub/internal/server"
	"github.com/jaksoftwares/Backend-Fasthub/internal/service"
)

type RepairHandler struct {
	Handler
	repairService *service.RepairService
}

func NewRepairHandler(s *server.Server, repairService *service.RepairService) *RepairHandler {
	return &RepairHandler{
		Handler:       NewHandler(s),
		repairService: repairService,
	}
}

func (h *RepairHandler) ListRepairs(c echo.Context, query *model.ListRepairsQuery) (*model.ListResult[model.RepairRequest], error) {
	sess, err := h.session(c)
	if err != nil {
		return nil, err
	}
	return h.repairService.List(c.Request().Context(), sess, query)
}

func (h *RepairHandler) GetRepair(c echo.Context, param *model.IDParam) (*model.RepairRequest, error) {
	sess, err := h.session(c)
	if err != nil {
		return nil, err
	}
	return h.repairService.Get(c.Request().Context(), sess, param.ID)
}

func (h *RepairHandler) CreateRepair(c echo.Context, payload *model.CreateRepairPayload) (*model.RepairRequest, error) {
	sess, err := h.session(c)
	if err != nil {
		return nil, err
	}
	return h.repairService.Create(c.Request().Context(), sess, payload)
}

func (h *RepairHandler) UpdateRepair(c echo.Context, payload *model.UpdateRepairPayload) (*model.RepairRequest, error) {
	sess, err := h.session(c)
	if err != nil {
		return nil, err
	}
	return h.repairService.Update(c.Request().Context(), sess, payload)
}

func (h *RepairHandler) DeleteRepair(c echo.Context, param *model.IDParam) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	return h.repairService.Delete(c.Request().Context(), sess, param.ID)
}
