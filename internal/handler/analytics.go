package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/jaksoftwares/Backend-Fasthub/internal/model"
	"github.com/jaksoftwares/Backend-Fasthub/internal/server"
	"github.com/jaksoftwares/Backend-Fasthub/internal/service"
)

type AnalyticsHandler struct {
	Handler
	analyticsService *service.AnalyticsService
}

func NewAnalyticsHandler(s *server.Server, analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		Handler:          NewHandler(s),
		analyticsService: analyticsService,
	}
}

func (h *AnalyticsHandler) GetSummary(c echo.Context, query *model.SummaryQuery) (*model.Summary, error) {
	sess, err := h.session(c)
	if err != nil {
		return nil, err
	}
	return h.analyticsService.Summary(c.Request().Context(), sess, query)
}
