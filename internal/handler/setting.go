package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/jaksoftwares/Backend-Fasthub/internal/model"
	"github.com/jaksoftwares/Backend-Fasthub/internal/server"
	"github.com/jaksoftwares/Backend-Fasthub/internal/service"
)

type SettingHandler struct {
	Handler
	settingService *service.SettingService
}

func NewSettingHandler(s *server.Server, settingService *service.SettingService) *SettingHandler {
	return &SettingHandler{
		Handler:        NewHandler(s),
		settingService: settingService,
	}
}

func (h *SettingHandler) ListSettings(c echo.Context, _ *model.NoPayload) ([]model.Setting, error) {
	sess, err := h.session(c)
	if err != nil {
		return nil, err
	}
	return h.settingService.List(c.Request().Context(), sess)
}

func (h *SettingHandler) GetSetting(c echo.Context, param *model.SettingKeyParam) (*model.Setting, error) {
	sess, err := h.session(c)
	if err != nil {
		return nil, err
	}
	return h.settingService.Get(c.Request().Context(), sess, param.Key)
}

func (h *SettingHandler) UpsertSetting(c echo.Context, payload *model.UpsertSettingPayload) (*model.Setting, error) {
	sess, err := h.session(c)
	if err != nil {
		return nil, err
	}
	return h.settingService.Upsert(c.Request().Context(), sess, payload)
}

func (h *SettingHandler) DeleteSetting(c echo.Context, param *model.SettingKeyParam) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	return h.settingService.Delete(c.Request().Context(), sess, param.Key)
}
