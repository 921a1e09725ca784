package handler

import (
	"github.com/gin-gonic/gin"
	settingsapp "github.com/spf-lend/backend/internal/application/settings"
)

// SettingsHandler handles operational settings endpoints
type SettingsHandler struct {
	BaseHandler
	settingsService *settingsapp.Service
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *settingsapp.Service) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// List handles GET /settings
func (h *SettingsHandler) List(c *gin.Context) {
	settings, err := h.settingsService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, settings)
}

// Get handles GET /settings/:key
func (h *SettingsHandler) Get(c *gin.Context) {
	setting, err := h.settingsService.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, setting)
}

// Update handles PUT /settings/:key
func (h *SettingsHandler) Update(c *gin.Context) {
	var req settingsapp.UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	setting, err := h.settingsService.Update(c.Request.Context(), c.Param("key"), actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, setting)
}
