package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	reportapp "github.com/spf-lend/backend/internal/application/report"
)

// DashboardHandler handles the portfolio dashboard endpoint
type DashboardHandler struct {
	BaseHandler
	dashboardService *reportapp.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *reportapp.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Get handles GET /dashboard
func (h *DashboardHandler) Get(c *gin.Context) {
	stats, err := h.dashboardService.Get(c.Request.Context(), time.Now())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}
