package handler

import (
	"github.com/gin-gonic/gin"
	lendingapp "github.com/spf-lend/backend/internal/application/lending"
)

// TopupHandler handles principal top-up endpoints
type TopupHandler struct {
	BaseHandler
	topupService *lendingapp.TopupService
}

// NewTopupHandler creates a new TopupHandler
func NewTopupHandler(topupService *lendingapp.TopupService) *TopupHandler {
	return &TopupHandler{topupService: topupService}
}

// Create handles POST /loans/:id/topups
func (h *TopupHandler) Create(c *gin.Context) {
	loanID, ok := parseID(c)
	if !ok {
		return
	}

	var req lendingapp.CreateTopupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	topup, err := h.topupService.Create(c.Request.Context(), loanID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, topup)
}

// List handles GET /loans/:id/topups
func (h *TopupHandler) List(c *gin.Context) {
	loanID, ok := parseID(c)
	if !ok {
		return
	}

	topups, err := h.topupService.List(c.Request.Context(), loanID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, topups)
}

// Update handles PUT /topups/:id
func (h *TopupHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req lendingapp.UpdateTopupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	topup, err := h.topupService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, topup)
}

// Delete handles DELETE /topups/:id
func (h *TopupHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.topupService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
