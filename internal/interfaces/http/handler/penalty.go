package handler

import (
	"github.com/gin-gonic/gin"
	lendingapp "github.com/spf-lend/backend/internal/application/lending"
)

// PenaltyHandler handles manual penalty endpoints
type PenaltyHandler struct {
	BaseHandler
	penaltyService *lendingapp.PenaltyService
}

// NewPenaltyHandler creates a new PenaltyHandler
func NewPenaltyHandler(penaltyService *lendingapp.PenaltyService) *PenaltyHandler {
	return &PenaltyHandler{penaltyService: penaltyService}
}

// Create handles POST /loans/:id/penalties
func (h *PenaltyHandler) Create(c *gin.Context) {
	loanID, ok := parseID(c)
	if !ok {
		return
	}

	var req lendingapp.CreatePenaltyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	penalty, err := h.penaltyService.Create(c.Request.Context(), loanID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, penalty)
}

// List handles GET /loans/:id/penalties
func (h *PenaltyHandler) List(c *gin.Context) {
	loanID, ok := parseID(c)
	if !ok {
		return
	}

	penalties, err := h.penaltyService.List(c.Request.Context(), loanID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, penalties)
}

// Update handles PUT /penalties/:id
func (h *PenaltyHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req lendingapp.UpdatePenaltyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	penalty, err := h.penaltyService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, penalty)
}

// Delete handles DELETE /penalties/:id
func (h *PenaltyHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.penaltyService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
