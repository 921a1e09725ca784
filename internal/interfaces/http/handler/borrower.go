package handler

import (
	"github.com/gin-gonic/gin"
	lendingapp "github.com/spf-lend/backend/internal/application/lending"
)

// BorrowerHandler handles borrower endpoints
type BorrowerHandler struct {
	BaseHandler
	borrowerService *lendingapp.BorrowerService
}

// NewBorrowerHandler creates a new BorrowerHandler
func NewBorrowerHandler(borrowerService *lendingapp.BorrowerService) *BorrowerHandler {
	return &BorrowerHandler{borrowerService: borrowerService}
}

// Create handles POST /borrowers
func (h *BorrowerHandler) Create(c *gin.Context) {
	var req lendingapp.CreateBorrowerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	borrower, err := h.borrowerService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, borrower)
}

// Get handles GET /borrowers/:id
func (h *BorrowerHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	borrower, err := h.borrowerService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, borrower)
}

// List handles GET /borrowers
func (h *BorrowerHandler) List(c *gin.Context) {
	var filter lendingapp.BorrowerListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	borrowers, total, err := h.borrowerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	h.SuccessWithMeta(c, borrowers, total, filter.Page, filter.PageSize)
}

// Update handles PUT /borrowers/:id
func (h *BorrowerHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req lendingapp.UpdateBorrowerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	borrower, err := h.borrowerService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, borrower)
}

// Disable handles POST /borrowers/:id/disable
func (h *BorrowerHandler) Disable(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.borrowerService.Disable(c.Request.Context(), id, actor(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Enable handles POST /borrowers/:id/enable
func (h *BorrowerHandler) Enable(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	borrower, err := h.borrowerService.Enable(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, borrower)
}

// ListTrash handles GET /trash/borrowers
func (h *BorrowerHandler) ListTrash(c *gin.Context) {
	borrowers, err := h.borrowerService.ListTrash(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, borrowers)
}

// Delete handles DELETE /borrowers/:id
func (h *BorrowerHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.borrowerService.Delete(c.Request.Context(), id, actor(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
