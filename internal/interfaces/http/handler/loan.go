package handler

import (
	"github.com/gin-gonic/gin"
	lendingapp "github.com/spf-lend/backend/internal/application/lending"
)

// LoanHandler handles loan lifecycle endpoints, including the trash bin
type LoanHandler struct {
	BaseHandler
	loanService   *lendingapp.LoanService
	ledgerService *lendingapp.LedgerService
}

// NewLoanHandler creates a new LoanHandler
func NewLoanHandler(loanService *lendingapp.LoanService, ledgerService *lendingapp.LedgerService) *LoanHandler {
	return &LoanHandler{loanService: loanService, ledgerService: ledgerService}
}

// Create handles POST /loans
func (h *LoanHandler) Create(c *gin.Context) {
	var req lendingapp.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	loan, err := h.loanService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, loan)
}

// Get handles GET /loans/:id
func (h *LoanHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	loan, err := h.loanService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, loan)
}

// List handles GET /loans
func (h *LoanHandler) List(c *gin.Context) {
	var filter lendingapp.LoanListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	loans, total, err := h.loanService.List(c.Request.Context(), filter)
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
	h.SuccessWithMeta(c, loans, total, filter.Page, filter.PageSize)
}

// Update handles PUT /loans/:id
func (h *LoanHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req lendingapp.UpdateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	loan, err := h.loanService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, loan)
}

// Delete handles DELETE /loans/:id, moving the loan to the trash bin
func (h *LoanHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.loanService.SoftDelete(c.Request.Context(), id, actor(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// WriteOff handles POST /loans/:id/write-off
func (h *LoanHandler) WriteOff(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	loan, err := h.loanService.WriteOff(c.Request.Context(), id, actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, loan)
}

// Recalculate handles POST /loans/:id/recalculate
func (h *LoanHandler) Recalculate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	loan, err := h.ledgerService.Recalculate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, loan)
}

// ListTrash handles GET /trash/loans
func (h *LoanHandler) ListTrash(c *gin.Context) {
	loans, err := h.loanService.ListTrash(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, loans)
}

// Restore handles POST /trash/loans/:id/restore
func (h *LoanHandler) Restore(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	loan, err := h.loanService.Restore(c.Request.Context(), id, actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, loan)
}

// Purge handles DELETE /trash/loans/:id, removing the loan permanently
func (h *LoanHandler) Purge(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.loanService.Purge(c.Request.Context(), id, actor(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
