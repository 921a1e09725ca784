package handler

import (
	"github.com/gin-gonic/gin"
	lendingapp "github.com/spf-lend/backend/internal/application/lending"
)

// PaymentHandler handles payment endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *lendingapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *lendingapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Record handles POST /loans/:id/payments
func (h *PaymentHandler) Record(c *gin.Context) {
	loanID, ok := parseID(c)
	if !ok {
		return
	}

	var req lendingapp.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.paymentService.Record(c.Request.Context(), loanID, actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List handles GET /loans/:id/payments
func (h *PaymentHandler) List(c *gin.Context) {
	loanID, ok := parseID(c)
	if !ok {
		return
	}

	payments, err := h.paymentService.List(c.Request.Context(), loanID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}

// Update handles PUT /payments/:id
func (h *PaymentHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req lendingapp.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	payment, err := h.paymentService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// Delete handles DELETE /payments/:id
func (h *PaymentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.paymentService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
