package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/FRWD789/je-m-inspire-sub000/internal/domain"
	"github.com/FRWD789/je-m-inspire-sub000/internal/service"
	"github.com/FRWD789/je-m-inspire-sub000/pkg/middleware"
	"github.com/FRWD789/je-m-inspire-sub000/pkg/response"
)

// PaymentHandler handles payment and reservation read endpoints
type PaymentHandler struct {
	paymentService service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// GetPaymentStatus handles GET /payments/:id
// The polling endpoint clients hit after the hosted redirect
func (h *PaymentHandler) GetPaymentStatus(c *gin.Context) {
	paymentID := c.Param("id")
	if paymentID == "" {
		response.BadRequest(c, "payment id is required")
		return
	}

	resp, err := h.paymentService.GetPaymentStatus(c.Request.Context(), middleware.UserID(c), paymentID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, resp)
}

// GetPaymentBySession handles GET /payments/session/:provider/:ref
// Success pages land here with only the provider's session reference
func (h *PaymentHandler) GetPaymentBySession(c *gin.Context) {
	provider := domain.Provider(c.Param("provider"))
	if provider != domain.ProviderStripe && provider != domain.ProviderPayPal {
		response.BadRequest(c, "unknown provider")
		return
	}
	ref := c.Param("ref")
	if ref == "" {
		response.BadRequest(c, "session reference is required")
		return
	}

	resp, err := h.paymentService.GetPaymentBySession(c.Request.Context(), middleware.UserID(c), provider, ref)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, resp)
}

// ListPayments handles GET /payments
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	limit, offset := pagination(c)

	resp, err := h.paymentService.ListUserPayments(c.Request.Context(), middleware.UserID(c), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, resp)
}

// ListReservations handles GET /reservations
func (h *PaymentHandler) ListReservations(c *gin.Context) {
	limit, offset := pagination(c)

	resp, err := h.paymentService.ListUserReservations(c.Request.Context(), middleware.UserID(c), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, resp)
}

// ListCommissions handles GET /vendor/commissions
// The vendor's own commission rows; the vendor ID is the authenticated subject
func (h *PaymentHandler) ListCommissions(c *gin.Context) {
	if middleware.UserRole(c) != "vendor" {
		response.Forbidden(c, "vendor role required")
		return
	}
	limit, offset := pagination(c)

	resp, err := h.paymentService.ListVendorCommissions(c.Request.Context(), middleware.UserID(c), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, resp)
}
