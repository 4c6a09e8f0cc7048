package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/FRWD789/je-m-inspire-sub000/internal/dto"
	"github.com/FRWD789/je-m-inspire-sub000/internal/service"
	"github.com/FRWD789/je-m-inspire-sub000/pkg/middleware"
	"github.com/FRWD789/je-m-inspire-sub000/pkg/response"
)

// ReservationHandler handles reservation cancellation and refund requests
type ReservationHandler struct {
	reconciliation service.ReconciliationService
	refundService  service.RefundService
}

// NewReservationHandler creates a new ReservationHandler
func NewReservationHandler(reconciliation service.ReconciliationService, refundService service.RefundService) *ReservationHandler {
	return &ReservationHandler{
		reconciliation: reconciliation,
		refundService:  refundService,
	}
}

// CancelReservation handles DELETE /reservations/:id
// Cancels the acting user's reservation; paid reservations are refunded and
// their places returned
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	reservationID := c.Param("id")
	if reservationID == "" {
		response.BadRequest(c, "reservation id is required")
		return
	}

	resp, err := h.reconciliation.CancelReservation(c.Request.Context(), reservationID, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, resp)
}

// RequestRefund handles POST /refund-requests
func (h *ReservationHandler) RequestRefund(c *gin.Context) {
	var req dto.RefundRequestCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.refundService.RequestRefund(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, resp)
}

// ListRefundRequests handles GET /reservations/:id/refund-requests
func (h *ReservationHandler) ListRefundRequests(c *gin.Context) {
	reservationID := c.Param("id")
	if reservationID == "" {
		response.BadRequest(c, "reservation id is required")
		return
	}

	resp, err := h.refundService.ListReservationRefunds(c.Request.Context(), middleware.UserID(c), reservationID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, resp)
}
