package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/FRWD789/je-m-inspire-sub000/internal/dto"
	"github.com/FRWD789/je-m-inspire-sub000/internal/service"
	"github.com/FRWD789/je-m-inspire-sub000/pkg/middleware"
	"github.com/FRWD789/je-m-inspire-sub000/pkg/response"
)

// CheckoutHandler handles checkout HTTP endpoints
type CheckoutHandler struct {
	checkoutService service.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// StartCheckout handles POST /checkout
// Creates the soft hold and returns the hosted payment page to redirect to
func (h *CheckoutHandler) StartCheckout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.UserID(c)
	if userID == "" {
		response.Unauthorized(c, "authentication required")
		return
	}

	resp, err := h.checkoutService.StartCheckout(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, resp)
}
