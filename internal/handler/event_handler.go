package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/FRWD789/je-m-inspire-sub000/internal/service"
	"github.com/FRWD789/je-m-inspire-sub000/pkg/middleware"
	"github.com/FRWD789/je-m-inspire-sub000/pkg/response"
)

// EventHandler handles event catalogue and vendor cancellation endpoints
type EventHandler struct {
	eventService service.EventService
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// ListEvents handles GET /events
func (h *EventHandler) ListEvents(c *gin.Context) {
	limit, offset := pagination(c)

	resp, err := h.eventService.ListEvents(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, resp)
}

// GetEvent handles GET /events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	eventID := c.Param("id")
	if eventID == "" {
		response.BadRequest(c, "event id is required")
		return
	}

	resp, err := h.eventService.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, resp)
}

// CancelEvent handles POST /vendor/events/:id/cancel
// Only the owning vendor may cancel; paid reservations turn into pending
// refund requests
func (h *EventHandler) CancelEvent(c *gin.Context) {
	if middleware.UserRole(c) != "vendor" {
		response.Forbidden(c, "vendor role required")
		return
	}

	eventID := c.Param("id")
	if eventID == "" {
		response.BadRequest(c, "event id is required")
		return
	}

	resp, err := h.eventService.CancelEvent(c.Request.Context(), eventID, middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, resp)
}
