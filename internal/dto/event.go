package dto

import (
	"time"

	"github.com/FRWD789/je-m-inspire-sub000/internal/domain"
)

// EventResponse is the public view of an event's availability
type EventResponse struct {
	ID              string    `json:"id"`
	VendorID        string    `json:"vendor_id"`
	Name            string    `json:"name"`
	BasePrice       float64   `json:"base_price"`
	MaxPlaces       int       `json:"max_places"`
	AvailablePlaces int       `json:"available_places"`
	StartDate       time.Time `json:"start_date"`
	Cancelled       bool      `json:"cancelled"`
}

// ToEventResponse converts an event row
func ToEventResponse(e *domain.Event) *EventResponse {
	return &EventResponse{
		ID:              e.ID,
		VendorID:        e.VendorID,
		Name:            e.Name,
		BasePrice:       e.BasePrice,
		MaxPlaces:       e.MaxPlaces,
		AvailablePlaces: e.AvailablePlaces,
		StartDate:       e.StartDate,
		Cancelled:       e.Cancelled,
	}
}

// CancelEventResponse reports the outcome of a vendor-initiated cancellation
type CancelEventResponse struct {
	EventID            string `json:"event_id"`
	RefundRequestsOpen int    `json:"refund_requests_open"`
	PendingHoldsVoided int    `json:"pending_holds_voided"`
}
