package dto

import (
	"time"

	"github.com/FRWD789/je-m-inspire-sub000/internal/domain"
)

// ReservationResponse is the user-facing view of a reservation
type ReservationResponse struct {
	ID            string    `json:"id"`
	EventID       string    `json:"event_id"`
	PaymentID     string    `json:"payment_id"`
	Quantity      int       `json:"quantity"`
	PaymentStatus string    `json:"payment_status"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToReservationResponse converts a reservation with its payment status
func ToReservationResponse(r *domain.Reservation, paymentStatus domain.PaymentStatus) *ReservationResponse {
	return &ReservationResponse{
		ID:            r.ID,
		EventID:       r.EventID,
		PaymentID:     r.PaymentID,
		Quantity:      r.Quantity,
		PaymentStatus: string(paymentStatus),
		CreatedAt:     r.CreatedAt,
	}
}

// CancelReservationResponse reports the outcome of a user cancellation
type CancelReservationResponse struct {
	ReservationID  string `json:"reservation_id"`
	PaymentStatus  string `json:"payment_status"`
	PlacesReleased int    `json:"places_released"`
	Refunded       bool   `json:"refunded"`
}
