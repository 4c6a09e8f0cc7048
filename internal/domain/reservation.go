package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MaxQuantityPerReservation bounds a single booking
const MaxQuantityPerReservation = 10

// Reservation links a user, an event, a quantity and the payment created
// alongside it. A pending reservation is a soft hold: it is not reflected in
// the event's inventory counters until the payment is confirmed.
type Reservation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	EventID   string    `json:"event_id"`
	PaymentID string    `json:"payment_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

// NewReservation creates a new reservation referencing its payment
func NewReservation(userID, eventID, paymentID string, quantity int) (*Reservation, error) {
	if userID == "" {
		return nil, errors.New("user_id is required")
	}
	if eventID == "" {
		return nil, errors.New("event_id is required")
	}
	if paymentID == "" {
		return nil, errors.New("payment_id is required")
	}
	if quantity < 1 || quantity > MaxQuantityPerReservation {
		return nil, ErrInvalidQuantity
	}

	return &Reservation{
		ID:        uuid.New().String(),
		UserID:    userID,
		EventID:   eventID,
		PaymentID: paymentID,
		Quantity:  quantity,
		CreatedAt: time.Now().UTC(),
	}, nil
}
