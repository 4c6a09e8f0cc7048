package domain

import (
	"time"

	"github.com/google/uuid"
)

// RefundStatus tracks an admin-processed refund request
type RefundStatus string

const (
	RefundStatusPending  RefundStatus = "pending"
	RefundStatusApproved RefundStatus = "approved"
	RefundStatusRefused  RefundStatus = "refused"
)

// MotifEventCancelled is the pre-populated motif when a vendor cancels an
// entire event
const MotifEventCancelled = "event cancelled by organizer"

// RefundRequest is a user- or system-created request for a manual refund on
// a paid reservation. It is distinct from the automatic compensation refund
// the reconciliation engine issues on inventory conflict.
type RefundRequest struct {
	ID            string       `json:"id"`
	ReservationID string       `json:"reservation_id"`
	PaymentID     string       `json:"payment_id"`
	Amount        float64      `json:"amount"`
	Motif         string       `json:"motif"`
	Status        RefundStatus `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// NewRefundRequest creates a pending refund request for a paid reservation
func NewRefundRequest(reservation *Reservation, payment *Payment, motif string) (*RefundRequest, error) {
	if !payment.IsPaid() {
		return nil, ErrRefundNotAllowed
	}

	now := time.Now().UTC()
	return &RefundRequest{
		ID:            uuid.New().String(),
		ReservationID: reservation.ID,
		PaymentID:     payment.ID,
		Amount:        payment.Amount,
		Motif:         motif,
		Status:        RefundStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}
