package dto

import (
	"time"

	"github.com/FRWD789/je-m-inspire-sub000/internal/domain"
)

// RefundRequestCreate opens a manual refund request on a paid reservation
type RefundRequestCreate struct {
	ReservationID string `json:"reservation_id" binding:"required,uuid"`
	Motif         string `json:"motif" binding:"required,min=5,max=500"`
}

// RefundRequestResponse is the view of one refund request
type RefundRequestResponse struct {
	ID            string    `json:"id"`
	ReservationID string    `json:"reservation_id"`
	PaymentID     string    `json:"payment_id"`
	Amount        float64   `json:"amount"`
	Motif         string    `json:"motif"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToRefundRequestResponse converts a refund request row
func ToRefundRequestResponse(r *domain.RefundRequest) *RefundRequestResponse {
	return &RefundRequestResponse{
		ID:            r.ID,
		ReservationID: r.ReservationID,
		PaymentID:     r.PaymentID,
		Amount:        r.Amount,
		Motif:         r.Motif,
		Status:        string(r.Status),
		CreatedAt:     r.CreatedAt,
	}
}
