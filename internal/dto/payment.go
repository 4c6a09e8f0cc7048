package dto

import (
	"time"

	"github.com/FRWD789/je-m-inspire-sub000/internal/domain"
)

// EventSummary is the short event view embedded in payment responses
type EventSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
}

// PaymentStatusResponse is the polling view of a payment after checkout
type PaymentStatusResponse struct {
	PaymentID     string        `json:"payment_id"`
	ReservationID string        `json:"reservation_id,omitempty"`
	EventID       string        `json:"event_id"`
	Event         *EventSummary `json:"event,omitempty"`
	Quantity      int           `json:"quantity,omitempty"`
	Status        string        `json:"status"`
	Amount        float64       `json:"amount"`
	Currency      string        `json:"currency"`
	Provider      string        `json:"provider"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// ToPaymentStatusResponse builds the polling view. reservation is nil when
// the hold has already been released; event is nil when the row is gone.
func ToPaymentStatusResponse(payment *domain.Payment, reservation *domain.Reservation, event *domain.Event) *PaymentStatusResponse {
	resp := &PaymentStatusResponse{
		PaymentID: payment.ID,
		EventID:   payment.EventID,
		Status:    string(payment.Status),
		Amount:    payment.Amount,
		Currency:  payment.Currency,
		Provider:  string(payment.Provider),
		PaidAt:    payment.PaidAt,
		CreatedAt: payment.CreatedAt,
	}
	if reservation != nil {
		resp.ReservationID = reservation.ID
		resp.Quantity = reservation.Quantity
	}
	if event != nil {
		resp.Event = &EventSummary{
			ID:        event.ID,
			Name:      event.Name,
			StartDate: event.StartDate,
		}
	}
	return resp
}

// CommissionResponse is the vendor-facing view of one commission row
type CommissionResponse struct {
	ID                string    `json:"id"`
	PaymentID         string    `json:"payment_id"`
	MontantCommission float64   `json:"montant_commission"`
	MontantNet        float64   `json:"montant_net"`
	TransferStatus    string    `json:"transfer_status"`
	CreatedAt         time.Time `json:"created_at"`
}

// ToCommissionResponse converts a commission row
func ToCommissionResponse(c *domain.Commission) *CommissionResponse {
	return &CommissionResponse{
		ID:                c.ID,
		PaymentID:         c.PaymentID,
		MontantCommission: c.CommissionAmount,
		MontantNet:        c.NetAmount,
		TransferStatus:    string(c.TransferStatus),
		CreatedAt:         c.CreatedAt,
	}
}
