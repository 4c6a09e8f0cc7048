package dto

import "github.com/FRWD789/je-m-inspire-sub000/internal/domain"

// CheckoutRequest starts a checkout for an event
type CheckoutRequest struct {
	EventID    string `json:"event_id" binding:"required,uuid"`
	Quantity   int    `json:"quantity" binding:"required,min=1,max=10"`
	Provider   string `json:"provider" binding:"required,oneof=stripe paypal"`
	SuccessURL string `json:"success_url" binding:"omitempty,url"`
	CancelURL  string `json:"cancel_url" binding:"omitempty,url"`
}

// CheckoutResponse carries the hosted payment page the client must redirect to
type CheckoutResponse struct {
	PaymentID     string  `json:"payment_id"`
	ReservationID string  `json:"reservation_id"`
	Provider      string  `json:"provider"`
	ApprovalURL   string  `json:"approval_url"`
	Amount        float64 `json:"amount"`
	UnitPrice     float64 `json:"unit_price"`
	Currency      string  `json:"currency"`
	Status        string  `json:"status"`
}

// ToCheckoutResponse builds the response from the created hold and session
func ToCheckoutResponse(payment *domain.Payment, reservation *domain.Reservation, unitPrice float64, approvalURL string) *CheckoutResponse {
	return &CheckoutResponse{
		PaymentID:     payment.ID,
		ReservationID: reservation.ID,
		Provider:      string(payment.Provider),
		ApprovalURL:   approvalURL,
		Amount:        payment.Amount,
		UnitPrice:     unitPrice,
		Currency:      payment.Currency,
		Status:        string(payment.Status),
	}
}
