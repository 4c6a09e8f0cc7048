package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// PaymentStatus represents the status of a payment (matches DB ENUM)
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusRefunded  PaymentStatus = "refunded"
	PaymentStatusExpired   PaymentStatus = "expired"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// Provider identifies the external payment provider
type Provider string

const (
	ProviderStripe Provider = "stripe"
	ProviderPayPal Provider = "paypal"
)

// Payment represents one booking attempt's payment. The commission rate is
// snapshotted at creation time so later vendor rate changes never affect an
// in-flight payment. ProviderRef holds the Stripe checkout session id or the
// PayPal order id, depending on Provider; webhooks are reconciled by this
// reference, never by a client-supplied id.
type Payment struct {
	ID                string        `json:"id"`
	UserID            string        `json:"user_id"`
	EventID           string        `json:"event_id"`
	VendorID          string        `json:"vendor_id"`
	Amount            float64       `json:"amount"`
	Currency          string        `json:"currency"`
	Status            PaymentStatus `json:"status"`
	Provider          Provider      `json:"provider"`
	ProviderRef       string        `json:"provider_ref,omitempty"`
	ProviderChargeRef string        `json:"provider_charge_ref,omitempty"`
	CommissionRate    float64       `json:"commission_rate"`
	DirectPayout      bool          `json:"direct_payout"`
	PaidAt            *time.Time    `json:"paid_at,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// NewPayment creates a pending payment with the commission rate snapshot
func NewPayment(userID, eventID, vendorID string, amount float64, currency string, provider Provider, commissionRate float64, directPayout bool) (*Payment, error) {
	if userID == "" {
		return nil, errors.New("user_id is required")
	}
	if eventID == "" {
		return nil, errors.New("event_id is required")
	}
	if vendorID == "" {
		return nil, errors.New("vendor_id is required")
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if commissionRate < 0 || commissionRate > 100 {
		return nil, ErrInvalidCommissionRate
	}
	if provider != ProviderStripe && provider != ProviderPayPal {
		return nil, ErrUnknownProvider
	}
	if currency == "" {
		currency = "EUR"
	}

	now := time.Now().UTC()
	return &Payment{
		ID:             uuid.New().String(),
		UserID:         userID,
		EventID:        eventID,
		VendorID:       vendorID,
		Amount:         amount,
		Currency:       currency,
		Status:         PaymentStatusPending,
		Provider:       provider,
		CommissionRate: commissionRate,
		DirectPayout:   directPayout,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// MarkPaid transitions the payment to paid with the provider-confirmed
// amount and the charge reference needed for later refunds
func (p *Payment) MarkPaid(confirmedAmount float64, chargeRef string) error {
	if p.Status != PaymentStatusPending {
		return ErrInvalidStatusTransition
	}
	now := time.Now().UTC()
	p.Status = PaymentStatusPaid
	if confirmedAmount > 0 {
		p.Amount = confirmedAmount
	}
	p.ProviderChargeRef = chargeRef
	p.PaidAt = &now
	p.UpdatedAt = now
	return nil
}

// MarkRefunded transitions the payment to refunded (compensation path)
func (p *Payment) MarkRefunded() error {
	if p.Status != PaymentStatusPending && p.Status != PaymentStatusPaid {
		return ErrInvalidStatusTransition
	}
	p.Status = PaymentStatusRefunded
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkExpired transitions a still-pending payment to expired
func (p *Payment) MarkExpired() error {
	if p.Status != PaymentStatusPending {
		return ErrInvalidStatusTransition
	}
	p.Status = PaymentStatusExpired
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkFailed transitions a still-pending payment to failed
func (p *Payment) MarkFailed() error {
	if p.Status != PaymentStatusPending {
		return ErrInvalidStatusTransition
	}
	p.Status = PaymentStatusFailed
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkCancelled transitions the payment to cancelled (user-initiated)
func (p *Payment) MarkCancelled() error {
	if p.Status != PaymentStatusPending && p.Status != PaymentStatusPaid {
		return ErrInvalidStatusTransition
	}
	p.Status = PaymentStatusCancelled
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// SetProviderRef records the provider correlation id (session or order id)
func (p *Payment) SetProviderRef(ref string) {
	p.ProviderRef = ref
	p.UpdatedAt = time.Now().UTC()
}

// IsTerminal returns true once the payment has left pending; all terminal
// states are final and no transition re-enters pending
func (p *Payment) IsTerminal() bool {
	return p.Status != PaymentStatusPending
}

// IsPaid returns true if the payment was confirmed
func (p *Payment) IsPaid() bool {
	return p.Status == PaymentStatusPaid
}
