package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferStatus tracks the manual payout of an indirect-path commission
type TransferStatus string

const (
	TransferStatusPending TransferStatus = "pending"
	TransferStatusPaid    TransferStatus = "paid"
)

// Commission records the platform/vendor split for a payment collected on
// the platform account (indirect path). On the direct-payout path the split
// happens at the provider as an application fee and no row is created.
type Commission struct {
	ID               string         `json:"id"`
	PaymentID        string         `json:"payment_id"`
	VendorID         string         `json:"vendor_id"`
	CommissionAmount float64        `json:"montant_commission"`
	NetAmount        float64        `json:"montant_net"`
	TransferStatus   TransferStatus `json:"transfer_status"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// ComputeCommission splits a total between platform and vendor using the
// rate snapshotted on the payment: commission = total * rate / 100,
// net = total - commission, both rounded to 2 decimal places.
func ComputeCommission(total, rate float64) (commission, net float64) {
	t := decimal.NewFromFloat(total)
	r := decimal.NewFromFloat(rate)

	c := t.Mul(r).Div(decimal.NewFromInt(100)).Round(2)
	n := t.Sub(c).Round(2)

	commission, _ = c.Float64()
	net, _ = n.Float64()
	return commission, net
}

// NewCommission creates a pending-transfer commission row for a payment
func NewCommission(payment *Payment) *Commission {
	commission, net := ComputeCommission(payment.Amount, payment.CommissionRate)
	now := time.Now().UTC()
	return &Commission{
		ID:               uuid.New().String(),
		PaymentID:        payment.ID,
		VendorID:         payment.VendorID,
		CommissionAmount: commission,
		NetAmount:        net,
		TransferStatus:   TransferStatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
