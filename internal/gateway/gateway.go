package gateway

import (
	"context"

	"github.com/FRWD789/je-m-inspire-sub000/internal/domain"
)

// ProviderGateway defines the interface for hosted checkout providers.
// Implementations create the hosted payment page, capture approved orders
// and issue refunds; they never touch engine state.
type ProviderGateway interface {
	// Name returns the provider this gateway talks to
	Name() domain.Provider

	// CreateSession creates a hosted checkout session and returns the
	// reference to reconcile webhooks by plus the URL to send the buyer to
	CreateSession(ctx context.Context, req *SessionRequest) (*Session, error)

	// Capture captures the funds of an approved session and returns the
	// provider's charge reference and confirmed amount
	Capture(ctx context.Context, providerRef string) (*Capture, error)

	// Refund returns captured funds to the buyer
	Refund(ctx context.Context, chargeRef string, amount float64, currency string) error
}

// SessionRequest describes the hosted session to create
type SessionRequest struct {
	PaymentID string
	EventName string
	Quantity  int
	UnitPrice float64
	Amount    float64
	Currency  string

	SuccessURL string
	CancelURL  string

	// Direct-payout routing, resolved from the vendor at intake. When
	// DirectPayout is set the provider splits the charge itself:
	// PayoutAccount receives the net and the platform keeps the fee.
	DirectPayout   bool
	PayoutAccount  string
	CommissionRate float64

	Metadata map[string]string
}

// Session is a created hosted checkout session
type Session struct {
	ProviderRef string
	ApprovalURL string
}

// Capture is the result of capturing an approved session
type Capture struct {
	ChargeRef string
	Amount    float64
	Currency  string
}

// WebhookKind classifies a verified provider notification
type WebhookKind string

const (
	// WebhookCompleted means the buyer paid and funds are captured
	WebhookCompleted WebhookKind = "completed"

	// WebhookApproved means the buyer approved but funds await capture
	WebhookApproved WebhookKind = "approved"

	// WebhookExpired means the session timed out without payment
	WebhookExpired WebhookKind = "expired"

	// WebhookFailed means the payment attempt failed definitively
	WebhookFailed WebhookKind = "failed"

	// WebhookIgnored means an event type the engine does not act on
	WebhookIgnored WebhookKind = "ignored"
)

// WebhookEvent is a provider notification after signature verification
type WebhookEvent struct {
	ID          string
	Kind        WebhookKind
	Provider    domain.Provider
	ProviderRef string

	// ChargeRef and Amount are set when the provider includes them in the
	// notification (Stripe completed events); otherwise a Capture call
	// supplies them.
	ChargeRef string
	Amount    float64
	Currency  string
}
