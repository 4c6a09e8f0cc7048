package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/refund"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/FRWD789/je-m-inspire-sub000/internal/domain"
)

// Hosted checkout sessions expire after this window; Stripe enforces a
// 30 minute minimum
const stripeSessionTTL = 30 * time.Minute

// StripeGateway implements ProviderGateway using Stripe Checkout
type StripeGateway struct {
	config *StripeGatewayConfig
}

// StripeGatewayConfig holds configuration for the Stripe gateway
type StripeGatewayConfig struct {
	SecretKey     string
	WebhookSecret string
}

// NewStripeGateway creates a new Stripe gateway
func NewStripeGateway(config *StripeGatewayConfig) (*StripeGateway, error) {
	if config == nil {
		return nil, fmt.Errorf("stripe config is required")
	}
	if config.SecretKey == "" {
		return nil, fmt.Errorf("stripe secret key is required")
	}

	// Set Stripe API key globally
	stripe.Key = config.SecretKey

	return &StripeGateway{config: config}, nil
}

// Name returns the provider this gateway talks to
func (g *StripeGateway) Name() domain.Provider {
	return domain.ProviderStripe
}

// CreateSession creates a Stripe Checkout session. On the direct-payout path
// the charge lands on the vendor's connected account and the platform keeps
// the commission as an application fee.
func (g *StripeGateway) CreateSession(ctx context.Context, req *SessionRequest) (*Session, error) {
	if req == nil {
		return nil, fmt.Errorf("session request is required")
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		ExpiresAt:  stripe.Int64(time.Now().Add(stripeSessionTTL).Unix()),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(int64(req.Quantity)),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(req.Currency),
					UnitAmount: stripe.Int64(toCents(req.UnitPrice)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.EventName),
					},
				},
			},
		},
		Metadata: map[string]string{"payment_id": req.PaymentID},
	}
	for k, v := range req.Metadata {
		params.Metadata[k] = v
	}

	if req.DirectPayout {
		fee, _ := domain.ComputeCommission(req.Amount, req.CommissionRate)
		params.PaymentIntentData = &stripe.CheckoutSessionPaymentIntentDataParams{
			ApplicationFeeAmount: stripe.Int64(toCents(fee)),
			TransferData: &stripe.CheckoutSessionPaymentIntentDataTransferDataParams{
				Destination: stripe.String(req.PayoutAccount),
			},
		}
	}

	params.Context = ctx

	s, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &Session{ProviderRef: s.ID, ApprovalURL: s.URL}, nil
}

// Capture retrieves the settled session. Stripe Checkout captures funds
// itself, so this only reads back the charge reference and amount.
func (g *StripeGateway) Capture(ctx context.Context, providerRef string) (*Capture, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := session.Get(providerRef, params)
	if err != nil {
		return nil, fmt.Errorf("failed to get checkout session: %w", err)
	}
	if s.PaymentIntent == nil {
		return nil, fmt.Errorf("checkout session %s has no payment intent", providerRef)
	}

	return &Capture{
		ChargeRef: s.PaymentIntent.ID,
		Amount:    fromCents(s.AmountTotal),
		Currency:  string(s.Currency),
	}, nil
}

// Refund returns captured funds to the buyer
func (g *StripeGateway) Refund(ctx context.Context, chargeRef string, amount float64, currency string) error {
	if chargeRef == "" {
		return fmt.Errorf("charge reference is required")
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(chargeRef),
		Amount:        stripe.Int64(toCents(amount)),
	}
	params.Context = ctx

	if _, err := refund.New(params); err != nil {
		return fmt.Errorf("failed to create refund: %w", err)
	}

	return nil
}

// ParseWebhook verifies the Stripe signature and maps the event types the
// engine reconciles on. Unknown event types come back as WebhookIgnored.
func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.config.WebhookSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to verify webhook signature: %w", err)
	}

	out := &WebhookEvent{
		ID:       event.ID,
		Provider: domain.ProviderStripe,
		Kind:     WebhookIgnored,
	}

	switch event.Type {
	case "checkout.session.completed", "checkout.session.expired", "checkout.session.async_payment_failed":
	default:
		return out, nil
	}

	var s stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
		return nil, fmt.Errorf("failed to parse checkout session payload: %w", err)
	}

	out.ProviderRef = s.ID
	out.Amount = fromCents(s.AmountTotal)
	out.Currency = string(s.Currency)

	switch event.Type {
	case "checkout.session.completed":
		out.Kind = WebhookCompleted
		if s.PaymentIntent != nil {
			out.ChargeRef = s.PaymentIntent.ID
		}
	case "checkout.session.expired":
		out.Kind = WebhookExpired
	case "checkout.session.async_payment_failed":
		out.Kind = WebhookFailed
	}

	return out, nil
}

// toCents converts a major-unit amount to the smallest currency unit
func toCents(amount float64) int64 {
	return int64(amount*100 + 0.5)
}

// fromCents converts a smallest-unit amount back to major units
func fromCents(amount int64) float64 {
	return float64(amount) / 100
}
