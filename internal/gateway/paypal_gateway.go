package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/plutov/paypal/v4"

	"github.com/FRWD789/je-m-inspire-sub000/internal/domain"
)

// PayPalGateway implements ProviderGateway using the PayPal Orders API
type PayPalGateway struct {
	client *paypal.Client
	config *PayPalGatewayConfig
}

// PayPalGatewayConfig holds configuration for the PayPal gateway
type PayPalGatewayConfig struct {
	ClientID  string
	Secret    string
	WebhookID string
	Live      bool
}

// NewPayPalGateway creates a new PayPal gateway and fetches the first
// access token. The client refreshes tokens on its own afterwards.
func NewPayPalGateway(ctx context.Context, config *PayPalGatewayConfig) (*PayPalGateway, error) {
	if config == nil {
		return nil, fmt.Errorf("paypal config is required")
	}
	if config.ClientID == "" || config.Secret == "" {
		return nil, fmt.Errorf("paypal client credentials are required")
	}

	base := paypal.APIBaseSandBox
	if config.Live {
		base = paypal.APIBaseLive
	}

	client, err := paypal.NewClient(config.ClientID, config.Secret, base)
	if err != nil {
		return nil, fmt.Errorf("failed to create paypal client: %w", err)
	}
	if _, err := client.GetAccessToken(ctx); err != nil {
		return nil, fmt.Errorf("failed to get paypal access token: %w", err)
	}

	return &PayPalGateway{client: client, config: config}, nil
}

// Name returns the provider this gateway talks to
func (g *PayPalGateway) Name() domain.Provider {
	return domain.ProviderPayPal
}

// CreateSession creates a PayPal order and returns its approval link. On the
// direct-payout path the vendor's merchant account is the payee and the
// platform keeps the commission as a platform fee.
func (g *PayPalGateway) CreateSession(ctx context.Context, req *SessionRequest) (*Session, error) {
	if req == nil {
		return nil, fmt.Errorf("session request is required")
	}

	unit := paypal.PurchaseUnitRequest{
		ReferenceID: req.PaymentID,
		Description: req.EventName,
		Amount: &paypal.PurchaseUnitAmount{
			Currency: req.Currency,
			Value:    formatAmount(req.Amount),
		},
	}

	if req.DirectPayout {
		fee, _ := domain.ComputeCommission(req.Amount, req.CommissionRate)
		unit.Payee = &paypal.PayeeForOrders{MerchantID: req.PayoutAccount}
		unit.PaymentInstruction = &paypal.PaymentInstruction{
			DisbursementMode: "INSTANT",
			PlatformFees: []paypal.PlatformFee{
				{
					Amount: &paypal.Money{
						Currency: req.Currency,
						Value:    formatAmount(fee),
					},
				},
			},
		}
	}

	order, err := g.client.CreateOrder(ctx,
		paypal.OrderIntentCapture,
		[]paypal.PurchaseUnitRequest{unit},
		nil,
		&paypal.ApplicationContext{
			ReturnURL: req.SuccessURL,
			CancelURL: req.CancelURL,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create paypal order: %w", err)
	}

	approvalURL := ""
	for _, link := range order.Links {
		if link.Rel == "approve" {
			approvalURL = link.Href
			break
		}
	}
	if approvalURL == "" {
		return nil, fmt.Errorf("paypal order %s has no approval link", order.ID)
	}

	return &Session{ProviderRef: order.ID, ApprovalURL: approvalURL}, nil
}

// Capture captures the funds of an approved order
func (g *PayPalGateway) Capture(ctx context.Context, providerRef string) (*Capture, error) {
	resp, err := g.client.CaptureOrder(ctx, providerRef, paypal.CaptureOrderRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to capture paypal order: %w", err)
	}

	for _, unit := range resp.PurchaseUnits {
		if unit.Payments == nil {
			continue
		}
		for _, capture := range unit.Payments.Captures {
			amount := 0.0
			currency := ""
			if capture.Amount != nil {
				amount, _ = strconv.ParseFloat(capture.Amount.Value, 64)
				currency = capture.Amount.Currency
			}
			return &Capture{ChargeRef: capture.ID, Amount: amount, Currency: currency}, nil
		}
	}

	return nil, fmt.Errorf("paypal order %s capture returned no captures", providerRef)
}

// Refund returns captured funds to the buyer
func (g *PayPalGateway) Refund(ctx context.Context, chargeRef string, amount float64, currency string) error {
	if chargeRef == "" {
		return fmt.Errorf("charge reference is required")
	}

	_, err := g.client.RefundCapture(ctx, chargeRef, paypal.RefundCaptureRequest{
		Amount: &paypal.Money{
			Currency: currency,
			Value:    formatAmount(amount),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to refund capture: %w", err)
	}

	return nil
}

// paypalWebhookBody is the subset of a PayPal webhook event the engine reads
type paypalWebhookBody struct {
	ID        string `json:"id"`
	EventType string `json:"event_type"`
	Resource  struct {
		ID                string `json:"id"`
		SupplementaryData struct {
			RelatedIDs struct {
				OrderID string `json:"order_id"`
			} `json:"related_ids"`
		} `json:"supplementary_data"`
	} `json:"resource"`
}

// ParseWebhook verifies the webhook signature against the configured webhook
// ID and maps the event types the engine reconciles on
func (g *PayPalGateway) ParseWebhook(ctx context.Context, r *http.Request, body []byte) (*WebhookEvent, error) {
	verify, err := g.client.VerifyWebhookSignature(ctx, r, g.config.WebhookID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify webhook signature: %w", err)
	}
	if verify.VerificationStatus != "SUCCESS" {
		return nil, fmt.Errorf("webhook signature verification failed: %s", verify.VerificationStatus)
	}

	var event paypalWebhookBody
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("failed to parse webhook payload: %w", err)
	}

	out := &WebhookEvent{
		ID:       event.ID,
		Provider: domain.ProviderPayPal,
		Kind:     WebhookIgnored,
	}

	switch event.EventType {
	case "CHECKOUT.ORDER.APPROVED":
		// Funds are not captured yet: the caller captures, then confirms
		out.Kind = WebhookApproved
		out.ProviderRef = event.Resource.ID
	case "PAYMENT.CAPTURE.DENIED":
		out.Kind = WebhookFailed
		out.ProviderRef = event.Resource.SupplementaryData.RelatedIDs.OrderID
		out.ChargeRef = event.Resource.ID
	}

	return out, nil
}

// formatAmount renders a major-unit amount the way PayPal expects
func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
