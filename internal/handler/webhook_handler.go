package handler

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FRWD789/je-m-inspire-sub000/internal/gateway"
	"github.com/FRWD789/je-m-inspire-sub000/internal/service"
	"github.com/FRWD789/je-m-inspire-sub000/pkg/logger"
)

// StripeWebhookParser verifies and maps Stripe webhook deliveries
type StripeWebhookParser interface {
	ParseWebhook(payload []byte, signature string) (*gateway.WebhookEvent, error)
}

// PayPalWebhookParser verifies and maps PayPal webhook deliveries
type PayPalWebhookParser interface {
	ParseWebhook(ctx context.Context, r *http.Request, body []byte) (*gateway.WebhookEvent, error)
}

// WebhookHandler receives provider notifications. Signature verification
// happens before anything else; after it, conflicts are settled internally
// and acknowledged so providers stop redelivering.
type WebhookHandler struct {
	stripe         StripeWebhookParser
	paypal         PayPalWebhookParser
	reconciliation service.ReconciliationService
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(stripe StripeWebhookParser, paypal PayPalWebhookParser, reconciliation service.ReconciliationService) *WebhookHandler {
	return &WebhookHandler{
		stripe:         stripe,
		paypal:         paypal,
		reconciliation: reconciliation,
	}
}

// HandleStripe handles POST /webhooks/stripe
func (h *WebhookHandler) HandleStripe(c *gin.Context) {
	if h.stripe == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "stripe webhooks not configured"})
		return
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing Stripe-Signature header"})
		return
	}

	event, err := h.stripe.ParseWebhook(payload, signature)
	if err != nil {
		logger.Get().Warn("rejected stripe webhook", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	h.settle(c, event)
}

// HandlePayPal handles POST /webhooks/paypal
func (h *WebhookHandler) HandlePayPal(c *gin.Context) {
	if h.paypal == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "paypal webhooks not configured"})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}
	// Verification reads the body again
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	event, err := h.paypal.ParseWebhook(c.Request.Context(), c.Request, body)
	if err != nil {
		logger.Get().Warn("rejected paypal webhook", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	h.settle(c, event)
}

// settle hands the verified event to reconciliation. An error means the
// settlement could not run at all; the provider should redeliver.
func (h *WebhookHandler) settle(c *gin.Context, event *gateway.WebhookEvent) {
	if err := h.reconciliation.HandleWebhook(c.Request.Context(), event); err != nil {
		logger.Get().Error("webhook settlement failed",
			zap.String("provider", string(event.Provider)),
			zap.String("provider_ref", event.ProviderRef),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "settlement failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
