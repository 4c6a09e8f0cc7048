package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/FRWD789/je-m-inspire-sub000/internal/domain"
	"github.com/FRWD789/je-m-inspire-sub000/internal/dto"
	"github.com/FRWD789/je-m-inspire-sub000/internal/gateway"
)

// MockReconciliationService is a mock implementation of service.ReconciliationService
type MockReconciliationService struct {
	mock.Mock
}

func (m *MockReconciliationService) HandleWebhook(ctx context.Context, event *gateway.WebhookEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockReconciliationService) CancelReservation(ctx context.Context, reservationID, userID string) (*dto.CancelReservationResponse, error) {
	args := m.Called(ctx, reservationID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CancelReservationResponse), args.Error(1)
}

// stubStripeParser verifies nothing; it returns a fixed event or error
type stubStripeParser struct {
	event *gateway.WebhookEvent
	err   error
}

func (s *stubStripeParser) ParseWebhook(payload []byte, signature string) (*gateway.WebhookEvent, error) {
	return s.event, s.err
}

type stubPayPalParser struct {
	event *gateway.WebhookEvent
	err   error
}

func (s *stubPayPalParser) ParseWebhook(ctx context.Context, r *http.Request, body []byte) (*gateway.WebhookEvent, error) {
	return s.event, s.err
}

func postWebhook(handler gin.HandlerFunc, path string, headers map[string]string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST(path, handler)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(`{"id":"evt_1"}`))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func completedEvent() *gateway.WebhookEvent {
	return &gateway.WebhookEvent{
		ID:          "evt_1",
		Kind:        gateway.WebhookCompleted,
		Provider:    domain.ProviderStripe,
		ProviderRef: "cs_test_001",
		ChargeRef:   "pi_001",
		Amount:      200.00,
	}
}

func TestHandleStripe_VerifiedEventIsSettled(t *testing.T) {
	svc := new(MockReconciliationService)
	svc.On("HandleWebhook", mock.Anything, mock.AnythingOfType("*gateway.WebhookEvent")).Return(nil)
	h := NewWebhookHandler(&stubStripeParser{event: completedEvent()}, nil, svc)

	w := postWebhook(h.HandleStripe, "/webhooks/stripe", map[string]string{
		"Stripe-Signature": "t=1,v1=abc",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"received":true`)
	svc.AssertExpectations(t)
}

func TestHandleStripe_MissingSignature(t *testing.T) {
	svc := new(MockReconciliationService)
	h := NewWebhookHandler(&stubStripeParser{event: completedEvent()}, nil, svc)

	w := postWebhook(h.HandleStripe, "/webhooks/stripe", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "HandleWebhook", mock.Anything, mock.Anything)
}

func TestHandleStripe_BadSignature(t *testing.T) {
	svc := new(MockReconciliationService)
	h := NewWebhookHandler(&stubStripeParser{err: errors.New("signature mismatch")}, nil, svc)

	w := postWebhook(h.HandleStripe, "/webhooks/stripe", map[string]string{
		"Stripe-Signature": "t=1,v1=wrong",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "HandleWebhook", mock.Anything, mock.Anything)
}

func TestHandleStripe_NotConfigured(t *testing.T) {
	h := NewWebhookHandler(nil, nil, new(MockReconciliationService))

	w := postWebhook(h.HandleStripe, "/webhooks/stripe", map[string]string{
		"Stripe-Signature": "t=1,v1=abc",
	})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHandleStripe_SettlementErrorAsksForRedelivery(t *testing.T) {
	svc := new(MockReconciliationService)
	svc.On("HandleWebhook", mock.Anything, mock.Anything).Return(errors.New("db down"))
	h := NewWebhookHandler(&stubStripeParser{event: completedEvent()}, nil, svc)

	w := postWebhook(h.HandleStripe, "/webhooks/stripe", map[string]string{
		"Stripe-Signature": "t=1,v1=abc",
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandlePayPal_VerifiedEventIsSettled(t *testing.T) {
	svc := new(MockReconciliationService)
	svc.On("HandleWebhook", mock.Anything, mock.AnythingOfType("*gateway.WebhookEvent")).Return(nil)
	h := NewWebhookHandler(nil, &stubPayPalParser{event: &gateway.WebhookEvent{
		ID:          "WH-1",
		Kind:        gateway.WebhookApproved,
		Provider:    domain.ProviderPayPal,
		ProviderRef: "order-123",
	}}, svc)

	w := postWebhook(h.HandlePayPal, "/webhooks/paypal", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestHandlePayPal_BadSignature(t *testing.T) {
	svc := new(MockReconciliationService)
	h := NewWebhookHandler(nil, &stubPayPalParser{err: errors.New("verification failed")}, svc)

	w := postWebhook(h.HandlePayPal, "/webhooks/paypal", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "HandleWebhook", mock.Anything, mock.Anything)
}

func TestHandlePayPal_NotConfigured(t *testing.T) {
	h := NewWebhookHandler(nil, nil, new(MockReconciliationService))

	w := postWebhook(h.HandlePayPal, "/webhooks/paypal", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
