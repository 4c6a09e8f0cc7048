package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FRWD789/je-m-inspire-sub000/internal/domain"
)

func TestMockGateway_SessionLifecycle(t *testing.T) {
	gw := NewMockGateway(domain.ProviderStripe)
	ctx := context.Background()

	session, err := gw.CreateSession(ctx, &SessionRequest{
		PaymentID: "pay-001",
		Amount:    90.00,
		Currency:  "EUR",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, session.ProviderRef)
	assert.NotEmpty(t, session.ApprovalURL)

	capture, err := gw.Capture(ctx, session.ProviderRef)
	assert.NoError(t, err)
	assert.NotEmpty(t, capture.ChargeRef)
	assert.Equal(t, 90.00, capture.Amount)

	// Capturing again yields the same charge
	again, err := gw.Capture(ctx, session.ProviderRef)
	assert.NoError(t, err)
	assert.Equal(t, capture.ChargeRef, again.ChargeRef)

	err = gw.Refund(ctx, capture.ChargeRef, 90.00, "EUR")
	assert.NoError(t, err)
	amount, refunded := gw.Refunded(capture.ChargeRef)
	assert.True(t, refunded)
	assert.Equal(t, 90.00, amount)
}

func TestMockGateway_UnknownSession(t *testing.T) {
	gw := NewMockGateway(domain.ProviderPayPal)

	_, err := gw.Capture(context.Background(), "no-such-ref")
	assert.Error(t, err)
}

func TestMockGateway_FailureToggles(t *testing.T) {
	gw := NewMockGateway(domain.ProviderStripe)
	ctx := context.Background()

	gw.SetFailCreate(true)
	_, err := gw.CreateSession(ctx, &SessionRequest{PaymentID: "pay-001", Amount: 10})
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)

	gw.SetFailCreate(false)
	session, err := gw.CreateSession(ctx, &SessionRequest{PaymentID: "pay-001", Amount: 10})
	assert.NoError(t, err)

	gw.SetFailRefund(true)
	capture, _ := gw.Capture(ctx, session.ProviderRef)
	err = gw.Refund(ctx, capture.ChargeRef, 10, "EUR")
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func TestRegistry_ResolvesByProvider(t *testing.T) {
	stripeGW := NewMockGateway(domain.ProviderStripe)
	paypalGW := NewMockGateway(domain.ProviderPayPal)
	registry := NewRegistry(stripeGW, paypalGW)

	got, err := registry.Get(domain.ProviderStripe)
	assert.NoError(t, err)
	assert.Equal(t, domain.ProviderStripe, got.Name())

	_, err = registry.Get(domain.Provider("square"))
	assert.ErrorIs(t, err, domain.ErrUnknownProvider)
}
