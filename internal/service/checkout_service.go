package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/FRWD789/je-m-inspire-sub000/internal/domain"
	"github.com/FRWD789/je-m-inspire-sub000/internal/dto"
	"github.com/FRWD789/je-m-inspire-sub000/internal/gateway"
	"github.com/FRWD789/je-m-inspire-sub000/internal/metrics"
	"github.com/FRWD789/je-m-inspire-sub000/internal/repository"
	"github.com/FRWD789/je-m-inspire-sub000/pkg/logger"
	"github.com/FRWD789/je-m-inspire-sub000/pkg/telemetry"
)

// CheckoutService defines the interface for checkout intake
type CheckoutService interface {
	// StartCheckout validates the request, writes the soft hold and creates
	// the hosted payment session. A session failure removes the hold again.
	StartCheckout(ctx context.Context, userID string, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
}

// CheckoutServiceConfig holds configuration for the checkout service
type CheckoutServiceConfig struct {
	SuccessURL      string
	CancelURL       string
	DefaultCurrency string
}

// checkoutServiceImpl implements CheckoutService
type checkoutServiceImpl struct {
	events    repository.EventRepository
	vendors   repository.VendorRepository
	payments  repository.PaymentRepository
	store     repository.CheckoutStore
	gateways  *gateway.Registry
	publisher EventPublisher
	metrics   *metrics.Metrics
	config    *CheckoutServiceConfig
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	events repository.EventRepository,
	vendors repository.VendorRepository,
	payments repository.PaymentRepository,
	store repository.CheckoutStore,
	gateways *gateway.Registry,
	publisher EventPublisher,
	m *metrics.Metrics,
	config *CheckoutServiceConfig,
) CheckoutService {
	if config == nil {
		config = &CheckoutServiceConfig{DefaultCurrency: "EUR"}
	}

	return &checkoutServiceImpl{
		events:    events,
		vendors:   vendors,
		payments:  payments,
		store:     store,
		gateways:  gateways,
		publisher: publisher,
		metrics:   m,
		config:    config,
	}
}

// StartCheckout validates the request, writes the soft hold and creates the
// hosted payment session
func (s *checkoutServiceImpl) StartCheckout(ctx context.Context, userID string, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "checkout.start")
	defer span.End()
	started := time.Now()

	if req == nil {
		return nil, fmt.Errorf("request is required")
	}

	provider := domain.Provider(req.Provider)
	gw, err := s.gateways.Get(provider)
	if err != nil {
		return nil, err
	}

	event, err := s.events.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	if err := event.Bookable(time.Now()); err != nil {
		return nil, err
	}
	// Advisory only; the authoritative check runs under the row lock at
	// confirmation time
	if !event.CanAccommodate(req.Quantity) {
		return nil, domain.ErrInsufficientInventory
	}

	vendor, err := s.vendors.GetByID(ctx, event.VendorID)
	if err != nil {
		return nil, err
	}
	directPayout := vendor.HasDirectPayout(provider)

	amount := event.BasePrice * float64(req.Quantity)
	payment, err := domain.NewPayment(userID, event.ID, vendor.ID, amount, s.config.DefaultCurrency, provider, vendor.CommissionRate, directPayout)
	if err != nil {
		return nil, err
	}
	reservation, err := domain.NewReservation(userID, event.ID, payment.ID, req.Quantity)
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateHold(ctx, payment, reservation); err != nil {
		return nil, err
	}

	session, err := gw.CreateSession(ctx, &gateway.SessionRequest{
		PaymentID:      payment.ID,
		EventName:      event.Name,
		Quantity:       reservation.Quantity,
		UnitPrice:      event.BasePrice,
		Amount:         payment.Amount,
		Currency:       payment.Currency,
		SuccessURL:     s.resolveURL(req.SuccessURL, s.config.SuccessURL),
		CancelURL:      s.resolveURL(req.CancelURL, s.config.CancelURL),
		DirectPayout:   directPayout,
		PayoutAccount:  vendor.PayoutAccount(provider),
		CommissionRate: payment.CommissionRate,
		Metadata: map[string]string{
			"reservation_id": reservation.ID,
			"event_id":       event.ID,
			"user_id":        userID,
			"quantity":       strconv.Itoa(reservation.Quantity),
		},
	})
	if err != nil {
		s.dropHold(ctx, payment.ID)
		logger.Get().Error("failed to create provider session",
			zap.String("payment_id", payment.ID),
			zap.String("provider", req.Provider),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}

	if err := s.payments.AttachProviderRef(ctx, payment.ID, session.ProviderRef); err != nil {
		s.dropHold(ctx, payment.ID)
		return nil, fmt.Errorf("failed to attach provider ref: %w", err)
	}
	payment.SetProviderRef(session.ProviderRef)

	s.publisher.Publish(ctx, &LifecycleEvent{
		Type:          EventCheckoutStarted,
		PaymentID:     payment.ID,
		ReservationID: reservation.ID,
		EventID:       event.ID,
		UserID:        userID,
		Quantity:      reservation.Quantity,
		Amount:        payment.Amount,
		Provider:      req.Provider,
	})
	s.metrics.IncCheckoutsStarted(ctx, req.Provider)
	s.metrics.ObserveCheckoutLatency(ctx, time.Since(started).Seconds())

	return dto.ToCheckoutResponse(payment, reservation, event.BasePrice, session.ApprovalURL), nil
}

// dropHold removes a hold whose session never materialized
func (s *checkoutServiceImpl) dropHold(ctx context.Context, paymentID string) {
	if err := s.store.ReleaseHold(ctx, paymentID); err != nil {
		logger.Get().Error("failed to release orphaned hold",
			zap.String("payment_id", paymentID),
			zap.Error(err),
		)
	}
}

// resolveURL prefers the per-request URL over the configured default
func (s *checkoutServiceImpl) resolveURL(requested, fallback string) string {
	if requested != "" {
		return requested
	}
	return fallback
}
