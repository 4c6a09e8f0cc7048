package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/FRWD789/je-m-inspire-sub000/internal/domain"
	"github.com/FRWD789/je-m-inspire-sub000/internal/dto"
	"github.com/FRWD789/je-m-inspire-sub000/internal/gateway"
	"github.com/FRWD789/je-m-inspire-sub000/internal/metrics"
	"github.com/FRWD789/je-m-inspire-sub000/internal/repository"
	"github.com/FRWD789/je-m-inspire-sub000/pkg/logger"
	"github.com/FRWD789/je-m-inspire-sub000/pkg/retry"
	"github.com/FRWD789/je-m-inspire-sub000/pkg/telemetry"
)

// ReconciliationService settles verified provider notifications against the
// engine's state and handles user cancellations
type ReconciliationService interface {
	// HandleWebhook settles one verified provider notification. Returning an
	// error makes the provider redeliver; state conflicts are settled
	// internally and acknowledged.
	HandleWebhook(ctx context.Context, event *gateway.WebhookEvent) error

	// CancelReservation cancels a user's reservation before the event
	// starts, refunding captured funds
	CancelReservation(ctx context.Context, reservationID, userID string) (*dto.CancelReservationResponse, error)
}

// WebhookDeduper remembers processed webhook deliveries across instances
type WebhookDeduper interface {
	// MarkProcessed records a delivery and reports whether it was new
	MarkProcessed(ctx context.Context, provider domain.Provider, eventID string) (bool, error)
}

// reconciliationServiceImpl implements ReconciliationService
type reconciliationServiceImpl struct {
	store     repository.ReconciliationStore
	gateways  *gateway.Registry
	deduper   WebhookDeduper
	publisher EventPublisher
	metrics   *metrics.Metrics
	retryCfg  *retry.Config
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(
	store repository.ReconciliationStore,
	gateways *gateway.Registry,
	deduper WebhookDeduper,
	publisher EventPublisher,
	m *metrics.Metrics,
	retryCfg *retry.Config,
) ReconciliationService {
	if retryCfg == nil {
		retryCfg = retry.DefaultConfig()
	}

	return &reconciliationServiceImpl{
		store:     store,
		gateways:  gateways,
		deduper:   deduper,
		publisher: publisher,
		metrics:   m,
		retryCfg:  retryCfg,
	}
}

// HandleWebhook settles one verified provider notification
func (s *reconciliationServiceImpl) HandleWebhook(ctx context.Context, event *gateway.WebhookEvent) error {
	ctx, span := telemetry.StartSpan(ctx, "reconciliation.handle_webhook")
	defer span.End()

	if event == nil || event.Kind == gateway.WebhookIgnored {
		return nil
	}
	s.metrics.IncWebhooksHandled(ctx, string(event.Provider), string(event.Kind))
	started := time.Now()
	defer func() {
		s.metrics.ObserveWebhookLatency(ctx, string(event.Provider), time.Since(started).Seconds())
	}()

	// Replayed deliveries end here. A dedupe failure falls through: every
	// settlement below is idempotent under the payment row lock anyway.
	if s.deduper != nil {
		fresh, err := s.deduper.MarkProcessed(ctx, event.Provider, event.ID)
		if err != nil {
			logger.Get().Warn("webhook dedupe unavailable",
				zap.String("provider", string(event.Provider)),
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
		} else if !fresh {
			return nil
		}
	}

	switch event.Kind {
	case gateway.WebhookCompleted:
		return s.settleCompleted(ctx, event)
	case gateway.WebhookApproved:
		return s.captureAndSettle(ctx, event)
	case gateway.WebhookExpired:
		return s.releaseHold(ctx, event, "expired")
	case gateway.WebhookFailed:
		return s.releaseHold(ctx, event, "failed")
	}

	return nil
}

// settleCompleted confirms a payment whose funds the provider captured
func (s *reconciliationServiceImpl) settleCompleted(ctx context.Context, event *gateway.WebhookEvent) error {
	result, err := s.store.ConfirmPaid(ctx, event.Provider, event.ProviderRef, event.Amount, event.ChargeRef)
	if err != nil {
		if domain.IsNotFoundError(err) {
			// Not a session this engine created; acknowledge and move on
			logger.Get().Warn("webhook for unknown session",
				zap.String("provider", string(event.Provider)),
				zap.String("provider_ref", event.ProviderRef),
			)
			return nil
		}
		return err
	}

	payment := result.Payment

	switch result.Outcome {
	case repository.OutcomeConfirmed:
		s.metrics.IncPaymentsSettled(ctx, "confirmed")
		s.publisher.Publish(ctx, &LifecycleEvent{
			Type:          EventPaymentConfirmed,
			PaymentID:     payment.ID,
			ReservationID: result.Reservation.ID,
			EventID:       payment.EventID,
			UserID:        payment.UserID,
			Quantity:      result.Reservation.Quantity,
			Amount:        payment.Amount,
			Provider:      string(payment.Provider),
		})

	case repository.OutcomeAlreadyPaid:
		logger.Get().Info("duplicate completion settled as no-op",
			zap.String("payment_id", payment.ID),
		)

	case repository.OutcomeCompensated:
		// Funds are captured but the places are gone: give the money back
		s.metrics.IncPaymentsSettled(ctx, "compensated")
		s.metrics.IncCompensations(ctx)
		s.refundCapture(ctx, payment.Provider, event.ChargeRef, event.Amount, payment.Currency, payment.ID)
		s.publisher.Publish(ctx, &LifecycleEvent{
			Type:      EventPaymentCompensated,
			PaymentID: payment.ID,
			EventID:   payment.EventID,
			UserID:    payment.UserID,
			Amount:    event.Amount,
			Provider:  string(payment.Provider),
		})

	case repository.OutcomeConflict:
		// The payment settled to a terminal non-paid state before the
		// completion arrived. The state stays as it is; the captured funds
		// go back to the buyer.
		logger.Get().Warn("completion after terminal state, refunding charge",
			zap.String("payment_id", payment.ID),
			zap.String("status", string(payment.Status)),
		)
		s.metrics.IncPaymentsSettled(ctx, "conflict")
		s.refundCapture(ctx, payment.Provider, event.ChargeRef, event.Amount, payment.Currency, payment.ID)
	}

	return nil
}

// captureAndSettle captures an approved order, then confirms it. An error
// before the capture is returned so the provider redelivers.
func (s *reconciliationServiceImpl) captureAndSettle(ctx context.Context, event *gateway.WebhookEvent) error {
	gw, err := s.gateways.Get(event.Provider)
	if err != nil {
		return err
	}

	capture, err := gw.Capture(ctx, event.ProviderRef)
	if err != nil {
		return fmt.Errorf("failed to capture order %s: %w", event.ProviderRef, err)
	}

	settled := *event
	settled.Kind = gateway.WebhookCompleted
	settled.ChargeRef = capture.ChargeRef
	settled.Amount = capture.Amount
	if capture.Currency != "" {
		settled.Currency = capture.Currency
	}

	return s.settleCompleted(ctx, &settled)
}

// releaseHold settles an expired or failed session
func (s *reconciliationServiceImpl) releaseHold(ctx context.Context, event *gateway.WebhookEvent, reason string) error {
	var result *repository.ReleaseResult
	var err error

	if reason == "expired" {
		result, err = s.store.ExpireHold(ctx, event.Provider, event.ProviderRef)
	} else {
		result, err = s.store.FailHold(ctx, event.Provider, event.ProviderRef)
	}
	if err != nil {
		if domain.IsNotFoundError(err) {
			return nil
		}
		return err
	}

	// Terminal already: the release raced a confirmation or an earlier
	// delivery and lost, which is fine
	if result.Quantity == 0 {
		return nil
	}

	s.metrics.IncHoldsReleased(ctx, reason)

	eventType := EventHoldExpired
	if reason == "failed" {
		eventType = EventPaymentFailed
	}
	s.publisher.Publish(ctx, &LifecycleEvent{
		Type:      eventType,
		PaymentID: result.Payment.ID,
		EventID:   result.Payment.EventID,
		UserID:    result.Payment.UserID,
		Quantity:  result.Quantity,
		Provider:  string(result.Payment.Provider),
	})

	return nil
}

// CancelReservation cancels a user's reservation before the event starts
func (s *reconciliationServiceImpl) CancelReservation(ctx context.Context, reservationID, userID string) (*dto.CancelReservationResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "reconciliation.cancel_reservation")
	defer span.End()

	result, err := s.store.CancelReservation(ctx, reservationID, userID, time.Now())
	if err != nil {
		return nil, err
	}

	s.metrics.IncHoldsReleased(ctx, "cancelled")

	if result.NeedsProviderRefund {
		payment := result.Payment
		s.refundCapture(ctx, payment.Provider, payment.ProviderChargeRef, payment.Amount, payment.Currency, payment.ID)
	}

	s.publisher.Publish(ctx, &LifecycleEvent{
		Type:          EventReservationCancelled,
		PaymentID:     result.Payment.ID,
		ReservationID: reservationID,
		EventID:       result.Payment.EventID,
		UserID:        userID,
		Quantity:      result.Quantity,
		Provider:      string(result.Payment.Provider),
	})

	return &dto.CancelReservationResponse{
		ReservationID:  reservationID,
		PaymentStatus:  string(result.Payment.Status),
		PlacesReleased: result.PlacesReleased,
		Refunded:       result.NeedsProviderRefund,
	}, nil
}

// refundCapture returns captured funds with backoff. A final failure is
// logged for manual follow-up; the settlement that triggered it stands.
func (s *reconciliationServiceImpl) refundCapture(ctx context.Context, provider domain.Provider, chargeRef string, amount float64, currency, paymentID string) {
	gw, err := s.gateways.Get(provider)
	if err != nil {
		logger.Get().Error("no gateway for refund",
			zap.String("provider", string(provider)),
			zap.String("payment_id", paymentID),
		)
		return
	}

	if chargeRef == "" {
		logger.Get().Error("refund needed but no charge reference",
			zap.String("payment_id", paymentID),
		)
		return
	}

	attempt := 0
	err = retry.Do(ctx, s.retryCfg, func(ctx context.Context) error {
		attempt++
		if attempt > 1 {
			s.metrics.IncRefundRetries(ctx, string(provider))
		}
		return gw.Refund(ctx, chargeRef, amount, currency)
	})
	if err != nil {
		logger.Get().Error("provider refund failed after retries",
			zap.String("payment_id", paymentID),
			zap.String("charge_ref", chargeRef),
			zap.Float64("amount", amount),
			zap.Error(err),
		)
	}
}
