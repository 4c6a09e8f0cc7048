package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/FRWD789/je-m-inspire-sub000/pkg/telemetry"
)

// Metrics holds the engine's instruments. A nil *Metrics is safe to use so
// tests can pass nothing.
type Metrics struct {
	CheckoutsStarted *telemetry.Counter
	PaymentsSettled  *telemetry.Counter
	Compensations    *telemetry.Counter
	HoldsReleased    *telemetry.Counter
	WebhooksHandled  *telemetry.Counter
	RefundRetries    *telemetry.Counter
	CheckoutLatency  *telemetry.Histogram
	WebhookLatency   *telemetry.Histogram
}

// New registers the engine's instruments on the global meter
func New() (*Metrics, error) {
	checkouts, err := telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "checkouts_started_total",
		Description: "Checkout intakes that created a hold",
	})
	if err != nil {
		return nil, err
	}

	settled, err := telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "payments_settled_total",
		Description: "Payments reconciled to a terminal state, by outcome",
	})
	if err != nil {
		return nil, err
	}

	compensations, err := telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "compensations_total",
		Description: "Paid sessions refunded because inventory ran out",
	})
	if err != nil {
		return nil, err
	}

	released, err := telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "holds_released_total",
		Description: "Holds released by expiry, failure or cancellation",
	})
	if err != nil {
		return nil, err
	}

	webhooks, err := telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "webhook_events_total",
		Description: "Verified provider webhook deliveries, by provider and kind",
	})
	if err != nil {
		return nil, err
	}

	refundRetries, err := telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "refund_retries_total",
		Description: "Provider refund attempts beyond the first",
	})
	if err != nil {
		return nil, err
	}

	latency, err := telemetry.NewHistogram(telemetry.MetricOpts{
		Name:        "checkout_duration_seconds",
		Description: "Time from intake to hosted session created",
		Unit:        "s",
	})
	if err != nil {
		return nil, err
	}

	webhookLatency, err := telemetry.NewHistogram(telemetry.MetricOpts{
		Name:        "webhook_duration_seconds",
		Description: "Time to settle a verified webhook delivery",
		Unit:        "s",
	})
	if err != nil {
		return nil, err
	}

	return &Metrics{
		CheckoutsStarted: checkouts,
		PaymentsSettled:  settled,
		Compensations:    compensations,
		HoldsReleased:    released,
		WebhooksHandled:  webhooks,
		RefundRetries:    refundRetries,
		CheckoutLatency:  latency,
		WebhookLatency:   webhookLatency,
	}, nil
}

// IncCheckoutsStarted bumps the checkout counter with the provider attribute
func (m *Metrics) IncCheckoutsStarted(ctx context.Context, provider string) {
	if m == nil {
		return
	}
	m.CheckoutsStarted.Inc(ctx, attribute.String("provider", provider))
}

// IncPaymentsSettled bumps the settlement counter with the outcome attribute
func (m *Metrics) IncPaymentsSettled(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.PaymentsSettled.Inc(ctx, attribute.String("outcome", outcome))
}

// IncCompensations bumps the compensation counter
func (m *Metrics) IncCompensations(ctx context.Context) {
	if m == nil {
		return
	}
	m.Compensations.Inc(ctx)
}

// IncHoldsReleased bumps the released-hold counter with the reason attribute
func (m *Metrics) IncHoldsReleased(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.HoldsReleased.Inc(ctx, attribute.String("reason", reason))
}

// IncWebhooksHandled bumps the webhook counter
func (m *Metrics) IncWebhooksHandled(ctx context.Context, provider, kind string) {
	if m == nil {
		return
	}
	m.WebhooksHandled.Inc(ctx,
		attribute.String("provider", provider),
		attribute.String("kind", kind),
	)
}

// IncRefundRetries bumps the refund retry counter
func (m *Metrics) IncRefundRetries(ctx context.Context, provider string) {
	if m == nil {
		return
	}
	m.RefundRetries.Inc(ctx, attribute.String("provider", provider))
}

// ObserveCheckoutLatency records one checkout duration in seconds
func (m *Metrics) ObserveCheckoutLatency(ctx context.Context, seconds float64) {
	if m == nil {
		return
	}
	m.CheckoutLatency.Record(ctx, seconds)
}

// ObserveWebhookLatency records one webhook settlement duration in seconds
func (m *Metrics) ObserveWebhookLatency(ctx context.Context, provider string, seconds float64) {
	if m == nil {
		return
	}
	m.WebhookLatency.Record(ctx, seconds, attribute.String("provider", provider))
}
