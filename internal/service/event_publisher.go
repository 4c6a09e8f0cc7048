package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/FRWD789/je-m-inspire-sub000/pkg/kafka"
	"github.com/FRWD789/je-m-inspire-sub000/pkg/logger"
)

// Lifecycle event types emitted on the reservation stream
const (
	EventCheckoutStarted      = "checkout.started"
	EventPaymentConfirmed     = "payment.confirmed"
	EventPaymentCompensated   = "payment.compensated"
	EventPaymentFailed        = "payment.failed"
	EventHoldExpired          = "hold.expired"
	EventReservationCancelled = "reservation.cancelled"
	EventEventCancelled       = "event.cancelled"
	EventRefundRequested      = "refund.requested"
)

// LifecycleEvent is one entry on the reservation lifecycle stream
type LifecycleEvent struct {
	Type          string    `json:"type"`
	PaymentID     string    `json:"payment_id,omitempty"`
	ReservationID string    `json:"reservation_id,omitempty"`
	EventID       string    `json:"event_id,omitempty"`
	UserID        string    `json:"user_id,omitempty"`
	Quantity      int       `json:"quantity,omitempty"`
	Amount        float64   `json:"amount,omitempty"`
	Provider      string    `json:"provider,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// EventPublisher emits lifecycle events for downstream consumers
// (notifications, analytics). Publishing is best effort: reconciliation never
// fails because the stream is down.
type EventPublisher interface {
	Publish(ctx context.Context, event *LifecycleEvent)
}

// KafkaPublisher implements EventPublisher on a Kafka topic keyed by event ID
// so all lifecycle entries of one event stay ordered
type KafkaPublisher struct {
	producer *kafka.Producer
	topic    string
}

// NewKafkaPublisher creates a Kafka-backed publisher
func NewKafkaPublisher(producer *kafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

// Publish produces the event, logging instead of failing on error
func (p *KafkaPublisher) Publish(ctx context.Context, event *LifecycleEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	key := event.EventID
	if key == "" {
		key = event.PaymentID
	}

	if err := p.producer.ProduceJSON(ctx, p.topic, key, event); err != nil {
		logger.Get().Warn("failed to publish lifecycle event",
			zap.String("type", event.Type),
			zap.String("payment_id", event.PaymentID),
			zap.Error(err),
		)
	}
}

// NoopPublisher discards every event
type NoopPublisher struct{}

// NewNoopPublisher creates a publisher that discards everything
func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

// Publish discards the event
func (p *NoopPublisher) Publish(ctx context.Context, event *LifecycleEvent) {}
