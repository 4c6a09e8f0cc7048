package service

import (
	"context"

	"github.com/FRWD789/je-m-inspire-sub000/internal/dto"
	"github.com/FRWD789/je-m-inspire-sub000/internal/repository"
	"github.com/FRWD789/je-m-inspire-sub000/pkg/telemetry"
)

// EventService exposes the event catalogue and the vendor-side cancellation
type EventService interface {
	// GetEvent retrieves one event
	GetEvent(ctx context.Context, id string) (*dto.EventResponse, error)

	// ListEvents retrieves upcoming bookable events
	ListEvents(ctx context.Context, limit, offset int) ([]*dto.EventResponse, error)

	// CancelEvent cancels a vendor's event: pending holds are voided and
	// every paid reservation gets a pending refund request for the admin
	// queue
	CancelEvent(ctx context.Context, eventID, vendorID string) (*dto.CancelEventResponse, error)
}

// eventServiceImpl implements EventService
type eventServiceImpl struct {
	events    repository.EventRepository
	store     repository.ReconciliationStore
	publisher EventPublisher
}

// NewEventService creates a new EventService
func NewEventService(
	events repository.EventRepository,
	store repository.ReconciliationStore,
	publisher EventPublisher,
) EventService {
	return &eventServiceImpl{
		events:    events,
		store:     store,
		publisher: publisher,
	}
}

// GetEvent retrieves one event
func (s *eventServiceImpl) GetEvent(ctx context.Context, id string) (*dto.EventResponse, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.ToEventResponse(event), nil
}

// ListEvents retrieves upcoming bookable events
func (s *eventServiceImpl) ListEvents(ctx context.Context, limit, offset int) ([]*dto.EventResponse, error) {
	events, err := s.events.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, dto.ToEventResponse(e))
	}

	return out, nil
}

// CancelEvent cancels a vendor's event
func (s *eventServiceImpl) CancelEvent(ctx context.Context, eventID, vendorID string) (*dto.CancelEventResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "event.cancel")
	defer span.End()

	result, err := s.store.CancelEvent(ctx, eventID, vendorID)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, &LifecycleEvent{
		Type:    EventEventCancelled,
		EventID: eventID,
	})

	return &dto.CancelEventResponse{
		EventID:            eventID,
		RefundRequestsOpen: result.RefundRequestsOpen,
		PendingHoldsVoided: result.PendingHoldsVoided,
	}, nil
}
