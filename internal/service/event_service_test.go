package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/FRWD789/je-m-inspire-sub000/internal/domain"
	"github.com/FRWD789/je-m-inspire-sub000/internal/repository"
)

func TestCancelEvent_ReportsCounts(t *testing.T) {
	store := new(MockReconciliationStore)
	publisher := &recordingPublisher{}
	svc := NewEventService(new(MockEventRepository), store, publisher)

	store.On("CancelEvent", mock.Anything, "event-001", "vendor-001").
		Return(&repository.CancelEventResult{
			RefundRequestsOpen: 4,
			PendingHoldsVoided: 2,
		}, nil)

	resp, err := svc.CancelEvent(context.Background(), "event-001", "vendor-001")

	assert.NoError(t, err)
	assert.Equal(t, "event-001", resp.EventID)
	assert.Equal(t, 4, resp.RefundRequestsOpen)
	assert.Equal(t, 2, resp.PendingHoldsVoided)
	if assert.Len(t, publisher.events, 1) {
		assert.Equal(t, EventEventCancelled, publisher.events[0].Type)
	}
}

func TestCancelEvent_WrongVendor(t *testing.T) {
	store := new(MockReconciliationStore)
	svc := NewEventService(new(MockEventRepository), store, &recordingPublisher{})

	store.On("CancelEvent", mock.Anything, "event-001", "intruder").
		Return(nil, domain.ErrNotEventOwner)

	_, err := svc.CancelEvent(context.Background(), "event-001", "intruder")

	assert.ErrorIs(t, err, domain.ErrNotEventOwner)
}

func TestListEvents_MapsRows(t *testing.T) {
	events := new(MockEventRepository)
	svc := NewEventService(events, new(MockReconciliationStore), &recordingPublisher{})

	events.On("List", mock.Anything, 20, 0).Return([]*domain.Event{
		{ID: "event-001", Name: "Retraite yoga", AvailablePlaces: 8},
		{ID: "event-002", Name: "Atelier méditation", AvailablePlaces: 0},
	}, nil)

	out, err := svc.ListEvents(context.Background(), 20, 0)

	assert.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Equal(t, "event-001", out[0].ID)
}
