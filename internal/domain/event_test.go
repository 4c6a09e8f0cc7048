package domain

import (
	"errors"
	"testing"
	"time"
)

func testEvent(available, max int) *Event {
	return &Event{
		ID:              "event-1",
		VendorID:        "vendor-1",
		Name:            "Concert",
		BasePrice:       50.00,
		MaxPlaces:       max,
		AvailablePlaces: available,
		StartDate:       time.Now().Add(48 * time.Hour),
	}
}

func TestEventBookable(t *testing.T) {
	now := time.Now()

	t.Run("future event is bookable", func(t *testing.T) {
		e := testEvent(10, 10)
		if err := e.Bookable(now); err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
	})

	t.Run("cancelled event is not bookable", func(t *testing.T) {
		e := testEvent(10, 10)
		e.Cancel()
		if err := e.Bookable(now); !errors.Is(err, ErrEventCancelled) {
			t.Errorf("Expected ErrEventCancelled, got %v", err)
		}
	})

	t.Run("started event is not bookable", func(t *testing.T) {
		e := testEvent(10, 10)
		e.StartDate = now.Add(-time.Hour)
		if err := e.Bookable(now); !errors.Is(err, ErrEventNotBookable) {
			t.Errorf("Expected ErrEventNotBookable, got %v", err)
		}
	})
}

func TestEventReserveRelease(t *testing.T) {
	t.Run("reserve decrements available places", func(t *testing.T) {
		e := testEvent(10, 10)
		if err := e.Reserve(3); err != nil {
			t.Fatalf("Reserve failed: %v", err)
		}
		if e.AvailablePlaces != 7 {
			t.Errorf("Expected 7 places left, got %d", e.AvailablePlaces)
		}
	})

	t.Run("reserve rejects oversell", func(t *testing.T) {
		e := testEvent(2, 10)
		if err := e.Reserve(3); !errors.Is(err, ErrInsufficientInventory) {
			t.Errorf("Expected ErrInsufficientInventory, got %v", err)
		}
		if e.AvailablePlaces != 2 {
			t.Errorf("Expected counter untouched, got %d", e.AvailablePlaces)
		}
	})

	t.Run("reserve down to zero", func(t *testing.T) {
		e := testEvent(3, 10)
		if err := e.Reserve(3); err != nil {
			t.Fatalf("Reserve failed: %v", err)
		}
		if e.AvailablePlaces != 0 {
			t.Errorf("Expected 0 places left, got %d", e.AvailablePlaces)
		}
		if !e.CanAccommodate(0) || e.CanAccommodate(1) {
			t.Error("Expected sold-out event to accommodate nothing")
		}
	})

	t.Run("release returns places", func(t *testing.T) {
		e := testEvent(5, 10)
		if err := e.Release(2); err != nil {
			t.Fatalf("Release failed: %v", err)
		}
		if e.AvailablePlaces != 7 {
			t.Errorf("Expected 7 places, got %d", e.AvailablePlaces)
		}
	})

	t.Run("release never exceeds capacity", func(t *testing.T) {
		e := testEvent(9, 10)
		if err := e.Release(2); !errors.Is(err, ErrInventoryOverflow) {
			t.Errorf("Expected ErrInventoryOverflow, got %v", err)
		}
	})

	t.Run("invalid quantity", func(t *testing.T) {
		e := testEvent(5, 10)
		if err := e.Reserve(0); !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("Expected ErrInvalidQuantity, got %v", err)
		}
		if err := e.Release(-1); !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("Expected ErrInvalidQuantity, got %v", err)
		}
	})
}
