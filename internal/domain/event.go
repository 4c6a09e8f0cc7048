package domain

import (
	"time"
)

// Event represents a bookable event with finite capacity.
// available_places is only ever mutated through the inventory paths of the
// reconciliation store; everywhere else it is read-only.
type Event struct {
	ID              string    `json:"id"`
	VendorID        string    `json:"vendor_id"`
	Name            string    `json:"name"`
	BasePrice       float64   `json:"base_price"`
	MaxPlaces       int       `json:"max_places"`
	AvailablePlaces int       `json:"available_places"`
	StartDate       time.Time `json:"start_date"`
	Cancelled       bool      `json:"cancelled"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Bookable reports whether the event can accept new reservations at the
// given instant
func (e *Event) Bookable(now time.Time) error {
	if e.Cancelled {
		return ErrEventCancelled
	}
	if !e.StartDate.After(now) {
		return ErrEventNotBookable
	}
	return nil
}

// CanAccommodate reports whether the event currently has enough places for
// the requested quantity. Best-effort only: the authoritative check happens
// under the row lock at confirmation time.
func (e *Event) CanAccommodate(quantity int) bool {
	return e.AvailablePlaces >= quantity
}

// Reserve removes quantity places from the available counter
func (e *Event) Reserve(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if e.AvailablePlaces < quantity {
		return ErrInsufficientInventory
	}
	e.AvailablePlaces -= quantity
	e.UpdatedAt = time.Now().UTC()
	return nil
}

// Release returns quantity places to the available counter, never exceeding
// the capacity ceiling
func (e *Event) Release(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if e.AvailablePlaces+quantity > e.MaxPlaces {
		return ErrInventoryOverflow
	}
	e.AvailablePlaces += quantity
	e.UpdatedAt = time.Now().UTC()
	return nil
}

// Cancel hides the event from booking without deleting it
func (e *Event) Cancel() {
	e.Cancelled = true
	e.UpdatedAt = time.Now().UTC()
}
