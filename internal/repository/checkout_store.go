package repository

import (
	"context"

	"github.com/FRWD789/je-m-inspire-sub000/internal/domain"
)

// CheckoutStore persists the soft hold a checkout intake creates: one pending
// payment plus its reservation, written atomically. The hold never touches
// the event's inventory counters; only reconciliation does.
type CheckoutStore interface {
	// CreateHold inserts the pending payment and its reservation in one
	// transaction. Returns domain.ErrAlreadyReserved when the user already
	// holds a pending reservation on the same event.
	CreateHold(ctx context.Context, payment *domain.Payment, reservation *domain.Reservation) error

	// ReleaseHold removes the reservation and payment of a hold whose
	// provider session could not be created, so a failed intake leaves no
	// trace. Only pending holds can be released this way.
	ReleaseHold(ctx context.Context, paymentID string) error
}
