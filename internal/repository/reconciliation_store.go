package repository

import (
	"context"
	"time"

	"github.com/FRWD789/je-m-inspire-sub000/internal/domain"
)

// ConfirmOutcome is the result category of a payment confirmation attempt
type ConfirmOutcome string

const (
	// OutcomeConfirmed means inventory was decremented and the payment is paid
	OutcomeConfirmed ConfirmOutcome = "confirmed"

	// OutcomeAlreadyPaid means a previous delivery of the same webhook won;
	// nothing was changed
	OutcomeAlreadyPaid ConfirmOutcome = "already_paid"

	// OutcomeCompensated means inventory had run out between hold and
	// confirmation: the payment was marked refunded, the reservation removed,
	// and the caller must refund the charge at the provider
	OutcomeCompensated ConfirmOutcome = "compensated"

	// OutcomeConflict means the payment had already reached a terminal
	// non-paid state; the charge must be refunded at the provider but no
	// state was changed
	OutcomeConflict ConfirmOutcome = "conflict"
)

// ConfirmResult reports what a confirmation transaction did
type ConfirmResult struct {
	Outcome     ConfirmOutcome
	Payment     *domain.Payment
	Reservation *domain.Reservation
	Commission  *domain.Commission
}

// ReleaseResult reports a hold released by expiry, failure or user cancellation
type ReleaseResult struct {
	Payment  *domain.Payment
	Quantity int

	// PlacesReleased is non-zero only when a confirmed reservation's places
	// were returned to the event
	PlacesReleased int

	// NeedsProviderRefund is set when the released payment had captured funds
	NeedsProviderRefund bool
}

// CancelEventResult reports what a vendor event cancellation did
type CancelEventResult struct {
	RefundRequestsOpen int
	PendingHoldsVoided int
}

// ReconciliationStore is the single write path that may touch the event
// inventory counters. Every method runs one transaction that locks the
// payment row first and the event row second, so concurrent webhook
// deliveries for the same event serialize instead of deadlocking.
// CancelEvent follows the same order in bulk: it locks all of the event's
// settleable payment rows before taking the event row.
type ReconciliationStore interface {
	// ConfirmPaid settles a provider "completed" notification: decrement
	// inventory and mark the payment paid, or compensate when the inventory
	// ran out first.
	ConfirmPaid(ctx context.Context, provider domain.Provider, ref string, confirmedAmount float64, chargeRef string) (*ConfirmResult, error)

	// ExpireHold releases the hold of a session the provider reports expired.
	// A no-op when the payment already left pending.
	ExpireHold(ctx context.Context, provider domain.Provider, ref string) (*ReleaseResult, error)

	// FailHold releases the hold of a session whose payment failed.
	// A no-op when the payment already left pending.
	FailHold(ctx context.Context, provider domain.Provider, ref string) (*ReleaseResult, error)

	// CancelReservation cancels a user's reservation before the event starts,
	// returning places to the event when the payment had been confirmed.
	CancelReservation(ctx context.Context, reservationID, userID string, now time.Time) (*ReleaseResult, error)

	// CancelEvent marks an event cancelled, voids its pending holds and opens
	// a refund request for every paid reservation.
	CancelEvent(ctx context.Context, eventID, vendorID string) (*CancelEventResult, error)
}
