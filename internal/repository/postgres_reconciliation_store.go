package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/FRWD789/je-m-inspire-sub000/internal/domain"
	"github.com/FRWD789/je-m-inspire-sub000/pkg/database"
	"github.com/FRWD789/je-m-inspire-sub000/pkg/telemetry"
)

// PostgresReconciliationStore implements ReconciliationStore using PostgreSQL
// row locks. Lock order within a transaction is always payment before event.
type PostgresReconciliationStore struct {
	db *database.PostgresDB
}

// NewPostgresReconciliationStore creates a new PostgreSQL reconciliation store
func NewPostgresReconciliationStore(db *database.PostgresDB) *PostgresReconciliationStore {
	return &PostgresReconciliationStore{db: db}
}

// ConfirmPaid settles a provider "completed" notification
func (s *PostgresReconciliationStore) ConfirmPaid(ctx context.Context, provider domain.Provider, ref string, confirmedAmount float64, chargeRef string) (*ConfirmResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "reconciliation.confirm_paid")
	defer span.End()

	tx, err := s.db.Pool().Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	payment, err := lockPaymentByProviderRef(ctx, tx, provider, ref)
	if err != nil {
		return nil, err
	}

	// Replays and races resolve here: the row lock serializes concurrent
	// deliveries, and whatever terminal state the first writer produced
	// decides the outcome for the rest.
	switch {
	case payment.Status == domain.PaymentStatusPaid:
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return &ConfirmResult{Outcome: OutcomeAlreadyPaid, Payment: payment}, nil
	case payment.IsTerminal():
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return &ConfirmResult{Outcome: OutcomeConflict, Payment: payment}, nil
	}

	reservation, err := getReservationByPaymentTx(ctx, tx, payment.ID)
	if err != nil {
		return nil, err
	}

	event, err := lockEvent(ctx, tx, payment.EventID)
	if err != nil {
		return nil, err
	}

	if event.Cancelled || !event.CanAccommodate(reservation.Quantity) {
		// Funds were captured but the places are gone: compensate. The
		// caller refunds the charge at the provider after commit.
		if err := payment.MarkRefunded(); err != nil {
			return nil, err
		}
		if err := updatePaymentTx(ctx, tx, payment); err != nil {
			return nil, err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, reservation.ID); err != nil {
			return nil, fmt.Errorf("failed to delete reservation: %w", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return &ConfirmResult{Outcome: OutcomeCompensated, Payment: payment, Reservation: reservation}, nil
	}

	if err := event.Reserve(reservation.Quantity); err != nil {
		return nil, err
	}
	if err := payment.MarkPaid(confirmedAmount, chargeRef); err != nil {
		return nil, err
	}

	if err := updateEventInventoryTx(ctx, tx, event); err != nil {
		return nil, err
	}
	if err := updatePaymentTx(ctx, tx, payment); err != nil {
		return nil, err
	}

	var commission *domain.Commission
	if !payment.DirectPayout {
		commission = domain.NewCommission(payment)
		if err := insertCommissionTx(ctx, tx, commission); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &ConfirmResult{
		Outcome:     OutcomeConfirmed,
		Payment:     payment,
		Reservation: reservation,
		Commission:  commission,
	}, nil
}

// ExpireHold releases the hold of a session the provider reports expired
func (s *PostgresReconciliationStore) ExpireHold(ctx context.Context, provider domain.Provider, ref string) (*ReleaseResult, error) {
	return s.releaseHold(ctx, "reconciliation.expire_hold", provider, ref, (*domain.Payment).MarkExpired)
}

// FailHold releases the hold of a session whose payment failed
func (s *PostgresReconciliationStore) FailHold(ctx context.Context, provider domain.Provider, ref string) (*ReleaseResult, error) {
	return s.releaseHold(ctx, "reconciliation.fail_hold", provider, ref, (*domain.Payment).MarkFailed)
}

// releaseHold moves a pending payment to a terminal released state and drops
// its reservation. Holds never held inventory, so the counters stay untouched.
func (s *PostgresReconciliationStore) releaseHold(ctx context.Context, spanName string, provider domain.Provider, ref string, mark func(*domain.Payment) error) (*ReleaseResult, error) {
	ctx, span := telemetry.StartSpan(ctx, spanName)
	defer span.End()

	tx, err := s.db.Pool().Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	payment, err := lockPaymentByProviderRef(ctx, tx, provider, ref)
	if err != nil {
		return nil, err
	}

	if payment.IsTerminal() {
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return &ReleaseResult{Payment: payment}, nil
	}

	if err := mark(payment); err != nil {
		return nil, err
	}
	if err := updatePaymentTx(ctx, tx, payment); err != nil {
		return nil, err
	}

	var quantity int
	err = tx.QueryRow(ctx, `DELETE FROM reservations WHERE payment_id = $1 RETURNING quantity`, payment.ID).Scan(&quantity)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to delete reservation: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &ReleaseResult{Payment: payment, Quantity: quantity}, nil
}

// CancelReservation cancels a user's reservation before the event starts
func (s *PostgresReconciliationStore) CancelReservation(ctx context.Context, reservationID, userID string, now time.Time) (*ReleaseResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "reconciliation.cancel_reservation")
	defer span.End()

	tx, err := s.db.Pool().Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	reservation, err := getReservationTx(ctx, tx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation.UserID != userID {
		return nil, domain.ErrNotReservationOwner
	}

	payment, err := lockPaymentByID(ctx, tx, reservation.PaymentID)
	if err != nil {
		return nil, err
	}

	event, err := lockEvent(ctx, tx, reservation.EventID)
	if err != nil {
		return nil, err
	}
	if !event.StartDate.After(now) {
		return nil, domain.ErrCancellationCutoff
	}

	wasPaid := payment.IsPaid()
	if err := payment.MarkCancelled(); err != nil {
		return nil, err
	}
	if err := updatePaymentTx(ctx, tx, payment); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, reservation.ID); err != nil {
		return nil, fmt.Errorf("failed to delete reservation: %w", err)
	}

	result := &ReleaseResult{
		Payment:             payment,
		Quantity:            reservation.Quantity,
		NeedsProviderRefund: wasPaid,
	}

	// Only a confirmed reservation ever consumed inventory
	if wasPaid {
		if err := event.Release(reservation.Quantity); err != nil {
			return nil, err
		}
		if err := updateEventInventoryTx(ctx, tx, event); err != nil {
			return nil, err
		}
		result.PlacesReleased = reservation.Quantity
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return result, nil
}

// CancelEvent marks an event cancelled, voids its pending holds and opens a
// refund request for every paid reservation
func (s *PostgresReconciliationStore) CancelEvent(ctx context.Context, eventID, vendorID string) (*CancelEventResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "reconciliation.cancel_event")
	defer span.End()

	tx, err := s.db.Pool().Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the event's settleable payments before the event row, matching
	// the payment-first lock order every other method follows. Without this
	// a concurrent confirmation holding a payment lock and waiting on the
	// event row would deadlock against us.
	if _, err := tx.Exec(ctx, `
		SELECT id FROM payments
		WHERE event_id = $1 AND status IN ('pending', 'paid')
		ORDER BY id
		FOR UPDATE`,
		eventID,
	); err != nil {
		return nil, fmt.Errorf("failed to lock event payments: %w", err)
	}

	event, err := lockEvent(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}
	if event.VendorID != vendorID {
		return nil, domain.ErrNotEventOwner
	}
	if event.Cancelled {
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return &CancelEventResult{}, nil
	}

	if _, err := tx.Exec(ctx,
		`UPDATE events SET cancelled = true, updated_at = $2 WHERE id = $1`,
		eventID, time.Now().UTC(),
	); err != nil {
		return nil, fmt.Errorf("failed to cancel event: %w", err)
	}

	// Open a refund request for every paid reservation before touching the
	// pending holds
	opened, err := tx.Exec(ctx, `
		INSERT INTO refund_requests (id, reservation_id, payment_id, amount, motif, status, created_at, updated_at)
		SELECT gen_random_uuid(), r.id, p.id, p.amount, $2, 'pending', now(), now()
		FROM reservations r
		JOIN payments p ON p.id = r.payment_id
		WHERE p.event_id = $1 AND p.status = 'paid'`,
		eventID, domain.MotifEventCancelled,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open refund requests: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		DELETE FROM reservations r
		USING payments p
		WHERE r.payment_id = p.id AND p.event_id = $1 AND p.status = 'pending'`,
		eventID,
	); err != nil {
		return nil, fmt.Errorf("failed to void pending reservations: %w", err)
	}

	voided, err := tx.Exec(ctx, `
		UPDATE payments SET status = 'cancelled', updated_at = $2
		WHERE event_id = $1 AND status = 'pending'`,
		eventID, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to void pending payments: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &CancelEventResult{
		RefundRequestsOpen: int(opened.RowsAffected()),
		PendingHoldsVoided: int(voided.RowsAffected()),
	}, nil
}

// lockPaymentByProviderRef selects a payment by provider reference with a row lock
func lockPaymentByProviderRef(ctx context.Context, tx pgx.Tx, provider domain.Provider, ref string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + `
		FROM payments
		WHERE provider = $1 AND provider_ref = $2
		FOR UPDATE`

	return scanPayment(tx.QueryRow(ctx, query, string(provider), ref))
}

// lockPaymentByID selects a payment by ID with a row lock
func lockPaymentByID(ctx context.Context, tx pgx.Tx, id string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1 FOR UPDATE`

	return scanPayment(tx.QueryRow(ctx, query, id))
}

// lockEvent selects an event with a row lock on its inventory counters
func lockEvent(ctx context.Context, tx pgx.Tx, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`

	return scanEvent(tx.QueryRow(ctx, query, id))
}

// getReservationTx reads a reservation inside a transaction
func getReservationTx(ctx context.Context, tx pgx.Tx, id string) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`

	return scanReservation(tx.QueryRow(ctx, query, id))
}

// getReservationByPaymentTx reads a payment's reservation inside a transaction
func getReservationByPaymentTx(ctx context.Context, tx pgx.Tx, paymentID string) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE payment_id = $1`

	return scanReservation(tx.QueryRow(ctx, query, paymentID))
}

// updatePaymentTx writes a payment's mutable fields inside a transaction
func updatePaymentTx(ctx context.Context, tx pgx.Tx, payment *domain.Payment) error {
	query := `
		UPDATE payments
		SET status = $2,
		    amount = $3,
		    provider_charge_ref = $4,
		    paid_at = $5,
		    updated_at = $6
		WHERE id = $1`

	result, err := tx.Exec(ctx, query,
		payment.ID,
		string(payment.Status),
		payment.Amount,
		nullStringPtr(payment.ProviderChargeRef),
		payment.PaidAt,
		payment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrPaymentNotFound
	}

	return nil
}

// updateEventInventoryTx writes an event's availability counter inside a transaction
func updateEventInventoryTx(ctx context.Context, tx pgx.Tx, event *domain.Event) error {
	query := `UPDATE events SET available_places = $2, updated_at = $3 WHERE id = $1`

	result, err := tx.Exec(ctx, query, event.ID, event.AvailablePlaces, event.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update event inventory: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}

	return nil
}

// insertCommissionTx writes a commission row inside a transaction
func insertCommissionTx(ctx context.Context, tx pgx.Tx, commission *domain.Commission) error {
	query := `
		INSERT INTO commissions (
			id, payment_id, vendor_id, montant_commission, montant_net,
			transfer_status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)`

	_, err := tx.Exec(ctx, query,
		commission.ID,
		commission.PaymentID,
		commission.VendorID,
		commission.CommissionAmount,
		commission.NetAmount,
		string(commission.TransferStatus),
		commission.CreatedAt,
		commission.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert commission: %w", err)
	}

	return nil
}
