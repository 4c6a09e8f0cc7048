package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/FRWD789/je-m-inspire-sub000/internal/domain"
	"github.com/FRWD789/je-m-inspire-sub000/pkg/database"
)

// PostgresCheckoutStore implements CheckoutStore using PostgreSQL
type PostgresCheckoutStore struct {
	db *database.PostgresDB
}

// NewPostgresCheckoutStore creates a new PostgreSQL checkout store
func NewPostgresCheckoutStore(db *database.PostgresDB) *PostgresCheckoutStore {
	return &PostgresCheckoutStore{db: db}
}

// CreateHold inserts the pending payment and its reservation in one transaction
func (s *PostgresCheckoutStore) CreateHold(ctx context.Context, payment *domain.Payment, reservation *domain.Reservation) error {
	tx, err := s.db.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	paymentQuery := `
		INSERT INTO payments (
			id, user_id, event_id, vendor_id, amount, currency, status, provider,
			provider_ref, provider_charge_ref, commission_rate, direct_payout,
			paid_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		)`

	_, err = tx.Exec(ctx, paymentQuery,
		payment.ID,
		payment.UserID,
		payment.EventID,
		payment.VendorID,
		payment.Amount,
		payment.Currency,
		string(payment.Status),
		string(payment.Provider),
		nullStringPtr(payment.ProviderRef),
		nullStringPtr(payment.ProviderChargeRef),
		payment.CommissionRate,
		payment.DirectPayout,
		payment.PaidAt,
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	reservationQuery := `
		INSERT INTO reservations (
			id, user_id, event_id, payment_id, quantity, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)`

	_, err = tx.Exec(ctx, reservationQuery,
		reservation.ID,
		reservation.UserID,
		reservation.EventID,
		reservation.PaymentID,
		reservation.Quantity,
		reservation.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode {
			return domain.ErrAlreadyReserved
		}
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ReleaseHold removes the reservation and payment of a hold whose provider
// session could not be created
func (s *PostgresCheckoutStore) ReleaseHold(ctx context.Context, paymentID string) error {
	tx, err := s.db.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM reservations WHERE payment_id = $1`, paymentID); err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM payments WHERE id = $1 AND status = 'pending'`, paymentID)
	if err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrPaymentNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
