package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/FRWD789/je-m-inspire-sub000/internal/domain"
	"github.com/FRWD789/je-m-inspire-sub000/pkg/database"
)

// PostgreSQL error code for unique violation
const pgUniqueViolationCode = "23505"

const paymentColumns = `id, user_id, event_id, vendor_id, amount, currency, status, provider,
	       provider_ref, provider_charge_ref, commission_rate, direct_payout,
	       paid_at, created_at, updated_at`

// PostgresPaymentRepository implements PaymentRepository using PostgreSQL
type PostgresPaymentRepository struct {
	db *database.PostgresDB
}

// NewPostgresPaymentRepository creates a new PostgreSQL payment repository
func NewPostgresPaymentRepository(db *database.PostgresDB) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{db: db}
}

// Create creates a new payment record
func (r *PostgresPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (
			id, user_id, event_id, vendor_id, amount, currency, status, provider,
			provider_ref, provider_charge_ref, commission_rate, direct_payout,
			paid_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		)`

	_, err := r.db.Pool().Exec(ctx, query,
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
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode {
			return domain.ErrPaymentAlreadyExists
		}
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

// GetByID retrieves a payment by its ID
func (r *PostgresPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	return scanPayment(r.db.Pool().QueryRow(ctx, query, id))
}

// GetByProviderRef retrieves a payment by its provider session/order reference
func (r *PostgresPaymentRepository) GetByProviderRef(ctx context.Context, provider domain.Provider, ref string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE provider = $1 AND provider_ref = $2`

	return scanPayment(r.db.Pool().QueryRow(ctx, query, string(provider), ref))
}

// GetByUserID retrieves all payments for a user, newest first
func (r *PostgresPaymentRepository) GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + `
		FROM payments
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Pool().Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return payments, nil
}

// AttachProviderRef records the provider session reference on a pending payment
func (r *PostgresPaymentRepository) AttachProviderRef(ctx context.Context, id, ref string) error {
	query := `
		UPDATE payments
		SET provider_ref = $2, updated_at = $3
		WHERE id = $1 AND status = 'pending'`

	result, err := r.db.Pool().Exec(ctx, query, id, ref, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to attach provider ref: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrPaymentNotFound
	}

	return nil
}

// Update updates the mutable fields of an existing payment
func (r *PostgresPaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	query := `
		UPDATE payments
		SET status = $2,
		    amount = $3,
		    provider_ref = $4,
		    provider_charge_ref = $5,
		    paid_at = $6,
		    updated_at = $7
		WHERE id = $1`

	result, err := r.db.Pool().Exec(ctx, query,
		payment.ID,
		string(payment.Status),
		payment.Amount,
		nullStringPtr(payment.ProviderRef),
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

// scanPayment scans a single payment from a row
func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var payment domain.Payment
	var status, provider string
	var providerRef, chargeRef *string

	err := row.Scan(
		&payment.ID,
		&payment.UserID,
		&payment.EventID,
		&payment.VendorID,
		&payment.Amount,
		&payment.Currency,
		&status,
		&provider,
		&providerRef,
		&chargeRef,
		&payment.CommissionRate,
		&payment.DirectPayout,
		&payment.PaidAt,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to scan payment: %w", err)
	}

	payment.Status = domain.PaymentStatus(status)
	payment.Provider = domain.Provider(provider)
	if providerRef != nil {
		payment.ProviderRef = *providerRef
	}
	if chargeRef != nil {
		payment.ProviderChargeRef = *chargeRef
	}

	return &payment, nil
}

// nullStringPtr converts string to *string, returning nil for empty strings
func nullStringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
