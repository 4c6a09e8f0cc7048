package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/FRWD789/je-m-inspire-sub000/internal/domain"
	"github.com/FRWD789/je-m-inspire-sub000/pkg/database"
)

const commissionColumns = `id, payment_id, vendor_id, montant_commission, montant_net,
	       transfer_status, created_at, updated_at`

// PostgresCommissionRepository implements CommissionRepository using PostgreSQL
type PostgresCommissionRepository struct {
	db *database.PostgresDB
}

// NewPostgresCommissionRepository creates a new PostgreSQL commission repository
func NewPostgresCommissionRepository(db *database.PostgresDB) *PostgresCommissionRepository {
	return &PostgresCommissionRepository{db: db}
}

// GetByPaymentID retrieves the commission row for a payment
func (r *PostgresCommissionRepository) GetByPaymentID(ctx context.Context, paymentID string) (*domain.Commission, error) {
	query := `SELECT ` + commissionColumns + ` FROM commissions WHERE payment_id = $1`

	return scanCommission(r.db.Pool().QueryRow(ctx, query, paymentID))
}

// GetByVendorID retrieves all commission rows for a vendor, newest first
func (r *PostgresCommissionRepository) GetByVendorID(ctx context.Context, vendorID string, limit, offset int) ([]*domain.Commission, error) {
	query := `SELECT ` + commissionColumns + `
		FROM commissions
		WHERE vendor_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Pool().Query(ctx, query, vendorID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query commissions: %w", err)
	}
	defer rows.Close()

	var commissions []*domain.Commission
	for rows.Next() {
		commission, err := scanCommission(rows)
		if err != nil {
			return nil, err
		}
		commissions = append(commissions, commission)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate commissions: %w", err)
	}

	return commissions, nil
}

// scanCommission scans a single commission from a row
func scanCommission(row pgx.Row) (*domain.Commission, error) {
	var commission domain.Commission
	var transferStatus string

	err := row.Scan(
		&commission.ID,
		&commission.PaymentID,
		&commission.VendorID,
		&commission.CommissionAmount,
		&commission.NetAmount,
		&transferStatus,
		&commission.CreatedAt,
		&commission.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to scan commission: %w", err)
	}

	commission.TransferStatus = domain.TransferStatus(transferStatus)

	return &commission, nil
}
