package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/FRWD789/je-m-inspire-sub000/internal/domain"
	"github.com/FRWD789/je-m-inspire-sub000/pkg/database"
)

// PostgresVendorRepository implements VendorRepository using PostgreSQL
type PostgresVendorRepository struct {
	db *database.PostgresDB
}

// NewPostgresVendorRepository creates a new PostgreSQL vendor repository
func NewPostgresVendorRepository(db *database.PostgresDB) *PostgresVendorRepository {
	return &PostgresVendorRepository{db: db}
}

// GetByID retrieves a vendor by its ID
func (r *PostgresVendorRepository) GetByID(ctx context.Context, id string) (*domain.Vendor, error) {
	query := `
		SELECT id, commission_rate, stripe_account_id, paypal_merchant_id,
		       direct_payout_enabled, created_at, updated_at
		FROM vendors
		WHERE id = $1`

	var vendor domain.Vendor
	var stripeAccountID, paypalMerchantID *string

	err := r.db.Pool().QueryRow(ctx, query, id).Scan(
		&vendor.ID,
		&vendor.CommissionRate,
		&stripeAccountID,
		&paypalMerchantID,
		&vendor.DirectPayoutEnabled,
		&vendor.CreatedAt,
		&vendor.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVendorNotFound
		}
		return nil, fmt.Errorf("failed to scan vendor: %w", err)
	}

	if stripeAccountID != nil {
		vendor.StripeAccountID = *stripeAccountID
	}
	if paypalMerchantID != nil {
		vendor.PayPalMerchantID = *paypalMerchantID
	}

	return &vendor, nil
}
