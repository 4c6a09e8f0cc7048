package repository

import (
	"context"

	"github.com/FRWD789/je-m-inspire-sub000/internal/domain"
)

// PaymentRepository defines the interface for payment data access
type PaymentRepository interface {
	// Create creates a new payment record
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByID retrieves a payment by its ID
	GetByID(ctx context.Context, id string) (*domain.Payment, error)

	// GetByProviderRef retrieves a payment by its provider session/order reference
	GetByProviderRef(ctx context.Context, provider domain.Provider, ref string) (*domain.Payment, error)

	// GetByUserID retrieves all payments for a user, newest first
	GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*domain.Payment, error)

	// AttachProviderRef records the provider session reference on a pending payment
	AttachProviderRef(ctx context.Context, id, ref string) error

	// Update updates the mutable fields of an existing payment
	Update(ctx context.Context, payment *domain.Payment) error
}
