package repository

import (
	"context"

	"github.com/FRWD789/je-m-inspire-sub000/internal/domain"
)

// EventRepository defines the interface for event data access
type EventRepository interface {
	// GetByID retrieves an event by its ID
	GetByID(ctx context.Context, id string) (*domain.Event, error)

	// List retrieves upcoming non-cancelled events, soonest first
	List(ctx context.Context, limit, offset int) ([]*domain.Event, error)
}

// ReservationRepository defines the interface for reservation data access
type ReservationRepository interface {
	// GetByID retrieves a reservation by its ID
	GetByID(ctx context.Context, id string) (*domain.Reservation, error)

	// GetByPaymentID retrieves the reservation attached to a payment
	GetByPaymentID(ctx context.Context, paymentID string) (*domain.Reservation, error)

	// GetByUserID retrieves all reservations for a user, newest first
	GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*domain.Reservation, error)
}

// CommissionRepository defines the interface for commission data access
type CommissionRepository interface {
	// GetByPaymentID retrieves the commission row for a payment
	GetByPaymentID(ctx context.Context, paymentID string) (*domain.Commission, error)

	// GetByVendorID retrieves all commission rows for a vendor, newest first
	GetByVendorID(ctx context.Context, vendorID string, limit, offset int) ([]*domain.Commission, error)
}

// RefundRequestRepository defines the interface for refund request data access
type RefundRequestRepository interface {
	// Create creates a new refund request
	Create(ctx context.Context, request *domain.RefundRequest) error

	// GetByID retrieves a refund request by its ID
	GetByID(ctx context.Context, id string) (*domain.RefundRequest, error)

	// GetByReservationID retrieves the refund requests opened on a reservation
	GetByReservationID(ctx context.Context, reservationID string) ([]*domain.RefundRequest, error)
}

// VendorRepository defines the interface for vendor directory lookups
type VendorRepository interface {
	// GetByID retrieves a vendor by its ID
	GetByID(ctx context.Context, id string) (*domain.Vendor, error)
}
