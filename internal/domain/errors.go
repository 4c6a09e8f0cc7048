package domain

import "errors"

// Domain errors
var (
	// Event errors
	ErrEventNotFound    = errors.New("event not found")
	ErrEventNotBookable = errors.New("event has already started or passed")
	ErrEventCancelled   = errors.New("event has been cancelled")
	ErrNotEventOwner    = errors.New("acting user does not own this event")

	// Inventory errors
	ErrInsufficientInventory = errors.New("insufficient places available")
	ErrInventoryOverflow     = errors.New("available places cannot exceed capacity")

	// Reservation errors
	ErrReservationNotFound = errors.New("reservation not found")
	ErrAlreadyReserved     = errors.New("an active reservation already exists for this event")
	ErrNotReservationOwner = errors.New("acting user does not own this reservation")
	ErrInvalidQuantity     = errors.New("quantity must be between 1 and 10")

	// Payment errors
	ErrPaymentNotFound         = errors.New("payment not found")
	ErrPaymentAlreadyExists    = errors.New("payment already exists")
	ErrInvalidStatusTransition = errors.New("invalid payment status transition")
	ErrInvalidAmount           = errors.New("amount must be positive")
	ErrInvalidCommissionRate   = errors.New("commission rate must be between 0 and 100")

	// Provider errors
	ErrProviderUnavailable = errors.New("payment provider unavailable")
	ErrUnknownProvider     = errors.New("unknown payment provider")

	// Cancellation errors
	ErrCancellationCutoff = errors.New("event has started, cancellation window closed")

	// Refund request errors
	ErrRefundNotAllowed       = errors.New("refund can only be requested on a paid reservation")
	ErrRefundRequestNotFound  = errors.New("refund request not found")
	ErrRefundRequestDuplicate = errors.New("a pending refund request already exists for this reservation")

	// Vendor errors
	ErrVendorNotFound = errors.New("vendor not found")
)

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrEventNotFound) ||
		errors.Is(err, ErrReservationNotFound) ||
		errors.Is(err, ErrPaymentNotFound) ||
		errors.Is(err, ErrVendorNotFound) ||
		errors.Is(err, ErrRefundRequestNotFound)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidCommissionRate) ||
		errors.Is(err, ErrEventNotBookable) ||
		errors.Is(err, ErrEventCancelled) ||
		errors.Is(err, ErrUnknownProvider)
}

// IsConflictError checks if the error is a conflict error
func IsConflictError(err error) bool {
	return errors.Is(err, ErrAlreadyReserved) ||
		errors.Is(err, ErrInsufficientInventory) ||
		errors.Is(err, ErrPaymentAlreadyExists) ||
		errors.Is(err, ErrInvalidStatusTransition) ||
		errors.Is(err, ErrCancellationCutoff) ||
		errors.Is(err, ErrRefundNotAllowed) ||
		errors.Is(err, ErrRefundRequestDuplicate)
}

// IsPermissionError checks if the error is an ownership/permission error
func IsPermissionError(err error) bool {
	return errors.Is(err, ErrNotReservationOwner) ||
		errors.Is(err, ErrNotEventOwner)
}
