package service

import (
	"context"
	"errors"

	"github.com/FRWD789/je-m-inspire-sub000/internal/domain"
	"github.com/FRWD789/je-m-inspire-sub000/internal/dto"
	"github.com/FRWD789/je-m-inspire-sub000/internal/repository"
	"github.com/FRWD789/je-m-inspire-sub000/pkg/telemetry"
)

// PaymentService answers the read side: payment status polling after the
// hosted redirect, reservation listings and vendor commission listings
type PaymentService interface {
	// GetPaymentStatus retrieves a payment the acting user owns
	GetPaymentStatus(ctx context.Context, userID, paymentID string) (*dto.PaymentStatusResponse, error)

	// GetPaymentBySession retrieves a payment by its provider session
	// reference, for success pages that only carry the session id
	GetPaymentBySession(ctx context.Context, userID string, provider domain.Provider, ref string) (*dto.PaymentStatusResponse, error)

	// ListUserPayments retrieves the acting user's payments
	ListUserPayments(ctx context.Context, userID string, limit, offset int) ([]*dto.PaymentStatusResponse, error)

	// ListUserReservations retrieves the acting user's reservations
	ListUserReservations(ctx context.Context, userID string, limit, offset int) ([]*dto.ReservationResponse, error)

	// ListVendorCommissions retrieves the acting vendor's commission rows
	ListVendorCommissions(ctx context.Context, vendorID string, limit, offset int) ([]*dto.CommissionResponse, error)
}

// paymentServiceImpl implements PaymentService
type paymentServiceImpl struct {
	payments     repository.PaymentRepository
	reservations repository.ReservationRepository
	commissions  repository.CommissionRepository
	events       repository.EventRepository
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	payments repository.PaymentRepository,
	reservations repository.ReservationRepository,
	commissions repository.CommissionRepository,
	events repository.EventRepository,
) PaymentService {
	return &paymentServiceImpl{
		payments:     payments,
		reservations: reservations,
		commissions:  commissions,
		events:       events,
	}
}

// GetPaymentStatus retrieves a payment the acting user owns. Someone else's
// payment reads as not found so IDs cannot be probed.
func (s *paymentServiceImpl) GetPaymentStatus(ctx context.Context, userID, paymentID string) (*dto.PaymentStatusResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "payment.get_status")
	defer span.End()

	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.UserID != userID {
		return nil, domain.ErrPaymentNotFound
	}

	reservation, err := s.reservations.GetByPaymentID(ctx, payment.ID)
	if errors.Is(err, domain.ErrReservationNotFound) {
		reservation = nil
	} else if err != nil {
		return nil, err
	}

	event, err := s.lookupEvent(ctx, payment.EventID)
	if err != nil {
		return nil, err
	}

	return dto.ToPaymentStatusResponse(payment, reservation, event), nil
}

// lookupEvent resolves the event summary for a payment, tolerating rows
// that have since disappeared
func (s *paymentServiceImpl) lookupEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if errors.Is(err, domain.ErrEventNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return event, nil
}

// GetPaymentBySession retrieves a payment by its provider session reference
func (s *paymentServiceImpl) GetPaymentBySession(ctx context.Context, userID string, provider domain.Provider, ref string) (*dto.PaymentStatusResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "payment.get_by_session")
	defer span.End()

	payment, err := s.payments.GetByProviderRef(ctx, provider, ref)
	if err != nil {
		return nil, err
	}
	if payment.UserID != userID {
		return nil, domain.ErrPaymentNotFound
	}

	return s.GetPaymentStatus(ctx, userID, payment.ID)
}

// ListUserPayments retrieves the acting user's payments
func (s *paymentServiceImpl) ListUserPayments(ctx context.Context, userID string, limit, offset int) ([]*dto.PaymentStatusResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "payment.list_payments")
	defer span.End()

	payments, err := s.payments.GetByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.PaymentStatusResponse, 0, len(payments))
	for _, p := range payments {
		reservation, err := s.reservations.GetByPaymentID(ctx, p.ID)
		if errors.Is(err, domain.ErrReservationNotFound) {
			reservation = nil
		} else if err != nil {
			return nil, err
		}
		event, err := s.lookupEvent(ctx, p.EventID)
		if err != nil {
			return nil, err
		}
		out = append(out, dto.ToPaymentStatusResponse(p, reservation, event))
	}

	return out, nil
}

// ListUserReservations retrieves the acting user's reservations
func (s *paymentServiceImpl) ListUserReservations(ctx context.Context, userID string, limit, offset int) ([]*dto.ReservationResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "payment.list_reservations")
	defer span.End()

	reservations, err := s.reservations.GetByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.ReservationResponse, 0, len(reservations))
	for _, r := range reservations {
		payment, err := s.payments.GetByID(ctx, r.PaymentID)
		if err != nil {
			return nil, err
		}
		out = append(out, dto.ToReservationResponse(r, payment.Status))
	}

	return out, nil
}

// ListVendorCommissions retrieves the acting vendor's commission rows
func (s *paymentServiceImpl) ListVendorCommissions(ctx context.Context, vendorID string, limit, offset int) ([]*dto.CommissionResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "payment.list_commissions")
	defer span.End()

	commissions, err := s.commissions.GetByVendorID(ctx, vendorID, limit, offset)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.CommissionResponse, 0, len(commissions))
	for _, c := range commissions {
		out = append(out, dto.ToCommissionResponse(c))
	}

	return out, nil
}
