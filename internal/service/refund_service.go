package service

import (
	"context"

	"github.com/FRWD789/je-m-inspire-sub000/internal/domain"
	"github.com/FRWD789/je-m-inspire-sub000/internal/dto"
	"github.com/FRWD789/je-m-inspire-sub000/internal/repository"
	"github.com/FRWD789/je-m-inspire-sub000/pkg/telemetry"
)

// RefundService opens manual refund requests for the admin queue. Processing
// them (approve, refuse, transfer money back) happens in the back office.
type RefundService interface {
	// RequestRefund opens a refund request on the acting user's paid
	// reservation
	RequestRefund(ctx context.Context, userID string, req *dto.RefundRequestCreate) (*dto.RefundRequestResponse, error)

	// ListReservationRefunds retrieves the refund requests on a reservation
	// the acting user owns
	ListReservationRefunds(ctx context.Context, userID, reservationID string) ([]*dto.RefundRequestResponse, error)
}

// refundServiceImpl implements RefundService
type refundServiceImpl struct {
	reservations repository.ReservationRepository
	payments     repository.PaymentRepository
	refunds      repository.RefundRequestRepository
	publisher    EventPublisher
}

// NewRefundService creates a new RefundService
func NewRefundService(
	reservations repository.ReservationRepository,
	payments repository.PaymentRepository,
	refunds repository.RefundRequestRepository,
	publisher EventPublisher,
) RefundService {
	return &refundServiceImpl{
		reservations: reservations,
		payments:     payments,
		refunds:      refunds,
		publisher:    publisher,
	}
}

// RequestRefund opens a refund request on the acting user's paid reservation
func (s *refundServiceImpl) RequestRefund(ctx context.Context, userID string, req *dto.RefundRequestCreate) (*dto.RefundRequestResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "refund.request")
	defer span.End()

	reservation, err := s.reservations.GetByID(ctx, req.ReservationID)
	if err != nil {
		return nil, err
	}
	if reservation.UserID != userID {
		return nil, domain.ErrNotReservationOwner
	}

	payment, err := s.payments.GetByID(ctx, reservation.PaymentID)
	if err != nil {
		return nil, err
	}

	existing, err := s.refunds.GetByReservationID(ctx, reservation.ID)
	if err != nil {
		return nil, err
	}
	for _, r := range existing {
		if r.Status == domain.RefundStatusPending {
			return nil, domain.ErrRefundRequestDuplicate
		}
	}

	request, err := domain.NewRefundRequest(reservation, payment, req.Motif)
	if err != nil {
		return nil, err
	}
	if err := s.refunds.Create(ctx, request); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, &LifecycleEvent{
		Type:          EventRefundRequested,
		PaymentID:     payment.ID,
		ReservationID: reservation.ID,
		EventID:       reservation.EventID,
		UserID:        userID,
		Amount:        request.Amount,
	})

	return dto.ToRefundRequestResponse(request), nil
}

// ListReservationRefunds retrieves the refund requests on a reservation the
// acting user owns
func (s *refundServiceImpl) ListReservationRefunds(ctx context.Context, userID, reservationID string) ([]*dto.RefundRequestResponse, error) {
	reservation, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation.UserID != userID {
		return nil, domain.ErrNotReservationOwner
	}

	requests, err := s.refunds.GetByReservationID(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.RefundRequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, dto.ToRefundRequestResponse(r))
	}

	return out, nil
}
