package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/FRWD789/je-m-inspire-sub000/internal/domain"
	"github.com/FRWD789/je-m-inspire-sub000/internal/dto"
)

// MockReservationRepository is a mock implementation of repository.ReservationRepository
type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) GetByPaymentID(ctx context.Context, paymentID string) (*domain.Reservation, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*domain.Reservation, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Reservation), args.Error(1)
}

// MockRefundRequestRepository is a mock implementation of repository.RefundRequestRepository
type MockRefundRequestRepository struct {
	mock.Mock
}

func (m *MockRefundRequestRepository) Create(ctx context.Context, request *domain.RefundRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockRefundRequestRepository) GetByID(ctx context.Context, id string) (*domain.RefundRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RefundRequest), args.Error(1)
}

func (m *MockRefundRequestRepository) GetByReservationID(ctx context.Context, reservationID string) ([]*domain.RefundRequest, error) {
	args := m.Called(ctx, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.RefundRequest), args.Error(1)
}

func testReservation() *domain.Reservation {
	return &domain.Reservation{
		ID:        "res-001",
		UserID:    "user-001",
		EventID:   "event-001",
		PaymentID: "pay-001",
		Quantity:  2,
	}
}

func TestRequestRefund_OpensPendingRequest(t *testing.T) {
	reservations := new(MockReservationRepository)
	payments := new(MockPaymentRepository)
	refunds := new(MockRefundRequestRepository)
	svc := NewRefundService(reservations, payments, refunds, NewNoopPublisher())

	reservations.On("GetByID", mock.Anything, "res-001").Return(testReservation(), nil)
	payments.On("GetByID", mock.Anything, "pay-001").Return(testPayment(domain.PaymentStatusPaid), nil)
	refunds.On("GetByReservationID", mock.Anything, "res-001").Return([]*domain.RefundRequest{}, nil)
	refunds.On("Create", mock.Anything, mock.AnythingOfType("*domain.RefundRequest")).Return(nil)

	resp, err := svc.RequestRefund(context.Background(), "user-001", &dto.RefundRequestCreate{
		ReservationID: "res-001",
		Motif:         "cannot attend anymore",
	})

	assert.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, 200.00, resp.Amount)
	assert.Equal(t, "cannot attend anymore", resp.Motif)
	refunds.AssertExpectations(t)
}

func TestRequestRefund_NotOwner(t *testing.T) {
	reservations := new(MockReservationRepository)
	svc := NewRefundService(reservations, new(MockPaymentRepository), new(MockRefundRequestRepository), NewNoopPublisher())

	reservations.On("GetByID", mock.Anything, "res-001").Return(testReservation(), nil)

	_, err := svc.RequestRefund(context.Background(), "someone-else", &dto.RefundRequestCreate{
		ReservationID: "res-001",
		Motif:         "cannot attend anymore",
	})

	assert.ErrorIs(t, err, domain.ErrNotReservationOwner)
}

func TestRequestRefund_UnpaidPayment(t *testing.T) {
	reservations := new(MockReservationRepository)
	payments := new(MockPaymentRepository)
	refunds := new(MockRefundRequestRepository)
	svc := NewRefundService(reservations, payments, refunds, NewNoopPublisher())

	reservations.On("GetByID", mock.Anything, "res-001").Return(testReservation(), nil)
	payments.On("GetByID", mock.Anything, "pay-001").Return(testPayment(domain.PaymentStatusPending), nil)
	refunds.On("GetByReservationID", mock.Anything, "res-001").Return([]*domain.RefundRequest{}, nil)

	_, err := svc.RequestRefund(context.Background(), "user-001", &dto.RefundRequestCreate{
		ReservationID: "res-001",
		Motif:         "cannot attend anymore",
	})

	assert.ErrorIs(t, err, domain.ErrRefundNotAllowed)
}

func TestRequestRefund_DuplicatePending(t *testing.T) {
	reservations := new(MockReservationRepository)
	payments := new(MockPaymentRepository)
	refunds := new(MockRefundRequestRepository)
	svc := NewRefundService(reservations, payments, refunds, NewNoopPublisher())

	reservations.On("GetByID", mock.Anything, "res-001").Return(testReservation(), nil)
	payments.On("GetByID", mock.Anything, "pay-001").Return(testPayment(domain.PaymentStatusPaid), nil)
	refunds.On("GetByReservationID", mock.Anything, "res-001").Return([]*domain.RefundRequest{
		{ID: "ref-001", ReservationID: "res-001", Status: domain.RefundStatusPending},
	}, nil)

	_, err := svc.RequestRefund(context.Background(), "user-001", &dto.RefundRequestCreate{
		ReservationID: "res-001",
		Motif:         "cannot attend anymore",
	})

	assert.ErrorIs(t, err, domain.ErrRefundRequestDuplicate)
	refunds.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRequestRefund_RefusedRequestDoesNotBlock(t *testing.T) {
	reservations := new(MockReservationRepository)
	payments := new(MockPaymentRepository)
	refunds := new(MockRefundRequestRepository)
	svc := NewRefundService(reservations, payments, refunds, NewNoopPublisher())

	reservations.On("GetByID", mock.Anything, "res-001").Return(testReservation(), nil)
	payments.On("GetByID", mock.Anything, "pay-001").Return(testPayment(domain.PaymentStatusPaid), nil)
	refunds.On("GetByReservationID", mock.Anything, "res-001").Return([]*domain.RefundRequest{
		{ID: "ref-001", ReservationID: "res-001", Status: domain.RefundStatusRefused},
	}, nil)
	refunds.On("Create", mock.Anything, mock.AnythingOfType("*domain.RefundRequest")).Return(nil)

	resp, err := svc.RequestRefund(context.Background(), "user-001", &dto.RefundRequestCreate{
		ReservationID: "res-001",
		Motif:         "second attempt after refusal",
	})

	assert.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
}

func TestListReservationRefunds_OwnershipEnforced(t *testing.T) {
	reservations := new(MockReservationRepository)
	refunds := new(MockRefundRequestRepository)
	svc := NewRefundService(reservations, new(MockPaymentRepository), refunds, NewNoopPublisher())

	reservations.On("GetByID", mock.Anything, "res-001").Return(testReservation(), nil)

	_, err := svc.ListReservationRefunds(context.Background(), "someone-else", "res-001")

	assert.ErrorIs(t, err, domain.ErrNotReservationOwner)
	refunds.AssertNotCalled(t, "GetByReservationID", mock.Anything, mock.Anything)
}
