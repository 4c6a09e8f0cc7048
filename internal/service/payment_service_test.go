package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/FRWD789/je-m-inspire-sub000/internal/domain"
)

// MockCommissionRepository is a mock implementation of repository.CommissionRepository
type MockCommissionRepository struct {
	mock.Mock
}

func (m *MockCommissionRepository) GetByPaymentID(ctx context.Context, paymentID string) (*domain.Commission, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Commission), args.Error(1)
}

func (m *MockCommissionRepository) GetByVendorID(ctx context.Context, vendorID string, limit, offset int) ([]*domain.Commission, error) {
	args := m.Called(ctx, vendorID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Commission), args.Error(1)
}

func paymentTestEvent() *domain.Event {
	e := testEvent()
	e.ID = "event-001"
	e.Name = "Atelier peinture"
	return e
}

func TestGetPaymentStatus_ReturnsOwnPayment(t *testing.T) {
	payments := new(MockPaymentRepository)
	reservations := new(MockReservationRepository)
	events := new(MockEventRepository)
	svc := NewPaymentService(payments, reservations, new(MockCommissionRepository), events)

	payments.On("GetByID", mock.Anything, "pay-001").Return(testPayment(domain.PaymentStatusPaid), nil)
	reservations.On("GetByPaymentID", mock.Anything, "pay-001").Return(testReservation(), nil)
	events.On("GetByID", mock.Anything, "event-001").Return(paymentTestEvent(), nil)

	resp, err := svc.GetPaymentStatus(context.Background(), "user-001", "pay-001")

	assert.NoError(t, err)
	assert.Equal(t, "paid", resp.Status)
	assert.Equal(t, "res-001", resp.ReservationID)
	assert.Equal(t, 2, resp.Quantity)
	if assert.NotNil(t, resp.Event) {
		assert.Equal(t, "event-001", resp.Event.ID)
		assert.Equal(t, "Atelier peinture", resp.Event.Name)
	}
}

func TestGetPaymentStatus_OtherUsersPaymentReadsAsNotFound(t *testing.T) {
	payments := new(MockPaymentRepository)
	svc := NewPaymentService(payments, new(MockReservationRepository), new(MockCommissionRepository), new(MockEventRepository))

	payments.On("GetByID", mock.Anything, "pay-001").Return(testPayment(domain.PaymentStatusPaid), nil)

	_, err := svc.GetPaymentStatus(context.Background(), "someone-else", "pay-001")

	assert.ErrorIs(t, err, domain.ErrPaymentNotFound)
}

func TestGetPaymentStatus_CompensatedPaymentHasNoReservation(t *testing.T) {
	payments := new(MockPaymentRepository)
	reservations := new(MockReservationRepository)
	events := new(MockEventRepository)
	svc := NewPaymentService(payments, reservations, new(MockCommissionRepository), events)

	payments.On("GetByID", mock.Anything, "pay-001").Return(testPayment(domain.PaymentStatusRefunded), nil)
	reservations.On("GetByPaymentID", mock.Anything, "pay-001").Return(nil, domain.ErrReservationNotFound)
	events.On("GetByID", mock.Anything, "event-001").Return(paymentTestEvent(), nil)

	resp, err := svc.GetPaymentStatus(context.Background(), "user-001", "pay-001")

	assert.NoError(t, err)
	assert.Equal(t, "refunded", resp.Status)
	assert.Empty(t, resp.ReservationID)
	assert.Zero(t, resp.Quantity)
}

func TestGetPaymentStatus_ToleratesDeletedEvent(t *testing.T) {
	payments := new(MockPaymentRepository)
	reservations := new(MockReservationRepository)
	events := new(MockEventRepository)
	svc := NewPaymentService(payments, reservations, new(MockCommissionRepository), events)

	payments.On("GetByID", mock.Anything, "pay-001").Return(testPayment(domain.PaymentStatusPaid), nil)
	reservations.On("GetByPaymentID", mock.Anything, "pay-001").Return(testReservation(), nil)
	events.On("GetByID", mock.Anything, "event-001").Return(nil, domain.ErrEventNotFound)

	resp, err := svc.GetPaymentStatus(context.Background(), "user-001", "pay-001")

	assert.NoError(t, err)
	assert.Nil(t, resp.Event)
	assert.Equal(t, "event-001", resp.EventID)
}

func TestListVendorCommissions_MapsRows(t *testing.T) {
	commissions := new(MockCommissionRepository)
	svc := NewPaymentService(new(MockPaymentRepository), new(MockReservationRepository), commissions, new(MockEventRepository))

	commissions.On("GetByVendorID", mock.Anything, "vendor-001", 20, 0).Return([]*domain.Commission{
		{
			ID:               "com-001",
			PaymentID:        "pay-001",
			VendorID:         "vendor-001",
			CommissionAmount: 20.00,
			NetAmount:        180.00,
			TransferStatus:   domain.TransferStatusPending,
		},
	}, nil)

	out, err := svc.ListVendorCommissions(context.Background(), "vendor-001", 20, 0)

	assert.NoError(t, err)
	if assert.Len(t, out, 1) {
		assert.Equal(t, 20.00, out[0].MontantCommission)
		assert.Equal(t, 180.00, out[0].MontantNet)
	}
}
