package payment

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/anticafe/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	if args.Error(0) == nil {
		payment.ID = 1
	}
	return args.Error(0)
}

func (m *MockPaymentRepository) ListForUser(ctx context.Context, userID int64) ([]domain.Payment, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id int64, role domain.Role) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func TestPaymentService_RecordPayment_Success(t *testing.T) {
	mockPayments := &MockPaymentRepository{}
	mockUsers := &MockUserRepository{}
	mockProducer := &MockProducer{}
	service := NewPaymentService(mockPayments, mockUsers, mockProducer, "events")
	ctx := context.Background()
	date := time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC)

	mockUsers.On("GetByID", ctx, int64(7)).Return(&domain.User{ID: 7}, nil).Once()
	mockPayments.On("Create", ctx, mock.AnythingOfType("*domain.Payment")).Return(nil).Once()
	mockProducer.On("Publish", ctx, "events", mock.Anything, mock.Anything).Return(nil).Once()

	payment, err := service.RecordPayment(ctx, 7, 500, date)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), payment.UserID)
	assert.Equal(t, 500.0, payment.Amount)
	assert.Equal(t, date, payment.PaymentDate)

	mockPayments.AssertExpectations(t)
	mockUsers.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestPaymentService_RecordPayment_InvalidAmount(t *testing.T) {
	service := NewPaymentService(&MockPaymentRepository{}, &MockUserRepository{}, &MockProducer{}, "events")
	ctx := context.Background()

	_, err := service.RecordPayment(ctx, 7, 0, time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = service.RecordPayment(ctx, 7, -100, time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestPaymentService_RecordPayment_UserNotFound(t *testing.T) {
	mockUsers := &MockUserRepository{}
	service := NewPaymentService(&MockPaymentRepository{}, mockUsers, &MockProducer{}, "events")
	ctx := context.Background()

	mockUsers.On("GetByID", ctx, int64(404)).Return(nil, domain.ErrNotFound).Once()

	_, err := service.RecordPayment(ctx, 404, 500, time.Now())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPaymentService_ListForUser(t *testing.T) {
	mockPayments := &MockPaymentRepository{}
	mockUsers := &MockUserRepository{}
	service := NewPaymentService(mockPayments, mockUsers, &MockProducer{}, "events")
	ctx := context.Background()

	expected := []domain.Payment{{ID: 1, UserID: 7, Amount: 500}}
	mockUsers.On("GetByID", ctx, int64(7)).Return(&domain.User{ID: 7}, nil).Once()
	mockPayments.On("ListForUser", ctx, int64(7)).Return(expected, nil).Once()

	payments, err := service.ListForUser(ctx, 7)

	assert.NoError(t, err)
	assert.Equal(t, expected, payments)
}

func TestPaymentService_DeletePayment(t *testing.T) {
	mockPayments := &MockPaymentRepository{}
	service := NewPaymentService(mockPayments, &MockUserRepository{}, &MockProducer{}, "events")
	ctx := context.Background()

	mockPayments.On("Delete", ctx, int64(3)).Return(nil).Once()

	assert.NoError(t, service.DeletePayment(ctx, 3))
	mockPayments.AssertExpectations(t)
}
