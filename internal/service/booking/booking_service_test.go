package booking

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/anticafe/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) CreateIfFree(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	if args.Error(0) == nil {
		booking.ID = 1
	}
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) SetStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListForUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListForResourceOnDate(ctx context.Context, resourceID int64, day time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, resourceID, day)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListActiveForUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) CompleteActiveForUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Booking), args.Error(1)
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

type MockResourceRepository struct {
	mock.Mock
}

func (m *MockResourceRepository) Create(ctx context.Context, resource *domain.Resource) error {
	args := m.Called(ctx, resource)
	return args.Error(0)
}

func (m *MockResourceRepository) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resource), args.Error(1)
}

func (m *MockResourceRepository) List(ctx context.Context) ([]domain.Resource, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Resource), args.Error(1)
}

func (m *MockResourceRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) AcquireResourceLock(ctx context.Context, resourceID int64, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, resourceID, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockLocker) ReleaseResourceLock(ctx context.Context, resourceID int64) error {
	args := m.Called(ctx, resourceID)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func newTestService(bookings *MockBookingRepository, users *MockUserRepository, resources *MockResourceRepository, locker *MockLocker, producer *MockProducer) *BookingService {
	return &BookingService{
		bookings:  bookings,
		users:     users,
		resources: resources,
		locker:    locker,
		producer:  producer,
		topic:     "events",
		lockTTL:   time.Second,
	}
}

func day(hour, min int) time.Time {
	return time.Date(2026, time.March, 10, hour, min, 0, 0, time.UTC)
}

func TestBookingService_CreateBooking_Success(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockUsers := &MockUserRepository{}
	mockResources := &MockResourceRepository{}
	mockLocker := &MockLocker{}
	mockProducer := &MockProducer{}
	service := newTestService(mockBookings, mockUsers, mockResources, mockLocker, mockProducer)

	ctx := context.Background()
	input := CreateBookingInput{
		UserID:     7,
		ResourceID: 3,
		StartTime:  day(10, 0),
		EndTime:    day(11, 0),
	}

	mockUsers.On("GetByID", ctx, int64(7)).Return(&domain.User{ID: 7, Role: domain.RoleClient}, nil).Once()
	mockResources.On("GetByID", ctx, int64(3)).Return(&domain.Resource{ID: 3, HourlyRate: 100}, nil).Once()
	mockLocker.On("AcquireResourceLock", ctx, int64(3), time.Second).Return(true, nil).Once()
	mockLocker.On("ReleaseResourceLock", ctx, int64(3)).Return(nil).Once()
	mockBookings.On("CreateIfFree", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()
	mockProducer.On("Publish", ctx, "events", mock.Anything, mock.Anything).Return(nil).Once()

	created, err := service.CreateBooking(ctx, input)

	assert.NoError(t, err)
	assert.NotNil(t, created)
	assert.Equal(t, domain.BookingStatusActive, created.Status)
	assert.Equal(t, int64(7), created.UserID)
	assert.Equal(t, int64(3), created.ResourceID)

	mockBookings.AssertExpectations(t)
	mockUsers.AssertExpectations(t)
	mockResources.AssertExpectations(t)
	mockLocker.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestBookingService_CreateBooking_InvalidRange(t *testing.T) {
	service := newTestService(&MockBookingRepository{}, &MockUserRepository{}, &MockResourceRepository{}, &MockLocker{}, &MockProducer{})
	ctx := context.Background()

	testCases := []struct {
		name  string
		start time.Time
		end   time.Time
	}{
		{name: "end before start", start: day(12, 0), end: day(11, 0)},
		{name: "end equals start", start: day(12, 0), end: day(12, 0)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.CreateBooking(ctx, CreateBookingInput{
				UserID:     7,
				ResourceID: 3,
				StartTime:  tc.start,
				EndTime:    tc.end,
			})
			assert.ErrorIs(t, err, domain.ErrInvalidRange)
		})
	}
}

func TestBookingService_CreateBooking_UserNotFound(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockUsers := &MockUserRepository{}
	service := newTestService(mockBookings, mockUsers, &MockResourceRepository{}, &MockLocker{}, &MockProducer{})
	ctx := context.Background()

	mockUsers.On("GetByID", ctx, int64(99)).Return(nil, domain.ErrNotFound).Once()

	_, err := service.CreateBooking(ctx, CreateBookingInput{
		UserID:     99,
		ResourceID: 3,
		StartTime:  day(10, 0),
		EndTime:    day(11, 0),
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	mockUsers.AssertExpectations(t)
}

func TestBookingService_CreateBooking_ResourceNotFound(t *testing.T) {
	mockUsers := &MockUserRepository{}
	mockResources := &MockResourceRepository{}
	service := newTestService(&MockBookingRepository{}, mockUsers, mockResources, &MockLocker{}, &MockProducer{})
	ctx := context.Background()

	mockUsers.On("GetByID", ctx, int64(7)).Return(&domain.User{ID: 7}, nil).Once()
	mockResources.On("GetByID", ctx, int64(42)).Return(nil, domain.ErrNotFound).Once()

	_, err := service.CreateBooking(ctx, CreateBookingInput{
		UserID:     7,
		ResourceID: 42,
		StartTime:  day(10, 0),
		EndTime:    day(11, 0),
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	mockResources.AssertExpectations(t)
}

func TestBookingService_CreateBooking_Overlap(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockUsers := &MockUserRepository{}
	mockResources := &MockResourceRepository{}
	mockLocker := &MockLocker{}
	service := newTestService(mockBookings, mockUsers, mockResources, mockLocker, &MockProducer{})
	ctx := context.Background()

	mockUsers.On("GetByID", ctx, int64(7)).Return(&domain.User{ID: 7}, nil).Once()
	mockResources.On("GetByID", ctx, int64(3)).Return(&domain.Resource{ID: 3}, nil).Once()
	mockLocker.On("AcquireResourceLock", ctx, int64(3), time.Second).Return(true, nil).Once()
	mockLocker.On("ReleaseResourceLock", ctx, int64(3)).Return(nil).Once()
	mockBookings.On("CreateIfFree", ctx, mock.AnythingOfType("*domain.Booking")).Return(domain.ErrConflict).Once()

	_, err := service.CreateBooking(ctx, CreateBookingInput{
		UserID:     7,
		ResourceID: 3,
		StartTime:  day(10, 30),
		EndTime:    day(11, 30),
	})

	assert.ErrorIs(t, err, domain.ErrConflict)
	mockBookings.AssertExpectations(t)
	mockLocker.AssertExpectations(t)
}

func TestBookingService_CreateBooking_ResourceBusy(t *testing.T) {
	mockUsers := &MockUserRepository{}
	mockResources := &MockResourceRepository{}
	mockLocker := &MockLocker{}
	service := newTestService(&MockBookingRepository{}, mockUsers, mockResources, mockLocker, &MockProducer{})
	ctx := context.Background()

	mockUsers.On("GetByID", ctx, int64(7)).Return(&domain.User{ID: 7}, nil).Once()
	mockResources.On("GetByID", ctx, int64(3)).Return(&domain.Resource{ID: 3}, nil).Once()
	mockLocker.On("AcquireResourceLock", ctx, int64(3), time.Second).Return(false, nil).Once()

	_, err := service.CreateBooking(ctx, CreateBookingInput{
		UserID:     7,
		ResourceID: 3,
		StartTime:  day(10, 0),
		EndTime:    day(11, 0),
	})

	assert.ErrorIs(t, err, domain.ErrConflict)
	mockLocker.AssertExpectations(t)
}

func TestBookingService_CancelBooking(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockProducer := &MockProducer{}
	service := newTestService(mockBookings, &MockUserRepository{}, &MockResourceRepository{}, &MockLocker{}, mockProducer)
	ctx := context.Background()

	cancelled := &domain.Booking{ID: 5, Status: domain.BookingStatusCancelled}
	mockBookings.On("SetStatus", ctx, int64(5), domain.BookingStatusCancelled).Return(cancelled, nil).Once()
	mockProducer.On("Publish", ctx, "events", mock.Anything, mock.Anything).Return(nil).Once()

	updated, err := service.CancelBooking(ctx, 5)

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, updated.Status)
	mockBookings.AssertExpectations(t)
}

func TestBookingService_CancelBooking_Twice(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockProducer := &MockProducer{}
	service := newTestService(mockBookings, &MockUserRepository{}, &MockResourceRepository{}, &MockLocker{}, mockProducer)
	ctx := context.Background()

	cancelled := &domain.Booking{ID: 5, Status: domain.BookingStatusCancelled}
	mockBookings.On("SetStatus", ctx, int64(5), domain.BookingStatusCancelled).Return(cancelled, nil).Once()
	mockBookings.On("SetStatus", ctx, int64(5), domain.BookingStatusCancelled).Return(nil, domain.ErrAlreadyTerminal).Once()
	mockProducer.On("Publish", ctx, "events", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := service.CancelBooking(ctx, 5)
	assert.NoError(t, err)

	_, err = service.CancelBooking(ctx, 5)
	assert.ErrorIs(t, err, domain.ErrAlreadyTerminal)

	mockBookings.AssertExpectations(t)
}

func TestBookingService_CompleteBooking_NotFound(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	service := newTestService(mockBookings, &MockUserRepository{}, &MockResourceRepository{}, &MockLocker{}, &MockProducer{})
	ctx := context.Background()

	mockBookings.On("SetStatus", ctx, int64(404), domain.BookingStatusCompleted).Return(nil, domain.ErrNotFound).Once()

	_, err := service.CompleteBooking(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookingService_ListForUser_Empty(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	service := newTestService(mockBookings, &MockUserRepository{}, &MockResourceRepository{}, &MockLocker{}, &MockProducer{})
	ctx := context.Background()

	mockBookings.On("ListForUser", ctx, int64(7)).Return([]domain.Booking{}, nil).Once()

	bookings, err := service.ListForUser(ctx, 7)

	assert.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestFreeWindows_GapsBetweenBookings(t *testing.T) {
	bookings := []domain.Booking{
		{StartTime: day(12, 0), EndTime: day(13, 0), Status: domain.BookingStatusActive},
		{StartTime: day(15, 0), EndTime: day(16, 0), Status: domain.BookingStatusActive},
		// cancelled bookings do not occupy the timeline
		{StartTime: day(13, 0), EndTime: day(15, 0), Status: domain.BookingStatusCancelled},
	}

	windows := freeWindows(bookings, day(10, 0), day(22, 0))

	assert.Equal(t, []domain.TimeWindow{
		{Start: day(10, 0), End: day(12, 0)},
		{Start: day(13, 0), End: day(15, 0)},
		{Start: day(16, 0), End: day(22, 0)},
	}, windows)
}

func TestFreeWindows_TouchingBookingsLeaveNoGap(t *testing.T) {
	bookings := []domain.Booking{
		{StartTime: day(10, 0), EndTime: day(11, 0), Status: domain.BookingStatusActive},
		{StartTime: day(11, 0), EndTime: day(12, 0), Status: domain.BookingStatusActive},
	}

	windows := freeWindows(bookings, day(10, 0), day(12, 0))

	assert.Empty(t, windows)
}

func TestFreeWindows_FullyFreeDay(t *testing.T) {
	windows := freeWindows(nil, day(10, 0), day(22, 0))

	assert.Equal(t, []domain.TimeWindow{{Start: day(10, 0), End: day(22, 0)}}, windows)
}

func TestBookingService_FreeWindows_WrapsPastMidnight(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockResources := &MockResourceRepository{}
	service := newTestService(mockBookings, &MockUserRepository{}, mockResources, &MockLocker{}, &MockProducer{})
	ctx := context.Background()

	date := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	mockResources.On("GetByID", ctx, int64(3)).Return(&domain.Resource{ID: 3}, nil).Once()
	mockBookings.On("ListForResourceOnDate", ctx, int64(3), date).Return([]domain.Booking{
		{StartTime: day(23, 0), EndTime: day(23, 30), Status: domain.BookingStatusActive},
	}, nil).Once()

	// Venue open 10:00 to 01:00 the next day.
	windows, err := service.FreeWindows(ctx, 3, date, 10, 1)

	assert.NoError(t, err)
	assert.Equal(t, []domain.TimeWindow{
		{Start: day(10, 0), End: day(23, 0)},
		{Start: day(23, 30), End: time.Date(2026, time.March, 11, 1, 0, 0, 0, time.UTC)},
	}, windows)

	mockBookings.AssertExpectations(t)
	mockResources.AssertExpectations(t)
}
