package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/Domenick1991/anticafe/internal/domain"
	"github.com/Domenick1991/anticafe/internal/kafka"
	"github.com/Domenick1991/anticafe/internal/metrics"
	"github.com/Domenick1991/anticafe/internal/repository"
	"github.com/google/uuid"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	CancelBooking(ctx context.Context, bookingID int64) (*domain.Booking, error)
	CompleteBooking(ctx context.Context, bookingID int64) (*domain.Booking, error)
	ListForUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	ListForResourceOnDate(ctx context.Context, resourceID int64, day time.Time) ([]domain.Booking, error)
	FreeWindows(ctx context.Context, resourceID int64, day time.Time, workStartHour, workEndHour int) ([]domain.TimeWindow, error)
}

type Locker interface {
	AcquireResourceLock(ctx context.Context, resourceID int64, ttl time.Duration) (bool, error)
	ReleaseResourceLock(ctx context.Context, resourceID int64) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings  repository.BookingRepository
	users     repository.UserRepository
	resources repository.ResourceRepository
	locker    Locker
	producer  Producer
	topic     string
	lockTTL   time.Duration
}

type CreateBookingInput struct {
	UserID     int64                `json:"user_id"`
	ResourceID int64                `json:"resource_id"`
	StartTime  time.Time            `json:"start_time"`
	EndTime    time.Time            `json:"end_time"`
	Status     domain.BookingStatus `json:"status"`
}

func NewBookingService(
	bookings repository.BookingRepository,
	users repository.UserRepository,
	resources repository.ResourceRepository,
	locker Locker,
	producer Producer,
	topic string,
	lockTTL time.Duration,
) *BookingService {
	return &BookingService{
		bookings:  bookings,
		users:     users,
		resources: resources,
		locker:    locker,
		producer:  producer,
		topic:     topic,
		lockTTL:   lockTTL,
	}
}

// CreateBooking reserves a resource for a half-open time window. Touching
// endpoints are not a conflict: a booking ending at 11:00 and one starting
// at 11:00 coexist.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if !input.EndTime.After(input.StartTime) {
		return nil, domain.ErrInvalidRange
	}

	status := input.Status
	if status == "" {
		status = domain.BookingStatusActive
	}
	if !status.Valid() {
		return nil, fmt.Errorf("unknown booking status %q", input.Status)
	}

	if _, err := s.users.GetByID(ctx, input.UserID); err != nil {
		return nil, err
	}
	if _, err := s.resources.GetByID(ctx, input.ResourceID); err != nil {
		return nil, err
	}

	if s.locker != nil {
		ok, err := s.locker.AcquireResourceLock(ctx, input.ResourceID, s.lockTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("resource %d is busy: %w", input.ResourceID, domain.ErrConflict)
		}
		defer func() {
			_ = s.locker.ReleaseResourceLock(ctx, input.ResourceID)
		}()
	}

	booking := &domain.Booking{
		UserID:     input.UserID,
		ResourceID: input.ResourceID,
		StartTime:  input.StartTime,
		EndTime:    input.EndTime,
		Status:     status,
	}

	if err := s.bookings.CreateIfFree(ctx, booking); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			metrics.BookingConflicts.Inc()
		}
		return nil, err
	}

	metrics.BookingsCreated.Inc()
	s.publish(ctx, "booking_created", booking)
	return booking, nil
}

// CancelBooking sets the booking to cancelled. A second cancel fails with
// ErrAlreadyTerminal rather than succeeding silently.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	updated, err := s.bookings.SetStatus(ctx, bookingID, domain.BookingStatusCancelled)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "booking_cancelled", updated)
	return updated, nil
}

func (s *BookingService) CompleteBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	updated, err := s.bookings.SetStatus(ctx, bookingID, domain.BookingStatusCompleted)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "booking_completed", updated)
	return updated, nil
}

func (s *BookingService) ListForUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return s.bookings.ListForUser(ctx, userID)
}

func (s *BookingService) ListForResourceOnDate(ctx context.Context, resourceID int64, day time.Time) ([]domain.Booking, error) {
	if _, err := s.resources.GetByID(ctx, resourceID); err != nil {
		return nil, err
	}
	return s.bookings.ListForResourceOnDate(ctx, resourceID, day)
}

// FreeWindows computes the gaps between active bookings within the venue's
// operating window on the given day. When workEndHour <= workStartHour the
// window wraps past midnight.
func (s *BookingService) FreeWindows(ctx context.Context, resourceID int64, day time.Time, workStartHour, workEndHour int) ([]domain.TimeWindow, error) {
	if _, err := s.resources.GetByID(ctx, resourceID); err != nil {
		return nil, err
	}

	bookings, err := s.bookings.ListForResourceOnDate(ctx, resourceID, day)
	if err != nil {
		return nil, err
	}

	workStart := time.Date(day.Year(), day.Month(), day.Day(), workStartHour, 0, 0, 0, day.Location())
	workEnd := time.Date(day.Year(), day.Month(), day.Day(), workEndHour, 0, 0, 0, day.Location())
	if workEndHour <= workStartHour {
		workEnd = workEnd.Add(24 * time.Hour)
	}

	return freeWindows(bookings, workStart, workEnd), nil
}

// freeWindows sweeps the active bookings sorted by start time and emits the
// gaps between the cursor and each next booking.
func freeWindows(bookings []domain.Booking, workStart, workEnd time.Time) []domain.TimeWindow {
	active := make([]domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.Status == domain.BookingStatusActive {
			active = append(active, b)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[i].StartTime.Before(active[j].StartTime)
	})

	windows := make([]domain.TimeWindow, 0)
	cursor := workStart
	for _, b := range active {
		if b.StartTime.After(cursor) {
			windows = append(windows, domain.TimeWindow{Start: cursor, End: b.StartTime})
		}
		if b.EndTime.After(cursor) {
			cursor = b.EndTime
		}
	}
	if cursor.Before(workEnd) {
		windows = append(windows, domain.TimeWindow{Start: cursor, End: workEnd})
	}
	return windows
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.topic == "" {
		return
	}
	event := kafka.BookingEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		UserID:     booking.UserID,
		ResourceID: booking.ResourceID,
		BookingID:  booking.ID,
		Status:     string(booking.Status),
		OccurredAt: time.Now(),
	}
	if err := s.producer.Publish(ctx, s.topic, event.ID, event); err != nil {
		log.Printf("WARNING: failed to publish %s event for booking %d: %v", eventType, booking.ID, err)
	}
}

var _ BookingUseCase = (*BookingService)(nil)
