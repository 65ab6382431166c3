package session

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Domenick1991/anticafe/internal/domain"
	"github.com/Domenick1991/anticafe/internal/kafka"
	"github.com/Domenick1991/anticafe/internal/metrics"
	"github.com/Domenick1991/anticafe/internal/repository"
	"github.com/google/uuid"
)

type SessionUseCase interface {
	StartSession(ctx context.Context, userID int64, startTime time.Time) (*domain.Session, error)
	EndSession(ctx context.Context, sessionID int64, endTime time.Time) (*domain.Session, error)
	GetActiveSession(ctx context.Context, userID int64) (*domain.Session, error)
	ListSessions(ctx context.Context) ([]domain.Session, error)
}

type Locker interface {
	AcquireUserLock(ctx context.Context, userID int64, ttl time.Duration) (bool, error)
	ReleaseUserLock(ctx context.Context, userID int64) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type SessionService struct {
	sessions repository.SessionRepository
	locker   Locker
	producer Producer
	topic    string
	lockTTL  time.Duration
}

func NewSessionService(
	sessions repository.SessionRepository,
	locker Locker,
	producer Producer,
	topic string,
	lockTTL time.Duration,
) *SessionService {
	return &SessionService{
		sessions: sessions,
		locker:   locker,
		producer: producer,
		topic:    topic,
		lockTTL:  lockTTL,
	}
}

// StartSession checks the user in. A user can hold at most one open session;
// the repository enforces that inside a transaction, the per-user lock keeps
// concurrent check-ins from reaching the database at the same time.
func (s *SessionService) StartSession(ctx context.Context, userID int64, startTime time.Time) (*domain.Session, error) {
	if s.locker != nil {
		ok, err := s.locker.AcquireUserLock(ctx, userID, s.lockTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("user %d is busy: %w", userID, domain.ErrConflict)
		}
		defer func() {
			_ = s.locker.ReleaseUserLock(ctx, userID)
		}()
	}

	session := &domain.Session{
		UserID:    userID,
		StartTime: startTime,
	}
	if err := s.sessions.CreateIfNone(ctx, session); err != nil {
		return nil, err
	}

	metrics.SessionsStarted.Inc()
	s.publish(ctx, "session_started", session, nil)
	return session, nil
}

// EndSession checks the user out and completes their most recent active
// booking in the same transaction, whether or not the booking's window has
// elapsed.
func (s *SessionService) EndSession(ctx context.Context, sessionID int64, endTime time.Time) (*domain.Session, error) {
	session, completed, err := s.sessions.Close(ctx, sessionID, endTime)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "session_ended", session, nil)
	if completed != nil {
		s.publish(ctx, "booking_completed", session, completed)
	}
	return session, nil
}

// GetActiveSession returns the user's open session, or nil when the user is
// not checked in. Absence is not an error.
func (s *SessionService) GetActiveSession(ctx context.Context, userID int64) (*domain.Session, error) {
	return s.sessions.ActiveForUser(ctx, userID)
}

func (s *SessionService) ListSessions(ctx context.Context) ([]domain.Session, error) {
	return s.sessions.List(ctx)
}

func (s *SessionService) publish(ctx context.Context, eventType string, session *domain.Session, booking *domain.Booking) {
	if s.producer == nil || s.topic == "" {
		return
	}
	event := kafka.BookingEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		UserID:     session.UserID,
		SessionID:  session.ID,
		OccurredAt: time.Now(),
	}
	if booking != nil {
		event.BookingID = booking.ID
		event.ResourceID = booking.ResourceID
		event.Status = string(booking.Status)
	}
	if err := s.producer.Publish(ctx, s.topic, event.ID, event); err != nil {
		log.Printf("WARNING: failed to publish %s event for session %d: %v", eventType, session.ID, err)
	}
}

var _ SessionUseCase = (*SessionService)(nil)
