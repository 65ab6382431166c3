package payment

import (
	"context"
	"log"
	"time"

	"github.com/Domenick1991/anticafe/internal/domain"
	"github.com/Domenick1991/anticafe/internal/kafka"
	"github.com/Domenick1991/anticafe/internal/metrics"
	"github.com/Domenick1991/anticafe/internal/repository"
	"github.com/google/uuid"
)

type PaymentUseCase interface {
	RecordPayment(ctx context.Context, userID int64, amount float64, date time.Time) (*domain.Payment, error)
	ListForUser(ctx context.Context, userID int64) ([]domain.Payment, error)
	DeletePayment(ctx context.Context, paymentID int64) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type PaymentService struct {
	payments repository.PaymentRepository
	users    repository.UserRepository
	producer Producer
	topic    string
}

func NewPaymentService(
	payments repository.PaymentRepository,
	users repository.UserRepository,
	producer Producer,
	topic string,
) *PaymentService {
	return &PaymentService{
		payments: payments,
		users:    users,
		producer: producer,
		topic:    topic,
	}
}

func (s *PaymentService) RecordPayment(ctx context.Context, userID int64, amount float64, date time.Time) (*domain.Payment, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		UserID:      userID,
		Amount:      amount,
		PaymentDate: date,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	metrics.PaymentsRecorded.Inc()
	if s.producer != nil && s.topic != "" {
		event := kafka.BookingEvent{
			ID:         uuid.NewString(),
			Type:       "payment_recorded",
			UserID:     userID,
			Amount:     amount,
			OccurredAt: time.Now(),
		}
		if err := s.producer.Publish(ctx, s.topic, event.ID, event); err != nil {
			log.Printf("WARNING: failed to publish payment_recorded event for user %d: %v", userID, err)
		}
	}
	return payment, nil
}

func (s *PaymentService) ListForUser(ctx context.Context, userID int64) ([]domain.Payment, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.payments.ListForUser(ctx, userID)
}

// DeletePayment is the administrative override; nothing in the engine calls it.
func (s *PaymentService) DeletePayment(ctx context.Context, paymentID int64) error {
	return s.payments.Delete(ctx, paymentID)
}

var _ PaymentUseCase = (*PaymentService)(nil)
