package billing

import (
	"context"
	"time"

	"github.com/Domenick1991/anticafe/internal/domain"
	"github.com/Domenick1991/anticafe/internal/repository"
)

type BillingUseCase interface {
	PriceStay(ctx context.Context, userID int64, at time.Time) (*StayQuote, error)
	SettleStay(ctx context.Context, userID int64, at time.Time) (*StayQuote, error)
}

// StayQuote is the priced breakdown of a user's current stay.
type StayQuote struct {
	UserID         int64     `json:"user_id"`
	SessionMinutes float64   `json:"session_minutes"`
	BookingIDs     []int64   `json:"booking_ids"`
	Total          float64   `json:"total"`
	PricedAt       time.Time `json:"priced_at"`
}

type BillingService struct {
	sessions  repository.SessionRepository
	bookings  repository.BookingRepository
	resources repository.ResourceRepository
	calc      Calculator
}

func NewBillingService(
	sessions repository.SessionRepository,
	bookings repository.BookingRepository,
	resources repository.ResourceRepository,
	calc Calculator,
) *BillingService {
	return &BillingService{
		sessions:  sessions,
		bookings:  bookings,
		resources: resources,
		calc:      calc,
	}
}

// PriceStay computes the cost of the user's stay without touching any state:
// open-session minutes up to `at`, plus every active booking at its
// resource's hourly rate, with the stop-check applied on top.
func (s *BillingService) PriceStay(ctx context.Context, userID int64, at time.Time) (*StayQuote, error) {
	active, err := s.bookings.ListActiveForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.quote(ctx, userID, at, active)
}

// SettleStay prices the stay and completes every active booking it examined.
// The staff "calculate cost" flow maps here; PriceStay is the read-only path.
func (s *BillingService) SettleStay(ctx context.Context, userID int64, at time.Time) (*StayQuote, error) {
	completed, err := s.bookings.CompleteActiveForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.quote(ctx, userID, at, completed)
}

func (s *BillingService) quote(ctx context.Context, userID int64, at time.Time, bookings []domain.Booking) (*StayQuote, error) {
	session, err := s.sessions.ActiveForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var sessionMinutes float64
	if session != nil {
		sessionMinutes = at.Sub(session.StartTime).Minutes()
	}

	rates := make(map[int64]float64)
	charges := make([]BookingCharge, 0, len(bookings))
	ids := make([]int64, 0, len(bookings))
	for _, b := range bookings {
		rate, ok := rates[b.ResourceID]
		if !ok {
			resource, err := s.resources.GetByID(ctx, b.ResourceID)
			if err != nil {
				return nil, err
			}
			rate = resource.HourlyRate
			rates[b.ResourceID] = rate
		}
		charges = append(charges, BookingCharge{Minutes: b.DurationMinutes(), HourlyRate: rate})
		ids = append(ids, b.ID)
	}

	return &StayQuote{
		UserID:         userID,
		SessionMinutes: sessionMinutes,
		BookingIDs:     ids,
		Total:          s.calc.TotalStayCost(sessionMinutes, charges),
		PricedAt:       at,
	}, nil
}

var _ BillingUseCase = (*BillingService)(nil)
