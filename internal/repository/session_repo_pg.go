package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/anticafe/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SessionRepository interface {
	CreateIfNone(ctx context.Context, session *domain.Session) error
	Close(ctx context.Context, sessionID int64, endTime time.Time) (*domain.Session, *domain.Booking, error)
	ActiveForUser(ctx context.Context, userID int64) (*domain.Session, error)
	List(ctx context.Context) ([]domain.Session, error)
}

type PGSessionRepository struct {
	db *pgxpool.Pool
}

func NewSessionRepository(db *pgxpool.Pool) SessionRepository {
	return &PGSessionRepository{db: db}
}

// CreateIfNone opens a session only if the user has no open one. The user
// row is locked so concurrent check-ins for the same user serialize.
func (r *PGSessionRepository) CreateIfNone(ctx context.Context, session *domain.Session) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var userID int64
	if err := tx.QueryRow(ctx, `SELECT id FROM users WHERE id=$1 FOR UPDATE`, session.UserID).Scan(&userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	var open int
	if err := tx.QueryRow(ctx, `SELECT count(*) FROM sessions WHERE user_id=$1 AND end_time IS NULL`, session.UserID).Scan(&open); err != nil {
		return err
	}
	if open > 0 {
		return domain.ErrConflict
	}

	if err := tx.QueryRow(ctx, `INSERT INTO sessions (user_id, start_time)
		VALUES ($1, $2) RETURNING id`, session.UserID, session.StartTime).Scan(&session.ID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Close sets the session's end time and, in the same transaction, completes
// the user's most recent active booking if one exists. Closing a session and
// completing its paired booking must not be observable as separate steps.
func (r *PGSessionRepository) Close(ctx context.Context, sessionID int64, endTime time.Time) (*domain.Session, *domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `UPDATE sessions SET end_time=$1
		WHERE id=$2 AND end_time IS NULL
		RETURNING id, user_id, start_time, end_time`, endTime, sessionID)
	var s domain.Session
	if err := row.Scan(&s.ID, &s.UserID, &s.StartTime, &s.EndTime); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, err
	}

	var completed *domain.Booking
	bookingRow := tx.QueryRow(ctx, `UPDATE bookings SET status=$1, updated_at=now()
		WHERE id = (SELECT id FROM bookings WHERE user_id=$2 AND status=$3 ORDER BY start_time DESC LIMIT 1)
		RETURNING `+bookingColumns, domain.BookingStatusCompleted, s.UserID, domain.BookingStatusActive)
	var b domain.Booking
	if err := bookingRow.Scan(&b.ID, &b.UserID, &b.ResourceID, &b.StartTime, &b.EndTime, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, err
		}
	} else {
		completed = &b
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return &s, completed, nil
}

// ActiveForUser returns the user's open session, or nil when there is none.
func (r *PGSessionRepository) ActiveForUser(ctx context.Context, userID int64) (*domain.Session, error) {
	row := r.db.QueryRow(ctx, `SELECT id, user_id, start_time, end_time FROM sessions
		WHERE user_id=$1 AND end_time IS NULL`, userID)
	var s domain.Session
	if err := row.Scan(&s.ID, &s.UserID, &s.StartTime, &s.EndTime); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *PGSessionRepository) List(ctx context.Context) ([]domain.Session, error) {
	rows, err := r.db.Query(ctx, `SELECT id, user_id, start_time, end_time FROM sessions ORDER BY start_time DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]domain.Session, 0)
	for rows.Next() {
		var s domain.Session
		if err := rows.Scan(&s.ID, &s.UserID, &s.StartTime, &s.EndTime); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

var _ SessionRepository = (*PGSessionRepository)(nil)
