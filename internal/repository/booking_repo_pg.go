package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/anticafe/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookingColumns = `id, user_id, resource_id, start_time, end_time, status, created_at, updated_at`

type BookingRepository interface {
	CreateIfFree(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	SetStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error)
	ListForUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	ListForResourceOnDate(ctx context.Context, resourceID int64, day time.Time) ([]domain.Booking, error)
	ListActiveForUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	CompleteActiveForUser(ctx context.Context, userID int64) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

// CreateIfFree inserts the booking only if no active booking of the same
// resource overlaps its half-open interval. The resource row is locked for
// the duration of the transaction so concurrent inserts for the same
// resource serialize on it.
func (r *PGBookingRepository) CreateIfFree(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var resourceID int64
	if err := tx.QueryRow(ctx, `SELECT id FROM resources WHERE id=$1 FOR UPDATE`, booking.ResourceID).Scan(&resourceID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	var overlapping int
	if err := tx.QueryRow(ctx, `SELECT count(*) FROM bookings
		WHERE resource_id=$1 AND status=$2 AND start_time < $3 AND end_time > $4`,
		booking.ResourceID, domain.BookingStatusActive, booking.EndTime, booking.StartTime).Scan(&overlapping); err != nil {
		return err
	}
	if overlapping > 0 {
		return domain.ErrConflict
	}

	if err := tx.QueryRow(ctx, `INSERT INTO bookings (user_id, resource_id, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		booking.UserID, booking.ResourceID, booking.StartTime, booking.EndTime, booking.Status).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	return scanBooking(row)
}

// SetStatus updates the status in a single guarded statement. It returns
// ErrAlreadyTerminal when the booking already carries the requested status
// and ErrNotFound when the booking does not exist.
func (r *PGBookingRepository) SetStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings SET status=$1, updated_at=now()
		WHERE id=$2 AND status <> $1
		RETURNING `+bookingColumns, status, id)
	booking, err := scanBooking(row)
	if err == nil {
		return booking, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	// No row updated: either the booking is missing or it already has the
	// requested terminal status.
	var current domain.BookingStatus
	if err := r.db.QueryRow(ctx, `SELECT status FROM bookings WHERE id=$1`, id).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return nil, domain.ErrAlreadyTerminal
}

func (r *PGBookingRepository) ListForUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id=$1 ORDER BY start_time DESC`, userID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *PGBookingRepository) ListForResourceOnDate(ctx context.Context, resourceID int64, day time.Time) ([]domain.Booking, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings
		WHERE resource_id=$1 AND start_time >= $2 AND start_time < $3
		ORDER BY start_time`, resourceID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *PGBookingRepository) ListActiveForUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings
		WHERE user_id=$1 AND status=$2 ORDER BY start_time DESC`, userID, domain.BookingStatusActive)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *PGBookingRepository) CompleteActiveForUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `UPDATE bookings SET status=$1, updated_at=now()
		WHERE user_id=$2 AND status=$3
		RETURNING `+bookingColumns, domain.BookingStatusCompleted, userID, domain.BookingStatusActive)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.UserID, &b.ResourceID, &b.StartTime, &b.EndTime, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func collectBookings(rows pgx.Rows) ([]domain.Booking, error) {
	defer rows.Close()
	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.ResourceID, &b.StartTime, &b.EndTime, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
