package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/anticafe/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	ListForUser(ctx context.Context, userID int64) ([]domain.Payment, error)
	Delete(ctx context.Context, id int64) error
}

type PGPaymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) PaymentRepository {
	return &PGPaymentRepository{db: db}
}

func (r *PGPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	err := r.db.QueryRow(ctx, `INSERT INTO payments (user_id, amount, payment_date)
		VALUES ($1, $2, $3) RETURNING id`, payment.UserID, payment.Amount, payment.PaymentDate).
		Scan(&payment.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *PGPaymentRepository) ListForUser(ctx context.Context, userID int64) ([]domain.Payment, error) {
	rows, err := r.db.Query(ctx, `SELECT id, user_id, amount, payment_date FROM payments
		WHERE user_id=$1 ORDER BY payment_date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]domain.Payment, 0)
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.UserID, &p.Amount, &p.PaymentDate); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// Delete is an administrative override, not a domain operation. The ledger
// is append-only for everything else.
func (r *PGPaymentRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM payments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ PaymentRepository = (*PGPaymentRepository)(nil)
