package domain

import "time"

// Payment is an append-only charge record. The engine never mutates or
// deletes payments; removal exists only as an administrative override.
type Payment struct {
	ID          int64
	UserID      int64
	Amount      float64
	PaymentDate time.Time
}
