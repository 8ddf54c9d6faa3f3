package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/skydesk/workspace-booking/internal/model"
)

// PaymentRepo provides data access to the payments table.  Payments
// are written exactly once, atomically with the booking's transition
// to PAID, and are immutable afterwards.  The table carries unique
// keys on booking_id (1:1 with bookings) and transaction_id.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the provided database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// CreateTx inserts a payment row within the caller's transaction and
// populates the generated ID and creation timestamp.  A collision on
// the transaction_id unique key is reported as
// ErrDuplicateTransaction so the engine can regenerate and retry.
func (r *PaymentRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	const q = `INSERT INTO payments (booking_id, amount, status, transaction_id) VALUES (?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q, p.BookingID, p.Amount, p.Status, p.TransactionID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrDuplicateTransaction
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	const sel = `SELECT created_at FROM payments WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, p.ID).Scan(&p.CreatedAt)
}

// GetByBookingTx fetches the payment for a booking inside the
// caller's transaction.  Settlement calls this after locking the
// booking row; an existing payment means the request is a replay and
// must be answered with the original record.  Returns (nil, nil)
// when no payment exists.
func (r *PaymentRepo) GetByBookingTx(ctx context.Context, tx *sql.Tx, bookingID uint64) (*model.Payment, error) {
	const q = `SELECT id, booking_id, amount, status, transaction_id, created_at
	           FROM payments WHERE booking_id = ? LIMIT 1`
	var p model.Payment
	err := tx.QueryRowContext(ctx, q, bookingID).Scan(
		&p.ID, &p.BookingID, &p.Amount, &p.Status, &p.TransactionID, &p.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
