package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/skydesk/workspace-booking/internal/model"
)

// BookingRepo provides CRUD operations for bookings.  A booking ties
// one user to one seat and moves through the PENDING -> PAID or
// PENDING -> CANCELLED lifecycle.  The race-sensitive reads all take
// the form of ...Tx methods so the booking engine can compose them
// inside a single transaction together with the seat row lock.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// CreateTx inserts a new booking within the scope of an existing
// transaction.  It populates the generated ID and timestamps on the
// provided record.  The caller must commit or rollback the
// transaction.  Status should be a valid enumeration value.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings (user_id, seat_id, status, booking_date) VALUES (?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q, b.UserID, b.SeatID, b.Status, b.BookingDate.UTC())
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults
	const sel = `SELECT id, user_id, seat_id, status, booking_date, created_at, updated_at FROM bookings WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, b.ID).Scan(
		&b.ID, &b.UserID, &b.SeatID, &b.Status, &b.BookingDate, &b.CreatedAt, &b.UpdatedAt,
	)
}

// GetForUpdateTx loads a booking by ID inside the provided transaction
// and takes a row lock on it, preventing a concurrent settlement of
// the same booking from reading stale status.  Returns
// ErrBookingNotFound when no row exists.
func (r *BookingRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, bookingID uint64) (*model.Booking, error) {
	const q = `SELECT id, user_id, seat_id, status, booking_date, created_at, updated_at
	           FROM bookings WHERE id = ? FOR UPDATE`
	var b model.Booking
	err := tx.QueryRowContext(ctx, q, bookingID).Scan(
		&b.ID, &b.UserID, &b.SeatID, &b.Status, &b.BookingDate, &b.CreatedAt, &b.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// HasActiveForUserSeatTx reports whether the user already holds a
// PENDING or PAID booking on the given seat.  Executed within the
// caller's transaction after the seat row lock has been acquired.
func (r *BookingRepo) HasActiveForUserSeatTx(ctx context.Context, tx *sql.Tx, userID, seatID uint64) (bool, error) {
	const q = `SELECT COUNT(*) FROM bookings
	           WHERE user_id = ? AND seat_id = ? AND status IN (?, ?)`
	var n int
	if err := tx.QueryRowContext(ctx, q, userID, seatID, model.BookingPending, model.BookingPaid).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// SeatHasPaidTx reports whether any booking other than excludeID holds
// PAID status for the given seat.  This is the decisive exclusivity
// check: it must run inside the same transaction as the commit so
// that no competing settlement can slip between check and write.
// Pass excludeID 0 to consider every booking.
func (r *BookingRepo) SeatHasPaidTx(ctx context.Context, tx *sql.Tx, seatID, excludeID uint64) (bool, error) {
	const q = `SELECT COUNT(*) FROM bookings
	           WHERE seat_id = ? AND status = ? AND id <> ?`
	var n int
	if err := tx.QueryRowContext(ctx, q, seatID, model.BookingPaid, excludeID).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdateStatusTx sets a booking's status within the caller's
// transaction.  Lifecycle legality is the engine's responsibility;
// this method performs the write only.
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, bookingID uint64, status string) error {
	_, err := tx.ExecContext(ctx, `UPDATE bookings SET status = ? WHERE id = ?`, status, bookingID)
	return err
}

// BookingDetail joins a booking with its seat and, when present, its
// payment for display to customers.
type BookingDetail struct {
	ID            uint64   `json:"id"`
	SeatID        uint64   `json:"seat_id"`
	SeatCode      string   `json:"seat_code"`
	SeatType      string   `json:"seat_type"`
	Section       string   `json:"section"`
	Status        string   `json:"status"`
	Amount        float64  `json:"amount"`
	BookingDate   string   `json:"booking_date"`
	TransactionID *string  `json:"transaction_id,omitempty"`
}

// GetByIDForUser returns a single booking for the given user.  When no
// booking with the specified ID exists for the user, sql.ErrNoRows is
// returned so handlers can respond with 404.
func (r *BookingRepo) GetByIDForUser(ctx context.Context, bookingID, userID uint64) (*BookingDetail, error) {
	const q = `SELECT b.id, b.seat_id, s.code, s.seat_type, s.section, b.status, s.price, b.booking_date,
	                  p.transaction_id
	           FROM bookings b
	           JOIN seats s ON s.id = b.seat_id
	           LEFT JOIN payments p ON p.booking_id = b.id
	           WHERE b.id = ? AND b.user_id = ?`
	var d BookingDetail
	var bookingDate time.Time
	var txnID sql.NullString
	err := r.db.QueryRowContext(ctx, q, bookingID, userID).Scan(
		&d.ID, &d.SeatID, &d.SeatCode, &d.SeatType, &d.Section, &d.Status, &d.Amount, &bookingDate, &txnID,
	)
	if err != nil {
		return nil, err
	}
	d.BookingDate = bookingDate.UTC().Format(time.RFC3339)
	if txnID.Valid {
		t := txnID.String
		d.TransactionID = &t
	}
	return &d, nil
}

// ListByUser returns all bookings for the given user along with seat
// and payment details, newest first.  When no bookings exist, an
// empty slice is returned.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	const q = `SELECT b.id, b.seat_id, s.code, s.seat_type, s.section, b.status, s.price, b.booking_date,
	                  p.transaction_id
	           FROM bookings b
	           JOIN seats s ON s.id = b.seat_id
	           LEFT JOIN payments p ON p.booking_id = b.id
	           WHERE b.user_id = ?
	           ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]BookingDetail, 0)
	for rows.Next() {
		var d BookingDetail
		var bookingDate time.Time
		var txnID sql.NullString
		if err := rows.Scan(&d.ID, &d.SeatID, &d.SeatCode, &d.SeatType, &d.Section, &d.Status, &d.Amount, &bookingDate, &txnID); err != nil {
			return nil, err
		}
		d.BookingDate = bookingDate.UTC().Format(time.RFC3339)
		if txnID.Valid {
			t := txnID.String
			d.TransactionID = &t
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// AdminBookingDetail extends the information returned for a booking
// when viewed by an administrator.  In addition to seat details it
// exposes the booking owner's name, email and government ID so the
// admin CRM view can render a full row without extra lookups.
type AdminBookingDetail struct {
	ID          uint64  `json:"id"`
	UserName    string  `json:"user_name"`
	UserEmail   string  `json:"user_email"`
	GovID       string  `json:"gov_id"`
	SeatCode    string  `json:"seat_code"`
	Status      string  `json:"status"`
	BookingDate string  `json:"booking_date"`
}

// ListAll returns every booking joined with its user and seat, newest
// first.  Admin-only.
func (r *BookingRepo) ListAll(ctx context.Context) ([]AdminBookingDetail, error) {
	const q = `SELECT b.id, u.full_name, u.email, u.gov_id_type, u.gov_id_number, s.code, b.status, b.booking_date
	           FROM bookings b
	           JOIN users u ON u.id = b.user_id
	           JOIN seats s ON s.id = b.seat_id
	           ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]AdminBookingDetail, 0)
	for rows.Next() {
		var d AdminBookingDetail
		var govType, govNumber string
		var bookingDate time.Time
		if err := rows.Scan(&d.ID, &d.UserName, &d.UserEmail, &govType, &govNumber, &d.SeatCode, &d.Status, &bookingDate); err != nil {
			return nil, err
		}
		d.GovID = govType + ": " + govNumber
		d.BookingDate = bookingDate.UTC().Format(time.RFC3339)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// Count returns the total number of bookings.  Used by admin stats.
func (r *BookingRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&n)
	return n, err
}
