package repository // repository defines data access for seats

import (
	"context"
	"database/sql"

	"github.com/skydesk/workspace-booking/internal/model"
)

// SeatRepo provides methods to work with seats in the database.  The
// seat catalog is created once at office initialization and rows are
// never deleted during normal operation; the only mutation after that
// point is the availability flag, flipped inside settlement and
// cancellation transactions.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// CreateBulk inserts multiple seats in a single statement.  It is used
// by the office initialization endpoint.  A duplicate seat code fails
// the whole statement because of the unique key on seats.code.
func (r *SeatRepo) CreateBulk(ctx context.Context, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seats (code, seat_type, section, price, is_available) VALUES `
	args := make([]interface{}, 0, len(seats)*5)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, s.Code, s.SeatType, s.Section, s.Price, true)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// Count returns the number of seat rows.  Initialization uses it to
// detect an already-seeded catalog.
func (r *SeatRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM seats`).Scan(&n)
	return n, err
}

// List returns all seats ordered by code.  When onlyAvailable is true
// the result is restricted to seats whose cached availability flag is
// still set.
func (r *SeatRepo) List(ctx context.Context, onlyAvailable bool) ([]model.Seat, error) {
	q := `SELECT id, code, seat_type, section, price, is_available, created_at, updated_at FROM seats`
	if onlyAvailable {
		q += ` WHERE is_available = 1`
	}
	q += ` ORDER BY code`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]model.Seat, 0)
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.Code, &s.SeatType, &s.Section, &s.Price, &s.IsAvailable, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}

// GetForUpdateTx loads a seat inside the provided transaction and
// takes a row lock on it.  Both the reservation and the settlement
// paths lock the seat row first, so all availability decisions for
// one seat serialize on this lock while leaving other seats
// untouched.  Returns ErrSeatNotFound when the seat does not exist.
func (r *SeatRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, seatID uint64) (*model.Seat, error) {
	const q = `SELECT id, code, seat_type, section, price, is_available, created_at, updated_at
	           FROM seats WHERE id = ? FOR UPDATE`
	var s model.Seat
	err := tx.QueryRowContext(ctx, q, seatID).Scan(
		&s.ID, &s.Code, &s.SeatType, &s.Section, &s.Price, &s.IsAvailable, &s.CreatedAt, &s.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrSeatNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SetAvailabilityTx updates a seat's cached availability flag within
// the caller's transaction.  Settlement sets it to false; cancelling a
// paid booking would set it back to true.
func (r *SeatRepo) SetAvailabilityTx(ctx context.Context, tx *sql.Tx, seatID uint64, available bool) error {
	_, err := tx.ExecContext(ctx, `UPDATE seats SET is_available = ? WHERE id = ?`, available, seatID)
	return err
}

// CountAvailable returns how many seats still carry the availability
// flag.  Used by the admin stats endpoint.
func (r *SeatRepo) CountAvailable(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM seats WHERE is_available = 1`).Scan(&n)
	return n, err
}
