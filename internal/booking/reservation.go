package booking

import (
	"context"
	"database/sql"
	"time"

	"github.com/skydesk/workspace-booking/internal/model"
	"github.com/skydesk/workspace-booking/internal/repository"
)

// ReservationManager decides whether a seat can be claimed and
// creates a booking in the PENDING state.  Reserving does not flip
// the seat's availability flag; it only grants the right to attempt
// settlement, so many pending bookings may coexist for one seat.
type ReservationManager struct {
	db       *sql.DB
	seats    *repository.SeatRepo
	bookings *repository.BookingRepo
}

// NewReservationManager constructs a ReservationManager.  All
// dependencies must be non-nil.
func NewReservationManager(db *sql.DB, seats *repository.SeatRepo, bookings *repository.BookingRepo) *ReservationManager {
	if db == nil || seats == nil || bookings == nil {
		panic("nil dependency passed to NewReservationManager")
	}
	return &ReservationManager{db: db, seats: seats, bookings: bookings}
}

// Reserve creates a PENDING booking for the given user on the given
// seat and returns it together with the amount the caller must settle.
// All preconditions are checked inside one transaction that holds the
// seat's row lock:
//
//  1. the seat exists                       -> repository.ErrSeatNotFound
//  2. the seat's availability flag is set   -> ErrSeatUnavailable
//  3. the user has no active booking on it  -> ErrDuplicateBooking
//  4. no booking for the seat is PAID       -> ErrSeatAlreadyBooked
//
// Check 4 restates check 2 against the bookings table itself, which is
// the source of truth; it keeps a drifted availability flag from
// leaking a second paid claim into existence.
func (m *ReservationManager) Reserve(ctx context.Context, userID, seatID uint64) (*model.Booking, float64, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	seat, err := m.seats.GetForUpdateTx(ctx, tx, seatID)
	if err != nil {
		return nil, 0, err
	}
	if !seat.IsAvailable {
		return nil, 0, ErrSeatUnavailable
	}
	active, err := m.bookings.HasActiveForUserSeatTx(ctx, tx, userID, seatID)
	if err != nil {
		return nil, 0, err
	}
	if active {
		return nil, 0, ErrDuplicateBooking
	}
	paid, err := m.bookings.SeatHasPaidTx(ctx, tx, seatID, 0)
	if err != nil {
		return nil, 0, err
	}
	if paid {
		return nil, 0, ErrSeatAlreadyBooked
	}

	b := &model.Booking{
		UserID:      userID,
		SeatID:      seatID,
		Status:      model.BookingPending,
		BookingDate: time.Now().UTC(),
	}
	if err := m.bookings.CreateTx(ctx, tx, b); err != nil {
		return nil, 0, err
	}
	if err := tx.Commit(); err != nil {
		return nil, 0, err
	}
	committed = true
	return b, seat.Price, nil
}
