package model

import "time"

// Booking statuses.  PENDING is the only initial state; PAID and
// CANCELLED are terminal.  A row never leaves a terminal state.
const (
    BookingPending   = "PENDING"
    BookingPaid      = "PAID"
    BookingCancelled = "CANCELLED"
)

// Booking records a user's claim, pending or finalized, on one seat.
// At most one booking per (user, seat) pair may be active (PENDING or
// PAID) at a time, and at most one booking per seat may ever reach
// PAID.  Both invariants are enforced inside the reservation and
// settlement transactions.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – user who made the booking.
//  SeatID      – seat being claimed.
//  Status      – PENDING, PAID or CANCELLED.
//  BookingDate – the date the booking was placed for.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Booking struct {
    ID          uint64    // bookings.id
    UserID      uint64    // bookings.user_id
    SeatID      uint64    // bookings.seat_id
    Status      string    // bookings.status
    BookingDate time.Time // bookings.booking_date
    CreatedAt   time.Time // bookings.created_at
    UpdatedAt   time.Time // bookings.updated_at
}

// IsActive reports whether the booking still holds a claim on its
// seat, i.e. it is PENDING or PAID.
func (b *Booking) IsActive() bool {
    return b.Status == BookingPending || b.Status == BookingPaid
}

// IsTerminal reports whether the booking has reached a final state.
func (b *Booking) IsTerminal() bool {
    return b.Status == BookingPaid || b.Status == BookingCancelled
}

// CanTransition reports whether a booking in status from may move to
// status to.  The only legal transitions are PENDING->PAID and
// PENDING->CANCELLED; everything else, including transitions out of a
// terminal state, is rejected.
func CanTransition(from, to string) bool {
    if from != BookingPending {
        return false
    }
    return to == BookingPaid || to == BookingCancelled
}
