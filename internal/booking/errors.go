// Package booking implements the seat reservation and settlement
// engine.  All availability decisions for one seat serialize on that
// seat's row lock, so the checks and writes in this package behave as
// if every reserve and settle call executed one at a time per seat.
package booking

import "errors"

// ErrSeatUnavailable is returned by Reserve when the seat's cached
// availability flag is off, i.e. a paid booking already claimed it.
var ErrSeatUnavailable = errors.New("seat unavailable")

// ErrDuplicateBooking is returned by Reserve when the caller already
// holds a PENDING or PAID booking for the requested seat.
var ErrDuplicateBooking = errors.New("active booking for this seat already exists")

// ErrSeatAlreadyBooked is returned when another booking for the same
// seat holds PAID status.  During settlement this is the losing side
// of the race: the seat went to whoever committed first.
var ErrSeatAlreadyBooked = errors.New("seat already booked")

// ErrInvalidState is returned when a booking is asked to make an
// illegal lifecycle transition, such as settling a CANCELLED booking
// or cancelling a PAID one.
var ErrInvalidState = errors.New("invalid booking state")
