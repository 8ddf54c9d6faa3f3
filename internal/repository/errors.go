// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrSeatNotFound indicates that a referenced seat row does
// not exist, while ErrDuplicateTransaction signals that an insert
// collided with the unique constraint on payments.transaction_id.
package repository

import "errors"

// ErrSeatNotFound is returned when a seat lookup yields no rows.
var ErrSeatNotFound = errors.New("seat not found")

// ErrBookingNotFound is returned when a booking lookup yields no rows
// or the booking belongs to a different user. Handlers should
// translate this into an HTTP 404 response.
var ErrBookingNotFound = errors.New("booking not found")

// ErrEmailExists is returned when a user insert collides with the
// unique constraint on users.email.
var ErrEmailExists = errors.New("email already exists")

// ErrDuplicateTransaction is returned when a payment insert collides
// with the unique constraint on payments.transaction_id. Callers may
// retry with a freshly generated identifier.
var ErrDuplicateTransaction = errors.New("duplicate transaction id")
