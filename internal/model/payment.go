package model

import "time"

// Payment statuses.  Capture is synchronous and authoritative, so a
// stored payment is normally COMPLETED; FAILED exists for audit rows.
const (
    PaymentCompleted = "COMPLETED"
    PaymentFailed    = "FAILED"
)

// Payment is the settlement record for exactly one booking.  It is
// created atomically with the booking's PENDING->PAID transition and
// never mutated afterwards.  TransactionID is unique across the
// system.
//
// Fields:
//  ID            – primary key identifier.
//  BookingID     – the booking this payment settles (1:1).
//  Amount        – amount charged; equals the seat price at settlement.
//  Status        – COMPLETED or FAILED.
//  TransactionID – unique identifier in the form TXN-XXXXXXXX.
//  CreatedAt     – creation timestamp.
type Payment struct {
    ID            uint64    // payments.id
    BookingID     uint64    // payments.booking_id
    Amount        float64   // payments.amount
    Status        string    // payments.status
    TransactionID string    // payments.transaction_id
    CreatedAt     time.Time // payments.created_at
}
