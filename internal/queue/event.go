package queue

// BookingPaidEvent is published when a booking settles successfully.
// It contains enough information for downstream consumers to render a
// confirmation email without querying the primary database.
type BookingPaidEvent struct {
    BookingID     uint64  `json:"booking_id"`
    UserEmail     string  `json:"user_email"`
    UserName      string  `json:"user_name"`
    SeatCode      string  `json:"seat_code"`
    BookingDate   string  `json:"booking_date"`
    Amount        float64 `json:"amount"`
    TransactionID string  `json:"transaction_id"`
    PaidAt        string  `json:"paid_at"`
}
