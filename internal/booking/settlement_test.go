package booking

import (
    "context"
    "errors"
    "regexp"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"

    "github.com/skydesk/workspace-booking/internal/model"
    "github.com/skydesk/workspace-booking/internal/queue"
    "github.com/skydesk/workspace-booking/internal/repository"
)

type fakeNotifier struct {
    events []queue.BookingPaidEvent
}

func (f *fakeNotifier) BookingPaid(_ context.Context, ev queue.BookingPaidEvent) error {
    f.events = append(f.events, ev)
    return nil
}

func newSettleMock(t *testing.T, n Notifier) (*SettlementCoordinator, sqlmock.Sqlmock, func()) {
    t.Helper()
    db, mock, err := sqlmock.New()
    if err != nil {
        t.Fatalf("sqlmock init error: %v", err)
    }
    s := NewSettlementCoordinator(db,
        repository.NewSeatRepo(db),
        repository.NewBookingRepo(db),
        repository.NewPaymentRepo(db),
        repository.NewUserRepo(db),
        n)
    return s, mock, func() { db.Close() }
}

func bookingRow(id, userID, seatID uint64, status string) *sqlmock.Rows {
    now := time.Now()
    return sqlmock.NewRows(bookingColumns()).AddRow(id, userID, seatID, status, now, now, now)
}

func paymentColumns() []string {
    return []string{"id", "booking_id", "amount", "status", "transaction_id", "created_at"}
}

func expectNoPayment(mock sqlmock.Sqlmock, bookingID uint64) {
    mock.ExpectQuery("FROM payments WHERE booking_id = \\?").WithArgs(bookingID).
        WillReturnRows(sqlmock.NewRows(paymentColumns()))
}

func TestSettleCompletesPayment(t *testing.T) {
    notifier := &fakeNotifier{}
    s, mock, cleanup := newSettleMock(t, notifier)
    defer cleanup()

    now := time.Now()
    mock.ExpectBegin()
    mock.ExpectQuery("FROM bookings WHERE id = \\? FOR UPDATE").WithArgs(uint64(42)).
        WillReturnRows(bookingRow(42, 9, 3, model.BookingPending))
    expectNoPayment(mock, 42)
    mock.ExpectQuery("FROM seats WHERE id = \\? FOR UPDATE").WithArgs(uint64(3)).
        WillReturnRows(seatRow(3, "WS-1A", 500.0, true))
    mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM bookings").
        WithArgs(uint64(3), model.BookingPaid, uint64(42)).
        WillReturnRows(countRow(0))
    mock.ExpectExec("INSERT INTO payments").
        WithArgs(uint64(42), 500.0, model.PaymentCompleted, sqlmock.AnyArg()).
        WillReturnResult(sqlmock.NewResult(7, 1))
    mock.ExpectQuery("SELECT created_at FROM payments").WithArgs(uint64(7)).
        WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
    mock.ExpectExec("UPDATE bookings SET status").
        WithArgs(model.BookingPaid, uint64(42)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec("UPDATE seats SET is_available").
        WithArgs(false, uint64(3)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()
    // notification enrichment happens outside the settlement transaction
    mock.ExpectQuery("FROM users WHERE id=\\?").WithArgs(uint64(9)).
        WillReturnRows(sqlmock.NewRows([]string{"id", "email", "full_name", "password_hash", "role", "gov_id_type", "gov_id_number", "is_active", "created_at", "updated_at"}).
            AddRow(9, "dana@example.com", "Dana", "x", model.RoleUser, "PASSPORT", "A1234567", true, now, now))

    p, err := s.Settle(context.Background(), 42, 9)
    if err != nil {
        t.Fatalf("Settle error: %v", err)
    }
    if p.Amount != 500.0 || p.Status != model.PaymentCompleted {
        t.Errorf("unexpected payment: %+v", p)
    }
    if ok, _ := regexp.MatchString(`^TXN-[0-9A-F]{8}$`, p.TransactionID); !ok {
        t.Errorf("transaction id %q does not match TXN-XXXXXXXX", p.TransactionID)
    }
    if len(notifier.events) != 1 {
        t.Fatalf("expected 1 notification, got %d", len(notifier.events))
    }
    ev := notifier.events[0]
    if ev.BookingID != 42 || ev.SeatCode != "WS-1A" || ev.Amount != 500.0 || ev.UserEmail != "dana@example.com" {
        t.Errorf("unexpected event: %+v", ev)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatalf("unmet expectations: %v", err)
    }
}

// A retried settlement that already succeeded answers with the original
// payment instead of charging twice.
func TestSettleReplayReturnsExistingPayment(t *testing.T) {
    s, mock, cleanup := newSettleMock(t, nil)
    defer cleanup()

    now := time.Now()
    mock.ExpectBegin()
    mock.ExpectQuery("FROM bookings WHERE id = \\? FOR UPDATE").WithArgs(uint64(42)).
        WillReturnRows(bookingRow(42, 9, 3, model.BookingPaid))
    mock.ExpectQuery("FROM payments WHERE booking_id = \\?").WithArgs(uint64(42)).
        WillReturnRows(sqlmock.NewRows(paymentColumns()).
            AddRow(7, 42, 500.0, model.PaymentCompleted, "TXN-AB12CD34", now))
    mock.ExpectCommit()

    p, err := s.Settle(context.Background(), 42, 9)
    if err != nil {
        t.Fatalf("Settle error: %v", err)
    }
    if p.TransactionID != "TXN-AB12CD34" {
        t.Errorf("transaction id = %q, want the original TXN-AB12CD34", p.TransactionID)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatalf("unmet expectations: %v", err)
    }
}

// Someone else's booking must be indistinguishable from a missing one.
func TestSettleForeignBookingHidden(t *testing.T) {
    s, mock, cleanup := newSettleMock(t, nil)
    defer cleanup()

    mock.ExpectBegin()
    mock.ExpectQuery("FROM bookings WHERE id = \\? FOR UPDATE").WithArgs(uint64(42)).
        WillReturnRows(bookingRow(42, 7, 3, model.BookingPending))
    mock.ExpectRollback()

    _, err := s.Settle(context.Background(), 42, 9)
    if !errors.Is(err, repository.ErrBookingNotFound) {
        t.Fatalf("err = %v, want ErrBookingNotFound", err)
    }
}

func TestSettleBookingNotFound(t *testing.T) {
    s, mock, cleanup := newSettleMock(t, nil)
    defer cleanup()

    mock.ExpectBegin()
    mock.ExpectQuery("FROM bookings WHERE id = \\? FOR UPDATE").WithArgs(uint64(404)).
        WillReturnRows(sqlmock.NewRows(bookingColumns()))
    mock.ExpectRollback()

    _, err := s.Settle(context.Background(), 404, 9)
    if !errors.Is(err, repository.ErrBookingNotFound) {
        t.Fatalf("err = %v, want ErrBookingNotFound", err)
    }
}

func TestSettleCancelledBookingRejected(t *testing.T) {
    s, mock, cleanup := newSettleMock(t, nil)
    defer cleanup()

    mock.ExpectBegin()
    mock.ExpectQuery("FROM bookings WHERE id = \\? FOR UPDATE").WithArgs(uint64(42)).
        WillReturnRows(bookingRow(42, 9, 3, model.BookingCancelled))
    expectNoPayment(mock, 42)
    mock.ExpectRollback()

    _, err := s.Settle(context.Background(), 42, 9)
    if !errors.Is(err, ErrInvalidState) {
        t.Fatalf("err = %v, want ErrInvalidState", err)
    }
}

// Two settlements racing for one seat: the loser finds a PAID booking
// under the seat lock and backs out without writing anything.
func TestSettleLosesSeatRace(t *testing.T) {
    s, mock, cleanup := newSettleMock(t, nil)
    defer cleanup()

    mock.ExpectBegin()
    mock.ExpectQuery("FROM bookings WHERE id = \\? FOR UPDATE").WithArgs(uint64(42)).
        WillReturnRows(bookingRow(42, 9, 3, model.BookingPending))
    expectNoPayment(mock, 42)
    mock.ExpectQuery("FROM seats WHERE id = \\? FOR UPDATE").WithArgs(uint64(3)).
        WillReturnRows(seatRow(3, "WS-1A", 500.0, false))
    mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM bookings").
        WithArgs(uint64(3), model.BookingPaid, uint64(42)).
        WillReturnRows(countRow(1))
    mock.ExpectRollback()

    _, err := s.Settle(context.Background(), 42, 9)
    if !errors.Is(err, ErrSeatAlreadyBooked) {
        t.Fatalf("err = %v, want ErrSeatAlreadyBooked", err)
    }
}

func TestSettleRetriesOnTransactionIDCollision(t *testing.T) {
    s, mock, cleanup := newSettleMock(t, nil)
    defer cleanup()

    now := time.Now()
    mock.ExpectBegin()
    mock.ExpectQuery("FROM bookings WHERE id = \\? FOR UPDATE").WithArgs(uint64(42)).
        WillReturnRows(bookingRow(42, 9, 3, model.BookingPending))
    expectNoPayment(mock, 42)
    mock.ExpectQuery("FROM seats WHERE id = \\? FOR UPDATE").WithArgs(uint64(3)).
        WillReturnRows(seatRow(3, "WS-1A", 500.0, true))
    mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM bookings").
        WithArgs(uint64(3), model.BookingPaid, uint64(42)).
        WillReturnRows(countRow(0))
    mock.ExpectExec("INSERT INTO payments").
        WillReturnError(errors.New("Error 1062: Duplicate entry 'TXN-DEADBEEF' for key 'uq_payments_transaction_id'"))
    mock.ExpectExec("INSERT INTO payments").
        WillReturnResult(sqlmock.NewResult(7, 1))
    mock.ExpectQuery("SELECT created_at FROM payments").WithArgs(uint64(7)).
        WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
    mock.ExpectExec("UPDATE bookings SET status").
        WithArgs(model.BookingPaid, uint64(42)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec("UPDATE seats SET is_available").
        WithArgs(false, uint64(3)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    p, err := s.Settle(context.Background(), 42, 9)
    if err != nil {
        t.Fatalf("Settle error: %v", err)
    }
    if p.ID != 7 {
        t.Errorf("payment id = %d, want 7", p.ID)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatalf("unmet expectations: %v", err)
    }
}

func TestCancelPendingBooking(t *testing.T) {
    s, mock, cleanup := newSettleMock(t, nil)
    defer cleanup()

    mock.ExpectBegin()
    mock.ExpectQuery("FROM bookings WHERE id = \\? FOR UPDATE").WithArgs(uint64(42)).
        WillReturnRows(bookingRow(42, 9, 3, model.BookingPending))
    mock.ExpectExec("UPDATE bookings SET status").
        WithArgs(model.BookingCancelled, uint64(42)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    if err := s.Cancel(context.Background(), 42, 9); err != nil {
        t.Fatalf("Cancel error: %v", err)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatalf("unmet expectations: %v", err)
    }
}

func TestCancelPaidBookingRejected(t *testing.T) {
    s, mock, cleanup := newSettleMock(t, nil)
    defer cleanup()

    mock.ExpectBegin()
    mock.ExpectQuery("FROM bookings WHERE id = \\? FOR UPDATE").WithArgs(uint64(42)).
        WillReturnRows(bookingRow(42, 9, 3, model.BookingPaid))
    mock.ExpectRollback()

    if err := s.Cancel(context.Background(), 42, 9); !errors.Is(err, ErrInvalidState) {
        t.Fatalf("err = %v, want ErrInvalidState", err)
    }
}

func TestNewTransactionIDFormat(t *testing.T) {
    re := regexp.MustCompile(`^TXN-[0-9A-F]{8}$`)
    seen := make(map[string]bool)
    for i := 0; i < 100; i++ {
        id := newTransactionID()
        if !re.MatchString(id) {
            t.Fatalf("transaction id %q does not match TXN-XXXXXXXX", id)
        }
        seen[id] = true
    }
    if len(seen) < 2 {
        t.Error("transaction ids are not random")
    }
}
