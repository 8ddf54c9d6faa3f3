package booking

import (
    "context"
    "errors"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"

    "github.com/skydesk/workspace-booking/internal/model"
    "github.com/skydesk/workspace-booking/internal/repository"
)

func newMock(t *testing.T) (*ReservationManager, sqlmock.Sqlmock, func()) {
    t.Helper()
    db, mock, err := sqlmock.New()
    if err != nil {
        t.Fatalf("sqlmock init error: %v", err)
    }
    m := NewReservationManager(db, repository.NewSeatRepo(db), repository.NewBookingRepo(db))
    return m, mock, func() { db.Close() }
}

func seatColumns() []string {
    return []string{"id", "code", "seat_type", "section", "price", "is_available", "created_at", "updated_at"}
}

func seatRow(id uint64, code string, price float64, available bool) *sqlmock.Rows {
    now := time.Now()
    return sqlmock.NewRows(seatColumns()).
        AddRow(id, code, model.SeatTypeWorkstation, "Main Area", price, available, now, now)
}

func bookingColumns() []string {
    return []string{"id", "user_id", "seat_id", "status", "booking_date", "created_at", "updated_at"}
}

func countRow(n int) *sqlmock.Rows {
    return sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(n)
}

func TestReserveCreatesPendingBooking(t *testing.T) {
    m, mock, cleanup := newMock(t)
    defer cleanup()

    now := time.Now()
    mock.ExpectBegin()
    mock.ExpectQuery("FROM seats WHERE id = \\? FOR UPDATE").WithArgs(uint64(3)).
        WillReturnRows(seatRow(3, "WS-1A", 500.0, true))
    mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM bookings").
        WithArgs(uint64(9), uint64(3), model.BookingPending, model.BookingPaid).
        WillReturnRows(countRow(0))
    mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM bookings").
        WithArgs(uint64(3), model.BookingPaid, uint64(0)).
        WillReturnRows(countRow(0))
    mock.ExpectExec("INSERT INTO bookings").
        WithArgs(uint64(9), uint64(3), model.BookingPending, sqlmock.AnyArg()).
        WillReturnResult(sqlmock.NewResult(42, 1))
    mock.ExpectQuery("FROM bookings WHERE id = \\?").WithArgs(uint64(42)).
        WillReturnRows(sqlmock.NewRows(bookingColumns()).
            AddRow(42, 9, 3, model.BookingPending, now, now, now))
    mock.ExpectCommit()

    b, amount, err := m.Reserve(context.Background(), 9, 3)
    if err != nil {
        t.Fatalf("Reserve error: %v", err)
    }
    if b.ID != 42 || b.Status != model.BookingPending {
        t.Errorf("unexpected booking: %+v", b)
    }
    if amount != 500.0 {
        t.Errorf("amount = %v, want 500", amount)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatalf("unmet expectations: %v", err)
    }
}

func TestReserveSeatNotFound(t *testing.T) {
    m, mock, cleanup := newMock(t)
    defer cleanup()

    mock.ExpectBegin()
    mock.ExpectQuery("FROM seats WHERE id = \\? FOR UPDATE").WithArgs(uint64(99)).
        WillReturnRows(sqlmock.NewRows(seatColumns()))
    mock.ExpectRollback()

    _, _, err := m.Reserve(context.Background(), 9, 99)
    if !errors.Is(err, repository.ErrSeatNotFound) {
        t.Fatalf("err = %v, want ErrSeatNotFound", err)
    }
}

func TestReserveSeatUnavailable(t *testing.T) {
    m, mock, cleanup := newMock(t)
    defer cleanup()

    mock.ExpectBegin()
    mock.ExpectQuery("FROM seats WHERE id = \\? FOR UPDATE").WithArgs(uint64(3)).
        WillReturnRows(seatRow(3, "WS-1A", 500.0, false))
    mock.ExpectRollback()

    _, _, err := m.Reserve(context.Background(), 9, 3)
    if !errors.Is(err, ErrSeatUnavailable) {
        t.Fatalf("err = %v, want ErrSeatUnavailable", err)
    }
}

func TestReserveDuplicateActiveBooking(t *testing.T) {
    m, mock, cleanup := newMock(t)
    defer cleanup()

    mock.ExpectBegin()
    mock.ExpectQuery("FROM seats WHERE id = \\? FOR UPDATE").WithArgs(uint64(3)).
        WillReturnRows(seatRow(3, "WS-1A", 500.0, true))
    mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM bookings").
        WithArgs(uint64(9), uint64(3), model.BookingPending, model.BookingPaid).
        WillReturnRows(countRow(1))
    mock.ExpectRollback()

    _, _, err := m.Reserve(context.Background(), 9, 3)
    if !errors.Is(err, ErrDuplicateBooking) {
        t.Fatalf("err = %v, want ErrDuplicateBooking", err)
    }
}

// An availability flag that drifted out of sync must not let a second
// paid claim through: the bookings table is checked directly.
func TestReserveSeatAlreadyPaidByOther(t *testing.T) {
    m, mock, cleanup := newMock(t)
    defer cleanup()

    mock.ExpectBegin()
    mock.ExpectQuery("FROM seats WHERE id = \\? FOR UPDATE").WithArgs(uint64(3)).
        WillReturnRows(seatRow(3, "WS-1A", 500.0, true))
    mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM bookings").
        WithArgs(uint64(9), uint64(3), model.BookingPending, model.BookingPaid).
        WillReturnRows(countRow(0))
    mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM bookings").
        WithArgs(uint64(3), model.BookingPaid, uint64(0)).
        WillReturnRows(countRow(1))
    mock.ExpectRollback()

    _, _, err := m.Reserve(context.Background(), 9, 3)
    if !errors.Is(err, ErrSeatAlreadyBooked) {
        t.Fatalf("err = %v, want ErrSeatAlreadyBooked", err)
    }
}
