package booking

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skydesk/workspace-booking/internal/model"
	"github.com/skydesk/workspace-booking/internal/queue"
	"github.com/skydesk/workspace-booking/internal/repository"
)

// Notifier delivers a booking-paid event after a successful
// settlement.  Delivery is best-effort: the coordinator logs failures
// and never lets them fail or roll back the settlement itself.
type Notifier interface {
	BookingPaid(ctx context.Context, ev queue.BookingPaidEvent) error
}

// SettlementCoordinator converts a pending booking into a paid one.
// It is the only component that mutates seat availability and the
// only point where seat exclusivity is decided: the payment insert,
// the status flip and the availability flip all commit together or
// not at all.
type SettlementCoordinator struct {
	db       *sql.DB
	seats    *repository.SeatRepo
	bookings *repository.BookingRepo
	payments *repository.PaymentRepo
	users    *repository.UserRepo
	notifier Notifier
}

// NewSettlementCoordinator constructs a SettlementCoordinator.  The
// notifier may be nil, in which case no events are published.
func NewSettlementCoordinator(db *sql.DB, seats *repository.SeatRepo, bookings *repository.BookingRepo, payments *repository.PaymentRepo, users *repository.UserRepo, notifier Notifier) *SettlementCoordinator {
	if db == nil || seats == nil || bookings == nil || payments == nil || users == nil {
		panic("nil dependency passed to NewSettlementCoordinator")
	}
	return &SettlementCoordinator{db: db, seats: seats, bookings: bookings, payments: payments, users: users, notifier: notifier}
}

// newTransactionID returns an identifier in the form TXN-XXXXXXXX
// where the suffix is eight uppercase hex characters.
func newTransactionID() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "TXN-" + strings.ToUpper(hex[:8])
}

// Settle finalizes payment for a booking.  The entire decision runs
// inside one transaction; the booking row and then the seat row are
// locked before any check, so two settlements racing for the same
// seat serialize and exactly one of them commits a payment.
//
// Outcomes:
//   - booking missing or owned by someone else -> repository.ErrBookingNotFound
//   - payment already recorded                 -> that payment, nil (replay)
//   - booking CANCELLED, or PAID without a payment row -> ErrInvalidState
//   - another booking on the seat is PAID      -> ErrSeatAlreadyBooked
//   - otherwise a payment is created, the booking becomes PAID and the
//     seat becomes unavailable, all committed together.
func (s *SettlementCoordinator) Settle(ctx context.Context, bookingID, userID uint64) (*model.Payment, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, err := s.bookings.GetForUpdateTx(ctx, tx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		// ownership failures look identical to a missing booking
		return nil, repository.ErrBookingNotFound
	}

	// A retried request that already succeeded gets the original
	// payment back instead of a duplicate charge or an error.
	if existing, err := s.payments.GetByBookingTx(ctx, tx, b.ID); err != nil {
		return nil, err
	} else if existing != nil {
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		committed = true
		return existing, nil
	}

	if !model.CanTransition(b.Status, model.BookingPaid) {
		return nil, ErrInvalidState
	}

	seat, err := s.seats.GetForUpdateTx(ctx, tx, b.SeatID)
	if err != nil {
		return nil, err
	}

	// Decisive exclusivity check.  The seat row lock is held, so no
	// competing settlement can insert a PAID booking between this
	// read and the commit below.
	paid, err := s.bookings.SeatHasPaidTx(ctx, tx, b.SeatID, b.ID)
	if err != nil {
		return nil, err
	}
	if paid {
		return nil, ErrSeatAlreadyBooked
	}

	p := &model.Payment{
		BookingID:     b.ID,
		Amount:        seat.Price,
		Status:        model.PaymentCompleted,
		TransactionID: newTransactionID(),
	}
	for attempt := 0; ; attempt++ {
		err = s.payments.CreateTx(ctx, tx, p)
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrDuplicateTransaction) && attempt < 2 {
			p.TransactionID = newTransactionID()
			continue
		}
		return nil, err
	}
	if err := s.bookings.UpdateStatusTx(ctx, tx, b.ID, model.BookingPaid); err != nil {
		return nil, err
	}
	if err := s.seats.SetAvailabilityTx(ctx, tx, seat.ID, false); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	s.notifyPaid(ctx, b, seat, p)
	return p, nil
}

// notifyPaid publishes the booking-paid event.  Any failure here is
// logged and swallowed; the settlement has already committed.
func (s *SettlementCoordinator) notifyPaid(ctx context.Context, b *model.Booking, seat *model.Seat, p *model.Payment) {
	if s.notifier == nil {
		return
	}
	ev := queue.BookingPaidEvent{
		BookingID:     b.ID,
		SeatCode:      seat.Code,
		BookingDate:   b.BookingDate.UTC().Format("2006-01-02"),
		Amount:        p.Amount,
		TransactionID: p.TransactionID,
		PaidAt:        time.Now().UTC().Format(time.RFC3339),
	}
	if u, err := s.users.GetByID(ctx, b.UserID); err == nil {
		ev.UserEmail = u.Email
		ev.UserName = u.FullName
	} else {
		log.Printf("settlement: load user %d for notification failed: %v", b.UserID, err)
	}
	if err := s.notifier.BookingPaid(ctx, ev); err != nil {
		log.Printf("settlement: publish booking.paid for booking %d failed: %v", b.ID, err)
	}
}

// Cancel moves a PENDING booking to CANCELLED.  Terminal bookings
// cannot be cancelled; attempting to do so returns ErrInvalidState.
// A cancelled booking leaves the seat's availability untouched, so it
// never blocks future reservations.
func (s *SettlementCoordinator) Cancel(ctx context.Context, bookingID, userID uint64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	b, err := s.bookings.GetForUpdateTx(ctx, tx, bookingID)
	if err != nil {
		return err
	}
	if b.UserID != userID {
		return repository.ErrBookingNotFound
	}
	if !model.CanTransition(b.Status, model.BookingCancelled) {
		return ErrInvalidState
	}
	if err := s.bookings.UpdateStatusTx(ctx, tx, b.ID, model.BookingCancelled); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
