package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/skydesk/workspace-booking/internal/booking"
	"github.com/skydesk/workspace-booking/internal/repository"
)

// BookingHandler exposes the reservation and settlement engine over
// HTTP.  All methods assume JWT authentication has already run; the
// engine itself re-checks every precondition inside its transaction,
// so these handlers only parse input and translate sentinel errors to
// status codes.
type BookingHandler struct {
	Reservations *booking.ReservationManager
	Settlements  *booking.SettlementCoordinator
	Bookings     *repository.BookingRepo
}

// NewBookingHandler constructs a BookingHandler with the provided
// engine components.  All dependencies must be non-nil.
func NewBookingHandler(rm *booking.ReservationManager, sc *booking.SettlementCoordinator, bookings *repository.BookingRepo) *BookingHandler {
	if rm == nil || sc == nil || bookings == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Reservations: rm, Settlements: sc, Bookings: bookings}
}

// Reserve handles POST /v1/seats/:id/reserve.  On success it returns
// 201 Created with the new booking's ID and the amount to settle.
// Conflicts are reported with 409 and a reason string the client can
// branch on.
func (h *BookingHandler) Reserve(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	seatID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || seatID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat id"})
	}

	b, amount, err := h.Reservations.Reserve(c.Request().Context(), userID, seatID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSeatNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
		case errors.Is(err, booking.ErrSeatUnavailable):
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat not available", "reason": "SEAT_UNAVAILABLE"})
		case errors.Is(err, booking.ErrDuplicateBooking):
			return c.JSON(http.StatusConflict, echo.Map{"error": "you already have an active booking for this seat", "reason": "DUPLICATE_ACTIVE_BOOKING"})
		case errors.Is(err, booking.ErrSeatAlreadyBooked):
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat has already been booked", "reason": "SEAT_ALREADY_BOOKED"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reservation failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"booking_id": b.ID,
		"amount":     amount,
		"message":    "booking created, proceed to payment",
	})
}

// Pay handles POST /v1/bookings/:id/pay.  Replaying a settlement that
// already succeeded returns 200 with the original transaction ID; a
// lost seat race or an illegal lifecycle state returns 409.
func (h *BookingHandler) Pay(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || bookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	p, err := h.Settlements.Settle(c.Request().Context(), bookingID, userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrSeatNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found for booking"})
		case errors.Is(err, booking.ErrInvalidState):
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking cannot be paid", "reason": "INVALID_STATE"})
		case errors.Is(err, booking.ErrSeatAlreadyBooked):
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat has already been booked by another user", "reason": "SEAT_ALREADY_BOOKED"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":        "payment successful",
		"transaction_id": p.TransactionID,
		"amount":         p.Amount,
	})
}

// Cancel handles DELETE /v1/bookings/:id.  Only PENDING bookings can
// be cancelled; a cancelled booking frees nothing because pending
// bookings never held the seat in the first place.
func (h *BookingHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || bookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	if err := h.Settlements.Cancel(c.Request().Context(), bookingID, userID); err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, booking.ErrInvalidState):
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking cannot be cancelled", "reason": "INVALID_STATE"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMine handles GET /v1/my-bookings.  It returns all bookings
// created by the current user with seat and payment details.
func (h *BookingHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.Bookings.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": details})
}

// Get handles GET /v1/bookings/:id.  Ownership is enforced in the
// repository query, so a foreign booking looks like a missing one.
func (h *BookingHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || bookingID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	detail, err := h.Bookings.GetByIDForUser(c.Request().Context(), bookingID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch booking"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": detail})
}
