package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skydesk/workspace-booking/internal/repository"
)

// AdminHandler serves the CRM views: user listing, booking listing
// and aggregate stats.  The router guards these routes with the ADMIN
// role.
type AdminHandler struct {
	Users    *repository.UserRepo
	Bookings *repository.BookingRepo
	Seats    *repository.SeatRepo
}

// NewAdminHandler constructs an AdminHandler with the provided
// repositories.  All dependencies must be non-nil.
func NewAdminHandler(users *repository.UserRepo, bookings *repository.BookingRepo, seats *repository.SeatRepo) *AdminHandler {
	if users == nil || bookings == nil || seats == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{Users: users, Bookings: bookings, Seats: seats}
}

type adminUserResp struct {
	ID        uint64    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// ListUsers handles GET /v1/admin/users.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.Users.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load users"})
	}
	items := make([]adminUserResp, 0, len(users))
	for _, u := range users {
		items = append(items, adminUserResp{
			ID:        u.ID,
			FullName:  u.FullName,
			Email:     u.Email,
			Role:      u.Role,
			IsActive:  u.IsActive,
			CreatedAt: u.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListBookings handles GET /v1/admin/bookings.  Every booking joined
// with its user and seat, newest first.
func (h *AdminHandler) ListBookings(c echo.Context) error {
	details, err := h.Bookings.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": details})
}

// Stats handles GET /v1/admin/stats.
func (h *AdminHandler) Stats(c echo.Context) error {
	ctx := c.Request().Context()
	users, err := h.Users.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load stats"})
	}
	bookings, err := h.Bookings.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load stats"})
	}
	seats, err := h.Seats.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load stats"})
	}
	available, err := h.Seats.CountAvailable(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load stats"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total_users":     users,
		"total_bookings":  bookings,
		"total_seats":     seats,
		"available_seats": available,
	})
}
