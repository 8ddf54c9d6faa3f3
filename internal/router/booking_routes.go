package router

import (
    "github.com/labstack/echo/v4"

    "github.com/skydesk/workspace-booking/internal/handler"
    "github.com/skydesk/workspace-booking/internal/middleware"
)

// RegisterBookings wires the reservation and settlement endpoints.  Every
// route here requires a valid access token; both roles may book, since
// admins reserve seats like anyone else.
func RegisterBookings(e *echo.Echo, h *handler.BookingHandler, jwtSecret string) {
    g := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole("ADMIN", "USER"))

    g.POST("/seats/:id/reserve", h.Reserve)
    g.POST("/bookings/:id/pay", h.Pay)
    g.DELETE("/bookings/:id", h.Cancel)
    g.GET("/my-bookings", h.ListMine)
    g.GET("/bookings/:id", h.Get)
}
