package router

import (
    "github.com/labstack/echo/v4"

    "github.com/skydesk/workspace-booking/internal/handler"
    "github.com/skydesk/workspace-booking/internal/middleware"
)

// RegisterAdmin wires the reporting endpoints under /v1/admin.  These
// expose every user and booking in the system and are restricted to the
// ADMIN role.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
    g := e.Group("/v1/admin", middleware.JWTAuth(jwtSecret), middleware.RequireRole("ADMIN"))

    g.GET("/users", h.ListUsers)
    g.GET("/bookings", h.ListBookings)
    g.GET("/stats", h.Stats)
}
