package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"

    "github.com/skydesk/workspace-booking/internal/handler"
    "github.com/skydesk/workspace-booking/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check, which
// load balancers and monitoring systems use to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth;
// the authenticated profile endpoint lives under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    g := e.Group("/v1/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
    // Refresh rotates the refresh token; the old one is revoked on success.
    g.POST("/refresh", a.Refresh)
    // Logout accepts a JSON body with the refresh token and invalidates it,
    // so it does not require a JWT.
    g.POST("/logout", a.Logout)

    auth := e.Group("/v1")
    auth.Use(middleware.JWTAuth(jwtSecret))
    auth.Use(middleware.RequireRole("ADMIN", "USER"))
    auth.GET("/me", a.Me)
}

// RegisterSeats registers the seat browse endpoints.  Listing is public so
// visitors can inspect the floor before signing up; the extra middleware
// (typically the Redis response cache) wraps only these read paths.
func RegisterSeats(e *echo.Echo, s *handler.SeatHandler, jwtSecret string, extra ...echo.MiddlewareFunc) {
    e.GET("/v1/seats", s.List, extra...)
    e.GET("/v1/seats/available", s.ListAvailable, extra...)

    // Office initialization seeds the seat inventory and is admin-only.
    init := e.Group("/v1/seats", middleware.JWTAuth(jwtSecret), middleware.RequireRole("ADMIN"))
    init.POST("/initialize", s.InitializeOffice)
}
