package main // Entry point package

import (
    "log"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"

    "github.com/skydesk/workspace-booking/internal/booking"
    "github.com/skydesk/workspace-booking/internal/config"
    "github.com/skydesk/workspace-booking/internal/database"
    "github.com/skydesk/workspace-booking/internal/handler"
    "github.com/skydesk/workspace-booking/internal/middleware"
    "github.com/skydesk/workspace-booking/internal/queue"
    "github.com/skydesk/workspace-booking/internal/repository"
    "github.com/skydesk/workspace-booking/internal/router"
    "github.com/skydesk/workspace-booking/internal/service"
)

func main() {
    // .env is optional; real deployments set variables in the environment.
    _ = godotenv.Load()

    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    seats := repository.NewSeatRepo(db)
    bookings := repository.NewBookingRepo(db)
    payments := repository.NewPaymentRepo(db)
    users := repository.NewUserRepo(db)
    tokens := repository.NewTokenRepo(db)

    reservations := booking.NewReservationManager(db, seats, bookings)
    settlements := booking.NewSettlementCoordinator(db, seats, bookings, payments, users, service.NewQueueNotifier())

    e := echo.New()
    e.HideBanner = true
    e.Validator = handler.NewRequestValidator()
    e.Use(echomw.Recover())
    e.Use(echomw.Logger())

    // Redis is optional: when unreachable both the rate limiter and the
    // response cache run as pass-through middleware.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Printf("redis unavailable; rate limiting and response cache disabled")
    }
    e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
    seatCache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

    router.RegisterRoutes(e)
    router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
    router.RegisterSeats(e, handler.NewSeatHandler(seats), cfg.JWTSecret, seatCache)
    router.RegisterBookings(e, handler.NewBookingHandler(reservations, settlements, bookings), cfg.JWTSecret)
    router.RegisterAdmin(e, handler.NewAdminHandler(users, bookings, seats), cfg.JWTSecret)

    // Confirmation emails are rendered by a worker fed from RabbitMQ.  The
    // consumer reconnects on its own; a missing broker never blocks boot.
    go func() {
        if err := queue.StartBookingConsumer(); err != nil {
            log.Printf("booking consumer stopped: %v", err)
        }
    }()

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
