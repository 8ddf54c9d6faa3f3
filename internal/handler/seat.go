package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skydesk/workspace-booking/internal/model"
	"github.com/skydesk/workspace-booking/internal/repository"
)

// SeatHandler serves the seat catalog.  Listing endpoints are public;
// catalog initialization is restricted to administrators by the
// router's role middleware.
type SeatHandler struct {
	Seats *repository.SeatRepo
}

// NewSeatHandler constructs a SeatHandler.
func NewSeatHandler(seats *repository.SeatRepo) *SeatHandler {
	if seats == nil {
		panic("nil repository passed to NewSeatHandler")
	}
	return &SeatHandler{Seats: seats}
}

type seatResp struct {
	ID          uint64  `json:"id"`
	Code        string  `json:"code"`
	SeatType    string  `json:"seat_type"`
	Section     string  `json:"section"`
	Price       float64 `json:"price"`
	IsAvailable bool    `json:"is_available"`
}

func toSeatResp(s model.Seat) seatResp {
	return seatResp{
		ID:          s.ID,
		Code:        s.Code,
		SeatType:    s.SeatType,
		Section:     s.Section,
		Price:       s.Price,
		IsAvailable: s.IsAvailable,
	}
}

// List handles GET /v1/seats.  It returns the full catalog ordered by
// seat code.
func (h *SeatHandler) List(c echo.Context) error {
	seats, err := h.Seats.List(c.Request().Context(), false)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seats"})
	}
	items := make([]seatResp, 0, len(seats))
	for _, s := range seats {
		items = append(items, toSeatResp(s))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListAvailable handles GET /v1/seats/available.  Availability here is
// the cached flag; it lags only within the settlement transaction that
// flips it.
func (h *SeatHandler) ListAvailable(c echo.Context) error {
	seats, err := h.Seats.List(c.Request().Context(), true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seats"})
	}
	items := make([]seatResp, 0, len(seats))
	for _, s := range seats {
		items = append(items, toSeatResp(s))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// InitializeOffice handles POST /v1/seats/initialize (ADMIN).  It
// seeds the office blueprint: two rows of six workstations, two
// cabins and two meeting rooms.  Running it against an already-seeded
// catalog is a no-op.
func (h *SeatHandler) InitializeOffice(c echo.Context) error {
	ctx := c.Request().Context()
	n, err := h.Seats.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check catalog"})
	}
	if n > 0 {
		return c.JSON(http.StatusOK, echo.Map{"message": "office already initialized"})
	}

	seats := make([]model.Seat, 0, 16)
	for row := 1; row <= 2; row++ {
		for i := 1; i <= 6; i++ {
			seats = append(seats, model.Seat{
				Code:     fmt.Sprintf("WS-%d%c", row, 'A'+i-1),
				SeatType: model.SeatTypeWorkstation,
				Section:  "Main Area",
				Price:    500.0,
			})
		}
	}
	seats = append(seats,
		model.Seat{Code: "CEO-1", SeatType: model.SeatTypeCabin, Section: "CEO Cabin", Price: 2000.0},
		model.Seat{Code: "DIR-1", SeatType: model.SeatTypeCabin, Section: "Director Cabin", Price: 1500.0},
		model.Seat{Code: "MR-1", SeatType: model.SeatTypeMeetingRoom, Section: "2-Seater Meeting Room", Price: 800.0},
		model.Seat{Code: "CONF-1", SeatType: model.SeatTypeMeetingRoom, Section: "10-Seater Conf", Price: 3000.0},
	)

	if err := h.Seats.CreateBulk(ctx, seats); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to initialize office"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": fmt.Sprintf("initialized %d seats", len(seats))})
}
