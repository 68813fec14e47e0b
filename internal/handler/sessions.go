package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticket-booking/internal/seating"
	"github.com/iliyamo/cinema-ticket-booking/internal/service"
)

// SessionHandler serves the session list and seat map to any signed-in user.
type SessionHandler struct {
	Catalog *service.CatalogService
	Booking *service.BookingService
	Log     *zap.Logger
}

func NewSessionHandler(catalog *service.CatalogService, booking *service.BookingService, log *zap.Logger) *SessionHandler {
	return &SessionHandler{Catalog: catalog, Booking: booking, Log: log}
}

// seatMap is the response of GET /v1/sessions/:id/seats.
type seatMap struct {
	SessionID uint64       `json:"session_id"`
	Rows      int          `json:"rows"`
	Cols      int          `json:"cols"`
	Free      int          `json:"free"`
	Seats     seating.Grid `json:"seats"`
}

// List handles GET /v1/sessions.
func (h *SessionHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Catalog.ListSessions(ctx)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, list)
}

// Get handles GET /v1/sessions/:id.
func (h *SessionHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sess, err := h.Catalog.GetSession(ctx, id)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, sess)
}

// Seats handles GET /v1/sessions/:id/seats and returns the 5x10 grid.
func (h *SessionHandler) Seats(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	grid, err := h.Booking.AvailableGrid(ctx, id)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, seatMap{
		SessionID: id,
		Rows:      seating.Rows,
		Cols:      seating.Cols,
		Free:      len(grid.FreeSeats()),
		Seats:     grid,
	})
}
