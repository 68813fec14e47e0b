package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticket-booking/internal/service"
)

// BookingHandler sells tickets and lists a user's own tickets.  The acting
// user comes from the token and the session from the path, never from the
// request body.
type BookingHandler struct {
	Booking *service.BookingService
	Log     *zap.Logger
}

func NewBookingHandler(booking *service.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{Booking: booking, Log: log}
}

type purchaseReq struct {
	Seat string `json:"seat"`
}

// Purchase handles POST /v1/sessions/:id/tickets with body {"seat":"2-5"}.
func (h *BookingHandler) Purchase(c echo.Context) error {
	cc, err := clientContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sessionID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no session selected"})
	}
	var req purchaseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Booking.Purchase(ctx, cc.WithSession(sessionID), req.Seat)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, t)
}

// MyTickets handles GET /v1/my-tickets.
func (h *BookingHandler) MyTickets(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Booking.UserTickets(ctx, uid)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, list)
}
