package handler // HTTP handlers for the booking API

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticket-booking/internal/middleware"
	"github.com/iliyamo/cinema-ticket-booking/internal/service"
)

// getUserID extracts the authenticated user ID that JWTAuth stored.
func getUserID(c echo.Context) (uint64, error) {
	if id, ok := c.Get(middleware.CtxUserID).(uint64); ok && id != 0 {
		return id, nil
	}
	return 0, errors.New("invalid user_id in context")
}

func getRole(c echo.Context) string {
	role, _ := c.Get(middleware.CtxRole).(string)
	return role
}

// clientContext builds the per-request identity passed into booking calls.
func clientContext(c echo.Context) (service.ClientContext, error) {
	uid, err := getUserID(c)
	if err != nil {
		return service.ClientContext{}, err
	}
	return service.ClientContext{UserID: uid, Role: getRole(c)}, nil
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// statusFor maps service errors to HTTP status and client message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrDuplicateLogin):
		return http.StatusConflict, "login already exists"
	case errors.Is(err, service.ErrNotAuthenticated):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, service.ErrSessionNotSelected):
		return http.StatusBadRequest, "no session selected"
	case errors.Is(err, service.ErrNoSeatSelected):
		return http.StatusBadRequest, "no seat selected"
	case errors.Is(err, service.ErrInvalidSeat):
		return http.StatusBadRequest, "invalid seat"
	case errors.Is(err, service.ErrInvalidPolicy):
		return http.StatusBadRequest, "invalid delete policy"
	case errors.Is(err, service.ErrSeatAlreadyTaken):
		return http.StatusConflict, "seat already taken"
	case errors.Is(err, service.ErrSessionHasTickets):
		return http.StatusConflict, "session has tickets"
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound, "session not found"
	}
	return http.StatusInternalServerError, "internal error"
}

// fail writes err as a JSON error.  Unmapped errors are logged and hidden
// from the client.
func fail(c echo.Context, log *zap.Logger, err error) error {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("path", c.Path()),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			zap.Error(err))
	}
	return c.JSON(status, echo.Map{"error": msg})
}
