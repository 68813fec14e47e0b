package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-ticket-booking/internal/handler"
	"github.com/iliyamo/cinema-ticket-booking/internal/middleware"
	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// RegisterCustomer mounts session browsing and ticket purchase for any
// signed-in user.  limit is applied to purchases after authentication so the
// bucket can key on the user.
func RegisterCustomer(e *echo.Echo, s *handler.SessionHandler, b *handler.BookingHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleUser, model.RoleAdmin))

	g.GET("/sessions", s.List)
	g.GET("/sessions/:id", s.Get)
	g.GET("/sessions/:id/seats", s.Seats)

	g.POST("/sessions/:id/tickets", b.Purchase, limit)
	g.GET("/my-tickets", b.MyTickets)
}
