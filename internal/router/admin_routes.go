package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-ticket-booking/internal/handler"
	"github.com/iliyamo/cinema-ticket-booking/internal/middleware"
	"github.com/iliyamo/cinema-ticket-booking/internal/model"
)

// RegisterAdmin mounts the administrator endpoints under /v1/admin.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin))

	g.POST("/sessions", a.CreateSession)
	g.DELETE("/sessions/:id", a.DeleteSession)
	g.GET("/users", a.Users)
	g.GET("/reports/tickets", a.TicketReport)
	g.POST("/reports/tickets/export", a.ExportTickets)
}

// Register mounts the whole API.
func Register(e *echo.Echo, h Handlers, jwtSecret string, limit echo.MiddlewareFunc) {
	RegisterRoutes(e, h)
	RegisterAuth(e, h.Auth, jwtSecret, limit)
	RegisterCustomer(e, h.Sessions, h.Booking, jwtSecret, limit)
	RegisterAdmin(e, h.Admin, jwtSecret)
}
