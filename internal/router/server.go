package router

import (
	"database/sql"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticket-booking/internal/config"
	"github.com/iliyamo/cinema-ticket-booking/internal/handler"
	"github.com/iliyamo/cinema-ticket-booking/internal/middleware"
	"github.com/iliyamo/cinema-ticket-booking/internal/repository"
	"github.com/iliyamo/cinema-ticket-booking/internal/service"
)

// Deps are the process-wide resources the API is built from.  Redis and
// Events are optional.
type Deps struct {
	Cfg       config.Config
	RateLimit config.RateLimitConfig
	DB        *sql.DB
	Redis     *redis.Client
	Events    service.TicketEvents
	Log       *zap.Logger
}

// NewServer wires repositories, services and handlers into an Echo instance
// with every route registered.
func NewServer(d Deps) *echo.Echo {
	users := repository.NewUserRepo(d.DB)
	sessions := repository.NewSessionRepo(d.DB)
	tickets := repository.NewTicketRepo(d.DB)
	reports := repository.NewReportRepo(d.DB)

	identity := service.NewIdentityService(users, d.Cfg.BcryptCost, d.Log)
	catalog := service.NewCatalogService(sessions, d.Log)
	booking := service.NewBookingService(sessions, tickets, d.Events, d.Log)
	reporting := service.NewReportingService(reports, d.Cfg.ExportPath, d.Log)

	// Load already validated the policy name.
	policy, _ := service.ParseDeletePolicy(d.Cfg.SessionDeletePolicy, service.DeleteBlock)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))

	Register(e, Handlers{
		Health:   &handler.HealthHandler{DB: d.DB},
		Auth:     handler.NewAuthHandler(d.Cfg, identity, d.Log),
		Sessions: handler.NewSessionHandler(catalog, booking, d.Log),
		Booking:  handler.NewBookingHandler(booking, d.Log),
		Admin:    handler.NewAdminHandler(catalog, identity, reporting, policy, d.Log),
	}, d.Cfg.JWTSecret, middleware.NewTokenBucket(d.RateLimit, d.Redis, d.Log))
	return e
}
