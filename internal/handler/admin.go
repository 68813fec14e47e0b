package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-ticket-booking/internal/service"
)

// AdminHandler groups the administrator screens: session management, the
// user table and ticket statistics.  RequireRole("admin") guards every
// route.
type AdminHandler struct {
	Catalog       *service.CatalogService
	Identity      *service.IdentityService
	Reporting     *service.ReportingService
	DefaultPolicy service.DeletePolicy
	Log           *zap.Logger
}

func NewAdminHandler(catalog *service.CatalogService, identity *service.IdentityService, reporting *service.ReportingService, policy service.DeletePolicy, log *zap.Logger) *AdminHandler {
	if catalog == nil || identity == nil || reporting == nil {
		panic("nil service passed to NewAdminHandler")
	}
	return &AdminHandler{Catalog: catalog, Identity: identity, Reporting: reporting, DefaultPolicy: policy, Log: log}
}

type sessionReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}

// CreateSession handles POST /v1/admin/sessions.  Date and time are kept as
// the text the admin typed.
func (h *AdminHandler) CreateSession(c echo.Context) error {
	var req sessionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Catalog.CreateSession(ctx, service.SessionInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
	})
	if err != nil {
		return fail(c, h.Log, err)
	}
	sess, err := h.Catalog.GetSession(ctx, id)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, sess)
}

// DeleteSession handles DELETE /v1/admin/sessions/:id?policy=block|cascade|retain.
func (h *AdminHandler) DeleteSession(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	policy, err := service.ParseDeletePolicy(c.QueryParam("policy"), h.DefaultPolicy)
	if err != nil {
		return fail(c, h.Log, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Catalog.DeleteSession(ctx, id, policy); err != nil {
		return fail(c, h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Users handles GET /v1/admin/users.
func (h *AdminHandler) Users(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Identity.ListUsers(ctx)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, users)
}

// TicketReport handles GET /v1/admin/reports/tickets.
func (h *AdminHandler) TicketReport(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Reporting.TicketReport(ctx)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// ExportTickets handles POST /v1/admin/reports/tickets/export.  The file is
// written on the server at the configured export path.
func (h *AdminHandler) ExportTickets(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	res, err := h.Reporting.ExportTicketReport(ctx)
	if err != nil {
		return fail(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, res)
}
