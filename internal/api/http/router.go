package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ewheels/service-desk/internal/api/http/handlers"
	"github.com/ewheels/service-desk/internal/auth"
	"github.com/ewheels/service-desk/internal/authz"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Staff          *handlers.StaffHandler
	Tickets        *handlers.TicketsHandler
	Workflow       *handlers.WorkflowHandler
	Cases          *handlers.CasesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/staff/login", cfg.Staff.Login)
	authGroup.Post("/staff/password-reset", cfg.Staff.RequestPasswordReset)
	authGroup.Post("/staff/password-reset/confirm", cfg.Staff.ConfirmPasswordReset)
	authGroup.Post("/staff/password", cfg.AuthMiddleware.Handle, cfg.Staff.ChangePassword)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Post("", auth.RequirePermission(authz.PermCreateTickets), cfg.Tickets.CreateTicket)
	tickets.Get("", auth.RequirePermission(authz.PermViewTickets), cfg.Tickets.ListTickets)
	tickets.Get("/number/:number", auth.RequirePermission(authz.PermViewTickets), cfg.Tickets.GetTicketByNumber)
	tickets.Get("/:id", auth.RequirePermission(authz.PermViewTickets), cfg.Tickets.GetTicket)

	tickets.Post("/:id/transition", auth.RequirePermission(authz.PermUpdateTicketStatus), cfg.Workflow.Transition)
	tickets.Post("/:id/triage", auth.RequirePermission(authz.PermUpdateTicketStatus), cfg.Workflow.Triage)
	tickets.Post("/:id/updates", auth.RequirePermission(authz.PermAddStatusUpdate), cfg.Workflow.AppendUpdate)
	tickets.Get("/:id/updates", auth.RequirePermission(authz.PermViewTickets), cfg.Workflow.ListUpdates)

	cases := app.Group("/cases", cfg.AuthMiddleware.Handle)
	cases.Get("/:type/:id", auth.RequirePermission(authz.PermViewTickets), cfg.Cases.GetCase)
	cases.Post("/:type/:id/status", auth.RequirePermission(authz.PermUpdateCases), cfg.Cases.UpdateStatus)
	cases.Patch("/:type/:id", auth.RequirePermission(authz.PermUpdateCases), cfg.Cases.UpdateDetails)
}
