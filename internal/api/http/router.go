package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Intake         *handlers.IntakeHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	// Legacy intake route used by the public form and automation webhooks.
	app.Post("/addTicket", cfg.Intake.AddTicket)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", cfg.Users.Signup)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Users.ChangePassword)

	tickets := api.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/analytics", cfg.Tickets.Analytics)
	tickets.Get("/frequent-problems", cfg.Tickets.FrequentProblems)
	tickets.Put("/problems/solution", auth.RequireRole(domain.RoleAdmin), cfg.Tickets.UpsertSolution)
}
