package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/complaint-desk/complaint-service/internal/api/http/handlers"
	"github.com/complaint-desk/complaint-service/internal/auth"
	"github.com/complaint-desk/complaint-service/internal/domain"
	"github.com/complaint-desk/complaint-service/internal/observability"
	apperrors "github.com/complaint-desk/complaint-service/pkg/util"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Complaints     *handlers.ComplaintsHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))

	api := app.Group("/api")
	api.Get("/health", cfg.Health.Live)
	api.Get("/health/ready", cfg.Health.Ready)

	authn := cfg.AuthMiddleware.Handle
	adminOnly := auth.RequireRoles(domain.RoleAdmin)
	staffOnly := auth.RequireRoles(domain.RoleTechnician, domain.RoleAdmin)

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", authn, cfg.Auth.Me)

	// Gates are per route: unknown paths under these prefixes fall through to the 404 handler.
	complaints := api.Group("/complaints")
	complaints.Post("/", authn, auth.RequireRoles(domain.RoleCustomer), cfg.Complaints.Create)
	complaints.Get("/", authn, auth.RequireAuthenticated(), cfg.Complaints.List)
	complaints.Get("/analytics/dashboard", authn, adminOnly, cfg.Complaints.Dashboard)
	complaints.Get("/:id", authn, auth.RequireAuthenticated(), cfg.Complaints.Get)
	complaints.Put("/:id/assign", authn, adminOnly, cfg.Complaints.Assign)
	complaints.Put("/:id/status", authn, staffOnly, cfg.Complaints.UpdateStatus)
	complaints.Post("/:id/notes", authn, staffOnly, cfg.Complaints.AddNote)

	users := api.Group("/users")
	users.Post("/create", authn, adminOnly, cfg.Users.Create)
	users.Get("/technicians", authn, adminOnly, cfg.Users.Technicians)
	users.Get("/", authn, adminOnly, cfg.Users.List)
	users.Put("/:id/toggle-status", authn, adminOnly, cfg.Users.ToggleStatus)

	app.Use(func(c *fiber.Ctx) error {
		return apperrors.NewNotFound("Route", nil)
	})
}
