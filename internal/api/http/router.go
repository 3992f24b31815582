package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/delivery-auth/internal/api/http/handlers"
	"github.com/spec-kit/delivery-auth/internal/auth"
	"github.com/spec-kit/delivery-auth/internal/domain"
)

// Route declares one endpoint and the guards it requires. Guards run in a
// fixed order: authentication, then role check, then ownership check. A route
// with AllowedRoles or OwnerChecked set is implicitly authenticated.
type Route struct {
	Method        string
	Path          string
	Authenticated bool
	AllowedRoles  []domain.Role
	OwnerChecked  bool
	Handler       fiber.Handler
}

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Profiles       *handlers.ProfilesHandler
	AuthMiddleware *auth.Middleware
	Logger         *zap.Logger
}

// routeTable returns the full endpoint declaration for the service.
func routeTable(cfg RouteConfig) []Route {
	adminOnly := []domain.Role{domain.RoleAdmin}

	return []Route{
		{Method: fiber.MethodGet, Path: "/health/live", Handler: cfg.Health.Live},
		{Method: fiber.MethodGet, Path: "/health/ready", Handler: cfg.Health.Ready},

		{Method: fiber.MethodPost, Path: "/users/register", Handler: cfg.Auth.Register},
		{Method: fiber.MethodPost, Path: "/auth/login", Handler: cfg.Auth.Login},
		{Method: fiber.MethodPost, Path: "/auth/refresh", Handler: cfg.Auth.Refresh},
		{Method: fiber.MethodPost, Path: "/auth/logout", Handler: cfg.Auth.Logout},
		{Method: fiber.MethodGet, Path: "/auth/me", Authenticated: true, Handler: cfg.Auth.Me},

		{Method: fiber.MethodGet, Path: "/users", AllowedRoles: adminOnly, Handler: cfg.Users.List},
		{Method: fiber.MethodGet, Path: "/users/profile/:userId", OwnerChecked: true, Handler: cfg.Users.GetOwned},
		{Method: fiber.MethodGet, Path: "/users/:id", AllowedRoles: adminOnly, Handler: cfg.Users.GetByID},

		{Method: fiber.MethodPost, Path: "/profiles/customer/:userId", OwnerChecked: true, Handler: cfg.Profiles.CreateCustomer},
		{Method: fiber.MethodGet, Path: "/profiles/customer/:userId", OwnerChecked: true, Handler: cfg.Profiles.GetCustomer},
		{Method: fiber.MethodPatch, Path: "/profiles/customer/:userId", OwnerChecked: true, Handler: cfg.Profiles.UpdateCustomer},

		{Method: fiber.MethodPost, Path: "/profiles/vendor/:userId", OwnerChecked: true, Handler: cfg.Profiles.CreateVendor},
		{Method: fiber.MethodGet, Path: "/profiles/vendor/:userId", OwnerChecked: true, Handler: cfg.Profiles.GetVendor},
		{Method: fiber.MethodPatch, Path: "/profiles/vendor/:userId", OwnerChecked: true, Handler: cfg.Profiles.UpdateVendor},

		{Method: fiber.MethodPost, Path: "/profiles/rider/:userId", OwnerChecked: true, Handler: cfg.Profiles.CreateRider},
		{Method: fiber.MethodGet, Path: "/profiles/rider/:userId", OwnerChecked: true, Handler: cfg.Profiles.GetRider},
		{Method: fiber.MethodPatch, Path: "/profiles/rider/:userId", OwnerChecked: true, Handler: cfg.Profiles.UpdateRider},
	}
}

// RegisterRoutes wires the route table onto the app, expanding each
// declaration into its guard chain.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	for _, route := range routeTable(cfg) {
		app.Add(route.Method, route.Path, guardChain(route, cfg)...)
	}
}

func guardChain(route Route, cfg RouteConfig) []fiber.Handler {
	var chain []fiber.Handler
	if route.Authenticated || len(route.AllowedRoles) > 0 || route.OwnerChecked {
		chain = append(chain, cfg.AuthMiddleware.Handle)
	}
	if len(route.AllowedRoles) > 0 {
		chain = append(chain, auth.RequireRoles(cfg.Logger, route.AllowedRoles...))
	}
	if route.OwnerChecked {
		chain = append(chain, auth.RequireResourceOwner())
	}
	return append(chain, route.Handler)
}
