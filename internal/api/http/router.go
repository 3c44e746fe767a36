package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rently/rently-auth/internal/api/http/handlers"
	"github.com/rently/rently-auth/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Session        *handlers.SessionHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Session.Login)

	authenticated := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireAuthenticated()}
	authGroup.Get("/me", append(authenticated, cfg.Session.Me)...)
	authGroup.Get("/token/introspect", append(authenticated, cfg.Session.Introspect)...)
}
