package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/descripto-api/internal/api/http/handlers"
	"github.com/spec-kit/descripto-api/internal/auth"
	"github.com/spec-kit/descripto-api/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Content        *handlers.ContentHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. The authenticator runs once for every
// request; routes that need an identity add guards on top.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.AuthMiddleware.Handle)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/profile", auth.RequireAuthenticated(), cfg.Auth.Profile)

	generate := app.Group("/generate", auth.RequireAuthenticated())
	generate.Post("/description", cfg.Content.Generate)
	generate.Post("/chat", cfg.Content.Chat)
	generate.Get("/chat/tabs", cfg.Content.Tabs)
	generate.Get("/chat/messages/:tabID", cfg.Content.Messages)

	admin := app.Group("/api/v1/users", auth.RequireRole(domain.RoleAdmin))
	admin.Get("/", cfg.Auth.ListUsers)
}
