package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shop-service/internal/api/http/handlers"
	"github.com/spec-kit/shop-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Accounts       *handlers.AccountsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	accounts := app.Group("/accounts")
	accounts.Post("/signup", cfg.Accounts.Signup)
	accounts.Post("/confirm_email", cfg.Accounts.ConfirmEmail)
	accounts.Post("/login", cfg.Accounts.Login)
	accounts.Post("/reset_password", cfg.Accounts.ResetPassword)
	accounts.Post("/confirm_reset_password", cfg.Accounts.ConfirmResetPassword)

	protected := accounts.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/profile", cfg.Accounts.Profile)
	protected.Patch("/profile", cfg.Accounts.UpdateProfile)
	protected.Post("/change_password", cfg.Accounts.ChangePassword)
}
