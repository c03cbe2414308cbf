package route

import (
	"github.com/gofiber/fiber/v2"

	"schooladmin_backend/internals/features/auth/controller"
	"schooladmin_backend/internals/middlewares"
)

// AuthRoutes mounts /api/auth. guard is the session middleware.
func AuthRoutes(app *fiber.App, ctrl *controller.AuthController, guard fiber.Handler) {
	base := app.Group("/api/auth")

	base.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)
	base.Post("/logout", ctrl.Logout)
	base.Get("/me", guard, ctrl.Me)
}
