package details

import (
	"github.com/gofiber/fiber/v2"

	authController "schooladmin_backend/internals/features/auth/controller"
	authRoute "schooladmin_backend/internals/features/auth/route"
	authMiddleware "schooladmin_backend/internals/middlewares/auth"
)

// AuthRoutes mounts /api/auth.
func AuthRoutes(app *fiber.App, d *Deps) {
	ctrl := authController.NewAuthController(d.Auth, d.Screens, d.Config.Production())
	authRoute.AuthRoutes(app, ctrl, authMiddleware.AuthMiddleware(d.Auth))
}
