package route

import (
	"github.com/gofiber/fiber/v2"

	"schooladmin_backend/internals/features/dashboard/controller"
)

func DashboardRoutes(admin fiber.Router, ctl *controller.DashboardController) {
	admin.Get("/dashboard", ctl.Summary)
}
