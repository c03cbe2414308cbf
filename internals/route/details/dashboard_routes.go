package details

import (
	"github.com/gofiber/fiber/v2"

	dashboardController "schooladmin_backend/internals/features/dashboard/controller"
	dashboardRoute "schooladmin_backend/internals/features/dashboard/route"
	dashboardService "schooladmin_backend/internals/features/dashboard/service"
)

func DashboardRoutes(admin fiber.Router, d *Deps) {
	dashboardRoute.DashboardRoutes(admin, dashboardController.NewDashboardController(dashboardService.NewDashboardService(d.Docs)))
}
