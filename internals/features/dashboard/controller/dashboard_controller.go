package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"schooladmin_backend/internals/features/dashboard/service"
	helper "schooladmin_backend/internals/helpers"
)

type DashboardController struct {
	Svc *service.DashboardService
}

func NewDashboardController(svc *service.DashboardService) *DashboardController {
	return &DashboardController{Svc: svc}
}

// GET /dashboard
func (dc *DashboardController) Summary(c *fiber.Ctx) error {
	counts, err := dc.Svc.Counts(c.UserContext())
	if err != nil {
		log.Printf("[ERROR] dashboard: %v", err)
		return helper.FromError(c, err, service.LoadError)
	}
	return helper.JsonOK(c, "ok", counts)
}
