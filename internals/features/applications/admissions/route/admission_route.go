package route

import (
	"github.com/gofiber/fiber/v2"

	"schooladmin_backend/internals/features/applications/admissions/model"
	"schooladmin_backend/internals/features/shared/listctl"
)

func AdmissionRoutes(admin fiber.Router, ctl *listctl.Controller[model.AdmissionApplication]) {
	ctl.Register(admin.Group("/admission-applications"))
}
