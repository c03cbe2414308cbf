package route

import (
	"github.com/gofiber/fiber/v2"

	"schooladmin_backend/internals/features/applications/jobs/model"
	"schooladmin_backend/internals/features/shared/listctl"
)

// JobApplicationRoutes mounts /job-applications under the admin group.
func JobApplicationRoutes(admin fiber.Router, ctl *listctl.Controller[model.JobApplication]) {
	ctl.Register(admin.Group("/job-applications"))
}
