package route

import (
	"github.com/gofiber/fiber/v2"

	"schooladmin_backend/internals/features/jobposts/controller"
	"schooladmin_backend/internals/features/jobposts/model"
	"schooladmin_backend/internals/features/shared/listctl"
)

// JobPostRoutes mounts /job-posts: the shared list and screen routes, then
// create, delete and the applications of a post. The screen routes go
// first so DELETE /screen is not taken for a post id.
func JobPostRoutes(admin fiber.Router, ctl *controller.JobPostController, list *listctl.Controller[model.JobPost]) {
	g := admin.Group("/job-posts")
	list.Register(g)

	g.Post("/", ctl.Create)
	g.Delete("/:id", ctl.Delete)
	g.Get("/:id/applications", ctl.Applications)
	g.Put("/:id/applications/:appId/status", ctl.UpdateApplicationStatus)
}
