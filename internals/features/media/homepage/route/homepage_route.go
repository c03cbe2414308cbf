package route

import (
	"github.com/gofiber/fiber/v2"

	"schooladmin_backend/internals/features/media/homepage/controller"
	"schooladmin_backend/internals/middlewares"
)

// HomepageRoutes mounts /homepage/banner and /homepage/video.
func HomepageRoutes(admin fiber.Router, ctl *controller.HomepageController) {
	g := admin.Group("/homepage")

	g.Get("/:slot", ctl.Current)
	g.Get("/:slot/upload", ctl.UploadStatus)
	g.Post("/:slot", middlewares.UploadRateLimiter(), ctl.Replace)
}
