package route

import (
	"github.com/gofiber/fiber/v2"

	"schooladmin_backend/internals/features/media/gallery/controller"
	"schooladmin_backend/internals/middlewares"
)

func GalleryRoutes(admin fiber.Router, ctl *controller.GalleryController) {
	g := admin.Group("/gallery")

	g.Get("/", ctl.List)
	g.Get("/upload", ctl.UploadStatus)
	g.Post("/", middlewares.UploadRateLimiter(), ctl.Upload)
	g.Delete("/:id", ctl.Delete)
}
