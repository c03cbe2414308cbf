package details

import (
	"errors"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"schooladmin_backend/internals/bootstrap"
	galleryController "schooladmin_backend/internals/features/media/gallery/controller"
	galleryModel "schooladmin_backend/internals/features/media/gallery/model"
	galleryRoute "schooladmin_backend/internals/features/media/gallery/route"
	galleryService "schooladmin_backend/internals/features/media/gallery/service"
	homepageController "schooladmin_backend/internals/features/media/homepage/controller"
	homepageRoute "schooladmin_backend/internals/features/media/homepage/route"
	homepageService "schooladmin_backend/internals/features/media/homepage/service"
	helper "schooladmin_backend/internals/helpers"
	ossHelper "schooladmin_backend/internals/helpers/oss"
	"schooladmin_backend/internals/listing/loader"
)

// MediaRoutes mounts gallery and homepage media under the admin group.
func MediaRoutes(admin fiber.Router, d *Deps) {
	webp := bootstrap.WebP(d.Config)

	items := loader.New(galleryModel.Kind, d.Docs, d.LoaderOptions()...)
	gallery := galleryService.NewGalleryService(items, d.Objects, webp, d.Config.Project)
	galleryRoute.GalleryRoutes(admin, galleryController.NewGalleryController(gallery))

	homepage := homepageService.NewHomepageService(d.Docs, d.Objects, webp, d.Config.Project, d.Config.DateLayout)
	homepageRoute.HomepageRoutes(admin, homepageController.NewHomepageController(homepage))
}

// PublicMediaRoutes serves objects of the disk store at /media/<key>, the
// URLs the disk store hands out. Nothing is mounted for remote stores.
func PublicMediaRoutes(app *fiber.App, d *Deps) {
	if d.Disk == nil {
		return
	}
	app.Get("/media/*", func(c *fiber.Ctx) error {
		key := strings.TrimPrefix(c.Params("*"), "/")
		if key == "" || strings.Contains(key, "..") {
			return helper.JsonError(c, fiber.StatusNotFound, "Not found")
		}
		rc, err := d.Disk.Open(key)
		if err != nil {
			if errors.Is(err, ossHelper.ErrObjectNotFound) {
				return helper.JsonError(c, fiber.StatusNotFound, "Not found")
			}
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to read media")
		}
		if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(key))); ct != "" {
			c.Set(fiber.HeaderContentType, ct)
		}
		c.Set(fiber.HeaderCacheControl, "public, max-age=3600")
		return c.SendStream(rc)
	})
}
