package details

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	helper "schooladmin_backend/internals/helpers"
	authMiddleware "schooladmin_backend/internals/middlewares/auth"
)

const LoginPath = "/login"

// Page is one screen of the admin console and the API it reads.
type Page struct {
	Path  string `json:"path"`
	Title string `json:"title"`
	API   string `json:"api,omitempty"`
}

var Pages = []Page{
	{Path: "/", Title: "Dashboard", API: "/api/a/dashboard"},
	{Path: "/job-applications", Title: "Job Applications", API: "/api/a/job-applications"},
	{Path: "/job-posts", Title: "Job Posts", API: "/api/a/job-posts"},
	{Path: "/admission-applications", Title: "Admission Applications", API: "/api/a/admission-applications"},
	{Path: "/contact-messages", Title: "Contact Messages", API: "/api/a/contact-messages"},
	{Path: "/gallery", Title: "Gallery", API: "/api/a/gallery"},
	{Path: "/homepage-video", Title: "Homepage Video", API: "/api/a/homepage/video"},
	{Path: "/homepage-banner", Title: "Homepage Banner", API: "/api/a/homepage/banner"},
}

// PageRoutes mounts the console pages behind the page guard: signed-out
// visitors go to /login, signed-in visitors of /login go to /, and any
// other unknown page goes to / (or /login when signed out).
func PageRoutes(app *fiber.App, d *Deps) {
	guard := authMiddleware.PageGuard(d.Auth, LoginPath)

	app.Get(LoginPath, guard, func(c *fiber.Ctx) error {
		return helper.JsonOK(c, "ok", fiber.Map{"page": Page{Path: LoginPath, Title: "Login", API: "/api/auth/login"}})
	})
	for _, p := range Pages {
		p := p
		app.Get(p.Path, guard, func(c *fiber.Ctx) error {
			return helper.JsonOK(c, "ok", fiber.Map{
				"page":  p,
				"pages": Pages,
				"user":  fiber.Map{"email": helper.AdminEmail(c), "name": helper.AdminName(c)},
			})
		})
	}

	app.Get("/*", func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), "/api/") || strings.HasPrefix(c.Path(), "/media/") {
			return helper.JsonError(c, fiber.StatusNotFound, "Not found")
		}
		return c.Next()
	}, guard, func(c *fiber.Ctx) error {
		return c.Redirect("/", fiber.StatusFound)
	})
}
