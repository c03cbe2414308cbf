package routes

import (
	"log"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	authMiddleware "schooladmin_backend/internals/middlewares/auth"
	"schooladmin_backend/internals/middlewares"
	"schooladmin_backend/internals/middlewares/logger"
	routeDetails "schooladmin_backend/internals/route/details"
)

var startTime time.Time

// NewApp builds the fiber app with the shared middleware stack and every
// route mounted.
func NewApp(d *routeDetails.Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          middlewares.ErrorHandler,
		BodyLimit:             d.Config.UploadMaxBytes,
		DisableStartupMessage: true,
		ProxyHeader:           fiber.HeaderXForwardedFor,
	})

	app.Use(middlewares.RecoveryMiddleware())
	app.Use(middlewares.RequestID(d.Config.RequestTimeout))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(middlewares.CorsMiddleware(d.Config.CorsOrigins))
	app.Use(logger.LoggerMiddleware())
	app.Use(middlewares.GlobalRateLimiter())

	SetupRoutes(app, d)
	return app
}

func SetupRoutes(app *fiber.App, d *routeDetails.Deps) {
	startTime = time.Now()

	BaseRoutes(app, d)

	log.Println("[INFO] Setting up AuthRoutes...")
	routeDetails.AuthRoutes(app, d)

	log.Println("[INFO] Setting up ADMIN group (session required)...")
	admin := app.Group("/api/a", authMiddleware.AuthMiddleware(d.Auth))

	log.Println("[INFO] Mounting Listing routes...")
	routeDetails.ListingRoutes(admin, d)

	log.Println("[INFO] Mounting Media routes...")
	routeDetails.MediaRoutes(admin, d)
	routeDetails.PublicMediaRoutes(app, d)

	log.Println("[INFO] Mounting Dashboard routes...")
	routeDetails.DashboardRoutes(admin, d)

	log.Println("[INFO] Mounting Page routes...")
	routeDetails.PageRoutes(app, d)
}
