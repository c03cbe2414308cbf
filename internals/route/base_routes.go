package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"schooladmin_backend/internals/docstore"
	authModel "schooladmin_backend/internals/features/auth/model"
	routeDetails "schooladmin_backend/internals/route/details"
)

const healthProbeID = "__health__"

func BaseRoutes(app *fiber.App, d *routeDetails.Deps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		storeStatus := "Connected"
		serverStatus := "OK"
		httpStatus := fiber.StatusOK

		if _, err := d.Docs.Get(ctx, authModel.AdminCollection, healthProbeID); err != nil && !docstore.IsNotFound(err) {
			storeStatus = "Document store error"
			serverStatus = "DOWN"
			httpStatus = fiber.StatusServiceUnavailable
		}

		return c.Status(httpStatus).JSON(fiber.Map{
			"status":         serverStatus,
			"doc_store":      d.Config.DocStore,
			"database":       storeStatus,
			"object_store":   d.Config.ObjectStore,
			"server_time":    time.Now().Format(time.RFC3339),
			"uptime_seconds": int(time.Since(startTime).Seconds()),
			"environment":    d.Config.AppEnv,
		})
	})
}
