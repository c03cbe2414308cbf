package logger

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// LoggerMiddleware writes one access line per request, tagged with the
// request id and the signed-in operator. Health probes are not logged.
func LoggerMiddleware() fiber.Handler {
	return logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Local",
		Format:     "[REQ] ${time} ${ip} ${method} ${path} ${status} ${latency} id=${locals:reqid} admin=${locals:admin_email}\n",
	})
}
