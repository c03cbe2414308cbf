package middlewares

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rollbar/rollbar-go"
)

// RecoveryMiddleware turns a panic into a 500 and reports it.
func RecoveryMiddleware() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			log.Printf("[PANIC] %s %s: %v", c.Method(), c.OriginalURL(), e)
			rollbar.Critical(fmt.Errorf("panic: %v", e), map[string]interface{}{
				"method": c.Method(),
				"path":   c.Path(),
			})
		},
	})
}
