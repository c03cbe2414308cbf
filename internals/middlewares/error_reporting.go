package middlewares

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/rollbar/rollbar-go"
	rollbarErrors "github.com/rollbar/rollbar-go/errors"

	"schooladmin_backend/internals/configs"
	helper "schooladmin_backend/internals/helpers"
)

// InitRollbar configures error reporting; without a token reporting stays
// disabled and only the local log is written.
func InitRollbar(cfg *configs.Config) {
	rollbar.SetToken(cfg.RollbarToken)
	rollbar.SetEnvironment(cfg.AppEnv)
	rollbar.SetServerRoot("schooladmin_backend")
	rollbar.SetStackTracer(rollbarErrors.StackTracer)
	rollbar.SetEnabled(cfg.RollbarToken != "")
}

// ErrorHandler is the app-level fiber error handler: every error leaves as
// the standard JSON envelope and 5xx errors are reported.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	msg := err.Error()
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
		msg = fe.Message
	}
	if status >= fiber.StatusInternalServerError {
		log.Printf("[ERROR] %s %s: %v", c.Method(), c.OriginalURL(), err)
		rollbar.Error(err, map[string]interface{}{
			"method": c.Method(),
			"path":   c.Path(),
			"reqid":  c.Locals("reqid"),
			"admin":  helper.AdminEmail(c),
		})
		msg = "Internal Server Error"
	}
	return helper.JsonError(c, status, msg)
}
