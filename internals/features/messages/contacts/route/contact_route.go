package route

import (
	"github.com/gofiber/fiber/v2"

	"schooladmin_backend/internals/features/messages/contacts/model"
	"schooladmin_backend/internals/features/shared/listctl"
)

func ContactRoutes(admin fiber.Router, ctl *listctl.Controller[model.ContactMessage]) {
	ctl.Register(admin.Group("/contact-messages"))
}
