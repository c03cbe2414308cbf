package helper

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"schooladmin_backend/internals/docstore"
	ossHelper "schooladmin_backend/internals/helpers/oss"
	"schooladmin_backend/internals/listing/record"
	"schooladmin_backend/internals/listing/screen"
	"schooladmin_backend/internals/listing/session"
)

// FromError turns a domain error into the standard error response. Store
// failures answer 502 with fallback as the message.
func FromError(c *fiber.Ctx, err error, fallback string) error {
	var verr *record.ValidationError
	if errors.As(err, &verr) {
		return JsonValidationError(c, verr.Message, verr.Fields)
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}

	switch {
	case errors.Is(err, docstore.ErrNotFound),
		errors.Is(err, session.ErrRecordNotFound),
		errors.Is(err, ossHelper.ErrObjectNotFound):
		return JsonError(c, fiber.StatusNotFound, "Record not found")
	case errors.Is(err, session.ErrNotOpen), errors.Is(err, session.ErrSaving):
		return JsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, screen.ErrClosed):
		return JsonError(c, fiber.StatusGone, err.Error())
	case errors.Is(err, context.Canceled):
		return JsonError(c, fiber.StatusServiceUnavailable, "Request cancelled")
	}

	if fallback == "" {
		fallback = err.Error()
	}
	return JsonError(c, fiber.StatusBadGateway, fallback)
}
