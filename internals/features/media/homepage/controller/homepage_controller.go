package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"schooladmin_backend/internals/features/media/homepage/model"
	"schooladmin_backend/internals/features/media/homepage/service"
	"schooladmin_backend/internals/features/media/upload"
	helper "schooladmin_backend/internals/helpers"
	"schooladmin_backend/internals/listing/record"
)

type HomepageController struct {
	Svc *service.HomepageService
}

func NewHomepageController(svc *service.HomepageService) *HomepageController {
	return &HomepageController{Svc: svc}
}

func slotParam(c *fiber.Ctx) (model.Slot, bool) {
	slot, ok := model.Slots[c.Params("slot")]
	return slot, ok
}

// GET /homepage/:slot
func (hc *HomepageController) Current(c *fiber.Ctx) error {
	slot, ok := slotParam(c)
	if !ok {
		return helper.JsonError(c, fiber.StatusNotFound, "Unknown homepage slot")
	}
	m, err := hc.Svc.Current(c.UserContext(), slot)
	if err != nil {
		log.Printf("[ERROR] load homepage %s: %v", slot.ID, err)
		return helper.JsonError(c, fiber.StatusBadGateway, service.LoadError(slot))
	}
	return helper.JsonOK(c, "ok", m)
}

// POST /homepage/:slot multipart: file
func (hc *HomepageController) Replace(c *fiber.Ctx) error {
	slot, ok := slotParam(c)
	if !ok {
		return helper.JsonError(c, fiber.StatusNotFound, "Unknown homepage slot")
	}
	batch, err := upload.Receive(c, "file")
	if err != nil {
		return helper.JsonValidationError(c, slot.EmptyInput, map[string]string{"file": "required"})
	}
	defer batch.Cleanup()

	m, err := hc.Svc.Replace(c.UserContext(), slot, &batch.Files[0])
	if err != nil {
		var verr *record.ValidationError
		switch {
		case errors.As(err, &verr):
			return helper.FromError(c, err, "")
		case errors.Is(err, upload.ErrBusy):
			return helper.JsonError(c, fiber.StatusConflict, err.Error())
		}
		return helper.JsonError(c, upload.HTTPStatus(err), upload.Classify(err, hc.Svc.Target()))
	}
	return helper.JsonUpdated(c, "Homepage "+slot.Label+" updated", m)
}

// GET /homepage/:slot/upload
func (hc *HomepageController) UploadStatus(c *fiber.Ctx) error {
	slot, ok := slotParam(c)
	if !ok {
		return helper.JsonError(c, fiber.StatusNotFound, "Unknown homepage slot")
	}
	return helper.JsonOK(c, "ok", hc.Svc.Tracker(slot).Status())
}
