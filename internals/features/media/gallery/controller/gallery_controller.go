package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"schooladmin_backend/internals/constants"
	"schooladmin_backend/internals/docstore"
	"schooladmin_backend/internals/features/media/gallery/service"
	"schooladmin_backend/internals/features/media/upload"
	helper "schooladmin_backend/internals/helpers"
	"schooladmin_backend/internals/listing/pipeline"
	"schooladmin_backend/internals/listing/record"
)

type GalleryController struct {
	Svc *service.GalleryService
}

func NewGalleryController(svc *service.GalleryService) *GalleryController {
	return &GalleryController{Svc: svc}
}

// GET /gallery?category=
func (gc *GalleryController) List(c *fiber.Ctx) error {
	items, loadErr, err := gc.Svc.List(c.UserContext(), c.Query("category"))
	if err != nil {
		return helper.FromError(c, err, gc.Svc.Items.ErrorMessage())
	}
	category := c.Query("category")
	if category == "" {
		category = pipeline.All
	}
	return helper.JsonOK(c, "ok", fiber.Map{
		"items":      items,
		"category":   category,
		"categories": append([]string{pipeline.All}, constants.Categories...),
		"error":      loadErr,
	})
}

// POST /gallery multipart: files[] and category
func (gc *GalleryController) Upload(c *fiber.Ctx) error {
	batch, err := upload.Receive(c, "files")
	if err != nil {
		if errors.Is(err, upload.ErrNoFiles) {
			return helper.JsonValidationError(c, constants.MsgSelectFiles, map[string]string{"files": "required"})
		}
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid upload")
	}
	defer batch.Cleanup()

	items, err := gc.Svc.Upload(c.UserContext(), batch, c.FormValue("category"))
	if err != nil {
		return uploadError(c, err, gc.Svc.Target())
	}
	return helper.JsonCreated(c, "Upload complete", items)
}

// DELETE /gallery/:id
func (gc *GalleryController) Delete(c *fiber.Ctx) error {
	item, err := gc.Svc.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		if docstore.IsNotFound(err) {
			return helper.JsonError(c, fiber.StatusNotFound, "Record not found")
		}
		return helper.JsonError(c, upload.HTTPStatus(err), err.Error())
	}
	return helper.JsonDeleted(c, item.Name+" deleted", fiber.Map{"id": item.ID}, "")
}

// GET /gallery/upload
func (gc *GalleryController) UploadStatus(c *fiber.Ctx) error {
	return helper.JsonOK(c, "ok", gc.Svc.Tracker.Status())
}

func uploadError(c *fiber.Ctx, err error, t upload.Target) error {
	var verr *record.ValidationError
	switch {
	case errors.As(err, &verr):
		return helper.FromError(c, err, "")
	case errors.Is(err, upload.ErrBusy):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, upload.ErrNoFiles):
		return helper.JsonValidationError(c, constants.MsgSelectFiles, nil)
	}
	return helper.JsonError(c, upload.HTTPStatus(err), upload.Classify(err, t))
}
