package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"schooladmin_backend/internals/features/jobposts/model"
	"schooladmin_backend/internals/features/jobposts/service"
	helper "schooladmin_backend/internals/helpers"
)

type JobPostController struct {
	Svc *service.JobPostService
}

func NewJobPostController(svc *service.JobPostService) *JobPostController {
	return &JobPostController{Svc: svc}
}

// POST /job-posts
func (jc *JobPostController) Create(c *fiber.Ctx) error {
	var req model.CreateJobPostRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	post, err := jc.Svc.Create(c.UserContext(), req)
	if err != nil {
		log.Printf("[ERROR] create job post: %v", err)
		return helper.FromError(c, err, "")
	}
	log.Printf("[INFO] %s created job post %s", helper.AdminEmail(c), post.ID)
	return helper.JsonCreated(c, "Job post created", post)
}

// DELETE /job-posts/:id
func (jc *JobPostController) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	warning, err := jc.Svc.Delete(c.UserContext(), id)
	if err != nil {
		log.Printf("[ERROR] delete job post %s: %v", id, err)
		return helper.FromError(c, err, "")
	}
	return helper.JsonDeleted(c, "Job post deleted", fiber.Map{"id": id}, warning)
}

// GET /job-posts/:id/applications
func (jc *JobPostController) Applications(c *fiber.Ctx) error {
	apps, err := jc.Svc.Applications(c.UserContext(), c.Params("id"))
	if err != nil {
		return helper.FromError(c, err, "")
	}
	return helper.JsonOK(c, "ok", apps)
}

// PUT /job-posts/:id/applications/:appId/status {"status": "..."}
func (jc *JobPostController) UpdateApplicationStatus(c *fiber.Ctx) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	appID := c.Params("appId")
	if err := jc.Svc.UpdateApplicationStatus(c.UserContext(), appID, body.Status); err != nil {
		return helper.FromError(c, err, "")
	}
	return helper.JsonUpdated(c, "Application status updated", fiber.Map{"id": appID, "status": body.Status})
}
