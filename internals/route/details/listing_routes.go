package details

import (
	"github.com/gofiber/fiber/v2"

	admissionsModel "schooladmin_backend/internals/features/applications/admissions/model"
	admissionsRoute "schooladmin_backend/internals/features/applications/admissions/route"
	jobsModel "schooladmin_backend/internals/features/applications/jobs/model"
	jobsRoute "schooladmin_backend/internals/features/applications/jobs/route"
	jobPostsController "schooladmin_backend/internals/features/jobposts/controller"
	jobPostsModel "schooladmin_backend/internals/features/jobposts/model"
	jobPostsRoute "schooladmin_backend/internals/features/jobposts/route"
	jobPostsService "schooladmin_backend/internals/features/jobposts/service"
	contactsModel "schooladmin_backend/internals/features/messages/contacts/model"
	contactsRoute "schooladmin_backend/internals/features/messages/contacts/route"
	"schooladmin_backend/internals/features/shared/listctl"
	"schooladmin_backend/internals/listing/loader"
)

// ListingRoutes mounts the four list screens. Job applications share one
// loader with the job post views so a status change shows up in both.
func ListingRoutes(admin fiber.Router, d *Deps) {
	opts := d.ScreenOptions()

	apps := loader.New(jobsModel.Kind, d.Docs, d.LoaderOptions()...)
	jobsRoute.JobApplicationRoutes(admin, listctl.New(apps, d.Screens, opts))

	admissions := loader.New(admissionsModel.Kind, d.Docs, d.LoaderOptions()...)
	admissionsRoute.AdmissionRoutes(admin, listctl.New(admissions, d.Screens, opts))

	contacts := loader.New(contactsModel.Kind, d.Docs, d.LoaderOptions()...)
	contactsRoute.ContactRoutes(admin, listctl.New(contacts, d.Screens, opts))

	posts := loader.New(jobPostsModel.NewKind(d.now, d.Config.DateLayout), d.Docs, d.LoaderOptions()...)
	svc := jobPostsService.NewJobPostService(posts, apps)
	jobPostsRoute.JobPostRoutes(admin, jobPostsController.NewJobPostController(svc), listctl.New(posts, d.Screens, opts))
}
