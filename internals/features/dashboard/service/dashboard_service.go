package service

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"schooladmin_backend/internals/docstore"
	admissionsModel "schooladmin_backend/internals/features/applications/admissions/model"
	jobsModel "schooladmin_backend/internals/features/applications/jobs/model"
	jobPostsModel "schooladmin_backend/internals/features/jobposts/model"
	contactsModel "schooladmin_backend/internals/features/messages/contacts/model"
	galleryModel "schooladmin_backend/internals/features/media/gallery/model"
)

const LoadError = "Failed to load dashboard counts. Please check document store permissions."

type Counts struct {
	JobApplications       int `json:"jobApplications"`
	AdmissionApplications int `json:"admissionApplications"`
	ContactMessages       int `json:"contactMessages"`
	JobPosts              int `json:"jobPosts"`
	GalleryItems          int `json:"galleryItems"`
}

type DashboardService struct {
	Store docstore.Store
}

func NewDashboardService(store docstore.Store) *DashboardService {
	return &DashboardService{Store: store}
}

// Counts fetches every collection concurrently and waits for all of them.
// Any single failure fails the whole result.
func (s *DashboardService) Counts(ctx context.Context) (Counts, error) {
	var out Counts
	targets := []struct {
		collection string
		dst        *int
	}{
		{jobsModel.Collection, &out.JobApplications},
		{admissionsModel.Collection, &out.AdmissionApplications},
		{contactsModel.Collection, &out.ContactMessages},
		{jobPostsModel.Collection, &out.JobPosts},
		{galleryModel.Collection, &out.GalleryItems},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, t := range targets {
		g.Go(func() error {
			docs, err := s.Store.List(gctx, t.collection)
			if err != nil {
				return pkgerrors.Wrapf(err, "count %s", t.collection)
			}
			*t.dst = len(docs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Counts{}, err
	}
	return out, nil
}
