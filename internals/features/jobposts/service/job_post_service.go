package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/pkg/errors"

	"schooladmin_backend/internals/docstore"
	jobsModel "schooladmin_backend/internals/features/applications/jobs/model"
	"schooladmin_backend/internals/features/jobposts/model"
	"schooladmin_backend/internals/listing/loader"
	"schooladmin_backend/internals/listing/pipeline"
	"schooladmin_backend/internals/listing/record"
)

// JobPostService covers what the generic list API does not: create,
// delete, the applications of a post and their status.
type JobPostService struct {
	Posts *loader.Loader[model.JobPost]
	Apps  *loader.Loader[jobsModel.JobApplication]
}

func NewJobPostService(posts *loader.Loader[model.JobPost], apps *loader.Loader[jobsModel.JobApplication]) *JobPostService {
	return &JobPostService{Posts: posts, Apps: apps}
}

func (s *JobPostService) store() docstore.Store { return s.Posts.Store() }

// Create validates before any write, then stamps createdAt and updatedAt.
func (s *JobPostService) Create(ctx context.Context, req model.CreateJobPostRequest) (model.JobPost, error) {
	p := req.ToModel()
	if err := model.Validate(&p); err != nil {
		return model.JobPost{}, err
	}
	now := s.Posts.Now()
	id, err := s.store().Add(ctx, model.Collection, p.Document(now))
	if err != nil {
		return model.JobPost{}, errors.Wrap(err, "Failed to add job post")
	}
	p.ID = id
	p.CreatedAt = now.Format(s.Posts.Layout())
	p.UpdatedAt = p.CreatedAt
	s.Posts.Insert(p)
	log.Printf("[INFO] job post %s created (%s)", id, p.Title)
	return p, nil
}

// Delete removes the post only; its applications stay. The returned
// warning says how many were kept.
func (s *JobPostService) Delete(ctx context.Context, id string) (string, error) {
	kept := 0
	if apps, err := s.Applications(ctx, id); err == nil {
		kept = len(apps)
	}
	if err := s.store().Delete(ctx, model.Collection, id); err != nil {
		return "", errors.Wrap(err, "Failed to delete job post")
	}
	s.Posts.Remove(id)
	if kept > 0 {
		return fmt.Sprintf("%s (%d)", model.DeleteWarning, kept), nil
	}
	return model.DeleteWarning, nil
}

// post reads the current post from the store so a renamed title is seen.
// When the store is unreachable the cached copy is used.
func (s *JobPostService) post(ctx context.Context, id string) (model.JobPost, error) {
	doc, err := s.store().Get(ctx, model.Collection, id)
	if err == nil {
		return loader.Decode(s.Posts.Kind(), doc, s.Posts.Now(), s.Posts.Layout()), nil
	}
	if docstore.IsNotFound(err) {
		return model.JobPost{}, err
	}
	if cached, ok := s.Posts.Find(id); ok {
		log.Printf("[ERROR] read job post %s: %v (using cached copy)", id, err)
		return cached, nil
	}
	return model.JobPost{}, err
}

// Matches reports whether app belongs to post: by stored id, or by title
// for applications that were never linked.
func Matches(app jobsModel.JobApplication, post model.JobPost) bool {
	if app.JobPostID != "" {
		return app.JobPostID == post.ID
	}
	return app.Position == post.Title
}

// Applications lists the applications of a post, newest first.
func (s *JobPostService) Applications(ctx context.Context, postID string) ([]model.ApplicationWithJob, error) {
	p, err := s.post(ctx, postID)
	if err != nil {
		return nil, err
	}
	docs, err := s.store().List(ctx, jobsModel.Collection)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to load applications")
	}

	now := s.Apps.Now()
	var apps []jobsModel.JobApplication
	for _, d := range docs {
		a := loader.Decode(jobsModel.Kind, d, now, s.Apps.Layout())
		if Matches(a, p) {
			apps = append(apps, a)
		}
	}
	pipeline.Sort(apps, s.Apps.Spec())

	out := make([]model.ApplicationWithJob, len(apps))
	for i, a := range apps {
		out[i] = model.ApplicationWithJob{JobApplication: a, JobTitle: p.Title}
	}
	return out, nil
}

// UpdateApplicationStatus writes only the status of one application.
func (s *JobPostService) UpdateApplicationStatus(ctx context.Context, appID, status string) error {
	if !contains(record.Statuses, status) {
		return &record.ValidationError{
			Message: "Invalid status",
			Fields:  map[string]string{"status": "must be one of " + strings.Join(record.Statuses, ", ")},
		}
	}
	if err := s.store().Update(ctx, jobsModel.Collection, appID, map[string]any{"status": status}); err != nil {
		return errors.Wrap(err, "Failed to update application status")
	}
	if a, ok := s.Apps.Find(appID); ok {
		a.Status = status
		s.Apps.Replace(a)
	}
	return nil
}

// MigrateJobPostIDs links unlinked applications to the post whose title
// equals their position. Titles shared by several posts are left alone.
func (s *JobPostService) MigrateJobPostIDs(ctx context.Context, dryRun bool) (model.MigrationReport, error) {
	var report model.MigrationReport

	postDocs, err := s.store().List(ctx, model.Collection)
	if err != nil {
		return report, errors.Wrap(err, "list job posts")
	}
	byTitle := map[string][]string{}
	for _, d := range postDocs {
		title, _ := d.Data["title"].(string)
		byTitle[title] = append(byTitle[title], d.ID)
	}

	appDocs, err := s.store().List(ctx, jobsModel.Collection)
	if err != nil {
		return report, errors.Wrap(err, "list job applications")
	}
	now := time.Now()
	for _, d := range appDocs {
		a := loader.Decode(jobsModel.Kind, d, now, s.Apps.Layout())
		if a.JobPostID != "" {
			report.Skipped++
			continue
		}
		row := model.MigrationRow{ApplicationID: a.ID, Position: a.Position}
		candidates := byTitle[a.Position]
		row.Candidates = len(candidates)
		switch len(candidates) {
		case 0:
			row.Outcome = model.Unmatched
			report.Unmatched++
		case 1:
			row.Outcome = model.Linked
			row.PostID = candidates[0]
			if !dryRun {
				if err := s.store().Update(ctx, jobsModel.Collection, a.ID, map[string]any{"jobPostId": row.PostID}); err != nil {
					return report, errors.Wrapf(err, "link application %s", a.ID)
				}
			}
			report.Linked++
		default:
			row.Outcome = model.Ambiguous
			report.Ambiguous++
		}
		report.Rows = append(report.Rows, row)
	}
	return report, nil
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
