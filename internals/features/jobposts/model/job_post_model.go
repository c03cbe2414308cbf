package model

import (
	"time"

	jobsModel "schooladmin_backend/internals/features/applications/jobs/model"
	"schooladmin_backend/internals/docstore"
	"schooladmin_backend/internals/listing/record"
)

const Collection = "jobPosts"

const (
	StatusActive = "active"
	StatusClosed = "closed"

	DefaultType = "Full-time"

	RequiredMessage = "Please fill in all required fields (Title, Description, Department)"
	DeleteWarning   = "Job applications submitted for this post were kept."
)

var Statuses = []string{StatusActive, StatusClosed}

type JobPost struct {
	ID           string `json:"id"`
	Title        string `json:"title" validate:"required"`
	Description  string `json:"description" validate:"required"`
	Department   string `json:"department" validate:"required"`
	Location     string `json:"location"`
	Type         string `json:"type"`
	Requirements string `json:"requirements"`
	Salary       string `json:"salary"`
	Status       string `json:"status" validate:"omitempty,oneof=active closed"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

// CreateJobPostRequest is the body of POST /job-posts.
type CreateJobPostRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Department   string `json:"department"`
	Location     string `json:"location"`
	Type         string `json:"type"`
	Requirements string `json:"requirements"`
	Salary       string `json:"salary"`
	Status       string `json:"status"`
}

func (r CreateJobPostRequest) ToModel() JobPost {
	p := JobPost{
		Title:        r.Title,
		Description:  r.Description,
		Department:   r.Department,
		Location:     r.Location,
		Type:         r.Type,
		Requirements: r.Requirements,
		Salary:       r.Salary,
		Status:       r.Status,
	}
	if p.Type == "" {
		p.Type = DefaultType
	}
	if p.Status == "" {
		p.Status = StatusActive
	}
	return p
}

func Validate(p *JobPost) error {
	return record.ValidateStruct(p, RequiredMessage)
}

// Document is the stored form of a new post.
func (p *JobPost) Document(now time.Time) map[string]any {
	return map[string]any{
		"title":        p.Title,
		"description":  p.Description,
		"department":   p.Department,
		"location":     p.Location,
		"type":         p.Type,
		"requirements": p.Requirements,
		"salary":       p.Salary,
		"status":       p.Status,
		"createdAt":    docstore.At(now),
		"updatedAt":    docstore.At(now),
	}
}

type field = record.Field[JobPost]

// NewKind builds the job post table. Saves restamp updatedAt with now,
// rendered in layout for the cached copy.
func NewKind(now func() time.Time, layout string) *record.Kind[JobPost] {
	return &record.Kind[JobPost]{
		Name:         "job-posts",
		Label:        "job posts",
		Noun:         "job post",
		Collection:   Collection,
		FilterDomain: Statuses,
		Fields: []field{
			{Name: "title", Label: "Title", Keys: []string{"title"}, Editable: true,
				Get: func(p *JobPost) string { return p.Title }, Set: func(p *JobPost, v string) { p.Title = v }},
			{Name: "description", Label: "Description", Keys: []string{"description"}, Editable: true,
				Get: func(p *JobPost) string { return p.Description }, Set: func(p *JobPost, v string) { p.Description = v }},
			{Name: "department", Label: "Department", Keys: []string{"department"}, Editable: true,
				Get: func(p *JobPost) string { return p.Department }, Set: func(p *JobPost, v string) { p.Department = v }},
			{Name: "location", Label: "Location", Keys: []string{"location"}, Editable: true,
				Get: func(p *JobPost) string { return p.Location }, Set: func(p *JobPost, v string) { p.Location = v }},
			{Name: "type", Label: "Type", Keys: []string{"type"}, Default: DefaultType, Editable: true,
				Get: func(p *JobPost) string { return p.Type }, Set: func(p *JobPost, v string) { p.Type = v }},
			{Name: "requirements", Label: "Requirements", Keys: []string{"requirements"}, Editable: true,
				Get: func(p *JobPost) string { return p.Requirements }, Set: func(p *JobPost, v string) { p.Requirements = v }},
			{Name: "salary", Label: "Salary", Keys: []string{"salary"}, Editable: true,
				Get: func(p *JobPost) string { return p.Salary }, Set: func(p *JobPost, v string) { p.Salary = v }},
			{Name: "status", Label: "Status", Keys: []string{"status"}, Default: StatusActive, Editable: true,
				Get: func(p *JobPost) string { return p.Status }, Set: func(p *JobPost, v string) { p.Status = v }},
			{Name: "createdAt", Label: "Created", Keys: []string{"createdAt"}, Timestamp: true,
				Get: func(p *JobPost) string { return p.CreatedAt }, Set: func(p *JobPost, v string) { p.CreatedAt = v }},
			{Name: "updatedAt", Label: "Updated", Keys: []string{"updatedAt"}, Timestamp: true, FallbackTo: "createdAt",
				Get: func(p *JobPost) string { return p.UpdatedAt }, Set: func(p *JobPost, v string) { p.UpdatedAt = v }},
		},
		ID:       func(p *JobPost) string { return p.ID },
		SetID:    func(p *JobPost, v string) { p.ID = v },
		Search:   func(p *JobPost) []string { return []string{p.Title, p.Department} },
		Validate: Validate,
		BeforeSave: func(p *JobPost, fields map[string]any) {
			t := now()
			fields["updatedAt"] = docstore.At(t)
			p.UpdatedAt = t.Format(layout)
		},
	}
}

// ApplicationWithJob is a job application as listed under its post.
type ApplicationWithJob struct {
	jobsModel.JobApplication
	JobTitle string `json:"jobTitle"`
}

// Migration outcomes for linking applications to posts.
const (
	Linked    = "linked"
	Ambiguous = "ambiguous"
	Unmatched = "unmatched"
)

type MigrationRow struct {
	ApplicationID string
	Position      string
	Outcome       string
	PostID        string
	Candidates    int
}

type MigrationReport struct {
	Rows      []MigrationRow
	Linked    int
	Ambiguous int
	Unmatched int
	Skipped   int
}
