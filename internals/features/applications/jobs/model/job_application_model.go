package model

import (
	"schooladmin_backend/internals/listing/record"
)

const Collection = "jobApplications"

// JobApplication is submitted by the public careers form. JobPostID is
// empty for applications filed before posts were linked by id.
type JobApplication struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	City        string `json:"city"`
	Position    string `json:"position"`
	ResumeURL   string `json:"resumeUrl"`
	CoverLetter string `json:"coverLetter"`
	JobPostID   string `json:"jobPostId"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt"`
}

type field = record.Field[JobApplication]

// Kind maps stored job applications. Legacy documents use name and message
// where current ones use fullName and coverLetter.
var Kind = &record.Kind[JobApplication]{
	Name:         "job-applications",
	Label:        "job applications",
	Noun:         "application",
	Collection:   Collection,
	FilterDomain: record.Statuses,
	Fields: []field{
		{Name: "name", Label: "Name", Keys: []string{"fullName", "name"}, Editable: true,
			Get: func(a *JobApplication) string { return a.Name }, Set: func(a *JobApplication, v string) { a.Name = v }},
		{Name: "email", Label: "Email", Keys: []string{"email"}, Editable: true,
			Get: func(a *JobApplication) string { return a.Email }, Set: func(a *JobApplication, v string) { a.Email = v }},
		{Name: "phone", Label: "Phone", Keys: []string{"phone"}, Editable: true,
			Get: func(a *JobApplication) string { return a.Phone }, Set: func(a *JobApplication, v string) { a.Phone = v }},
		{Name: "city", Label: "City", Keys: []string{"city"}, Editable: true,
			Get: func(a *JobApplication) string { return a.City }, Set: func(a *JobApplication, v string) { a.City = v }},
		{Name: "position", Label: "Position", Keys: []string{"position"}, Editable: true,
			Get: func(a *JobApplication) string { return a.Position }, Set: func(a *JobApplication, v string) { a.Position = v }},
		{Name: "resumeUrl", Label: "Resume", Keys: []string{"resumeUrl"},
			Get: func(a *JobApplication) string { return a.ResumeURL }, Set: func(a *JobApplication, v string) { a.ResumeURL = v }},
		{Name: "coverLetter", Label: "Cover Letter", Keys: []string{"coverLetter", "message"},
			Get: func(a *JobApplication) string { return a.CoverLetter }, Set: func(a *JobApplication, v string) { a.CoverLetter = v }},
		{Name: "jobPostId", Label: "Job Post ID", Keys: []string{"jobPostId"},
			Get: func(a *JobApplication) string { return a.JobPostID }, Set: func(a *JobApplication, v string) { a.JobPostID = v }},
		{Name: "status", Label: "Status", Keys: []string{"status"}, Default: record.StatusNew, Editable: true,
			Get: func(a *JobApplication) string { return a.Status }, Set: func(a *JobApplication, v string) { a.Status = v }},
		{Name: "createdAt", Label: "Submitted", Keys: []string{"createdAt"}, Timestamp: true,
			Get: func(a *JobApplication) string { return a.CreatedAt }, Set: func(a *JobApplication, v string) { a.CreatedAt = v }},
	},
	ID:     func(a *JobApplication) string { return a.ID },
	SetID:  func(a *JobApplication, v string) { a.ID = v },
	Search: func(a *JobApplication) []string { return []string{a.Name, a.Email} },
}
