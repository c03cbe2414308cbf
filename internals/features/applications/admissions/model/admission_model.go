package model

import (
	"schooladmin_backend/internals/listing/record"
)

const Collection = "admissionForms"

type AdmissionApplication struct {
	ID             string `json:"id"`
	StudentName    string `json:"studentName"`
	ParentName     string `json:"parentName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Grade          string `json:"grade"`
	City           string `json:"city"`
	PreviousSchool string `json:"previousSchool"`
	Message        string `json:"message"`
	Status         string `json:"status"`
	CreatedAt      string `json:"createdAt"`
}

type field = record.Field[AdmissionApplication]

// Kind maps the admission form. The public form writes emailId and
// mobileNo; older documents carry email and phone.
var Kind = &record.Kind[AdmissionApplication]{
	Name:         "admission-applications",
	Label:        "admission applications",
	Noun:         "application",
	Collection:   Collection,
	FilterDomain: record.Statuses,
	Fields: []field{
		{Name: "studentName", Label: "Student", Keys: []string{"studentName"}, Editable: true,
			Get: func(a *AdmissionApplication) string { return a.StudentName }, Set: func(a *AdmissionApplication, v string) { a.StudentName = v }},
		{Name: "parentName", Label: "Parent", Keys: []string{"parentName"}, Editable: true,
			Get: func(a *AdmissionApplication) string { return a.ParentName }, Set: func(a *AdmissionApplication, v string) { a.ParentName = v }},
		{Name: "email", Label: "Email", Keys: []string{"emailId", "email"}, Editable: true,
			Get: func(a *AdmissionApplication) string { return a.Email }, Set: func(a *AdmissionApplication, v string) { a.Email = v }},
		{Name: "phone", Label: "Phone", Keys: []string{"mobileNo", "phone"}, Editable: true,
			Get: func(a *AdmissionApplication) string { return a.Phone }, Set: func(a *AdmissionApplication, v string) { a.Phone = v }},
		{Name: "grade", Label: "Grade", Keys: []string{"grade"}, Editable: true,
			Get: func(a *AdmissionApplication) string { return a.Grade }, Set: func(a *AdmissionApplication, v string) { a.Grade = v }},
		{Name: "city", Label: "City", Keys: []string{"city"}, Editable: true,
			Get: func(a *AdmissionApplication) string { return a.City }, Set: func(a *AdmissionApplication, v string) { a.City = v }},
		{Name: "previousSchool", Label: "Previous School", Keys: []string{"previousSchool"}, Editable: true,
			Get: func(a *AdmissionApplication) string { return a.PreviousSchool }, Set: func(a *AdmissionApplication, v string) { a.PreviousSchool = v }},
		{Name: "message", Label: "Message", Keys: []string{"message", "additionalMessage"}, Editable: true,
			Get: func(a *AdmissionApplication) string { return a.Message }, Set: func(a *AdmissionApplication, v string) { a.Message = v }},
		{Name: "status", Label: "Status", Keys: []string{"status"}, Default: record.StatusNew, Editable: true,
			Get: func(a *AdmissionApplication) string { return a.Status }, Set: func(a *AdmissionApplication, v string) { a.Status = v }},
		{Name: "createdAt", Label: "Submitted", Keys: []string{"createdAt"}, Timestamp: true,
			Get: func(a *AdmissionApplication) string { return a.CreatedAt }, Set: func(a *AdmissionApplication, v string) { a.CreatedAt = v }},
	},
	ID:     func(a *AdmissionApplication) string { return a.ID },
	SetID:  func(a *AdmissionApplication, v string) { a.ID = v },
	Search: func(a *AdmissionApplication) []string { return []string{a.StudentName, a.ParentName} },
}
