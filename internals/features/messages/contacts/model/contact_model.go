package model

import (
	"schooladmin_backend/internals/listing/record"
)

const Collection = "contactForms"

type ContactMessage struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

type field = record.Field[ContactMessage]

// Kind maps contact messages; only the status is editable.
var Kind = &record.Kind[ContactMessage]{
	Name:         "contact-messages",
	Label:        "contact messages",
	Noun:         "message",
	Collection:   Collection,
	FilterDomain: record.Statuses,
	Fields: []field{
		{Name: "firstName", Label: "First Name", Keys: []string{"firstName"},
			Get: func(m *ContactMessage) string { return m.FirstName }, Set: func(m *ContactMessage, v string) { m.FirstName = v }},
		{Name: "lastName", Label: "Last Name", Keys: []string{"lastName"},
			Get: func(m *ContactMessage) string { return m.LastName }, Set: func(m *ContactMessage, v string) { m.LastName = v }},
		{Name: "email", Label: "Email", Keys: []string{"email"},
			Get: func(m *ContactMessage) string { return m.Email }, Set: func(m *ContactMessage, v string) { m.Email = v }},
		{Name: "subject", Label: "Subject", Keys: []string{"subject"},
			Get: func(m *ContactMessage) string { return m.Subject }, Set: func(m *ContactMessage, v string) { m.Subject = v }},
		{Name: "message", Label: "Message", Keys: []string{"message"},
			Get: func(m *ContactMessage) string { return m.Message }, Set: func(m *ContactMessage, v string) { m.Message = v }},
		{Name: "status", Label: "Status", Keys: []string{"status"}, Default: record.StatusNew, Editable: true,
			Get: func(m *ContactMessage) string { return m.Status }, Set: func(m *ContactMessage, v string) { m.Status = v }},
		{Name: "createdAt", Label: "Received", Keys: []string{"createdAt"}, Timestamp: true,
			Get: func(m *ContactMessage) string { return m.CreatedAt }, Set: func(m *ContactMessage, v string) { m.CreatedAt = v }},
	},
	ID:     func(m *ContactMessage) string { return m.ID },
	SetID:  func(m *ContactMessage, v string) { m.ID = v },
	Search: func(m *ContactMessage) []string { return []string{m.FirstName + " " + m.LastName, m.Email} },
}
