package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"schooladmin_backend/internals/docstore"
	"schooladmin_backend/internals/listing/loader"
)

func TestDecodePrefersFormKeys(t *testing.T) {
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	a := loader.Decode(Kind, docstore.Document{ID: "a1", Data: map[string]any{
		"studentName":       "Gwen",
		"emailId":           "george@example.com",
		"email":             "old@example.com",
		"phone":             "777",
		"additionalMessage": "from the form",
		"createdAt":         "2023-10-25",
	}}, now, loader.DefaultLayout)

	assert.Equal(t, "george@example.com", a.Email)
	assert.Equal(t, "777", a.Phone)
	assert.Equal(t, "from the form", a.Message)
	assert.Equal(t, "10/25/2023", a.CreatedAt)
}

func TestUpdateFieldsWriteFormKeys(t *testing.T) {
	a := AdmissionApplication{Email: "e@x", Phone: "1", Message: "m", Status: "Accepted"}
	fields := Kind.UpdateFields(&a)
	assert.Equal(t, "e@x", fields["emailId"])
	assert.Equal(t, "1", fields["mobileNo"])
	assert.Equal(t, "m", fields["message"])
	assert.NotContains(t, fields, "email")
	assert.NotContains(t, fields, "phone")
	assert.Len(t, fields, 9)
}
