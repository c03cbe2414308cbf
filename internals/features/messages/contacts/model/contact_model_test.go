package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schooladmin_backend/internals/listing/record"
)

func TestOnlyStatusIsEditable(t *testing.T) {
	assert.Equal(t, []string{"status"}, Kind.Editable())

	m := ContactMessage{ID: "c1", Email: "a@b"}
	var verr *record.ValidationError
	require.True(t, errors.As(Kind.Apply(&m, "email", "x@y"), &verr))
	require.NoError(t, Kind.Apply(&m, "status", record.StatusRead))
	assert.Equal(t, map[string]any{"status": record.StatusRead}, Kind.UpdateFields(&m))
}

func TestSearchUsesFullName(t *testing.T) {
	m := ContactMessage{FirstName: "Jane", LastName: "Doe", Email: "jd@x.com"}
	assert.Equal(t, []string{"Jane Doe", "jd@x.com"}, Kind.Search(&m))
}
