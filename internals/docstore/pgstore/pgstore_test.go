package pgstore

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"schooladmin_backend/internals/docstore"
)

func TestMapErr(t *testing.T) {
	assert.Nil(t, mapErr(nil, "list"))
	assert.True(t, docstore.IsNotFound(mapErr(gorm.ErrRecordNotFound, "get")))

	denied := &pgconn.PgError{Code: "42501", Message: "permission denied for table documents"}
	err := mapErr(denied, "list jobApplications")
	assert.True(t, docstore.IsPermissionDenied(err))
	assert.Contains(t, err.Error(), "list jobApplications")

	other := errors.New("connection reset")
	err = mapErr(other, "list")
	assert.False(t, docstore.IsPermissionDenied(err))
	assert.ErrorIs(t, err, other)
}

func TestDocumentTableName(t *testing.T) {
	assert.Equal(t, "documents", DocumentModel{}.TableName())
}
