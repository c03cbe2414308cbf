package upload

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	pkgerrors "github.com/pkg/errors"

	"schooladmin_backend/internals/docstore"
	ossHelper "schooladmin_backend/internals/helpers/oss"
)

// Target names where an upload writes, for remediation messages.
type Target struct {
	Bucket     string
	Project    string
	Path       string
	Collection string
}

type stage int

const (
	objectStage stage = iota
	documentStage
)

type stageError struct {
	stage stage
	err   error
}

func (e *stageError) Error() string { return e.err.Error() }
func (e *stageError) Unwrap() error { return e.err }
func (e *stageError) Cause() error  { return e.err }

// ObjectFailed marks err as a failure of the binary upload.
func ObjectFailed(err error) error {
	if err == nil {
		return nil
	}
	return &stageError{stage: objectStage, err: err}
}

// DocumentFailed marks err as a failure of the document write that follows
// a successful upload.
func DocumentFailed(err error) error {
	if err == nil {
		return nil
	}
	return &stageError{stage: documentStage, err: err}
}

// Classify turns an upload error into the message shown to the operator.
// Permission failures name the bucket or project and the path the rules
// must allow.
func Classify(err error, t Target) string {
	if err == nil {
		return ""
	}
	cause := pkgerrors.Cause(err).Error()
	switch {
	case ossHelper.IsUnauthorized(err):
		return fmt.Sprintf(
			"Permission denied: Please update object store security rules for bucket %q. Rules should allow write access to %q path.",
			t.Bucket, t.Path+"/*")
	case docstore.IsPermissionDenied(err):
		return fmt.Sprintf(
			"Document store permission denied: Please update document store security rules for project %q. Rules should allow write access to %q collection.",
			t.Project, t.Collection)
	}
	var se *stageError
	if errors.As(err, &se) && se.stage == documentStage {
		return fmt.Sprintf("Document store error: %s. Please check document store security rules for project %q", cause, t.Project)
	}
	return "Upload failed: " + cause
}

// HTTPStatus is 403 for permission failures and 502 otherwise.
func HTTPStatus(err error) int {
	if ossHelper.IsUnauthorized(err) || docstore.IsPermissionDenied(err) {
		return fiber.StatusForbidden
	}
	return fiber.StatusBadGateway
}
