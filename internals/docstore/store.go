package docstore

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("document not found")
	ErrPermissionDenied = errors.New("permission denied")
)

// Document is one record of a collection as the store returns it.
type Document struct {
	ID   string
	Data map[string]any
}

// Store is the remote document store every list screen, media flow and
// the login check talk to. Implementations must be safe for concurrent use.
type Store interface {
	List(ctx context.Context, collection string) ([]Document, error)
	Get(ctx context.Context, collection, id string) (Document, error)
	// Query returns the documents whose top-level field equals value.
	Query(ctx context.Context, collection, field string, value any) ([]Document, error)
	// Add creates a document under a generated id.
	Add(ctx context.Context, collection string, data map[string]any) (string, error)
	// Set creates or fully replaces the document at id.
	Set(ctx context.Context, collection, id string, data map[string]any) error
	// Update merges fields into an existing document, ErrNotFound otherwise.
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
}

// Timestamp is the store's native date value.
type Timestamp struct {
	time.Time
}

func Now() Timestamp { return Timestamp{Time: time.Now()} }

func At(t time.Time) Timestamp { return Timestamp{Time: t} }

// ToDate exposes the wrapped time to anything that converts timestamps by
// method rather than by type.
func (t Timestamp) ToDate() time.Time { return t.Time }

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func IsPermissionDenied(err error) bool { return errors.Is(err, ErrPermissionDenied) }

func cloneData(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}

// Clone returns a shallow copy of the document data.
func (d Document) Clone() Document {
	return Document{ID: d.ID, Data: cloneData(d.Data)}
}
