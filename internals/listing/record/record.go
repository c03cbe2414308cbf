package record

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"schooladmin_backend/internals/listing/pipeline"
)

// Status values shared by job applications, admissions and contact messages.
const (
	StatusNew         = "New"
	StatusInProgress  = "In Progress"
	StatusInReview    = "In Review"
	StatusShortlisted = "Shortlisted"
	StatusAccepted    = "Accepted"
	StatusRejected    = "Rejected"
	StatusRead        = "Read"
	StatusArchived    = "Archived"
)

// All is the filter sentinel that matches every status.
const All = "All"

// MappingVersion tags the field tables below. Bump it when a store key is
// renamed so stored documents can be migrated.
const MappingVersion = "v1"

var Statuses = []string{
	StatusNew, StatusInProgress, StatusInReview, StatusShortlisted,
	StatusAccepted, StatusRejected, StatusRead, StatusArchived,
}

// Field is one canonical attribute of a record kind and how it maps onto
// stored documents.
type Field[T any] struct {
	Name  string
	Label string
	// Keys is the read fallback chain; Keys[0] is also the write key.
	Keys      []string
	Default   string
	Timestamp bool
	// FallbackTo names a field whose value is reused when this one is absent.
	FallbackTo string
	Editable   bool
	Get        func(*T) string
	Set        func(*T, string)
}

func (f Field[T]) WriteKey() string {
	if len(f.Keys) == 0 {
		return f.Name
	}
	return f.Keys[0]
}

// Kind describes one record type end to end: where it lives, how stored
// documents map onto it, what may be edited and how it is searched.
type Kind[T any] struct {
	Name  string
	Label string
	// Noun names a single record in messages; Label is used when empty.
	Noun       string
	Collection string
	Fields     []Field[T]
	// FilterField is the field the status predicate applies to.
	FilterField  string
	FilterDomain []string
	ID           func(*T) string
	SetID        func(*T, string)
	Search       func(*T) []string
	Validate     func(*T) error
	BeforeSave   func(rec *T, fields map[string]any)
	index        map[string]int
	once         sync.Once
}

func (k *Kind[T]) build() {
	k.once.Do(func() {
		k.index = make(map[string]int, len(k.Fields))
		for i, f := range k.Fields {
			k.index[f.Name] = i
		}
		if k.FilterField == "" {
			k.FilterField = "status"
		}
	})
}

func (k *Kind[T]) Field(name string) (Field[T], bool) {
	k.build()
	i, ok := k.index[name]
	if !ok {
		return Field[T]{}, false
	}
	return k.Fields[i], true
}

func (k *Kind[T]) value(rec *T, name string) string {
	f, ok := k.Field(name)
	if !ok {
		return ""
	}
	return f.Get(rec)
}

func (k *Kind[T]) FilterValue(rec *T) string { return k.value(rec, k.FilterName()) }

func (k *Kind[T]) CreatedAt(rec *T) string { return k.value(rec, "createdAt") }

func (k *Kind[T]) Singular() string {
	if k.Noun != "" {
		return k.Noun
	}
	return k.Label
}

func (k *Kind[T]) FilterName() string {
	k.build()
	return k.FilterField
}

// Pipeline wires the kind's accessors into the filter/sort pipeline.
func (k *Kind[T]) Pipeline(layouts ...string) pipeline.Spec[T] {
	return pipeline.Spec[T]{
		Status:    k.FilterValue,
		Search:    k.Search,
		CreatedAt: k.CreatedAt,
		ID:        k.ID,
		Layouts:   layouts,
	}
}

// Editable lists the field names a session may change.
func (k *Kind[T]) Editable() []string {
	var out []string
	for _, f := range k.Fields {
		if f.Editable {
			out = append(out, f.Name)
		}
	}
	return out
}

// Apply sets one editable field on rec.
func (k *Kind[T]) Apply(rec *T, name, value string) error {
	f, ok := k.Field(name)
	if !ok {
		return &ValidationError{Fields: map[string]string{name: "unknown field"}}
	}
	if !f.Editable {
		return &ValidationError{Fields: map[string]string{name: "field is read-only"}}
	}
	if name == k.FilterName() && len(k.FilterDomain) > 0 && !contains(k.FilterDomain, value) {
		return &ValidationError{Fields: map[string]string{name: fmt.Sprintf("must be one of %s", strings.Join(k.FilterDomain, ", "))}}
	}
	f.Set(rec, value)
	return nil
}

// UpdateFields builds the store write for a save: the editable fields only,
// under their store keys.
func (k *Kind[T]) UpdateFields(rec *T) map[string]any {
	out := map[string]any{}
	for _, f := range k.Fields {
		if f.Editable {
			out[f.WriteKey()] = f.Get(rec)
		}
	}
	return out
}

// Row renders rec in field order, used by exports.
func (k *Kind[T]) Row(rec *T) []string {
	out := make([]string, len(k.Fields)+1)
	out[0] = k.ID(rec)
	for i, f := range k.Fields {
		out[i+1] = f.Get(rec)
	}
	return out
}

func (k *Kind[T]) Headers() []string {
	out := make([]string, len(k.Fields)+1)
	out[0] = "ID"
	for i, f := range k.Fields {
		out[i+1] = f.Label
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// ValidationError carries per-field messages.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for k, v := range e.Fields {
		parts = append(parts, k+": "+v)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var validate = validator.New()

// ValidateStruct runs the struct's validate tags and reports failures with
// message as the summary.
func ValidateStruct(v any, message string) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if len(name) > 0 {
			name = strings.ToLower(name[:1]) + name[1:]
		}
		fields[name] = fe.Tag()
	}
	return &ValidationError{Message: message, Fields: fields}
}
