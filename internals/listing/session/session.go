package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"schooladmin_backend/internals/listing/loader"
	"schooladmin_backend/internals/listing/record"
)

var (
	ErrNotOpen        = errors.New("no record is open for editing")
	ErrRecordNotFound = errors.New("record not found")
	ErrSaving         = errors.New("a save is already in progress")
)

// State is what a client sees of the session.
type State[T any] struct {
	Open   bool   `json:"open"`
	Saving bool   `json:"saving"`
	Error  string `json:"error,omitempty"`
	Record *T     `json:"record,omitempty"`
}

// Session edits one record at a time. The buffer is a copy: nothing reaches
// the loaded list until a save succeeds.
type Session[T any] struct {
	loader *loader.Loader[T]

	mu     sync.Mutex
	open   bool
	saving bool
	buffer T
	errMsg string
}

func New[T any](l *loader.Loader[T]) *Session[T] {
	return &Session[T]{loader: l}
}

// Open starts editing the loaded record with id, replacing any open buffer.
func (s *Session[T]) Open(id string) error {
	rec, ok := s.loader.Find(id)
	if !ok {
		return ErrRecordNotFound
	}
	s.OpenRecord(rec)
	return nil
}

func (s *Session[T]) OpenRecord(rec T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buffer = rec
	s.open = true
	s.errMsg = ""
}

// Edit applies a patch of canonical field names. Either every field is
// applied or none is.
func (s *Session[T]) Edit(patch map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.open {
		return ErrNotOpen
	}
	kind := s.loader.Kind()
	next := s.buffer
	for name, value := range patch {
		if err := kind.Apply(&next, name, value); err != nil {
			return err
		}
	}
	s.buffer = next
	return nil
}

// Save writes the editable fields to the store, then replaces the record in
// the loaded list. On failure the session stays open with an error message.
func (s *Session[T]) Save(ctx context.Context) error {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return ErrNotOpen
	}
	if s.saving {
		s.mu.Unlock()
		return ErrSaving
	}
	kind := s.loader.Kind()
	rec := s.buffer
	if kind.Validate != nil {
		if err := kind.Validate(&rec); err != nil {
			s.errMsg = err.Error()
			s.mu.Unlock()
			return err
		}
	}
	s.saving = true
	s.errMsg = ""
	s.mu.Unlock()

	fields := kind.UpdateFields(&rec)
	if kind.BeforeSave != nil {
		kind.BeforeSave(&rec, fields)
	}
	err := s.loader.Store().Update(ctx, kind.Collection, kind.ID(&rec), fields)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
	if err != nil {
		s.errMsg = fmt.Sprintf("Failed to update %s: %v", kind.Singular(), err)
		log.Printf("[ERROR] save %s/%s: %v", kind.Collection, kind.ID(&rec), err)
		return err
	}
	s.loader.Replace(rec)
	// a concurrent Open may have moved the session to another record
	if kind.ID(&s.buffer) == kind.ID(&rec) {
		s.open = false
		var zero T
		s.buffer = zero
	}
	return nil
}

// Cancel discards the buffer.
func (s *Session[T]) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
	s.errMsg = ""
	var zero T
	s.buffer = zero
}

func (s *Session[T]) State() State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State[T]{Open: s.open, Saving: s.saving, Error: s.errMsg}
	if s.open {
		rec := s.buffer
		st.Record = &rec
	}
	return st
}

// Kind exposes the record kind for callers rendering the editable fields.
func (s *Session[T]) Kind() *record.Kind[T] { return s.loader.Kind() }
