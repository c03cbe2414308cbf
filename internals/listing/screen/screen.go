package screen

import (
	"context"
	"errors"
	"sync"
	"time"

	"schooladmin_backend/internals/listing/cursor"
	"schooladmin_backend/internals/listing/debounce"
	"schooladmin_backend/internals/listing/loader"
	"schooladmin_backend/internals/listing/pipeline"
	"schooladmin_backend/internals/listing/record"
	"schooladmin_backend/internals/listing/session"
)

var ErrClosed = errors.New("screen is closed")

type Options struct {
	PageSize  int
	Debounce  time.Duration
	Scheduler debounce.Scheduler
	Now       func() time.Time
}

// View is one render of the screen.
type View[T any] struct {
	Rows          []T              `json:"rows"`
	Page          int              `json:"page"`
	MaxPage       int              `json:"max_page"`
	PageSize      int              `json:"page_size"`
	Total         int              `json:"total"`
	Search        string           `json:"search"`
	SearchInput   string           `json:"search_input"`
	SearchPending bool             `json:"search_pending"`
	Status        string           `json:"status"`
	Statuses      []string         `json:"statuses"`
	Loading       bool             `json:"loading"`
	Loaded        bool             `json:"loaded"`
	Error         string           `json:"error,omitempty"`
	Session       session.State[T] `json:"session"`
}

// Screen is one operator's view of a shared loader: its own search box,
// status filter, page cursor and edit session.
type Screen[T any] struct {
	loader  *loader.Loader[T]
	session *session.Session[T]
	search  *debounce.Debouncer
	now     func() time.Time
	ctx     context.Context
	cancel  context.CancelFunc

	mu       sync.Mutex
	input    string
	status   string
	cursor   *cursor.Cursor
	lastUsed time.Time
	closed   bool
}

func New[T any](l *loader.Loader[T], opts Options) *Screen[T] {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	var dopts []debounce.Option
	if opts.Scheduler != nil {
		dopts = append(dopts, debounce.WithScheduler(opts.Scheduler))
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Screen[T]{
		loader:   l,
		session:  session.New(l),
		search:   debounce.New(opts.Debounce, nil, dopts...),
		now:      opts.Now,
		ctx:      ctx,
		cancel:   cancel,
		status:   pipeline.All,
		cursor:   cursor.New(opts.PageSize),
		lastUsed: opts.Now(),
	}
}

func (s *Screen[T]) touch() error {
	if s.closed {
		return ErrClosed
	}
	s.lastUsed = s.now()
	return nil
}

// Context is cancelled when the screen closes. Edits made on the screen's
// behalf use it; shared collection loads only stop waiting on it.
func (s *Screen[T]) Context() context.Context { return s.ctx }

// Ensure triggers the first load of the shared collection.
func (s *Screen[T]) Ensure() error {
	s.mu.Lock()
	if err := s.touch(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	return s.loader.Ensure(s.ctx)
}

// Refresh reloads the collection; false means a load was already running.
func (s *Screen[T]) Refresh() (bool, error) {
	s.mu.Lock()
	if err := s.touch(); err != nil {
		s.mu.Unlock()
		return false, err
	}
	s.mu.Unlock()
	return s.loader.Refresh(s.ctx)
}

// SetSearch records the raw input; the filter picks it up once it settles.
func (s *Screen[T]) SetSearch(term string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.touch(); err != nil {
		return err
	}
	s.input = term
	s.search.Set(term)
	return nil
}

// FlushSearch applies the pending search immediately.
func (s *Screen[T]) FlushSearch() {
	s.search.Flush()
}

func (s *Screen[T]) SetStatus(status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.touch(); err != nil {
		return err
	}
	if status == "" {
		status = pipeline.All
	}
	kind := s.loader.Kind()
	if status != pipeline.All && len(kind.FilterDomain) > 0 && !contains(kind.FilterDomain, status) {
		return &record.ValidationError{Fields: map[string]string{kind.FilterName(): "unknown value " + status}}
	}
	s.status = status
	return nil
}

func (s *Screen[T]) Next() error { return s.move(func(c *cursor.Cursor) { c.Next() }) }
func (s *Screen[T]) Prev() error { return s.move(func(c *cursor.Cursor) { c.Prev() }) }
func (s *Screen[T]) Jump(page int) error {
	return s.move(func(c *cursor.Cursor) { c.Jump(page) })
}

func (s *Screen[T]) move(fn func(*cursor.Cursor)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.touch(); err != nil {
		return err
	}
	s.filteredLocked()
	fn(s.cursor)
	return nil
}

// filteredLocked runs the pipeline and brings the cursor back in range.
func (s *Screen[T]) filteredLocked() ([]T, loader.State[T]) {
	st := s.loader.State()
	filtered := pipeline.Apply(st.Items, s.loader.Spec(), s.status, s.search.Value())
	s.cursor.SetCount(len(filtered))
	s.cursor.Repair()
	return filtered, st
}

func (s *Screen[T]) View() View[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.lastUsed = s.now()
	}
	filtered, st := s.filteredLocked()
	kind := s.loader.Kind()
	return View[T]{
		Rows:          cursor.Slice(s.cursor, filtered),
		Page:          s.cursor.Page(),
		MaxPage:       s.cursor.MaxPage(),
		PageSize:      s.cursor.PageSize(),
		Total:         len(filtered),
		Search:        s.search.Value(),
		SearchInput:   s.input,
		SearchPending: s.search.Pending(),
		Status:        s.status,
		Statuses:      append([]string{pipeline.All}, kind.FilterDomain...),
		Loading:       st.Loading,
		Loaded:        st.Loaded,
		Error:         st.Error,
		Session:       s.session.State(),
	}
}

func (s *Screen[T]) OpenRecord(id string) error {
	s.mu.Lock()
	if err := s.touch(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	return s.session.Open(id)
}

func (s *Screen[T]) Edit(patch map[string]string) error {
	s.mu.Lock()
	if err := s.touch(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	return s.session.Edit(patch)
}

func (s *Screen[T]) Save() error {
	s.mu.Lock()
	if err := s.touch(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	return s.session.Save(s.ctx)
}

func (s *Screen[T]) CancelEdit() {
	s.session.Cancel()
}

func (s *Screen[T]) Session() session.State[T] { return s.session.State() }

func (s *Screen[T]) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Close stops the debouncer, drops the edit buffer and cancels in-flight
// edits made for this screen. A shared load it started keeps running for
// the other screens.
func (s *Screen[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.search.Stop()
	s.session.Cancel()
	s.cancel()
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
