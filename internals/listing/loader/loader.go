package loader

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"schooladmin_backend/internals/docstore"
	"schooladmin_backend/internals/listing/pipeline"
	"schooladmin_backend/internals/listing/record"
)

// State is a snapshot of the loaded collection.
type State[T any] struct {
	Items    []T
	Loading  bool
	Loaded   bool
	Error    string
	LoadedAt time.Time
}

type Option func(*options)

type options struct {
	layout  string
	now     func() time.Time
	timeout time.Duration
}

// DefaultLoadTimeout bounds one fetch of a whole collection.
const DefaultLoadTimeout = 30 * time.Second

func WithLayout(layout string) Option {
	return func(o *options) { o.layout = layout }
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithLoadTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// Loader fetches one collection, maps it and keeps the result. A failed
// refresh keeps the previous items and records an error message.
type Loader[T any] struct {
	kind  *record.Kind[T]
	store docstore.Store
	opts  options

	mu       sync.Mutex
	items    []T
	loaded   bool
	loading  bool
	errMsg   string
	lastErr  error
	loadedAt time.Time
	run      *loadRun
}

// loadRun is one fetch in flight; err is set before done closes.
type loadRun struct {
	done chan struct{}
	err  error
}

func New[T any](kind *record.Kind[T], store docstore.Store, opts ...Option) *Loader[T] {
	o := options{layout: DefaultLayout, now: time.Now, timeout: DefaultLoadTimeout}
	for _, fn := range opts {
		fn(&o)
	}
	return &Loader[T]{kind: kind, store: store, opts: o}
}

func (l *Loader[T]) Kind() *record.Kind[T]  { return l.kind }
func (l *Loader[T]) Store() docstore.Store  { return l.store }
func (l *Loader[T]) Layout() string         { return l.opts.layout }
func (l *Loader[T]) Now() time.Time         { return l.opts.now() }
func (l *Loader[T]) Spec() pipeline.Spec[T] { return l.kind.Pipeline(l.opts.layout) }

// ErrorMessage is what the screen shows when a load fails.
func (l *Loader[T]) ErrorMessage() string {
	return fmt.Sprintf("Failed to load %s. Please check document store permissions.", l.kind.Label)
}

// Refresh reloads the collection. A call made while a load is already in
// flight is dropped and reports false.
//
// The load runs on the loader's own context, bounded by the load timeout,
// since every screen shares it. ctx only bounds how long this caller
// waits: cancelling it leaves the load running for everyone else.
func (l *Loader[T]) Refresh(ctx context.Context) (bool, error) {
	l.mu.Lock()
	if l.loading {
		l.mu.Unlock()
		return false, nil
	}
	l.loading = true
	l.errMsg = ""
	run := &loadRun{done: make(chan struct{})}
	l.run = run
	l.mu.Unlock()

	go l.load(run)

	select {
	case <-run.done:
		return true, run.err
	case <-ctx.Done():
		return true, ctx.Err()
	}
}

func (l *Loader[T]) load(run *loadRun) {
	ctx, cancel := context.WithTimeout(context.Background(), l.opts.timeout)
	defer cancel()
	items, err := l.fetch(ctx)

	l.mu.Lock()
	l.loading = false
	l.run = nil
	if err != nil {
		l.errMsg = l.ErrorMessage()
		l.lastErr = err
		log.Printf("[ERROR] load %s: %v", l.kind.Collection, err)
	} else {
		l.items = items
		l.loaded = true
		l.lastErr = nil
		l.loadedAt = l.opts.now()
	}
	run.err = err
	l.mu.Unlock()
	close(run.done)
}

func (l *Loader[T]) fetch(ctx context.Context) ([]T, error) {
	docs, err := l.store.List(ctx, l.kind.Collection)
	if err != nil {
		return nil, err
	}
	now := l.opts.now()
	items := make([]T, 0, len(docs))
	for _, d := range docs {
		items = append(items, Decode(l.kind, d, now, l.opts.layout))
	}
	pipeline.Sort(items, l.Spec())
	return items, nil
}

// Ensure loads once: it starts the first load, or waits for one in flight.
// Waiters of a first load that failed get that load's error too.
func (l *Loader[T]) Ensure(ctx context.Context) error {
	l.mu.Lock()
	if l.loaded {
		l.mu.Unlock()
		return nil
	}
	run := l.run
	l.mu.Unlock()

	if run == nil {
		started, err := l.Refresh(ctx)
		if started {
			return err
		}
		l.mu.Lock()
		run = l.run
		loaded, lastErr := l.loaded, l.lastErr
		l.mu.Unlock()
		if run == nil {
			if loaded {
				return nil
			}
			return lastErr
		}
	}
	select {
	case <-run.done:
		return run.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loader[T]) State() State[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := make([]T, len(l.items))
	copy(items, l.items)
	return State[T]{
		Items:    items,
		Loading:  l.loading,
		Loaded:   l.loaded,
		Error:    l.errMsg,
		LoadedAt: l.loadedAt,
	}
}

// Find returns a copy of the record with id.
func (l *Loader[T]) Find(id string) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.items {
		if l.kind.ID(&l.items[i]) == id {
			return l.items[i], true
		}
	}
	var zero T
	return zero, false
}

// Replace swaps in rec by id, leaving every other record untouched.
func (l *Loader[T]) Replace(rec T) bool {
	id := l.kind.ID(&rec)
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.items {
		if l.kind.ID(&l.items[i]) == id {
			l.items[i] = rec
			return true
		}
	}
	return false
}

// Insert adds a freshly created record in sorted position.
func (l *Loader[T]) Insert(rec T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, rec)
	pipeline.Sort(l.items, l.Spec())
}

func (l *Loader[T]) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.items {
		if l.kind.ID(&l.items[i]) == id {
			l.items = append(l.items[:i:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}
