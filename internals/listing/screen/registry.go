package screen

import (
	"log"
	"strings"
	"sync"
	"time"
)

// Handle is what the registry needs from a screen of any record type.
type Handle interface {
	LastUsed() time.Time
	Close()
}

// Registry holds the open screens, keyed by owner and screen name.
type Registry struct {
	mu      sync.Mutex
	screens map[string]Handle
	idle    time.Duration
	now     func() time.Time
}

func NewRegistry(idle time.Duration) *Registry {
	return &Registry{screens: map[string]Handle{}, idle: idle, now: time.Now}
}

func key(owner, name string) string { return owner + "|" + name }

// Get returns the owner's screen, building it on first use.
func Get[T any](r *Registry, owner, name string, build func() *Screen[T]) *Screen[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(owner, name)
	if h, ok := r.screens[k]; ok {
		if s, ok := h.(*Screen[T]); ok {
			return s
		}
		h.Close()
	}
	s := build()
	r.screens[k] = s
	return s
}

// Drop closes one screen.
func (r *Registry) Drop(owner, name string) bool {
	r.mu.Lock()
	h, ok := r.screens[key(owner, name)]
	delete(r.screens, key(owner, name))
	r.mu.Unlock()
	if ok {
		h.Close()
	}
	return ok
}

// DropOwner closes every screen of owner, used on logout.
func (r *Registry) DropOwner(owner string) int {
	prefix := owner + "|"
	r.mu.Lock()
	var closing []Handle
	for k, h := range r.screens {
		if strings.HasPrefix(k, prefix) {
			closing = append(closing, h)
			delete(r.screens, k)
		}
	}
	r.mu.Unlock()
	for _, h := range closing {
		h.Close()
	}
	return len(closing)
}

// Reap closes screens idle longer than the registry's idle window.
func (r *Registry) Reap() int {
	if r.idle <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idle)
	r.mu.Lock()
	var closing []Handle
	for k, h := range r.screens {
		if h.LastUsed().Before(cutoff) {
			closing = append(closing, h)
			delete(r.screens, k)
		}
	}
	r.mu.Unlock()
	for _, h := range closing {
		h.Close()
	}
	if len(closing) > 0 {
		log.Printf("[INFO] closed %d idle screens", len(closing))
	}
	return len(closing)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.screens)
}
