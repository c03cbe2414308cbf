package pipeline

import (
	"sort"
	"strings"
	"time"
)

// All matches every status.
const All = "All"

// DefaultLayouts are tried, in order, when parsing a displayed date.
var DefaultLayouts = []string{
	"01/02/2006",
	"1/2/2006",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
}

// Spec tells the pipeline how to read the fields it filters and sorts on.
type Spec[T any] struct {
	Status    func(*T) string
	Search    func(*T) []string
	CreatedAt func(*T) string
	ID        func(*T) string
	// Layouts overrides DefaultLayouts; the first entry should be the
	// layout the loader formats dates with.
	Layouts []string
}

// MatchStatus is true for the All sentinel or an exact match.
func MatchStatus(filter, status string) bool {
	return filter == "" || filter == All || filter == status
}

// MatchSearch is a case-insensitive substring test over the fields; an empty
// term matches everything.
func MatchSearch(term string, fields []string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// ParseDate reads a displayed date. Anything unparseable sorts as the epoch.
func ParseDate(s string, layouts []string) time.Time {
	if len(layouts) == 0 {
		layouts = DefaultLayouts
	}
	s = strings.TrimSpace(s)
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t
		}
	}
	if len(layouts) != len(DefaultLayouts) {
		for _, l := range DefaultLayouts {
			if t, err := time.Parse(l, s); err == nil {
				return t
			}
		}
	}
	return time.Unix(0, 0).UTC()
}

// Apply filters items by status and search, then sorts newest first. The
// input slice is left untouched.
func Apply[T any](items []T, spec Spec[T], status, search string) []T {
	out := make([]T, 0, len(items))
	for i := range items {
		rec := &items[i]
		if spec.Status != nil && !MatchStatus(status, spec.Status(rec)) {
			continue
		}
		if spec.Search != nil && !MatchSearch(search, spec.Search(rec)) {
			continue
		}
		out = append(out, *rec)
	}
	Sort(out, spec)
	return out
}

// Sort orders by createdAt descending, id ascending on ties.
func Sort[T any](items []T, spec Spec[T]) {
	if spec.CreatedAt == nil {
		return
	}
	keys := make([]int64, len(items))
	for i := range items {
		keys[i] = ParseDate(spec.CreatedAt(&items[i]), spec.Layouts).UnixNano()
	}
	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ka, kb := keys[idx[a]], keys[idx[b]]
		if ka != kb {
			return ka > kb
		}
		if spec.ID == nil {
			return false
		}
		return spec.ID(&items[idx[a]]) < spec.ID(&items[idx[b]])
	})
	sorted := make([]T, len(items))
	for i, j := range idx {
		sorted[i] = items[j]
	}
	copy(items, sorted)
}
