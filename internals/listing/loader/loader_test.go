package loader

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schooladmin_backend/internals/docstore"
	"schooladmin_backend/internals/listing/record"
)

type applicant struct {
	ID, Name, Email, Phone, Status, CreatedAt, UpdatedAt string
}

var applicantKind = &record.Kind[applicant]{
	Name:         "applicants",
	Label:        "applicants",
	Collection:   "applicants",
	FilterDomain: record.Statuses,
	Fields: []record.Field[applicant]{
		{Name: "name", Keys: []string{"fullName", "name"}, Editable: true,
			Get: func(a *applicant) string { return a.Name }, Set: func(a *applicant, v string) { a.Name = v }},
		{Name: "email", Keys: []string{"emailId", "email"}, Editable: true,
			Get: func(a *applicant) string { return a.Email }, Set: func(a *applicant, v string) { a.Email = v }},
		{Name: "phone", Keys: []string{"mobileNo", "phone"},
			Get: func(a *applicant) string { return a.Phone }, Set: func(a *applicant, v string) { a.Phone = v }},
		{Name: "status", Keys: []string{"status"}, Default: record.StatusNew, Editable: true,
			Get: func(a *applicant) string { return a.Status }, Set: func(a *applicant, v string) { a.Status = v }},
		{Name: "createdAt", Keys: []string{"createdAt"}, Timestamp: true,
			Get: func(a *applicant) string { return a.CreatedAt }, Set: func(a *applicant, v string) { a.CreatedAt = v }},
		{Name: "updatedAt", Keys: []string{"updatedAt"}, Timestamp: true, FallbackTo: "createdAt",
			Get: func(a *applicant) string { return a.UpdatedAt }, Set: func(a *applicant, v string) { a.UpdatedAt = v }},
	},
	ID:     func(a *applicant) string { return a.ID },
	SetID:  func(a *applicant, v string) { a.ID = v },
	Search: func(a *applicant) []string { return []string{a.Name, a.Email} },
}

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type customDate struct{ t time.Time }

func (c customDate) ToDate() time.Time { return c.t }

func TestDecodeFallbackChains(t *testing.T) {
	doc := docstore.Document{ID: "1", Data: map[string]any{
		"fullName": "",
		"name":     "Legacy Name",
		"emailId":  "new@x.com",
		"email":    "old@x.com",
		"phone":    "555",
	}}
	a := Decode(applicantKind, doc, fixedNow, DefaultLayout)
	assert.Equal(t, "1", a.ID)
	assert.Equal(t, "Legacy Name", a.Name)
	assert.Equal(t, "new@x.com", a.Email)
	assert.Equal(t, "555", a.Phone)
	assert.Equal(t, record.StatusNew, a.Status)
	assert.Equal(t, "06/15/2024", a.CreatedAt)
	assert.Equal(t, "06/15/2024", a.UpdatedAt)
}

func TestFormatTimestampRepresentations(t *testing.T) {
	at := time.Date(2023, 11, 2, 9, 30, 0, 0, time.UTC)

	s, ok := FormatTimestamp(docstore.At(at), fixedNow, "")
	assert.True(t, ok)
	assert.Equal(t, "11/02/2023", s)

	s, _ = FormatTimestamp(customDate{t: at}, fixedNow, "")
	assert.Equal(t, "11/02/2023", s)

	s, _ = FormatTimestamp("2023-11-02T09:30:00Z", fixedNow, "")
	assert.Equal(t, "11/02/2023", s)

	s, _ = FormatTimestamp(float64(at.UnixMilli()), fixedNow, "")
	assert.Equal(t, at.Local().Format(DefaultLayout), s)

	s, ok = FormatTimestamp(nil, fixedNow, "")
	assert.False(t, ok)
	assert.Equal(t, "06/15/2024", s)

	s, _ = FormatTimestamp("not a date", fixedNow, "")
	assert.Equal(t, InvalidDate, s)

	s, _ = FormatTimestamp(docstore.At(at), fixedNow, "2006-01-02")
	assert.Equal(t, "2023-11-02", s)
}

func TestLoaderRefreshSortsAndKeepsStaleOnError(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	store.Seed("applicants", "a", map[string]any{"name": "A", "createdAt": docstore.At(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))})
	store.Seed("applicants", "b", map[string]any{"name": "B", "createdAt": docstore.At(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))})

	l := New(applicantKind, store, WithClock(clock))
	started, err := l.Refresh(ctx)
	require.True(t, started)
	require.NoError(t, err)

	st := l.State()
	require.Len(t, st.Items, 2)
	assert.Equal(t, "b", st.Items[0].ID)
	assert.True(t, st.Loaded)
	assert.Empty(t, st.Error)

	store.FailOn("list", docstore.ErrPermissionDenied)
	_, err = l.Refresh(ctx)
	require.Error(t, err)
	st = l.State()
	assert.Len(t, st.Items, 2)
	assert.Equal(t, "Failed to load applicants. Please check document store permissions.", st.Error)
	assert.False(t, st.Loading)

	store.FailOn("list", nil)
	_, err = l.Refresh(ctx)
	require.NoError(t, err)
	assert.Empty(t, l.State().Error)
}

// gateStore blocks List until released.
type gateStore struct {
	*docstore.MemoryStore
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gateStore) List(ctx context.Context, coll string) ([]docstore.Document, error) {
	g.once.Do(func() { close(g.entered) })
	select {
	case <-g.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return g.MemoryStore.List(ctx, coll)
}

func TestLoaderCoalescesRefresh(t *testing.T) {
	ctx := context.Background()
	g := &gateStore{MemoryStore: docstore.NewMemoryStore(), entered: make(chan struct{}), release: make(chan struct{})}
	l := New(applicantKind, g, WithClock(clock))

	result := make(chan error, 1)
	go func() {
		_, err := l.Refresh(ctx)
		result <- err
	}()
	<-g.entered

	assert.True(t, l.State().Loading)
	started, err := l.Refresh(ctx)
	assert.False(t, started)
	assert.NoError(t, err)

	waited := make(chan error, 1)
	go func() { waited <- l.Ensure(ctx) }()

	close(g.release)
	require.NoError(t, <-result)
	require.NoError(t, <-waited)
	assert.Equal(t, 1, g.Reads())
}

func TestLoaderLocalEdits(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	store.Seed("applicants", "a", map[string]any{"name": "A", "createdAt": "01/01/2024"})
	store.Seed("applicants", "b", map[string]any{"name": "B", "createdAt": "02/01/2024"})
	l := New(applicantKind, store, WithClock(clock))
	require.NoError(t, l.Ensure(ctx))

	rec, ok := l.Find("a")
	require.True(t, ok)
	rec.Name = "changed"
	assert.Equal(t, "A", mustFind(t, l, "a").Name)

	assert.True(t, l.Replace(rec))
	assert.Equal(t, "changed", mustFind(t, l, "a").Name)
	assert.Equal(t, "B", mustFind(t, l, "b").Name)

	l.Insert(applicant{ID: "c", CreatedAt: "03/01/2024"})
	assert.Equal(t, "c", l.State().Items[0].ID)

	assert.True(t, l.Remove("c"))
	assert.False(t, l.Remove("c"))
	assert.Len(t, l.State().Items, 2)
}

func TestEnsureReportsError(t *testing.T) {
	store := docstore.NewMemoryStore()
	boom := errors.New("boom")
	store.FailOn("list", boom)
	l := New(applicantKind, store)
	assert.ErrorIs(t, l.Ensure(context.Background()), boom)
}

func TestEnsureWaiterSeesFailedFirstLoad(t *testing.T) {
	ctx := context.Background()
	g := &gateStore{MemoryStore: docstore.NewMemoryStore(), entered: make(chan struct{}), release: make(chan struct{})}
	boom := errors.New("boom")
	g.FailOn("list", boom)
	l := New(applicantKind, g, WithClock(clock))

	first := make(chan error, 1)
	go func() { first <- l.Ensure(ctx) }()
	<-g.entered

	second := make(chan error, 1)
	go func() { second <- l.Ensure(ctx) }()

	close(g.release)
	assert.ErrorIs(t, <-first, boom)
	assert.ErrorIs(t, <-second, boom)
	assert.False(t, l.State().Loaded)
}

func TestRefreshSurvivesCallerCancel(t *testing.T) {
	g := &gateStore{MemoryStore: docstore.NewMemoryStore(), entered: make(chan struct{}), release: make(chan struct{})}
	g.Seed("applicants", "a", map[string]any{"name": "A", "createdAt": "01/01/2024"})
	l := New(applicantKind, g, WithClock(clock))

	cctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() {
		_, err := l.Refresh(cctx)
		result <- err
	}()
	<-g.entered
	cancel()
	assert.ErrorIs(t, <-result, context.Canceled)
	assert.True(t, l.State().Loading)

	close(g.release)
	require.NoError(t, l.Ensure(context.Background()))
	st := l.State()
	assert.True(t, st.Loaded)
	assert.Empty(t, st.Error)
	assert.Len(t, st.Items, 1)
}

func mustFind(t *testing.T, l *Loader[applicant], id string) applicant {
	t.Helper()
	rec, ok := l.Find(id)
	require.True(t, ok)
	return rec
}
