package docstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	id, err := s.Add(ctx, "contactMessages", map[string]any{"email": "a@b.c", "status": "New"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	doc, err := s.Get(ctx, "contactMessages", id)
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", doc.Data["email"])

	require.NoError(t, s.Update(ctx, "contactMessages", id, map[string]any{"status": "Read"}))
	doc, _ = s.Get(ctx, "contactMessages", id)
	assert.Equal(t, "Read", doc.Data["status"])
	assert.Equal(t, "a@b.c", doc.Data["email"])

	assert.Equal(t, 2, s.Writes())

	// A rejected update still reached the store and counts.
	err = s.Update(ctx, "contactMessages", "missing", map[string]any{"status": "x"})
	assert.True(t, IsNotFound(err))
	assert.Equal(t, 3, s.Writes())

	require.NoError(t, s.Delete(ctx, "contactMessages", id))
	_, err = s.Get(ctx, "contactMessages", id)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, 4, s.Writes())
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.Seed("c", "1", map[string]any{"name": "a"})

	docs, err := s.List(ctx, "c")
	require.NoError(t, err)
	docs[0].Data["name"] = "mutated"

	doc, _ := s.Get(ctx, "c", "1")
	assert.Equal(t, "a", doc.Data["name"])
}

func TestMemoryStoreQueryAndFailures(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.Seed("admin", "1", map[string]any{"email": "x@y.z"})
	s.Seed("admin", "2", map[string]any{"email": "other@y.z"})

	docs, err := s.Query(ctx, "admin", "email", "x@y.z")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "1", docs[0].ID)

	boom := errors.New("boom")
	s.FailOn("list", boom)
	_, err = s.List(ctx, "admin")
	assert.ErrorIs(t, err, boom)
	s.FailOn("list", nil)
	_, err = s.List(ctx, "admin")
	assert.NoError(t, err)
}

func TestCodecRoundTripsTimestamps(t *testing.T) {
	at := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	b, err := Marshal(map[string]any{
		"createdAt": At(at),
		"name":      "x",
		"nested":    map[string]any{"updatedAt": At(at)},
	})
	require.NoError(t, err)

	data, err := Unmarshal(b)
	require.NoError(t, err)
	ts, ok := data["createdAt"].(Timestamp)
	require.True(t, ok)
	assert.True(t, ts.Equal(at))
	assert.Equal(t, "x", data["name"])
	nested := data["nested"].(map[string]any)
	_, ok = nested["updatedAt"].(Timestamp)
	assert.True(t, ok)
}

func TestCodecLeavesLookalikeMapsAlone(t *testing.T) {
	b, err := Marshal(map[string]any{"meta": map[string]any{timestampKey: "nope"}})
	require.NoError(t, err)
	data, err := Unmarshal(b)
	require.NoError(t, err)
	_, isTs := data["meta"].(Timestamp)
	assert.False(t, isTs)
}
