package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schooladmin_backend/internals/docstore"
)

func TestCountsJoinsEveryCollection(t *testing.T) {
	store := docstore.NewMemoryStore()
	store.Seed("jobApplications", "j1", map[string]any{})
	store.Seed("jobApplications", "j2", map[string]any{})
	store.Seed("admissionForms", "a1", map[string]any{})
	store.Seed("contactForms", "c1", map[string]any{})
	store.Seed("contactForms", "c2", map[string]any{})
	store.Seed("contactForms", "c3", map[string]any{})
	store.Seed("gallery", "g1", map[string]any{})

	counts, err := NewDashboardService(store).Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Counts{
		JobApplications:       2,
		AdmissionApplications: 1,
		ContactMessages:       3,
		JobPosts:              0,
		GalleryItems:          1,
	}, counts)
}

func TestCountsFailsAsAWhole(t *testing.T) {
	store := docstore.NewMemoryStore()
	store.Seed("jobApplications", "j1", map[string]any{})
	store.FailOn("list", errors.New("unavailable"))

	counts, err := NewDashboardService(store).Counts(context.Background())
	require.Error(t, err)
	assert.Equal(t, Counts{}, counts)
}
