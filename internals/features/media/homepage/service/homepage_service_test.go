package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schooladmin_backend/internals/docstore"
	"schooladmin_backend/internals/features/media/homepage/model"
	"schooladmin_backend/internals/features/media/upload"
	ossHelper "schooladmin_backend/internals/helpers/oss"
	"schooladmin_backend/internals/listing/record"
)

func newHomepage(t *testing.T) (*HomepageService, *docstore.MemoryStore, *ossHelper.MemoryStore) {
	t.Helper()
	docs := docstore.NewMemoryStore()
	objects := ossHelper.NewMemoryStore("school-media")
	svc := NewHomepageService(docs, objects, ossHelper.WebPOptions{}, "school-admin", "")
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }
	return svc, docs, objects
}

func file(t *testing.T, name, ct string) *upload.File {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(name), 0o600))
	return &upload.File{Path: p, Name: name, ContentType: ct}
}

func TestReplaceBanner(t *testing.T) {
	svc, docs, objects := newHomepage(t)
	ctx := context.Background()

	cur, err := svc.Current(ctx, model.Banner)
	require.NoError(t, err)
	assert.Nil(t, cur)

	m, err := svc.Replace(ctx, model.Banner, file(t, "front.jpg", "image/jpeg"))
	require.NoError(t, err)
	assert.Equal(t, "homepage/homepage_banner_1709287200000_front.jpg", m.FullPath)
	assert.Equal(t, "front.jpg", m.Name)
	assert.Equal(t, "03/01/2024", m.UpdatedAt)

	doc, err := docs.Get(ctx, model.Collection, "banner")
	require.NoError(t, err)
	assert.Equal(t, m.URL, doc.Data["url"])
	assert.Equal(t, m.FullPath, doc.Data["fullPath"])

	cur, err = svc.Current(ctx, model.Banner)
	require.NoError(t, err)
	assert.Equal(t, m.URL, cur.URL)
	assert.Equal(t, upload.Succeeded, svc.Tracker(model.Banner).Status().Phase)
	assert.Equal(t, upload.Idle, svc.Tracker(model.Video).Status().Phase)
	assert.True(t, objects.Has(m.FullPath))
}

func TestReplaceDeletesOldObjectBestEffort(t *testing.T) {
	svc, docs, objects := newHomepage(t)
	ctx := context.Background()
	docs.Seed(model.Collection, "video", map[string]any{
		"url": "https://cdn/old.mp4", "name": "old.mp4", "fullPath": "homepage/homepage_video_1_old.mp4",
	})

	objects.FailOn("delete", errors.New("object missing"))
	m, err := svc.Replace(ctx, model.Video, file(t, "tour.mp4", "video/mp4"))
	require.NoError(t, err)
	assert.Equal(t, "homepage/homepage_video_1709287200000_tour.mp4", m.FullPath)

	objects.FailOn("delete", nil)
	_, err = svc.Replace(ctx, model.Video, file(t, "tour2.mp4", "video/mp4"))
	require.NoError(t, err)
	assert.Equal(t, []string{"homepage/homepage_video_1709287200000_tour.mp4"}, objects.Deleted())
}

func TestReplaceValidatesType(t *testing.T) {
	svc, docs, objects := newHomepage(t)
	ctx := context.Background()

	_, err := svc.Replace(ctx, model.Banner, file(t, "clip.mp4", "video/mp4"))
	var verr *record.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Please select an image file", verr.Message)

	_, err = svc.Replace(ctx, model.Video, nil)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Please select a video file to upload", verr.Message)

	assert.Equal(t, 0, docs.Writes())
	assert.Empty(t, objects.Keys())
}

func TestReplacePointerFailure(t *testing.T) {
	svc, docs, objects := newHomepage(t)
	docs.FailOn("set", docstore.ErrPermissionDenied)

	_, err := svc.Replace(context.Background(), model.Banner, file(t, "front.jpg", "image/jpeg"))
	require.Error(t, err)
	assert.Len(t, objects.Keys(), 1)

	st := svc.Tracker(model.Banner).Status()
	assert.Equal(t, upload.Failed, st.Phase)
	assert.Contains(t, st.Error, `"homePage" collection`)
}

func TestReplaceDeletesLegacyPointerByURL(t *testing.T) {
	svc, docs, objects := newHomepage(t)
	ctx := context.Background()
	docs.Seed(model.Collection, "banner", map[string]any{
		"url": "https://school-media.local/homepage/legacy_banner.jpg", "name": "legacy_banner.jpg",
	})

	m, err := svc.Replace(ctx, model.Banner, file(t, "new.jpg", "image/jpeg"))
	require.NoError(t, err)
	assert.Equal(t, []string{"homepage/legacy_banner.jpg"}, objects.Deleted())
	assert.True(t, objects.Has(m.FullPath))
}

func TestReplaceSkipsDeleteForForeignURL(t *testing.T) {
	svc, docs, objects := newHomepage(t)
	ctx := context.Background()
	docs.Seed(model.Collection, "video", map[string]any{
		"url": "https://firebasestorage.example/v0/b/old/o/tour.mp4", "name": "tour.mp4",
	})

	_, err := svc.Replace(ctx, model.Video, file(t, "tour.mp4", "video/mp4"))
	require.NoError(t, err)
	assert.Empty(t, objects.Deleted())
}
