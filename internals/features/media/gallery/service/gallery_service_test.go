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
	"schooladmin_backend/internals/features/media/gallery/model"
	"schooladmin_backend/internals/features/media/upload"
	ossHelper "schooladmin_backend/internals/helpers/oss"
	"schooladmin_backend/internals/listing/loader"
	"schooladmin_backend/internals/listing/record"
)

var fixed = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func newGallery(t *testing.T) (*GalleryService, *docstore.MemoryStore, *ossHelper.MemoryStore) {
	t.Helper()
	docs := docstore.NewMemoryStore()
	docs.Seed(model.Collection, "old", map[string]any{
		"url": "https://cdn/old.jpg", "name": "old.jpg", "fullPath": "gallery/1_old.jpg",
		"createdAt": docstore.At(fixed.AddDate(-1, 0, 0)),
	})
	objects := ossHelper.NewMemoryStore("school-media")
	items := loader.New(model.Kind, docs, loader.WithClock(func() time.Time { return fixed }))
	return NewGalleryService(items, objects, ossHelper.WebPOptions{}, "school-admin"), docs, objects
}

func batch(t *testing.T, files ...upload.File) *upload.Batch {
	t.Helper()
	dir := t.TempDir()
	for i := range files {
		files[i].Path = filepath.Join(dir, files[i].Name)
		require.NoError(t, os.WriteFile(files[i].Path, []byte("data-"+files[i].Name), 0o600))
	}
	return &upload.Batch{Files: files}
}

func TestUploadStoresObjectsThenDocuments(t *testing.T) {
	svc, docs, objects := newGallery(t)
	ctx := context.Background()

	items, err := svc.Upload(ctx, batch(t,
		upload.File{Name: "a.jpg", ContentType: "image/jpeg"},
		upload.File{Name: "b.mp4", ContentType: "video/mp4"},
	), "senior")
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "gallery/1709287200000_a.jpg", items[0].FullPath)
	assert.Equal(t, "gallery/1709287200001_b.mp4", items[1].FullPath)
	assert.Equal(t, "image", items[0].Type)
	assert.Equal(t, "video", items[1].Type)
	assert.Equal(t, "Senior", items[1].Category)
	assert.True(t, objects.Has(items[1].FullPath))
	assert.Equal(t, "video/mp4", objects.ContentType(items[1].FullPath))

	doc, err := docs.Get(ctx, model.Collection, items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, items[0].URL, doc.Data["url"])

	st := svc.Tracker.Status()
	assert.Equal(t, upload.Succeeded, st.Phase)
	assert.True(t, st.Files[0].Done)
	assert.True(t, st.Files[1].Done)

	senior, _, err := svc.List(ctx, "Senior")
	require.NoError(t, err)
	assert.Len(t, senior, 2)

	// legacy items without a category read as Junior
	junior, _, err := svc.List(ctx, "Junior")
	require.NoError(t, err)
	require.Len(t, junior, 1)
	assert.Equal(t, "old", junior[0].ID)

	all, _, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "old", all[2].ID)
}

func TestUploadRejectsUnknownCategory(t *testing.T) {
	svc, docs, objects := newGallery(t)

	_, err := svc.Upload(context.Background(), batch(t, upload.File{Name: "a.jpg", ContentType: "image/jpeg"}), "Seniors")
	var verr *record.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 0, docs.Writes())
	assert.Empty(t, objects.Keys())
	assert.Equal(t, upload.Idle, svc.Tracker.Status().Phase)

	_, err = svc.Upload(context.Background(), &upload.Batch{}, "")
	assert.ErrorIs(t, err, upload.ErrNoFiles)
}

func TestUploadDocumentFailureKeepsObject(t *testing.T) {
	svc, docs, objects := newGallery(t)
	docs.FailOn("add", docstore.ErrPermissionDenied)

	_, err := svc.Upload(context.Background(), batch(t, upload.File{Name: "a.jpg", ContentType: "image/jpeg"}), "")
	require.Error(t, err)
	assert.True(t, objects.Has("gallery/1709287200000_a.jpg"))

	st := svc.Tracker.Status()
	assert.Equal(t, upload.Failed, st.Phase)
	assert.Contains(t, st.Error, `project "school-admin"`)
	assert.Contains(t, st.Error, `"gallery" collection`)
}

func TestUploadObjectDenied(t *testing.T) {
	svc, docs, objects := newGallery(t)
	objects.FailOn("upload", ossHelper.ErrUnauthorized)

	_, err := svc.Upload(context.Background(), batch(t, upload.File{Name: "a.jpg", ContentType: "image/jpeg"}), "")
	require.Error(t, err)
	assert.Equal(t, 0, docs.Writes())
	assert.Contains(t, svc.Tracker.Status().Error, `bucket "school-media"`)
	assert.Contains(t, svc.Tracker.Status().Error, `"gallery/*" path`)
}

func TestDeleteRemovesObjectThenDocument(t *testing.T) {
	svc, docs, objects := newGallery(t)
	ctx := context.Background()

	objects.FailOn("delete", errors.New("network down"))
	_, err := svc.Delete(ctx, "old")
	assert.EqualError(t, err, "Failed to delete old.jpg: network down")
	_, err = docs.Get(ctx, model.Collection, "old")
	assert.NoError(t, err)

	objects.FailOn("delete", nil)
	item, err := svc.Delete(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, "old.jpg", item.Name)
	assert.Equal(t, []string{"gallery/1_old.jpg"}, objects.Deleted())
	_, err = docs.Get(ctx, model.Collection, "old")
	assert.True(t, docstore.IsNotFound(err))

	_, err = svc.Delete(ctx, "missing")
	assert.True(t, docstore.IsNotFound(err))
}
