package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"schooladmin_backend/internals/constants"
	"schooladmin_backend/internals/features/media/gallery/model"
	"schooladmin_backend/internals/features/media/upload"
	ossHelper "schooladmin_backend/internals/helpers/oss"
	"schooladmin_backend/internals/listing/loader"
	"schooladmin_backend/internals/listing/pipeline"
	"schooladmin_backend/internals/listing/record"
)

// parallel uploads per batch
const uploadWorkers = 3

type GalleryService struct {
	Items   *loader.Loader[model.GalleryItem]
	Objects ossHelper.ObjectStore
	Tracker *upload.Tracker
	WebP    ossHelper.WebPOptions
	Project string
}

func NewGalleryService(items *loader.Loader[model.GalleryItem], objects ossHelper.ObjectStore, webp ossHelper.WebPOptions, project string) *GalleryService {
	return &GalleryService{
		Items:   items,
		Objects: objects,
		Tracker: upload.NewTracker(),
		WebP:    webp,
		Project: project,
	}
}

func (s *GalleryService) Target() upload.Target {
	return upload.Target{
		Bucket:     s.Objects.BucketName(),
		Project:    s.Project,
		Path:       model.PathPrefix,
		Collection: model.Collection,
	}
}

// Category resolves a requested category; empty means the default.
func Category(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return constants.DefaultCategory, nil
	}
	for _, c := range constants.Categories {
		if strings.EqualFold(c, raw) {
			return c, nil
		}
	}
	return "", &record.ValidationError{
		Message: "Invalid category",
		Fields:  map[string]string{"category": "must be one of " + strings.Join(constants.Categories, ", ")},
	}
}

// List returns the gallery newest first, narrowed to category unless it
// is empty or "All".
func (s *GalleryService) List(ctx context.Context, category string) ([]model.GalleryItem, string, error) {
	if category != "" && !strings.EqualFold(category, pipeline.All) {
		c, err := Category(category)
		if err != nil {
			return nil, "", err
		}
		category = c
	} else {
		category = pipeline.All
	}
	err := s.Items.Ensure(ctx)
	st := s.Items.State()
	if err != nil && !st.Loaded {
		return nil, st.Error, err
	}
	return pipeline.Apply(st.Items, s.Items.Spec(), category, ""), st.Error, nil
}

// Upload stores every file of the batch under gallery/<ms>_<name> and adds
// its document. A failed document write fails the batch even though the
// object was stored.
func (s *GalleryService) Upload(ctx context.Context, batch *upload.Batch, category string) ([]model.GalleryItem, error) {
	if batch == nil || len(batch.Files) == 0 {
		return nil, upload.ErrNoFiles
	}
	cat, err := Category(category)
	if err != nil {
		return nil, err
	}
	if err := s.Tracker.Begin(batch.Names()); err != nil {
		return nil, err
	}

	base := s.Items.Now().UnixMilli()
	created := make([]model.GalleryItem, len(batch.Files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadWorkers)
	for i, f := range batch.Files {
		g.Go(func() error {
			item, err := s.uploadOne(gctx, i, f, cat, base+int64(i))
			if err != nil {
				return err
			}
			created[i] = item
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		msg := upload.Classify(err, s.Target())
		log.Printf("[ERROR] gallery upload: %v", err)
		s.Tracker.Fail(msg)
		return nil, err
	}
	s.Tracker.Succeed(fmt.Sprintf("%d file(s) uploaded", len(created)))
	return created, nil
}

func (s *GalleryService) uploadOne(ctx context.Context, i int, f upload.File, category string, ms int64) (model.GalleryItem, error) {
	path, name, ct := f.Path, f.Name, f.ContentType
	if constants.DetectMediaKind(name, ct) == constants.MediaImage {
		p, n, c, err := ossHelper.OptimizeImage(path, name, ct, s.WebP)
		if err != nil {
			log.Printf("[WARN] webp %s: %v, uploading original", name, err)
		} else {
			path, name, ct = p, n, c
		}
	}

	key := fmt.Sprintf("%s/%d_%s", model.PathPrefix, ms, name)
	progress := func(pct float64) { s.Tracker.Progress(i, pct) }
	if err := s.Objects.Upload(ctx, key, path, ct, progress); err != nil {
		return model.GalleryItem{}, upload.ObjectFailed(err)
	}
	url, err := s.Objects.URL(ctx, key)
	if err != nil {
		return model.GalleryItem{}, upload.ObjectFailed(err)
	}

	kind := constants.MediaImage
	if constants.DetectMediaKind(f.Name, f.ContentType) == constants.MediaVideo {
		kind = constants.MediaVideo
	}
	now := s.Items.Now()
	item := model.GalleryItem{URL: url, Name: f.Name, Type: kind, FullPath: key, Category: category}
	id, err := s.Items.Store().Add(ctx, model.Collection, item.Document(now))
	if err != nil {
		return model.GalleryItem{}, upload.DocumentFailed(err)
	}
	item.ID = id
	item.CreatedAt = now.Format(s.Items.Layout())
	s.Items.Insert(item)
	s.Tracker.FileDone(i)
	log.Printf("[INFO] gallery %s stored at %s", id, key)
	return item, nil
}

// Delete removes the object, then the document.
func (s *GalleryService) Delete(ctx context.Context, id string) (model.GalleryItem, error) {
	item, err := s.find(ctx, id)
	if err != nil {
		return model.GalleryItem{}, err
	}
	if item.FullPath != "" {
		if err := s.Objects.Delete(ctx, item.FullPath); err != nil {
			return item, pkgerrors.Wrapf(err, "Failed to delete %s", item.Name)
		}
	}
	if err := s.Items.Store().Delete(ctx, model.Collection, id); err != nil {
		return item, pkgerrors.Wrapf(err, "Failed to delete %s", item.Name)
	}
	s.Items.Remove(id)
	return item, nil
}

func (s *GalleryService) find(ctx context.Context, id string) (model.GalleryItem, error) {
	if item, ok := s.Items.Find(id); ok {
		return item, nil
	}
	doc, err := s.Items.Store().Get(ctx, model.Collection, id)
	if err != nil {
		return model.GalleryItem{}, err
	}
	return loader.Decode(model.Kind, doc, s.Items.Now(), s.Items.Layout()), nil
}
