package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"

	"schooladmin_backend/internals/docstore"
	"schooladmin_backend/internals/features/media/homepage/model"
	"schooladmin_backend/internals/features/media/upload"
	ossHelper "schooladmin_backend/internals/helpers/oss"
	"schooladmin_backend/internals/listing/loader"
	"schooladmin_backend/internals/listing/record"
)

// HomepageService replaces the banner and video singletons.
type HomepageService struct {
	Docs     docstore.Store
	Objects  ossHelper.ObjectStore
	WebP     ossHelper.WebPOptions
	Project  string
	Layout   string
	trackers map[string]*upload.Tracker
	now      func() time.Time
}

func NewHomepageService(docs docstore.Store, objects ossHelper.ObjectStore, webp ossHelper.WebPOptions, project, layout string) *HomepageService {
	if layout == "" {
		layout = loader.DefaultLayout
	}
	return &HomepageService{
		Docs:    docs,
		Objects: objects,
		WebP:    webp,
		Project: project,
		Layout:  layout,
		trackers: map[string]*upload.Tracker{
			model.Banner.ID: upload.NewTracker(),
			model.Video.ID:  upload.NewTracker(),
		},
		now: time.Now,
	}
}

func (s *HomepageService) Tracker(slot model.Slot) *upload.Tracker { return s.trackers[slot.ID] }

func (s *HomepageService) Target() upload.Target {
	return upload.Target{
		Bucket:     s.Objects.BucketName(),
		Project:    s.Project,
		Path:       model.PathPrefix,
		Collection: model.Collection,
	}
}

// LoadError is shown when the current pointer cannot be read.
func LoadError(slot model.Slot) string {
	return fmt.Sprintf("Failed to load current %s. Please check document store permissions.", slot.Label)
}

// Current returns the slot's pointer, or nil when none was ever written.
func (s *HomepageService) Current(ctx context.Context, slot model.Slot) (*model.Media, error) {
	doc, err := s.Docs.Get(ctx, model.Collection, slot.ID)
	if docstore.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m := &model.Media{}
	m.URL, _ = doc.Data["url"].(string)
	m.Name, _ = doc.Data["name"].(string)
	m.FullPath, _ = doc.Data["fullPath"].(string)
	m.UpdatedAt, _ = loader.FormatTimestamp(doc.Data["updatedAt"], s.now(), s.Layout)
	return m, nil
}

func checkType(slot model.Slot, f upload.File) error {
	if !strings.HasPrefix(strings.ToLower(f.ContentType), slot.Accept) {
		return &record.ValidationError{
			Message: slot.WrongType,
			Fields:  map[string]string{"file": "content type " + f.ContentType},
		}
	}
	return nil
}

// Replace swaps the slot's media for f. The old object is deleted first,
// best effort; the new object is uploaded and the pointer overwritten.
func (s *HomepageService) Replace(ctx context.Context, slot model.Slot, f *upload.File) (*model.Media, error) {
	if f == nil {
		return nil, &record.ValidationError{Message: slot.EmptyInput}
	}
	if err := checkType(slot, *f); err != nil {
		return nil, err
	}
	tr := s.Tracker(slot)
	if err := tr.Begin([]string{f.Name}); err != nil {
		return nil, err
	}

	m, err := s.replace(ctx, slot, *f, tr)
	if err != nil {
		log.Printf("[ERROR] homepage %s upload: %v", slot.ID, err)
		tr.Fail(upload.Classify(err, s.Target()))
		return nil, err
	}
	tr.FileDone(0)
	tr.Succeed(fmt.Sprintf("Homepage %s updated", slot.Label))
	return m, nil
}

// oldKey is the stored object behind current. Older pointers carry only
// the url, so the key is recovered from it.
func (s *HomepageService) oldKey(slot model.Slot, current *model.Media) string {
	if current == nil {
		return ""
	}
	if current.FullPath != "" {
		return current.FullPath
	}
	if current.URL == "" {
		return ""
	}
	key, err := ossHelper.KeyFromURL(s.Objects, current.URL)
	if err != nil {
		log.Printf("[WARN] old homepage %s url %s: %v", slot.ID, current.URL, err)
		return ""
	}
	return key
}

func (s *HomepageService) replace(ctx context.Context, slot model.Slot, f upload.File, tr *upload.Tracker) (*model.Media, error) {
	current, err := s.Current(ctx, slot)
	if err != nil {
		log.Printf("[WARN] read current homepage %s: %v", slot.ID, err)
	}
	if old := s.oldKey(slot, current); old != "" {
		if err := s.Objects.Delete(ctx, old); err != nil {
			log.Printf("[WARN] delete old homepage %s %s: %v", slot.ID, old, err)
		}
	}

	path, name, ct := f.Path, f.Name, f.ContentType
	if slot.ID == model.Banner.ID {
		if p, n, c, err := ossHelper.OptimizeImage(path, name, ct, s.WebP); err != nil {
			log.Printf("[WARN] webp %s: %v, uploading original", name, err)
		} else {
			path, name, ct = p, n, c
		}
	}

	now := s.now()
	key := fmt.Sprintf("%s/homepage_%s_%d_%s", model.PathPrefix, slot.ID, now.UnixMilli(), name)
	if err := s.Objects.Upload(ctx, key, path, ct, func(pct float64) { tr.Progress(0, pct) }); err != nil {
		return nil, upload.ObjectFailed(err)
	}
	url, err := s.Objects.URL(ctx, key)
	if err != nil {
		return nil, upload.ObjectFailed(err)
	}

	m := &model.Media{URL: url, Name: f.Name, FullPath: key}
	if err := s.Docs.Set(ctx, model.Collection, slot.ID, m.Document(now)); err != nil {
		return nil, upload.DocumentFailed(pkgerrors.Wrapf(err, "set %s/%s", model.Collection, slot.ID))
	}
	m.UpdatedAt = now.Format(s.Layout)
	log.Printf("[INFO] homepage %s now %s", slot.ID, key)
	return m, nil
}
