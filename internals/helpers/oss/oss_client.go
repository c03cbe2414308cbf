package helper

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	pkgerrors "github.com/pkg/errors"
)

const (
	ossPartSize = 1 << 20
	ossRoutines = 3
)

type OSSConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	SecurityToken string
	Bucket        string
	PublicBase    string
	// SignSeconds > 0 hands out signed GET URLs instead of public ones.
	SignSeconds int64
}

type OSSService struct {
	Client      *oss.Client
	Bucket      *oss.Bucket
	Endpoint    string
	BucketLabel string
	PublicBase  string
	SignSeconds int64
}

func NewOSSService(cfg OSSConfig) (*OSSService, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("missing env: ALI_OSS_ENDPOINT/ACCESS_KEY/SECRET_KEY/BUCKET")
	}

	var (
		client *oss.Client
		err    error
	)
	if cfg.SecurityToken != "" {
		client, err = oss.New(cfg.Endpoint, cfg.AccessKey, cfg.SecretKey, oss.SecurityToken(cfg.SecurityToken))
	} else {
		client, err = oss.New(cfg.Endpoint, cfg.AccessKey, cfg.SecretKey)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "oss.New")
	}

	bkt, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "client.Bucket")
	}

	if loc, err := client.GetBucketLocation(cfg.Bucket); err != nil {
		var se oss.ServiceError
		if errors.As(err, &se) && se.StatusCode == 403 {
			log.Printf("[OSS] warn: skip location check due to AccessDenied (bucket=%s)", cfg.Bucket)
		} else {
			return nil, pkgerrors.Wrap(err, "verify bucket")
		}
	} else {
		log.Printf("[OSS] bucket %s location: %s", cfg.Bucket, loc)
	}

	return &OSSService{
		Client:      client,
		Bucket:      bkt,
		Endpoint:    cfg.Endpoint,
		BucketLabel: cfg.Bucket,
		PublicBase:  strings.TrimRight(cfg.PublicBase, "/"),
		SignSeconds: cfg.SignSeconds,
	}, nil
}

func (s *OSSService) BucketName() string { return s.BucketLabel }

// progressListener forwards SDK transfer events as percentages.
type progressListener struct {
	fn ProgressFunc
}

func (p *progressListener) ProgressChanged(ev *oss.ProgressEvent) {
	if p.fn == nil || ev.TotalBytes <= 0 {
		return
	}
	switch ev.EventType {
	case oss.TransferStartedEvent, oss.TransferDataEvent, oss.TransferCompletedEvent:
		p.fn(float64(ev.ConsumedBytes) * 100 / float64(ev.TotalBytes))
	}
}

// Upload sends the file in parallel parts with a checkpoint file, so a
// retried upload resumes instead of starting over.
func (s *OSSService) Upload(ctx context.Context, key, src, contentType string, progress ProgressFunc) error {
	opts := []oss.Option{
		oss.WithContext(ctx),
		oss.Routines(ossRoutines),
		oss.Checkpoint(true, ""),
		oss.Progress(&progressListener{fn: progress}),
		oss.CacheControl("public, max-age=31536000, immutable"),
	}
	if contentType != "" {
		opts = append(opts, oss.ContentType(contentType))
	}
	if err := s.Bucket.UploadFile(key, src, ossPartSize, opts...); err != nil {
		return mapOSSErr(err, "upload "+key)
	}
	return nil
}

func (s *OSSService) URL(ctx context.Context, key string) (string, error) {
	if s.SignSeconds > 0 {
		u, err := s.Bucket.SignURL(key, oss.HTTPGet, s.SignSeconds, oss.WithContext(ctx))
		if err != nil {
			return "", mapOSSErr(err, "sign "+key)
		}
		return u, nil
	}
	return s.PublicURL(key), nil
}

func (s *OSSService) Delete(ctx context.Context, key string) error {
	err := s.Bucket.DeleteObject(key, oss.WithContext(ctx))
	if err != nil && !isNotFound(err) {
		return mapOSSErr(err, "delete "+key)
	}
	return nil
}

func (s *OSSService) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	if s.PublicBase != "" {
		return s.PublicBase + "/" + key
	}
	end := strings.TrimPrefix(strings.TrimPrefix(s.Endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.BucketLabel, end, key)
}

// ExtractKeyFromPublicURL recovers the object key from a URL this service
// produced.
func (s *OSSService) ExtractKeyFromPublicURL(publicURL string) (string, error) {
	if publicURL == "" {
		return "", fmt.Errorf("empty url")
	}
	if s.PublicBase != "" && strings.HasPrefix(publicURL, s.PublicBase+"/") {
		return strings.TrimPrefix(publicURL, s.PublicBase+"/"), nil
	}
	u := publicURL
	if i := strings.Index(u, "://"); i >= 0 {
		u = u[i+3:]
	}
	if i := strings.Index(u, "?"); i >= 0 {
		u = u[:i]
	}
	if i := strings.Index(u, "/"); i >= 0 {
		return u[i+1:], nil
	}
	return "", fmt.Errorf("cannot extract key from url: %s", publicURL)
}

func isNotFound(err error) bool {
	var se oss.ServiceError
	if errors.As(err, &se) {
		return se.StatusCode == 404
	}
	return false
}

func mapOSSErr(err error, op string) error {
	var se oss.ServiceError
	if errors.As(err, &se) {
		switch se.StatusCode {
		case 401, 403:
			return pkgerrors.Wrapf(ErrUnauthorized, "%s: %s", op, se.Code)
		case 404:
			return pkgerrors.Wrapf(ErrObjectNotFound, "%s: %s", op, se.Code)
		}
	}
	return pkgerrors.Wrap(err, op)
}
