package helper

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrUnauthorized   = errors.New("object store: unauthorized")
	ErrObjectNotFound = errors.New("object store: object not found")
)

// ProgressFunc receives the transferred percentage, 0 to 100.
type ProgressFunc func(pct float64)

// ObjectStore is where gallery and homepage media live.
type ObjectStore interface {
	// Upload sends the local file at src to key.
	Upload(ctx context.Context, key, src, contentType string, progress ProgressFunc) error
	// URL returns a URL the public site can fetch the object from.
	URL(ctx context.Context, key string) (string, error)
	// Delete removes key; a missing object is not an error.
	Delete(ctx context.Context, key string) error
	BucketName() string
}

// KeyResolver maps a URL a store handed out back to its object key.
type KeyResolver interface {
	ExtractKeyFromPublicURL(publicURL string) (string, error)
}

// KeyFromURL recovers the key behind publicURL, for records that kept the
// URL but not the storage path.
func KeyFromURL(store ObjectStore, publicURL string) (string, error) {
	r, ok := store.(KeyResolver)
	if !ok {
		return "", errors.New("object store cannot resolve urls")
	}
	return r.ExtractKeyFromPublicURL(publicURL)
}

// keyAfterPrefix strips prefix and any query string from publicURL.
func keyAfterPrefix(publicURL, prefix string) (string, error) {
	if i := strings.Index(publicURL, "?"); i >= 0 {
		publicURL = publicURL[:i]
	}
	if !strings.HasPrefix(publicURL, prefix) || len(publicURL) == len(prefix) {
		return "", errors.New("url not served by this store: " + publicURL)
	}
	return strings.TrimPrefix(publicURL, prefix), nil
}

func IsUnauthorized(err error) bool { return errors.Is(err, ErrUnauthorized) }

// DetectContentType picks a content type from the extension, then sniffs the
// first 512 bytes when the extension says nothing useful.
func DetectContentType(path, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	ct := mime.TypeByExtension(ext)

	switch ext {
	case ".webp":
		return "image/webp"
	case ".avif":
		return "image/avif"
	case ".svg":
		return "image/svg+xml"
	}
	if ct != "" && ct != "application/octet-stream" {
		return ct
	}

	f, err := os.Open(path)
	if err != nil {
		return "application/octet-stream"
	}
	defer f.Close()
	head := make([]byte, 512)
	n, _ := io.ReadFull(f, head)
	if n == 0 {
		return "application/octet-stream"
	}
	return http.DetectContentType(head[:n])
}

func init() {
	_ = mime.AddExtensionType(".webp", "image/webp")
	_ = mime.AddExtensionType(".avif", "image/avif")
	_ = mime.AddExtensionType(".svg", "image/svg+xml")
	_ = mime.AddExtensionType(".mp4", "video/mp4")
	_ = mime.AddExtensionType(".webm", "video/webm")
}
