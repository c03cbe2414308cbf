package helper

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/peterbourgon/diskv/v3"
	pkgerrors "github.com/pkg/errors"
)

// DiskStore keeps media under a local directory and serves it through the
// app's /media route.
type DiskStore struct {
	d       *diskv.Diskv
	baseURL string
	bucket  string
}

func keyToPath(key string) *diskv.PathKey {
	parts := strings.Split(strings.Trim(key, "/"), "/")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKey(pk *diskv.PathKey) string {
	if len(pk.Path) == 0 {
		return pk.FileName
	}
	return strings.Join(pk.Path, "/") + "/" + pk.FileName
}

func NewDiskStore(basePath, baseURL string) *DiskStore {
	return &DiskStore{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPath,
			InverseTransform:  pathToKey,
			CacheSizeMax:      8 * 1024 * 1024,
		}),
		baseURL: strings.TrimRight(baseURL, "/"),
		bucket:  basePath,
	}
}

func (s *DiskStore) BucketName() string { return s.bucket }

func (s *DiskStore) Upload(ctx context.Context, key, src, _ string, progress ProgressFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.Open(src)
	if err != nil {
		return pkgerrors.Wrap(err, "open upload")
	}
	defer f.Close()

	var total int64
	if st, err := f.Stat(); err == nil {
		total = st.Size()
	}
	r := io.Reader(f)
	if progress != nil {
		progress(0)
		r = &progressReader{r: f, total: total, fn: progress}
	}
	if err := s.d.WriteStream(key, r, true); err != nil {
		if os.IsPermission(err) {
			return pkgerrors.Wrap(ErrUnauthorized, err.Error())
		}
		return pkgerrors.Wrap(err, "write "+key)
	}
	if progress != nil {
		progress(100)
	}
	return nil
}

func (s *DiskStore) URL(_ context.Context, key string) (string, error) {
	if !s.d.Has(key) {
		return "", ErrObjectNotFound
	}
	return s.baseURL + "/" + key, nil
}

func (s *DiskStore) ExtractKeyFromPublicURL(publicURL string) (string, error) {
	return keyAfterPrefix(publicURL, s.baseURL+"/")
}

func (s *DiskStore) Delete(_ context.Context, key string) error {
	if !s.d.Has(key) {
		return nil
	}
	return pkgerrors.Wrap(s.d.Erase(key), "erase "+key)
}

// Open streams a stored object for the /media route.
func (s *DiskStore) Open(key string) (io.ReadCloser, error) {
	if !s.d.Has(key) {
		return nil, ErrObjectNotFound
	}
	return s.d.ReadStream(key, false)
}

type progressReader struct {
	r     io.Reader
	total int64
	read  int64
	fn    ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)
	if p.total > 0 && n > 0 {
		p.fn(float64(p.read) * 100 / float64(p.total))
	}
	return n, err
}
