package helper

import (
	"context"
	"os"
	"sort"
	"sync"

	pkgerrors "github.com/pkg/errors"
)

// MemoryStore holds objects in process for OBJECT_STORE=memory and tests.
type MemoryStore struct {
	mu      sync.Mutex
	bucket  string
	objects map[string][]byte
	types   map[string]string
	deleted []string
	fail    map[string]error
}

func NewMemoryStore(bucket string) *MemoryStore {
	return &MemoryStore{
		bucket:  bucket,
		objects: map[string][]byte{},
		types:   map[string]string{},
		fail:    map[string]error{},
	}
}

// FailOn makes "upload", "url" or "delete" return err; nil clears it.
func (m *MemoryStore) FailOn(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.fail, op)
		return
	}
	m.fail[op] = err
}

func (m *MemoryStore) BucketName() string { return m.bucket }

func (m *MemoryStore) Upload(ctx context.Context, key, src, contentType string, progress ProgressFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	err := m.fail["upload"]
	m.mu.Unlock()
	if progress != nil {
		progress(0)
	}
	if err != nil {
		return err
	}
	data, rerr := os.ReadFile(src)
	if rerr != nil {
		return pkgerrors.Wrap(rerr, "read upload")
	}
	if progress != nil {
		progress(50)
	}
	m.mu.Lock()
	m.objects[key] = data
	m.types[key] = contentType
	m.mu.Unlock()
	if progress != nil {
		progress(100)
	}
	return nil
}

func (m *MemoryStore) URL(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["url"]; err != nil {
		return "", err
	}
	if _, ok := m.objects[key]; !ok {
		return "", ErrObjectNotFound
	}
	return m.baseURL() + key, nil
}

func (m *MemoryStore) baseURL() string { return "https://" + m.bucket + ".local/" }

func (m *MemoryStore) ExtractKeyFromPublicURL(publicURL string) (string, error) {
	return keyAfterPrefix(publicURL, m.baseURL())
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["delete"]; err != nil {
		return err
	}
	delete(m.objects, key)
	delete(m.types, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *MemoryStore) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

func (m *MemoryStore) ContentType(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.types[key]
}

// Deleted lists the keys passed to Delete, in call order.
func (m *MemoryStore) Deleted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}

func (m *MemoryStore) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.objects))
	for k := range m.objects {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
