package docstore

import (
	"context"
	"reflect"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps documents in process. It backs DOC_STORE=memory and the
// tests, which can inject per-operation failures.
type MemoryStore struct {
	mu     sync.RWMutex
	colls  map[string]map[string]map[string]any
	order  map[string][]string
	fail   map[string]error
	writes int
	reads  int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		colls: map[string]map[string]map[string]any{},
		order: map[string][]string{},
		fail:  map[string]error{},
	}
}

// FailOn makes every call of op ("list", "get", "query", "add", "set",
// "update", "delete") return err. A nil err clears the failure.
func (m *MemoryStore) FailOn(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.fail, op)
		return
	}
	m.fail[op] = err
}

// Writes counts add/set/update/delete calls that reached the store.
func (m *MemoryStore) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

func (m *MemoryStore) Reads() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reads
}

// Seed puts a document at id without counting it as a write.
func (m *MemoryStore) Seed(collection, id string, data map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(collection, id, cloneData(data))
}

func (m *MemoryStore) put(collection, id string, data map[string]any) {
	c, ok := m.colls[collection]
	if !ok {
		c = map[string]map[string]any{}
		m.colls[collection] = c
	}
	if _, exists := c[id]; !exists {
		m.order[collection] = append(m.order[collection], id)
	}
	c[id] = data
}

func (m *MemoryStore) List(ctx context.Context, collection string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if err := m.fail["list"]; err != nil {
		return nil, err
	}
	c := m.colls[collection]
	out := make([]Document, 0, len(c))
	for _, id := range m.order[collection] {
		if data, ok := c[id]; ok {
			out = append(out, Document{ID: id, Data: cloneData(data)})
		}
	}
	return out, nil
}

func (m *MemoryStore) Get(ctx context.Context, collection, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if err := m.fail["get"]; err != nil {
		return Document{}, err
	}
	data, ok := m.colls[collection][id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return Document{ID: id, Data: cloneData(data)}, nil
}

func (m *MemoryStore) Query(ctx context.Context, collection, field string, value any) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if err := m.fail["query"]; err != nil {
		return nil, err
	}
	var out []Document
	for _, id := range m.order[collection] {
		data, ok := m.colls[collection][id]
		if !ok {
			continue
		}
		if v, ok := data[field]; ok && reflect.DeepEqual(v, value) {
			out = append(out, Document{ID: id, Data: cloneData(data)})
		}
	}
	return out, nil
}

func (m *MemoryStore) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if err := m.fail["add"]; err != nil {
		return "", err
	}
	id := uuid.NewString()
	m.put(collection, id, cloneData(data))
	return id, nil
}

func (m *MemoryStore) Set(ctx context.Context, collection, id string, data map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if err := m.fail["set"]; err != nil {
		return err
	}
	m.put(collection, id, cloneData(data))
	return nil
}

func (m *MemoryStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if err := m.fail["update"]; err != nil {
		return err
	}
	data, ok := m.colls[collection][id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range fields {
		data[k] = v
	}
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if err := m.fail["delete"]; err != nil {
		return err
	}
	c := m.colls[collection]
	if _, ok := c[id]; !ok {
		return nil
	}
	delete(c, id)
	ids := m.order[collection]
	for i, v := range ids {
		if v == id {
			m.order[collection] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

// Collections lists the collection names that hold at least one document.
func (m *MemoryStore) Collections() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.colls))
	for name, c := range m.colls {
		if len(c) > 0 {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
