package pipeline

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryBackend is a thread-safe in-process Backend. Listings are returned in lexical order.
type MemoryBackend struct {
	mu      sync.RWMutex
	exists  bool
	objects map[string][]byte
}

// NewMemoryBackend creates an empty MemoryBackend whose container does not exist yet.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{objects: make(map[string][]byte)}
}

func (m *MemoryBackend) ContainerExists(ctx context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.exists, nil
}

func (m *MemoryBackend) CreateContainer(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exists = true
	return nil
}

func (m *MemoryBackend) DeleteContainer(ctx context.Context, force bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.objects) > 0 && !force {
		return ErrContainerNotEmpty
	}
	m.objects = make(map[string][]byte)
	m.exists = false
	return nil
}

func (m *MemoryBackend) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	objects := make([]ObjectInfo, 0, len(m.objects))
	for name, data := range m.objects {
		if strings.HasPrefix(name, prefix) {
			objects = append(objects, ObjectInfo{Name: name, Size: int64(len(data))})
		}
	}
	sort.Slice(objects, func(i, j int) bool {
		return objects[i].Name < objects[j].Name
	})
	return objects, nil
}

func (m *MemoryBackend) Read(ctx context.Context, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[name]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return clone(data), nil
}

func (m *MemoryBackend) Write(ctx context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[strings.Clone(name)] = clone(data)
	return nil
}

func (m *MemoryBackend) Exists(ctx context.Context, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[name]
	return ok, nil
}

func (m *MemoryBackend) DeleteObject(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, name)
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
