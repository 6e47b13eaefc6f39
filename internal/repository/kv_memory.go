package repository

import (
	"context"
	"sync"
)

type memoryKVRepository struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

// NewMemoryKVRepository keeps everything in process memory. Used for local
// runs without a database and in tests.
func NewMemoryKVRepository() KVRepository {
	return &memoryKVRepository{data: make(map[string]map[string]string)}
}

func (r *memoryKVRepository) Get(_ context.Context, namespace, key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.data[namespace][key]
	return v, ok, nil
}

func (r *memoryKVRepository) Set(_ context.Context, namespace, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ns, ok := r.data[namespace]
	if !ok {
		ns = make(map[string]string)
		r.data[namespace] = ns
	}
	ns[key] = value
	return nil
}
