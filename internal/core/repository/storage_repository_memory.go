package repository

import (
	"context"
	"sync"
)

// MemoryStorageRepository keeps entries in process memory. Nothing survives
// a restart.
type MemoryStorageRepository struct {
	mu     sync.RWMutex
	origin string
	items  map[string]string
}

func NewMemoryStorageRepository(origin string) *MemoryStorageRepository {
	return &MemoryStorageRepository{origin: origin, items: make(map[string]string)}
}

func (r *MemoryStorageRepository) Get(_ context.Context, key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.items[r.origin+"|"+key]
	return v, ok, nil
}

func (r *MemoryStorageRepository) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[r.origin+"|"+key] = value
	return nil
}

func (r *MemoryStorageRepository) Remove(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, r.origin+"|"+key)
	return nil
}
