package snapshots

import (
	"bytes"
	"context"
	"sync"
)

// MemoryRepository keeps snapshots in process memory. The mirror uses it when
// no database DSN is configured.
type MemoryRepository struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{docs: make(map[string][]byte)}
}

func (r *MemoryRepository) Get(ctx context.Context, clientID string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[clientID]
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(doc), nil
}

func (r *MemoryRepository) Put(ctx context.Context, clientID string, document []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.docs[clientID] = bytes.Clone(document)
	return nil
}
