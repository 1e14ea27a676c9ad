package artifacts

import (
	"context"
	"fmt"
	"sync"
)

// Store abstracts the blob store that holds enhanced resume artifacts. The
// real store is an external collaborator reached through opaque refs; the
// in-memory implementation backs tests and single-process deployments.
type Store interface {
	// Put stores a complete artifact and returns its opaque ref.
	Put(ctx context.Context, name string, data []byte) (string, error)

	// Get retrieves an artifact by ref.
	Get(ctx context.Context, ref string) ([]byte, error)
}

// MemoryStore implements Store with an in-memory map.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore creates an empty in-memory artifact store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blobs: make(map[string][]byte),
	}
}

// Put stores the artifact under a mem:// ref.
func (s *MemoryStore) Put(ctx context.Context, name string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ref := "mem://" + name
	stored := make([]byte, len(data))
	copy(stored, data)
	s.blobs[ref] = stored
	return ref, nil
}

// Get retrieves an artifact by ref.
func (s *MemoryStore) Get(ctx context.Context, ref string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[ref]
	if !ok {
		return nil, fmt.Errorf("artifact not found: %s", ref)
	}
	return data, nil
}
