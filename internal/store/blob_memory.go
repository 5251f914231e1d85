package store

import (
	"context"
	"sync"

	"github.com/serroba/secretdrop/internal/link"
)

// MemoryBlobStore is an in-memory implementation of link.BlobStore.
type MemoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[link.Handle][]byte
}

// NewMemoryBlobStore creates a new in-memory blob store.
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{
		blobs: make(map[link.Handle][]byte),
	}
}

func (m *MemoryBlobStore) Put(_ context.Context, handle link.Handle, encrypted []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blobs[handle] = append([]byte(nil), encrypted...)

	return nil
}

func (m *MemoryBlobStore) Get(_ context.Context, handle link.Handle) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.blobs[handle]
	if !ok {
		return nil, link.ErrNotFound
	}

	return append([]byte(nil), data...), nil
}

func (m *MemoryBlobStore) Delete(_ context.Context, handle link.Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.blobs, handle)

	return nil
}

// Compile-time check.
var _ link.BlobStore = (*MemoryBlobStore)(nil)
