package store

import (
	"context"
	"sync"

	"github.com/serroba/secretdrop/internal/link"
)

// MemoryStore is an in-memory implementation of link.Repository. All
// mutations happen under one mutex, which makes the view-counter increment
// atomic with respect to concurrent callers.
type MemoryStore struct {
	mu    sync.RWMutex
	links map[link.Handle]*link.Link
}

// NewMemoryStore creates a new in-memory link store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		links: make(map[link.Handle]*link.Link),
	}
}

func (m *MemoryStore) Insert(_ context.Context, l *link.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.links[l.Handle]; ok {
		return link.ErrHandleTaken
	}

	m.links[l.Handle] = cloneLink(l)

	return nil
}

func (m *MemoryStore) GetByHandle(_ context.Context, handle link.Handle) (*link.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.links[handle]
	if !ok {
		return nil, link.ErrNotFound
	}

	return cloneLink(l), nil
}

func (m *MemoryStore) IncrementViews(_ context.Context, handle link.Handle) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.links[handle]
	if !ok {
		return 0, link.ErrNotFound
	}

	l.Views++

	return l.Views, nil
}

func (m *MemoryStore) DeleteIfExists(_ context.Context, handle link.Handle) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.links[handle]; !ok {
		return false, nil
	}

	delete(m.links, handle)

	return true, nil
}

// cloneLink copies a link so callers never alias stored state.
func cloneLink(l *link.Link) *link.Link {
	c := *l

	if l.TextCiphertext != nil {
		c.TextCiphertext = append([]byte(nil), l.TextCiphertext...)
	}

	if l.ExpiresAt != nil {
		t := *l.ExpiresAt
		c.ExpiresAt = &t
	}

	if l.MaxViews != nil {
		v := *l.MaxViews
		c.MaxViews = &v
	}

	return &c
}

// Compile-time check.
var _ link.Repository = (*MemoryStore)(nil)
