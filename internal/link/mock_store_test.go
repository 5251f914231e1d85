package link_test

import (
	"context"
	"errors"

	"github.com/serroba/secretdrop/internal/link"
)

var errMock = errors.New("mock error")

// mockRepository is a test double for link.Repository that can be
// configured to fail individual operations.
type mockRepository struct {
	insertErr    error
	getErr       error
	incrementErr error
	deleteErr    error
	inserted     *link.Link
}

func (m *mockRepository) Insert(_ context.Context, l *link.Link) error {
	if m.insertErr != nil {
		return m.insertErr
	}

	m.inserted = l

	return nil
}

func (m *mockRepository) GetByHandle(_ context.Context, _ link.Handle) (*link.Link, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}

	return nil, link.ErrNotFound
}

func (m *mockRepository) IncrementViews(_ context.Context, _ link.Handle) (int, error) {
	if m.incrementErr != nil {
		return 0, m.incrementErr
	}

	return 1, nil
}

func (m *mockRepository) DeleteIfExists(_ context.Context, _ link.Handle) (bool, error) {
	if m.deleteErr != nil {
		return false, m.deleteErr
	}

	return true, nil
}

// mockBlobStore records puts and deletes so tests can observe rollbacks.
type mockBlobStore struct {
	putErr    error
	getErr    error
	deleteErr error
	putCalls  []link.Handle
	delCalls  []link.Handle
}

func (m *mockBlobStore) Put(_ context.Context, handle link.Handle, _ []byte) error {
	if m.putErr != nil {
		return m.putErr
	}

	m.putCalls = append(m.putCalls, handle)

	return nil
}

func (m *mockBlobStore) Get(_ context.Context, _ link.Handle) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}

	return nil, link.ErrNotFound
}

func (m *mockBlobStore) Delete(_ context.Context, handle link.Handle) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}

	m.delCalls = append(m.delCalls, handle)

	return nil
}
