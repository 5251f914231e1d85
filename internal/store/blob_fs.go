package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/serroba/secretdrop/internal/link"
)

// FSBlobStore persists encrypted blobs as one file per handle under a
// single directory. Handles come from a URL-safe alphabet, so they are
// used directly as file names.
type FSBlobStore struct {
	dir string
}

// NewFSBlobStore creates the blob directory if needed and returns a store
// over it.
func NewFSBlobStore(dir string) (*FSBlobStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create blob directory: %w", err)
	}

	return &FSBlobStore{dir: dir}, nil
}

func (s *FSBlobStore) Put(_ context.Context, handle link.Handle, encrypted []byte) error {
	if err := os.WriteFile(s.path(handle), encrypted, 0o600); err != nil {
		return fmt.Errorf("write blob: %w", err)
	}

	return nil
}

func (s *FSBlobStore) Get(_ context.Context, handle link.Handle) ([]byte, error) {
	data, err := os.ReadFile(s.path(handle))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, link.ErrNotFound
		}

		return nil, fmt.Errorf("read blob: %w", err)
	}

	return data, nil
}

func (s *FSBlobStore) Delete(_ context.Context, handle link.Handle) error {
	if err := os.Remove(s.path(handle)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete blob: %w", err)
	}

	return nil
}

func (s *FSBlobStore) path(handle link.Handle) string {
	return filepath.Join(s.dir, string(handle)+".bin")
}

// Compile-time check.
var _ link.BlobStore = (*FSBlobStore)(nil)
