package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serroba/secretdrop/internal/link"
	"github.com/serroba/secretdrop/internal/store"
)

func TestMemoryBlobStore(t *testing.T) {
	t.Run("round-trips a blob", func(t *testing.T) {
		s := store.NewMemoryBlobStore()

		require.NoError(t, s.Put(context.Background(), "abc123", []byte("encrypted bytes")))

		got, err := s.Get(context.Background(), "abc123")
		require.NoError(t, err)
		assert.Equal(t, []byte("encrypted bytes"), got)
	})

	t.Run("unknown handle is not found", func(t *testing.T) {
		s := store.NewMemoryBlobStore()

		_, err := s.Get(context.Background(), "missing")

		assert.ErrorIs(t, err, link.ErrNotFound)
	})

	t.Run("does not alias stored bytes", func(t *testing.T) {
		s := store.NewMemoryBlobStore()

		data := []byte("original")
		require.NoError(t, s.Put(context.Background(), "abc123", data))

		data[0] = 'X'

		got, err := s.Get(context.Background(), "abc123")
		require.NoError(t, err)
		assert.Equal(t, byte('o'), got[0])

		got[1] = 'Y'

		again, err := s.Get(context.Background(), "abc123")
		require.NoError(t, err)
		assert.Equal(t, byte('r'), again[1])
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		s := store.NewMemoryBlobStore()

		require.NoError(t, s.Put(context.Background(), "abc123", []byte("data")))
		require.NoError(t, s.Delete(context.Background(), "abc123"))
		require.NoError(t, s.Delete(context.Background(), "abc123"))

		_, err := s.Get(context.Background(), "abc123")
		assert.ErrorIs(t, err, link.ErrNotFound)
	})
}

func TestFSBlobStore(t *testing.T) {
	t.Run("creates its directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "blobs")

		_, err := store.NewFSBlobStore(dir)
		require.NoError(t, err)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("round-trips a blob", func(t *testing.T) {
		s, err := store.NewFSBlobStore(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, s.Put(context.Background(), "abc123", []byte("encrypted bytes")))

		got, err := s.Get(context.Background(), "abc123")
		require.NoError(t, err)
		assert.Equal(t, []byte("encrypted bytes"), got)
	})

	t.Run("unknown handle is not found", func(t *testing.T) {
		s, err := store.NewFSBlobStore(t.TempDir())
		require.NoError(t, err)

		_, err = s.Get(context.Background(), "missing")

		assert.ErrorIs(t, err, link.ErrNotFound)
	})

	t.Run("put overwrites an existing blob", func(t *testing.T) {
		s, err := store.NewFSBlobStore(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, s.Put(context.Background(), "abc123", []byte("first")))
		require.NoError(t, s.Put(context.Background(), "abc123", []byte("second")))

		got, err := s.Get(context.Background(), "abc123")
		require.NoError(t, err)
		assert.Equal(t, []byte("second"), got)
	})

	t.Run("delete removes the file and is idempotent", func(t *testing.T) {
		dir := t.TempDir()

		s, err := store.NewFSBlobStore(dir)
		require.NoError(t, err)

		require.NoError(t, s.Put(context.Background(), "abc123", []byte("data")))
		require.NoError(t, s.Delete(context.Background(), "abc123"))
		require.NoError(t, s.Delete(context.Background(), "abc123"))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
