package link_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serroba/secretdrop/internal/link"
	"github.com/serroba/secretdrop/internal/store"
)

func TestHandleGenerator(t *testing.T) {
	t.Run("sequential handles are pairwise distinct", func(t *testing.T) {
		gen, err := link.NewHandleGenerator(store.NewMemoryStore(), link.DefaultHandleLength)
		require.NoError(t, err)

		seen := make(map[link.Handle]bool)

		for range 500 {
			handle, err := gen.NewHandle(context.Background())

			require.NoError(t, err)
			assert.Len(t, string(handle), link.DefaultHandleLength)
			assert.False(t, seen[handle], "handle %q issued twice", handle)
			seen[handle] = true
		}
	})

	t.Run("length is tunable", func(t *testing.T) {
		gen, err := link.NewHandleGenerator(store.NewMemoryStore(), 21)
		require.NoError(t, err)

		handle, err := gen.NewHandle(context.Background())

		require.NoError(t, err)
		assert.Len(t, string(handle), 21)
	})

	t.Run("rejects invalid length", func(t *testing.T) {
		_, err := link.NewHandleGenerator(store.NewMemoryStore(), 0)

		assert.Error(t, err)
	})

	t.Run("regenerates on collision", func(t *testing.T) {
		repo := &collidingRepository{collisions: 3}

		gen, err := link.NewHandleGenerator(repo, link.DefaultHandleLength)
		require.NoError(t, err)

		handle, err := gen.NewHandle(context.Background())

		require.NoError(t, err)
		assert.NotEmpty(t, handle)
		assert.Equal(t, 4, repo.checks, "expected three collisions before a free handle")
	})

	t.Run("propagates store errors", func(t *testing.T) {
		gen, err := link.NewHandleGenerator(&mockRepository{getErr: errMock}, link.DefaultHandleLength)
		require.NoError(t, err)

		_, err = gen.NewHandle(context.Background())

		assert.Error(t, err)
	})
}

// collidingRepository reports the first N uniqueness checks as taken.
type collidingRepository struct {
	collisions int
	checks     int
}

func (c *collidingRepository) Insert(_ context.Context, _ *link.Link) error { return nil }

func (c *collidingRepository) GetByHandle(_ context.Context, handle link.Handle) (*link.Link, error) {
	c.checks++
	if c.checks <= c.collisions {
		return &link.Link{Handle: handle}, nil
	}

	return nil, link.ErrNotFound
}

func (c *collidingRepository) IncrementViews(_ context.Context, _ link.Handle) (int, error) {
	return 0, link.ErrNotFound
}

func (c *collidingRepository) DeleteIfExists(_ context.Context, _ link.Handle) (bool, error) {
	return false, nil
}
