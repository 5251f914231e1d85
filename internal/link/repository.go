package link

import "context"

// Repository defines the metadata storage port for links.
type Repository interface {
	// Insert stores a new link. Returns ErrHandleTaken if a link with the
	// same handle already exists.
	Insert(ctx context.Context, l *Link) error

	// GetByHandle retrieves a link by its handle.
	// Returns ErrNotFound if no such link exists.
	GetByHandle(ctx context.Context, handle Handle) (*Link, error)

	// IncrementViews atomically increments the view counter and returns the
	// new count. Concurrent callers on the same handle must not lose
	// updates. Returns ErrNotFound if the handle is absent.
	IncrementViews(ctx context.Context, handle Handle) (int, error)

	// DeleteIfExists removes the link if present. It is idempotent and
	// race-tolerant: a second racing delete observes false without error.
	DeleteIfExists(ctx context.Context, handle Handle) (bool, error)
}

// BlobStore defines the storage port for encrypted file payloads, one blob
// per handle.
type BlobStore interface {
	Put(ctx context.Context, handle Handle, encrypted []byte) error

	// Get returns the encrypted bytes, or ErrNotFound.
	Get(ctx context.Context, handle Handle) ([]byte, error)

	// Delete removes the blob; deleting an absent blob is not an error.
	Delete(ctx context.Context, handle Handle) error
}
