package link

import "errors"

var (
	// ErrNotFound is returned when no link exists for a handle.
	ErrNotFound = errors.New("link not found")

	// ErrEvicted is returned when a link existed but an expiry condition
	// holds; the record and any blob are destroyed as part of the access
	// that observes it.
	ErrEvicted = errors.New("link expired")

	// ErrNoPayload rejects creation with neither text nor file bytes.
	ErrNoPayload = errors.New("link requires text content or a file")

	// ErrHandleTaken is returned by Repository.Insert on a duplicate handle.
	ErrHandleTaken = errors.New("handle already exists")

	// ErrInvalidMaxViews rejects a non-numeric max-views field.
	ErrInvalidMaxViews = errors.New("max views must be an integer")
)
