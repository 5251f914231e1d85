package analytics

import (
	"context"

	"github.com/serroba/secretdrop/internal/messaging"
)

// NewLinkCreatedHandler returns a messaging handler that persists created
// events to the store.
func NewLinkCreatedHandler(store Store) messaging.Handler[LinkCreatedEvent] {
	return func(ctx context.Context, event *LinkCreatedEvent) error {
		return store.SaveLinkCreated(ctx, event)
	}
}

// NewLinkAccessedHandler returns a messaging handler that persists access
// events to the store.
func NewLinkAccessedHandler(store Store) messaging.Handler[LinkAccessedEvent] {
	return func(ctx context.Context, event *LinkAccessedEvent) error {
		return store.SaveLinkAccessed(ctx, event)
	}
}
