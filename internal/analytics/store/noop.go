package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/serroba/secretdrop/internal/analytics"
)

// Noop is a no-op implementation of analytics.Store that logs events.
type Noop struct {
	logger *zap.Logger
}

// NewNoop creates a new no-op analytics store.
func NewNoop(logger *zap.Logger) *Noop {
	return &Noop{logger: logger}
}

func (n *Noop) SaveLinkCreated(_ context.Context, event *analytics.LinkCreatedEvent) error {
	n.logger.Info("link created event received",
		zap.String("handle", event.Handle),
		zap.String("kind", event.Kind),
		zap.Time("createdAt", event.CreatedAt),
	)

	return nil
}

func (n *Noop) SaveLinkAccessed(_ context.Context, event *analytics.LinkAccessedEvent) error {
	n.logger.Info("link accessed event received",
		zap.String("handle", event.Handle),
		zap.String("access", event.Access),
		zap.String("outcome", event.Outcome),
		zap.Time("accessedAt", event.AccessedAt),
	)

	return nil
}
