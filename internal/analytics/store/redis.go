package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/serroba/secretdrop/internal/analytics"
)

// Redis persists per-day event counters in Redis. Handles are never stored:
// links are ephemeral secrets, so analytics keep aggregates only.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis creates a new Redis-backed analytics store.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{
		client: client,
		prefix: "analytics:",
	}
}

func (r *Redis) SaveLinkCreated(ctx context.Context, event *analytics.LinkCreatedEvent) error {
	day := event.CreatedAt.UTC().Format("2006-01-02")

	pipe := r.client.Pipeline()
	pipe.HIncrBy(ctx, r.prefix+"created:"+day, event.Kind, 1)
	pipe.Expire(ctx, r.prefix+"created:"+day, 90*24*time.Hour)
	_, err := pipe.Exec(ctx)

	return err
}

func (r *Redis) SaveLinkAccessed(ctx context.Context, event *analytics.LinkAccessedEvent) error {
	day := event.AccessedAt.UTC().Format("2006-01-02")
	field := event.Access + ":" + event.Outcome

	pipe := r.client.Pipeline()
	pipe.HIncrBy(ctx, r.prefix+"accessed:"+day, field, 1)
	pipe.Expire(ctx, r.prefix+"accessed:"+day, 90*24*time.Hour)
	_, err := pipe.Exec(ctx)

	return err
}

// Compile-time check.
var _ analytics.Store = (*Redis)(nil)
