package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/serroba/secretdrop/internal/link"
)

// RedisStore is a Redis implementation of link.Repository. The immutable
// record fields live as JSON under one key; the view counter is a separate
// key driven by INCR so concurrent increments never lose updates. Records
// carry no Redis TTL: expiry is evaluated lazily by the service so an
// expired record still reports ErrEvicted rather than ErrNotFound on its
// next access.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// incrementScript increments the view counter only while the record still
// exists, so a racing eviction cannot resurrect the counter key.
var incrementScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return -1
end
return redis.call("INCR", KEYS[2])
`)

// NewRedisStore creates a new Redis-backed link store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "link:",
	}
}

type redisRecord struct {
	Handle         string     `json:"handle"`
	TextCiphertext []byte     `json:"textCiphertext,omitempty"`
	HasFile        bool       `json:"hasFile"`
	FileName       string     `json:"fileName,omitempty"`
	MimeType       string     `json:"mimeType,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"`
	MaxViews       *int       `json:"maxViews,omitempty"`
}

func (r *RedisStore) Insert(ctx context.Context, l *link.Link) error {
	payload, err := json.Marshal(redisRecord{
		Handle:         string(l.Handle),
		TextCiphertext: l.TextCiphertext,
		HasFile:        l.HasFile,
		FileName:       l.FileName,
		MimeType:       l.MimeType,
		CreatedAt:      l.CreatedAt,
		ExpiresAt:      l.ExpiresAt,
		MaxViews:       l.MaxViews,
	})
	if err != nil {
		return fmt.Errorf("marshal link: %w", err)
	}

	ok, err := r.client.SetNX(ctx, r.recordKey(l.Handle), payload, 0).Result()
	if err != nil {
		return err
	}

	if !ok {
		return link.ErrHandleTaken
	}

	return nil
}

func (r *RedisStore) GetByHandle(ctx context.Context, handle link.Handle) (*link.Link, error) {
	pipe := r.client.Pipeline()
	recordCmd := pipe.Get(ctx, r.recordKey(handle))
	viewsCmd := pipe.Get(ctx, r.viewsKey(handle))

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	payload, err := recordCmd.Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, link.ErrNotFound
		}

		return nil, err
	}

	var rec redisRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal link: %w", err)
	}

	views, err := viewsCmd.Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	return &link.Link{
		Handle:         link.Handle(rec.Handle),
		TextCiphertext: rec.TextCiphertext,
		HasFile:        rec.HasFile,
		FileName:       rec.FileName,
		MimeType:       rec.MimeType,
		CreatedAt:      rec.CreatedAt,
		ExpiresAt:      rec.ExpiresAt,
		MaxViews:       rec.MaxViews,
		Views:          views,
	}, nil
}

func (r *RedisStore) IncrementViews(ctx context.Context, handle link.Handle) (int, error) {
	count, err := incrementScript.Run(ctx, r.client,
		[]string{r.recordKey(handle), r.viewsKey(handle)},
	).Int()
	if err != nil {
		return 0, err
	}

	if count < 0 {
		return 0, link.ErrNotFound
	}

	return count, nil
}

func (r *RedisStore) DeleteIfExists(ctx context.Context, handle link.Handle) (bool, error) {
	pipe := r.client.Pipeline()
	recordDel := pipe.Del(ctx, r.recordKey(handle))
	pipe.Del(ctx, r.viewsKey(handle))

	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	return recordDel.Val() > 0, nil
}

func (r *RedisStore) recordKey(handle link.Handle) string {
	return r.prefix + string(handle)
}

func (r *RedisStore) viewsKey(handle link.Handle) string {
	return r.prefix + string(handle) + ":views"
}

// Compile-time check.
var _ link.Repository = (*RedisStore)(nil)

// RedisBlobStore is a Redis implementation of link.BlobStore for encrypted
// file payloads, one binary value per handle.
type RedisBlobStore struct {
	client *redis.Client
	prefix string
}

// NewRedisBlobStore creates a new Redis-backed blob store.
func NewRedisBlobStore(client *redis.Client) *RedisBlobStore {
	return &RedisBlobStore{
		client: client,
		prefix: "blob:",
	}
}

func (r *RedisBlobStore) Put(ctx context.Context, handle link.Handle, encrypted []byte) error {
	return r.client.Set(ctx, r.prefix+string(handle), encrypted, 0).Err()
}

func (r *RedisBlobStore) Get(ctx context.Context, handle link.Handle) ([]byte, error) {
	data, err := r.client.Get(ctx, r.prefix+string(handle)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, link.ErrNotFound
		}

		return nil, err
	}

	return data, nil
}

func (r *RedisBlobStore) Delete(ctx context.Context, handle link.Handle) error {
	return r.client.Del(ctx, r.prefix+string(handle)).Err()
}

// Compile-time check.
var _ link.BlobStore = (*RedisBlobStore)(nil)
