package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fhuszti/images-ms-go/internal/logger"
	"github.com/fhuszti/images-ms-go/internal/port"
	"github.com/fhuszti/images-ms-go/internal/uuid"
	"github.com/redis/go-redis/v9"
)

type Cache struct {
	client *redis.Client
}

// compile-time check: *Cache must satisfy port.Cache
var _ port.Cache = (*Cache)(nil)

func NewCache(addr, password string) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	return &Cache{client: rdb}
}

// GetImageStatus returns the cached status payload and its ETag. A miss
// returns nil data and no error.
func (c *Cache) GetImageStatus(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	vals, err := c.client.MGet(ctx, statusKey(id), etagKey(id)).Result()
	if err != nil {
		return nil, "", fmt.Errorf("redis mget failed: %w", err)
	}

	data, ok := vals[0].(string)
	if !ok {
		return nil, "", nil // cache miss
	}
	etag, _ := vals[1].(string)
	return []byte(data), etag, nil
}

// SetImageStatus stores the payload and its ETag together. Failures are
// logged only: the cache is an optimisation.
func (c *Cache) SetImageStatus(ctx context.Context, id uuid.UUID, data []byte, etag string, ttl time.Duration) {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, statusKey(id), data, ttl)
		pipe.Set(ctx, etagKey(id), etag, ttl)
		return nil
	})
	if err != nil {
		logger.Warnf(ctx, "failed caching status for image #%s: %v", id, err)
	}
}

func (c *Cache) DeleteImageStatus(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Del(ctx, statusKey(id), etagKey(id)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

// Ping checks the connection at startup.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}

func statusKey(id uuid.UUID) string {
	return "image:status:" + id.String()
}

func etagKey(id uuid.UUID) string {
	return "image:status:etag:" + id.String()
}
