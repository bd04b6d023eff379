// Package cache mirrors published brackets into Redis so other replicas and
// restarts can serve the last snapshot.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/seedline/internal/adapters/repository"
	"github.com/okian/seedline/internal/domain/model"
	"github.com/okian/seedline/pkg/metrics"
)

const (
	defaultPrefix = "seedline"
	defaultTTL    = 15 * time.Minute
)

// RedisCache stores one JSON snapshot per mode.
type RedisCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// Option configures a RedisCache.
type Option func(*RedisCache)

// WithTTL sets how long a snapshot survives without a refresh.
func WithTTL(d time.Duration) Option {
	return func(c *RedisCache) {
		if d > 0 {
			c.ttl = d
		}
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(p string) Option {
	return func(c *RedisCache) {
		if p != "" {
			c.prefix = p
		}
	}
}

// NewRedisCache wraps an existing client.
func NewRedisCache(client redis.UniversalClient, opts ...Option) *RedisCache {
	c := &RedisCache{client: client, prefix: defaultPrefix, ttl: defaultTTL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key returns the key holding mode's snapshot.
func (c *RedisCache) Key(mode model.Mode) string {
	return fmt.Sprintf("%s:bracket:%s", c.prefix, mode)
}

// Write stores every mode of a snapshot set in one pipeline.
func (c *RedisCache) Write(ctx context.Context, snaps ...repository.Snapshot) error {
	if len(snaps) == 0 {
		return nil
	}
	pipe := c.client.TxPipeline()
	for _, s := range snaps {
		data, err := json.Marshal(s)
		if err != nil {
			metrics.RecordCache("write", metrics.OutcomeFailed)
			return fmt.Errorf("marshaling snapshot: %w", err)
		}
		pipe.Set(ctx, c.Key(s.Mode), data, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		metrics.RecordCache("write", metrics.OutcomeFailed)
		return fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
	}
	metrics.RecordCache("write", metrics.OutcomeOK)
	return nil
}

// Read returns mode's snapshot, or ErrMiss when absent or expired.
func (c *RedisCache) Read(ctx context.Context, mode model.Mode) (repository.Snapshot, error) {
	data, err := c.client.Get(ctx, c.Key(mode)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RecordCache("read", metrics.OutcomeMiss)
		return repository.Snapshot{}, ErrMiss
	}
	if err != nil {
		metrics.RecordCache("read", metrics.OutcomeFailed)
		return repository.Snapshot{}, fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
	}

	var snap repository.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		metrics.RecordCache("read", metrics.OutcomeFailed)
		return repository.Snapshot{}, fmt.Errorf("unmarshaling snapshot: %w", err)
	}
	metrics.RecordCache("read", metrics.OutcomeHit)
	return snap, nil
}

// Ping checks connectivity.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
