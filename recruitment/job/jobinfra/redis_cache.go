package jobinfra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Abraxas-365/vieclam/recruitment/job"
	"github.com/go-redis/redis/v8"
)

const cacheKeyPrefix = "vieclam:job:slug:"

// RedisJobCache implements job.Cache with JSON values under a TTL
type RedisJobCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisJobCache creates a Redis-backed listing cache
func NewRedisJobCache(client *redis.Client, ttl time.Duration) *RedisJobCache {
	return &RedisJobCache{
		client: client,
		ttl:    ttl,
	}
}

var _ job.Cache = (*RedisJobCache)(nil)

func cacheKey(slug string) string {
	return cacheKeyPrefix + slug
}

// Get returns the cached listing, or nil on a miss
func (c *RedisJobCache) Get(ctx context.Context, slug string) (*job.Listing, error) {
	data, err := c.client.Get(ctx, cacheKey(slug)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cached job %s: %w", slug, err)
	}

	var listing job.Listing
	if err := json.Unmarshal(data, &listing); err != nil {
		return nil, fmt.Errorf("decode cached job %s: %w", slug, err)
	}
	return &listing, nil
}

// Set stores a listing under its slug
func (c *RedisJobCache) Set(ctx context.Context, listing *job.Listing) error {
	data, err := json.Marshal(listing)
	if err != nil {
		return fmt.Errorf("marshal job %s: %w", listing.Job.Slug, err)
	}

	if err := c.client.Set(ctx, cacheKey(listing.Job.Slug), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache job %s: %w", listing.Job.Slug, err)
	}
	return nil
}

// Invalidate drops the given slugs
func (c *RedisJobCache) Invalidate(ctx context.Context, slugs ...string) error {
	keys := make([]string, 0, len(slugs))
	seen := make(map[string]struct{}, len(slugs))
	for _, s := range slugs {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		keys = append(keys, cacheKey(s))
	}
	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidate jobs %v: %w", slugs, err)
	}
	return nil
}

// NopCache is used when Redis is unavailable
type NopCache struct{}

func (NopCache) Get(context.Context, string) (*job.Listing, error) { return nil, nil }
func (NopCache) Set(context.Context, *job.Listing) error           { return nil }
func (NopCache) Invalidate(context.Context, ...string) error       { return nil }
