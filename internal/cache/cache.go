// Package cache stores rendered public responses and drops them by tag when
// content changes.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"corpsite/internal/domain"
	"corpsite/internal/observability"
)

// Store is a tagged response cache.
type Store interface {
	// Get decodes the value under key into dst and reports whether it was found.
	Get(ctx context.Context, key string, dst any) (bool, error)
	// Set stores v under key and records key in each tag set plus TagAll.
	Set(ctx context.Context, key string, v any, ttl time.Duration, tags ...string) error
	// Revalidate drops every key recorded under any of tags.
	Revalidate(ctx context.Context, tags ...string) error
}

const (
	keyPrefix = "page:"
	tagPrefix = "tag:"
)

// PageKey builds the cache key of a public response.
func PageKey(locale, pathAndQuery string) string {
	return keyPrefix + locale + ":" + pathAndQuery
}

func tagKey(tag string) string { return tagPrefix + tag }

type RedisStore struct {
	c *redis.Client
}

func NewRedisStore(c *redis.Client) *RedisStore {
	return &RedisStore{c: c}
}

// NewRedisClient connects and pings the server.
func NewRedisClient(ctx context.Context, addr, pass string, db int) (*redis.Client, error) {
	c := redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func (r *RedisStore) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, err := r.c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.ObserveCache("redis", "miss")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	observability.ObserveCache("redis", "hit")
	return true, json.Unmarshal(v, dst)
}

func (r *RedisStore) Set(ctx context.Context, key string, v any, ttl time.Duration, tags ...string) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	observability.ObserveCache("redis", "set")
	_, err = r.c.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, key, b, ttl)
		for _, t := range append(append([]string(nil), tags...), domain.TagAll) {
			p.SAdd(ctx, tagKey(t), key)
			// the tag set outlives its members
			if ttl > 0 {
				p.Expire(ctx, tagKey(t), 2*ttl)
			}
		}
		return nil
	})
	return err
}

func (r *RedisStore) Revalidate(ctx context.Context, tags ...string) error {
	if len(tags) == 0 {
		return nil
	}
	observability.ObserveCache("redis", "revalidate")
	tagKeys := make([]string, 0, len(tags))
	for _, t := range tags {
		tagKeys = append(tagKeys, tagKey(t))
	}
	keys, err := r.c.SUnion(ctx, tagKeys...).Result()
	if err != nil {
		return err
	}
	return r.c.Del(ctx, append(keys, tagKeys...)...).Err()
}

// NopStore never hits; used when Redis is not configured.
type NopStore struct{}

func (NopStore) Get(context.Context, string, any) (bool, error) { return false, nil }

func (NopStore) Set(context.Context, string, any, time.Duration, ...string) error { return nil }

func (NopStore) Revalidate(context.Context, ...string) error { return nil }
