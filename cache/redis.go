package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const categoriesKey = "trivia:categories"

// RedisCategoryCache stores the category map as one JSON value with a TTL.
type RedisCategoryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCategoryCache connects to addr and checks the connection.
func NewRedisCategoryCache(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisCategoryCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &RedisCategoryCache{client: rdb, ttl: ttl}, nil
}

// NewRedisCategoryCacheFromClient wraps an existing client.
func NewRedisCategoryCacheFromClient(client *redis.Client, ttl time.Duration) *RedisCategoryCache {
	return &RedisCategoryCache{client: client, ttl: ttl}
}

// Get reports ok=false on a miss.
func (r *RedisCategoryCache) Get(ctx context.Context) (map[string]string, bool, error) {
	raw, err := r.client.Get(ctx, categoriesKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", categoriesKey, err)
	}

	var categories map[string]string
	if err := json.Unmarshal(raw, &categories); err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", categoriesKey, err)
	}
	return categories, true, nil
}

func (r *RedisCategoryCache) Set(ctx context.Context, categories map[string]string) error {
	raw, err := json.Marshal(categories)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, categoriesKey, raw, r.ttl).Err()
}

// Invalidate drops the cached map so the next read goes to the store.
func (r *RedisCategoryCache) Invalidate(ctx context.Context) error {
	return r.client.Del(ctx, categoriesKey).Err()
}

func (r *RedisCategoryCache) Close() error {
	return r.client.Close()
}
