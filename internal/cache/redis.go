// Package cache provides shared ResultCache backends for the calculator.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rpgo/mortgage-calculator/internal/calculation"
	"github.com/rpgo/mortgage-calculator/internal/domain"
)

// DefaultPrefix namespaces calculator keys in a shared Redis database.
const DefaultPrefix = "mortgage:result:"

const scanBatch = 100

// Options configures a RedisCache.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	// TTL of stored results. Zero keeps them until Clear.
	TTL time.Duration
}

// RedisCache is a calculation.ResultCache stored as JSON in Redis. Writes use
// SETNX, so the first result stored for a key wins across processes.
type RedisCache struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

var _ calculation.ResultCache = (*RedisCache)(nil)

// NewRedisCache wraps an existing client.
func NewRedisCache(client redis.Cmdable, opts Options) *RedisCache {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &RedisCache{client: client, prefix: prefix, ttl: opts.TTL}
}

// Dial connects to opts.Addr and checks the connection. The returned client
// is owned by the caller.
func Dial(ctx context.Context, opts Options) (*RedisCache, *redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedisCache(rdb, opts), rdb, nil
}

func (c *RedisCache) key(k string) string { return c.prefix + k }

func (c *RedisCache) Get(ctx context.Context, key string) (*domain.CalculationResult, bool, error) {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	var r domain.CalculationResult
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, false, fmt.Errorf("decode cached result %s: %w", key, err)
	}
	return &r, true, nil
}

func (c *RedisCache) PutIfAbsent(ctx context.Context, key string, r *domain.CalculationResult) (*domain.CalculationResult, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode result %s: %w", key, err)
	}
	stored, err := c.client.SetNX(ctx, c.key(key), payload, c.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis setnx %s: %w", key, err)
	}
	if stored {
		return r, nil
	}
	existing, ok, err := c.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		// expired between SETNX and GET
		return r, nil
	}
	return existing, nil
}

// Clear deletes every key under the prefix.
func (c *RedisCache) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+"*", scanBatch).Result()
		if err != nil {
			return fmt.Errorf("redis scan: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis del: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
