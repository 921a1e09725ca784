package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateKeyPrefix = "spf-lend:rate:"

// RedisRateLimiter counts hits per key in fixed windows. Shared across
// instances, so the limit holds for the whole deployment.
type RedisRateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRedisRateLimiter creates a fixed-window limiter allowing limit hits
// per window
func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, limit: limit, window: window}
}

// Allow records a hit for key and reports whether it is within the limit
func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := rateKeyPrefix + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to count rate-limit hit for %q: %w", key, err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, fmt.Errorf("failed to start rate-limit window for %q: %w", key, err)
		}
	}
	return count <= int64(l.limit), nil
}

// InMemoryRateLimiter is the single-process fallback for deployments
// without Redis. Windows expire on read, no background cleanup.
type InMemoryRateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	buckets map[string]*rateBucket
}

type rateBucket struct {
	count   int
	resetAt time.Time
}

// NewInMemoryRateLimiter creates a fixed-window limiter allowing limit
// hits per window
func NewInMemoryRateLimiter(limit int, window time.Duration) *InMemoryRateLimiter {
	return &InMemoryRateLimiter{
		limit:   limit,
		window:  window,
		buckets: make(map[string]*rateBucket),
	}
}

// Allow records a hit for key and reports whether it is within the limit
func (l *InMemoryRateLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	bucket, ok := l.buckets[key]
	if !ok || now.After(bucket.resetAt) {
		l.buckets[key] = &rateBucket{count: 1, resetAt: now.Add(l.window)}
		return true, nil
	}
	bucket.count++
	return bucket.count <= l.limit, nil
}
