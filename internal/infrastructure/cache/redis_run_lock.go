package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf-lend/backend/internal/infrastructure/config"
)

const lockKeyPrefix = "spf-lend:lock:"

// RedisRunLock serializes scheduler runs across processes with a SETNX
// lease. Suitable when more than one instance runs the daily jobs.
type RedisRunLock struct {
	client *redis.Client
}

// NewRedisClient connects a Redis client and verifies the connection
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewRedisRunLock creates a run lock backed by an existing Redis client
func NewRedisRunLock(client *redis.Client) *RedisRunLock {
	return &RedisRunLock{client: client}
}

// Acquire takes the named lease. Returns false when another holder owns
// it. The TTL bounds how long a crashed holder can block the next run.
func (l *RedisRunLock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, lockKeyPrefix+name, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire run lock %q: %w", name, err)
	}
	return ok, nil
}

// Release drops the named lease
func (l *RedisRunLock) Release(ctx context.Context, name string) error {
	if err := l.client.Del(ctx, lockKeyPrefix+name).Err(); err != nil {
		return fmt.Errorf("failed to release run lock %q: %w", name, err)
	}
	return nil
}

// Close closes the underlying Redis client
func (l *RedisRunLock) Close() error {
	return l.client.Close()
}
