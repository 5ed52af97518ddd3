package ratelimit

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter counts requests in fixed windows shared across instances.
// Keys are ratelimit:<identity>:<route> and expire with the window, so an
// idle caller costs nothing.
type RedisLimiter struct {
	client *redis.Client
}

func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{client: client}
}

func (l *RedisLimiter) Allow(ctx context.Context, identity string, route string, quota Quota) (Result, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", identity, route)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, quota.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, fmt.Errorf("ratelimit incr %s: %w", key, err)
	}

	count := incr.Val()
	if count > int64(quota.Limit) {
		retryAfter := quota.Window
		if ttl, err := l.client.TTL(ctx, key).Result(); err == nil && ttl > 0 {
			retryAfter = ttl
		}
		return Result{Allowed: false, Remaining: 0, RetryAfter: retryAfter}, nil
	}

	return Result{Allowed: true, Remaining: quota.Limit - int(count)}, nil
}

// Reset clears the counter for one identity and route.
func (l *RedisLimiter) Reset(ctx context.Context, identity string, route string) error {
	return l.client.Del(ctx, fmt.Sprintf("ratelimit:%s:%s", identity, route)).Err()
}
