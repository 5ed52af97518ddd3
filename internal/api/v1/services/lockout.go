package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"medscribe/internal/config"
)

// LoginProtector tracks failed login attempts per identity and locks the
// account once the limit is reached inside the lockout window.
type LoginProtector interface {
	// CheckLockout reports whether the identity is currently locked and for
	// how many more seconds. An expired lockout resets the counter.
	CheckLockout(ctx context.Context, identity string) (bool, int, error)
	// TrackFailure records one failed attempt.
	TrackFailure(ctx context.Context, identity string) error
	// Reset clears the failure counter after a successful login.
	Reset(ctx context.Context, identity string) error
}

// RedisLoginProtector keeps counters in Redis so lockouts hold across
// process restarts and replicas. Keys expire at twice the lockout window to
// avoid stale counters.
type RedisLoginProtector struct {
	client      *redis.Client
	maxAttempts int
	lockout     time.Duration
}

// NewRedisLoginProtector builds a Redis-backed protector.
func NewRedisLoginProtector(client *redis.Client, cfg config.AuthConfig) *RedisLoginProtector {
	return &RedisLoginProtector{
		client:      client,
		maxAttempts: cfg.MaxFailedAttempts,
		lockout:     cfg.LockoutPeriod(),
	}
}

func failureKey(identity string) string {
	return "login:failed:" + identity
}

func (p *RedisLoginProtector) CheckLockout(ctx context.Context, identity string) (bool, int, error) {
	key := failureKey(identity)

	attemptsStr, err := p.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("lockout check for %s: %w", identity, err)
	}

	attempts, err := strconv.Atoi(attemptsStr)
	if err != nil || attempts < p.maxAttempts {
		return false, 0, nil
	}

	tsStr, err := p.client.Get(ctx, key+":timestamp").Result()
	if err == redis.Nil {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("lockout timestamp for %s: %w", identity, err)
	}

	lastFailure, err := strconv.ParseFloat(tsStr, 64)
	if err != nil {
		return false, 0, nil
	}

	elapsed := time.Since(time.Unix(int64(lastFailure), 0))
	if elapsed < p.lockout {
		remaining := int((p.lockout - elapsed).Seconds())
		return true, remaining, nil
	}

	// Lockout window has passed; clear the counter.
	p.client.Del(ctx, key, key+":timestamp")
	return false, 0, nil
}

func (p *RedisLoginProtector) TrackFailure(ctx context.Context, identity string) error {
	key := failureKey(identity)
	expiry := p.lockout * 2

	pipe := p.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Set(ctx, key+":timestamp", time.Now().Unix(), expiry)
	pipe.Expire(ctx, key, expiry)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("track failed login for %s: %w", identity, err)
	}
	return nil
}

func (p *RedisLoginProtector) Reset(ctx context.Context, identity string) error {
	key := failureKey(identity)
	if err := p.client.Del(ctx, key, key+":timestamp").Err(); err != nil {
		return fmt.Errorf("reset failed logins for %s: %w", identity, err)
	}
	return nil
}

type failureRecord struct {
	attempts    int
	lastFailure time.Time
}

// MemoryLoginProtector is the single-process fallback used when Redis is
// not configured.
type MemoryLoginProtector struct {
	mu          sync.Mutex
	records     map[string]failureRecord
	maxAttempts int
	lockout     time.Duration
}

// NewMemoryLoginProtector builds an in-memory protector.
func NewMemoryLoginProtector(cfg config.AuthConfig) *MemoryLoginProtector {
	return &MemoryLoginProtector{
		records:     make(map[string]failureRecord),
		maxAttempts: cfg.MaxFailedAttempts,
		lockout:     cfg.LockoutPeriod(),
	}
}

func (p *MemoryLoginProtector) CheckLockout(_ context.Context, identity string) (bool, int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	rec, ok := p.records[identity]
	if !ok || rec.attempts < p.maxAttempts {
		return false, 0, nil
	}

	elapsed := time.Since(rec.lastFailure)
	if elapsed < p.lockout {
		return true, int((p.lockout - elapsed).Seconds()), nil
	}

	delete(p.records, identity)
	return false, 0, nil
}

func (p *MemoryLoginProtector) TrackFailure(_ context.Context, identity string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	rec := p.records[identity]
	if !rec.lastFailure.IsZero() && time.Since(rec.lastFailure) > p.lockout*2 {
		rec = failureRecord{}
	}
	rec.attempts++
	rec.lastFailure = time.Now()
	p.records[identity] = rec
	return nil
}

func (p *MemoryLoginProtector) Reset(_ context.Context, identity string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.records, identity)
	return nil
}
