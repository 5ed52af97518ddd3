package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MemoryLimiter is the single-process fallback used when no shared store is
// configured. A token bucket per (identity, route) approximates the fixed
// window: the burst equals the quota limit and tokens refill evenly across
// the window.
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{buckets: make(map[string]*rate.Limiter)}
}

func (l *MemoryLimiter) bucket(key string, quota Quota) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.buckets[key]
	if !ok {
		lim = rate.NewLimiter(rate.Every(quota.Window/time.Duration(quota.Limit)), quota.Limit)
		l.buckets[key] = lim
	}
	return lim
}

func (l *MemoryLimiter) Allow(ctx context.Context, identity string, route string, quota Quota) (Result, error) {
	lim := l.bucket(identity+":"+route, quota)

	res := lim.Reserve()
	if !res.OK() {
		return Result{Allowed: false, RetryAfter: quota.Window}, nil
	}
	if delay := res.Delay(); delay > 0 {
		res.Cancel()
		return Result{Allowed: false, RetryAfter: delay}, nil
	}

	return Result{Allowed: true, Remaining: int(lim.Tokens())}, nil
}

// Reset clears the counter for one identity and route.
func (l *MemoryLimiter) Reset(ctx context.Context, identity string, route string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, identity+":"+route)
	return nil
}
