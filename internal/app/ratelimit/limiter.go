package ratelimit

import (
	"context"
	"time"
)

// Result reports a single admission decision.
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter answers whether a request identified by (identity, route) fits
// inside the route's quota. Identity is a user ID for authenticated traffic
// and a client IP otherwise, so all instances sharing a store converge on
// one counter per caller and route.
type Limiter interface {
	Allow(ctx context.Context, identity string, route string, quota Quota) (Result, error)
}
