package ratelimit

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Quota is a parsed limit string such as "10/minute".
type Quota struct {
	Limit  int
	Window time.Duration
}

var windows = map[string]time.Duration{
	"second": time.Second,
	"minute": time.Minute,
	"hour":   time.Hour,
	"day":    24 * time.Hour,
}

// Period returns the window's name as it appears in quota strings.
func (q Quota) Period() string {
	for name, window := range windows {
		if window == q.Window {
			return name
		}
	}
	return q.Window.String()
}

// ParseQuota parses "N/period" where period is second, minute, hour or day.
func ParseQuota(s string) (Quota, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "/", 2)
	if len(parts) != 2 {
		return Quota{}, fmt.Errorf("invalid quota %q, want N/period", s)
	}

	limit, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || limit <= 0 {
		return Quota{}, fmt.Errorf("invalid quota limit in %q", s)
	}

	window, ok := windows[strings.ToLower(strings.TrimSpace(parts[1]))]
	if !ok {
		return Quota{}, fmt.Errorf("invalid quota period in %q", s)
	}

	return Quota{Limit: limit, Window: window}, nil
}
