package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter counts attempts per subject in fixed windows backed by Redis.
// Key format: ratelimit:<scope>:<subject>:<window_start_unix>
type RateLimiter struct {
	client *redis.Client
	scope  string
	limit  int64
	window time.Duration
	now    func() time.Time
}

// NewRateLimiter allows limit attempts per subject within each window.
func NewRateLimiter(client *redis.Client, scope string, limit int, window time.Duration) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		client: client,
		scope:  scope,
		limit:  int64(limit),
		window: window,
		now:    time.Now,
	}
}

// Allow records one attempt for subject and reports whether it is within the
// limit, along with the time left until the current window resets.
func (l *RateLimiter) Allow(ctx context.Context, subject string) (bool, time.Duration, error) {
	start := l.now().Truncate(l.window)
	key := l.key(subject, start)

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, l.window)
		return nil
	})
	if err != nil {
		return false, 0, fmt.Errorf("rate limit incr: %w", err)
	}

	retryAfter := start.Add(l.window).Sub(l.now())
	return incr.Val() <= l.limit, retryAfter, nil
}

func (l *RateLimiter) key(subject string, windowStart time.Time) string {
	return fmt.Sprintf("ratelimit:%s:%s:%d", l.scope, subject, windowStart.Unix())
}
