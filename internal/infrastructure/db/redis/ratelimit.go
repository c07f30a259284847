package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:"

// FixedWindowLimiter allows up to Limit calls per key in each Window.
// Counters are shared by every API instance pointing at the same Redis.
// Key format: ratelimit:<key>:<window start unix>
type FixedWindowLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	now    func() time.Time
}

// NewFixedWindowLimiter wraps client. limit and window must be positive.
func NewFixedWindowLimiter(client *redis.Client, limit int, window time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		client: client,
		limit:  int64(limit),
		window: window,
		now:    time.Now,
	}
}

// Allow counts one call for key and reports whether it fits in the current
// window.
func (l *FixedWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.key(key)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit %s: %w", key, err)
	}
	return incr.Val() <= l.limit, nil
}

func (l *FixedWindowLimiter) key(key string) string {
	start := l.now().Truncate(l.window).Unix()
	return fmt.Sprintf("%s%s:%d", keyPrefix, key, start)
}
