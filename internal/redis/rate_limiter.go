package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimiter implements a fixed-window per-subject counter. The window is
// one minute; subjects are client IPs or account IDs.
type RateLimiter struct {
	rdb    *goredis.Client
	clock  clockwork.Clock
	perMin int
}

func NewRateLimiter(rdb *goredis.Client, clock clockwork.Clock, perMin int) *RateLimiter {
	return &RateLimiter{rdb: rdb, clock: clock, perMin: perMin}
}

// Allow consumes one request from the subject's current window. Returns false
// when the window is exhausted.
func (l *RateLimiter) Allow(ctx context.Context, subject string) (bool, error) {
	window := l.clock.Now().Unix() / 60
	key := fmt.Sprintf("rate:%s:%d", subject, window)

	pipe := l.rdb.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, 2*time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to check rate limit: %w", err)
	}

	return incr.Val() <= int64(l.perMin), nil
}
