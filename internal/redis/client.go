package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Client wraps a go-redis client shared by all stores in this package.
type Client struct {
	rdb *redis.Client
}

// NewClient connects to Redis using a URL such as "redis://localhost:6379/0".
// Commands are retried a few times so brief hiccups don't surface as
// request failures; a circuit breaker sheds load once Redis is failing
// persistently. Callers that cannot tolerate stale answers (the rate
// limiter) handle errors themselves.
func NewClient(redisURL string) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	opts.ClientName = "penart"
	opts.MaxRetries = 3

	rdb := redis.NewClient(opts)
	rdb.AddHook(&MetricsHook{})
	rdb.AddHook(NewCircuitBreakerHook())
	return &Client{rdb: rdb}, nil
}

// Ping verifies the connection, used by the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Underlying exposes the raw go-redis client for the stores in this package.
func (c *Client) Underlying() *redis.Client {
	return c.rdb
}
