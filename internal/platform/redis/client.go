// Package redis wraps go-redis for the company bundle cache. The cache is
// an optional tier: without it every document export re-fetches from the
// registry, so a missing URL disables redis instead of failing startup.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"kontra/internal/platform/config"
)

// Cache-sized fallbacks for settings the environment leaves at zero. Bundle
// values are a few KB each and reads dominate, so a small pool suffices.
const (
	defaultPoolSize    = 10
	defaultMinIdle     = 2
	defaultDialTimeout = 5 * time.Second
	defaultOpTimeout   = 3 * time.Second
	startupPingTimeout = 5 * time.Second
)

// Client carries the go-redis client plus a health probe for /healthz.
type Client struct {
	*redis.Client
}

// New connects to redis when a URL is configured and returns (nil, nil)
// otherwise, letting the caller fall back to the in-process cache.
func New(cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	opts.PoolSize = orDefault(cfg.PoolSize, defaultPoolSize)
	opts.MinIdleConns = orDefault(cfg.MinIdleConns, defaultMinIdle)
	opts.DialTimeout = orDefaultDuration(cfg.DialTimeout, defaultDialTimeout)
	opts.ReadTimeout = orDefaultDuration(cfg.ReadTimeout, defaultOpTimeout)
	opts.WriteTimeout = orDefaultDuration(cfg.WriteTimeout, defaultOpTimeout)

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), startupPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{Client: client}, nil
}

// Health reports whether the cache connection is usable.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

// Close releases the connection pool.
func (c *Client) Close() error {
	return c.Client.Close()
}

func orDefault(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

func orDefaultDuration(v, fallback time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return fallback
}
