// Package cache stores generation replies by prompt key.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zen-systems/tripgate/pkg/observability"
)

// Cache stores replies. A miss reports false with a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

const keyPrefix = "tripgate:reply:"

// Redis is a Cache backed by a redis server.
type Redis struct{ c *redis.Client }

// NewRedis connects lazily to the server at addr.
func NewRedis(addr, pass string, db int) *Redis {
	return &Redis{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

// Ping checks the connection.
func (r *Redis) Ping(ctx context.Context) error {
	return r.c.Ping(ctx).Err()
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.c.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		observability.ObserveCache("redis", "miss")
		return "", false, nil
	}
	if err != nil {
		observability.ObserveCache("redis", "error")
		return "", false, err
	}
	observability.ObserveCache("redis", "hit")
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := r.c.Set(ctx, keyPrefix+key, value, ttl).Err(); err != nil {
		observability.ObserveCache("redis", "error")
		return err
	}
	observability.ObserveCache("redis", "set")
	return nil
}

// Close releases the client.
func (r *Redis) Close() error {
	return r.c.Close()
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) (string, bool, error)        { return "", false, nil }
func (Nop) Set(context.Context, string, string, time.Duration) error { return nil }
