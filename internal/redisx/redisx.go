package redisx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type Client struct{ Rdb *redis.Client }

func New(addr string, password string, db int) *Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 2 * time.Second,
		ReadTimeout: time.Second,
	})
	return &Client{Rdb: rdb}
}

func (c *Client) Ping(ctx context.Context) error {
	return c.Rdb.Ping(ctx).Err()
}

// Incr atomically bumps key and returns the new value.
func (c *Client) Incr(ctx context.Context, key string) (int64, error) {
	return c.Rdb.Incr(ctx, key).Result()
}

func (c *Client) Close() error { return c.Rdb.Close() }
