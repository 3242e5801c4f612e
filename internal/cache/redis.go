package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gcolon75/Project-Valine-sub011/internal/config"
)

// Client wraps the Redis connection used for verification codes, refresh
// tokens, rate-limit windows and presigned-URL caching.
type Client struct {
	rdb *redis.Client
}

func New(cfg *config.Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Client{rdb: rdb}, nil
}

func NewFromClient(rdb *redis.Client) *Client { return &Client{rdb: rdb} }

func (c *Client) Close() error { return c.rdb.Close() }

func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

// Get returns ("", nil) when the key is absent.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	v, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return v, err
}

func (c *Client) Delete(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}

// IncrWindow implements a fixed-window counter: the first increment arms the
// window's expiry, later ones just count.
func (c *Client) IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		_ = c.rdb.Expire(ctx, key, window).Err()
	}
	return count, nil
}
