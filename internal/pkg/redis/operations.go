package redis

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ==================== String Operations ====================

// Set stores a key with an optional expiration (0 means no expiry).
func (c *Client) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	err := c.rdb.Set(ctx, key, value, expiration).Err()
	if err != nil {
		c.logger.Error("redis set failed",
			zap.String("key", key),
			zap.Error(err),
		)
	}
	return err
}

// Get fetches a key's value. Returns ErrNil when the key does not exist.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil && !IsNil(err) {
		c.logger.Error("redis get failed",
			zap.String("key", key),
			zap.Error(err),
		)
	}
	return val, err
}

// Del removes one or more keys, returning how many existed.
func (c *Client) Del(ctx context.Context, keys ...string) (int64, error) {
	n, err := c.rdb.Del(ctx, keys...).Result()
	if err != nil {
		c.logger.Error("redis del failed",
			zap.Strings("keys", keys),
			zap.Error(err),
		)
	}
	return n, err
}

// Exists reports how many of the given keys exist.
func (c *Client) Exists(ctx context.Context, keys ...string) (int64, error) {
	n, err := c.rdb.Exists(ctx, keys...).Result()
	if err != nil {
		c.logger.Error("redis exists failed",
			zap.Strings("keys", keys),
			zap.Error(err),
		)
	}
	return n, err
}

// Expire sets a key's time to live.
func (c *Client) Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	ok, err := c.rdb.Expire(ctx, key, expiration).Result()
	if err != nil {
		c.logger.Error("redis expire failed",
			zap.String("key", key),
			zap.Duration("expiration", expiration),
			zap.Error(err),
		)
	}
	return ok, err
}

// TTL returns the remaining time to live of a key.
func (c *Client) TTL(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := c.rdb.TTL(ctx, key).Result()
	if err != nil {
		c.logger.Error("redis ttl failed",
			zap.String("key", key),
			zap.Error(err),
		)
	}
	return ttl, err
}

// Incr atomically increments a counter, returning the new value.
func (c *Client) Incr(ctx context.Context, key string) (int64, error) {
	val, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		c.logger.Error("redis incr failed",
			zap.String("key", key),
			zap.Error(err),
		)
	}
	return val, err
}

// ==================== List Operations ====================

// LPush prepends values to a list.
func (c *Client) LPush(ctx context.Context, key string, values ...interface{}) (int64, error) {
	n, err := c.rdb.LPush(ctx, key, values...).Result()
	if err != nil {
		c.logger.Error("redis lpush failed",
			zap.String("key", key),
			zap.Error(err),
		)
	}
	return n, err
}

// LRange returns the elements of a list between start and stop.
func (c *Client) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	vals, err := c.rdb.LRange(ctx, key, start, stop).Result()
	if err != nil {
		c.logger.Error("redis lrange failed",
			zap.String("key", key),
			zap.Int64("start", start),
			zap.Int64("stop", stop),
			zap.Error(err),
		)
	}
	return vals, err
}

// LTrim trims a list to the given range.
func (c *Client) LTrim(ctx context.Context, key string, start, stop int64) error {
	err := c.rdb.LTrim(ctx, key, start, stop).Err()
	if err != nil {
		c.logger.Error("redis ltrim failed",
			zap.String("key", key),
			zap.Int64("start", start),
			zap.Int64("stop", stop),
			zap.Error(err),
		)
	}
	return err
}

// LRem removes count occurrences of value from a list (0 removes all).
func (c *Client) LRem(ctx context.Context, key string, count int64, value interface{}) (int64, error) {
	n, err := c.rdb.LRem(ctx, key, count, value).Result()
	if err != nil {
		c.logger.Error("redis lrem failed",
			zap.String("key", key),
			zap.Error(err),
		)
	}
	return n, err
}

// LLen returns the length of a list.
func (c *Client) LLen(ctx context.Context, key string) (int64, error) {
	n, err := c.rdb.LLen(ctx, key).Result()
	if err != nil {
		c.logger.Error("redis llen failed",
			zap.String("key", key),
			zap.Error(err),
		)
	}
	return n, err
}
