// Package cache provides a redis read-through layer in front of the
// blocklist tables.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	keyPrefixIP   = "blocklist:ip:"
	keyPrefixCard = "blocklist:card:"

	memberValue    = "1"
	nonMemberValue = "0"
)

// BlocklistSource is the authoritative membership store behind the cache.
type BlocklistSource interface {
	IsSuspiciousIP(ctx context.Context, ip string) (bool, error)
	IsStolenCard(ctx context.Context, number string) (bool, error)
}

// Observer is notified of cache hits and misses.
type Observer interface {
	RecordCacheLookup(list string, hit bool)
}

// BlocklistCache answers membership queries from redis and falls back to the
// source on a miss. A redis failure is logged and treated as a miss, so a
// cache outage never fails a lookup; source errors are returned.
type BlocklistCache struct {
	client   *redis.Client
	source   BlocklistSource
	ttl      time.Duration
	logger   *zap.Logger
	observer Observer
}

func NewBlocklistCache(client *redis.Client, source BlocklistSource, ttl time.Duration, logger *zap.Logger) *BlocklistCache {
	if client == nil {
		panic("redis client is required")
	}
	if source == nil {
		panic("blocklist source is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BlocklistCache{
		client: client,
		source: source,
		ttl:    ttl,
		logger: logger,
	}
}

// WithObserver attaches a hit/miss observer.
func (c *BlocklistCache) WithObserver(o Observer) *BlocklistCache {
	c.observer = o
	return c
}

func (c *BlocklistCache) IsSuspiciousIP(ctx context.Context, ip string) (bool, error) {
	return c.lookup(ctx, "ip", IPKey(ip), func(ctx context.Context) (bool, error) {
		return c.source.IsSuspiciousIP(ctx, ip)
	})
}

func (c *BlocklistCache) IsStolenCard(ctx context.Context, number string) (bool, error) {
	return c.lookup(ctx, "card", CardKey(number), func(ctx context.Context) (bool, error) {
		return c.source.IsStolenCard(ctx, number)
	})
}

// Invalidate drops cached answers for the given keys.
func (c *BlocklistCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate blocklist cache: %w", err)
	}
	return nil
}

func (c *BlocklistCache) lookup(ctx context.Context, list, key string, load func(context.Context) (bool, error)) (bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		c.observe(list, true)
		return val == memberValue, nil
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("blocklist cache read failed", zap.String("key", key), zap.Error(err))
	}
	c.observe(list, false)

	member, err := load(ctx)
	if err != nil {
		return false, err
	}

	stored := nonMemberValue
	if member {
		stored = memberValue
	}
	if err := c.client.Set(ctx, key, stored, c.ttl).Err(); err != nil {
		c.logger.Warn("blocklist cache write failed", zap.String("key", key), zap.Error(err))
	}
	return member, nil
}

func (c *BlocklistCache) observe(list string, hit bool) {
	if c.observer != nil {
		c.observer.RecordCacheLookup(list, hit)
	}
}

func IPKey(ip string) string {
	return keyPrefixIP + ip
}

func CardKey(number string) string {
	return keyPrefixCard + number
}
