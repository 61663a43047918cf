package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultCacheTTL    = 15 * time.Minute
	defaultCachePrefix = "courierform:price"
)

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithTTL sets how long successful quotes stay cached.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithKeyPrefix namespaces cache keys.
func WithKeyPrefix(prefix string) CacheOption {
	return func(c *Cache) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// Cache serves repeated routes from Redis and delegates misses to the next
// Lookup. Only successful quotes are stored. Redis failures degrade to the
// next Lookup rather than failing the quote.
type Cache struct {
	client redis.Cmdable
	next   Lookup
	ttl    time.Duration
	prefix string
}

var _ Lookup = (*Cache)(nil)

// NewCache wraps next with a Redis-backed cache.
func NewCache(client redis.Cmdable, next Lookup, options ...CacheOption) *Cache {
	c := &Cache{
		client: client,
		next:   next,
		ttl:    defaultCacheTTL,
		prefix: defaultCachePrefix,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// LoadPrice implements Lookup.
func (c *Cache) LoadPrice(ctx context.Context, route Route) (Quote, error) {
	if c.next == nil {
		return Quote{}, errors.New("pricing: cache has no upstream lookup")
	}
	key := c.Key(route)

	if c.client != nil {
		raw, err := c.client.Get(ctx, key).Bytes()
		if err == nil {
			var cached Quote
			if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
				return cached, nil
			}
		} else if !errors.Is(err, redis.Nil) && ctx.Err() != nil {
			return Quote{}, ctx.Err()
		}
	}

	quote, err := c.next.LoadPrice(ctx, route)
	if err != nil {
		return Quote{}, err
	}
	if quote.IsSuccess && c.client != nil {
		if payload, err := json.Marshal(quote); err == nil {
			_ = c.client.Set(ctx, key, payload, c.ttl).Err()
		}
	}
	return quote, nil
}

// Key returns the cache key used for route.
func (c *Cache) Key(route Route) string {
	return fmt.Sprintf("%s:%s:%s:%s", c.prefix, route.FromID, route.ToID,
		strconv.FormatFloat(route.Distance, 'f', -1, 64))
}
