// Package cache keeps ordered search results in the key-value store for a
// fixed TTL. Expiry is the only invalidation.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ovp-platform/ovpsearch/internal/db"
	"github.com/ovp-platform/ovpsearch/internal/domain"
)

// DefaultTTL is how long a result set stays cached.
const DefaultTTL = 120 * time.Second

// store is the consumer interface for the result cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache stores JSON encoded result sets. Store failures are logged and
// reported as misses so a cache outage never fails a search.
type Cache struct {
	store      store
	keys       domain.Keyspace
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a result cache.
// cacheTotal is a counter vec with labels "kind" and "result" ("hit"/"miss"), passed explicitly.
func New(
	s store,
	keys domain.Keyspace,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{store: s, keys: keys, ttl: ttl, cacheTotal: cacheTotal, logger: logger}
}

// TTL returns the configured expiry.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get decodes the entry for name into dst. It returns false on a miss.
func (c *Cache) Get(ctx context.Context, kind domain.Kind, name string, dst any) bool {
	key := c.keys.CacheKey(name)
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached results", zap.String("key", key), zap.Error(err))
		}
		c.inc(kind, "miss")
		return false
	}
	if len(data) == 0 {
		c.inc(kind, "miss")
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.logger.Warn("Failed to parse cached results", zap.String("key", key), zap.Error(err))
		c.inc(kind, "miss")
		return false
	}
	c.inc(kind, "hit")
	return true
}

// Set stores v under name. Concurrent writers race; the last one wins.
func (c *Cache) Set(ctx context.Context, name string, v any) {
	key := c.keys.CacheKey(name)
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("Failed to encode results", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache results", zap.String("key", key), zap.Error(err))
	}
}

func (c *Cache) inc(kind domain.Kind, result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(string(kind), result).Inc()
	}
}
