// Package ctxcache caches user contexts in a key-value store in front of the
// catalog's context endpoint. Cache failures never fail a lookup.
package ctxcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/moimlab/recs/internal/db"
	"github.com/moimlab/recs/internal/domain"
)

const cacheKeyPrefix = "recs:user_ctx:"

// DefaultTTL bounds staleness of cached user contexts. Preferences move
// slowly; rating statistics drift with every attended meeting.
const DefaultTTL = 10 * time.Minute

// store is the consumer interface for the context cache.
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// provider is the inner user-context source.
type provider interface {
	UserContext(ctx context.Context, userID int64) (domain.UserContext, error)
}

// CachedProvider is a read-through caching decorator.
type CachedProvider struct {
	inner      provider
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates the caching decorator. cacheTotal is a counter vec with label
// "result" ("hit"/"miss"), passed explicitly.
func New(
	inner provider,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedProvider {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedProvider{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// UserContext returns a cached context or calls the inner provider. Lookup
// failures of the inner provider are never cached.
func (c *CachedProvider) UserContext(ctx context.Context, userID int64) (domain.UserContext, error) {
	key := c.cacheKey(userID)

	if u, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return u, nil
	}
	c.incCache("miss")

	u, err := c.inner.UserContext(ctx, userID)
	if err != nil {
		return domain.UserContext{}, fmt.Errorf("user context %d: %w", userID, err)
	}

	c.putToCache(ctx, key, u)
	return u, nil
}

func (c *CachedProvider) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedProvider) cacheKey(userID int64) string {
	return fmt.Sprintf("%s%d", cacheKeyPrefix, userID)
}

func (c *CachedProvider) getFromCache(ctx context.Context, key string) (domain.UserContext, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached user context", zap.String("key", key), zap.Error(err))
		}
		return domain.UserContext{}, false
	}
	var u domain.UserContext
	if err := json.Unmarshal(data, &u); err != nil {
		c.logger.Warn("Corrupt cached user context", zap.String("key", key), zap.Error(err))
		return domain.UserContext{}, false
	}
	return u, true
}

func (c *CachedProvider) putToCache(ctx context.Context, key string, u domain.UserContext) {
	data, err := json.Marshal(u)
	if err != nil {
		c.logger.Warn("Failed to encode user context for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache user context", zap.String("key", key), zap.Error(err))
	}
}
