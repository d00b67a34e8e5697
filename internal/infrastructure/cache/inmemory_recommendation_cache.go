package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pricepilot/backend/internal/domain/pricing"
	"go.uber.org/zap"
)

const (
	defaultRecommendationTTL = 5 * time.Minute
	defaultCleanupInterval   = 30 * time.Second
)

// InMemoryRecommendationCache caches pipeline results in process memory.
// Suitable for single-instance deployments; distributed deployments should
// use RedisRecommendationCache so instances agree on freshness.
type InMemoryRecommendationCache struct {
	entries sync.Map // map[string]*recommendationEntry
	ttl     time.Duration
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped int32

	hits   int64
	misses int64
}

type recommendationEntry struct {
	result    *pricing.PipelineResult
	expiresAt time.Time
}

func (e *recommendationEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemoryRecommendationCacheOption configures the cache
type InMemoryRecommendationCacheOption func(*InMemoryRecommendationCache)

// WithInMemoryTTL sets the entry TTL
func WithInMemoryTTL(ttl time.Duration) InMemoryRecommendationCacheOption {
	return func(c *InMemoryRecommendationCache) {
		c.ttl = ttl
	}
}

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemoryRecommendationCacheOption {
	return func(c *InMemoryRecommendationCache) {
		c.logger = logger
	}
}

// NewInMemoryRecommendationCache creates a new in-memory recommendation cache
func NewInMemoryRecommendationCache(opts ...InMemoryRecommendationCacheOption) *InMemoryRecommendationCache {
	cache := &InMemoryRecommendationCache{
		ttl:    defaultRecommendationTTL,
		logger: zap.NewNop(),
		stopCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(cache)
	}

	go cache.cleanupExpired()

	return cache
}

func recommendationKey(tenantID, productID uuid.UUID) string {
	return tenantID.String() + ":" + productID.String()
}

// Get returns the cached result, or false when absent or expired
func (c *InMemoryRecommendationCache) Get(ctx context.Context, tenantID, productID uuid.UUID) (*pricing.PipelineResult, bool, error) {
	key := recommendationKey(tenantID, productID)

	if value, ok := c.entries.Load(key); ok {
		entry := value.(*recommendationEntry)
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			c.logger.Debug("Recommendation cache hit", zap.String("key", key))
			return entry.result, true, nil
		}
		c.entries.Delete(key)
	}

	atomic.AddInt64(&c.misses, 1)
	c.logger.Debug("Recommendation cache miss", zap.String("key", key))
	return nil, false, nil
}

// Set stores a result
func (c *InMemoryRecommendationCache) Set(ctx context.Context, tenantID, productID uuid.UUID, result *pricing.PipelineResult) error {
	if result == nil {
		return nil
	}

	c.entries.Store(recommendationKey(tenantID, productID), &recommendationEntry{
		result:    result,
		expiresAt: time.Now().Add(c.ttl),
	})
	return nil
}

// Invalidate drops a cached result
func (c *InMemoryRecommendationCache) Invalidate(ctx context.Context, tenantID, productID uuid.UUID) error {
	c.entries.Delete(recommendationKey(tenantID, productID))
	return nil
}

// Close stops the cleanup goroutine
func (c *InMemoryRecommendationCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// GetStats returns cache hit/miss counters
func (c *InMemoryRecommendationCache) GetStats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

func (c *InMemoryRecommendationCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			removed := 0
			c.entries.Range(func(key, value any) bool {
				if value.(*recommendationEntry).isExpired() {
					c.entries.Delete(key)
					removed++
				}
				return true
			})
			if removed > 0 {
				c.logger.Debug("Cleaned up expired recommendation cache entries",
					zap.Int("removed", removed))
			}
		}
	}
}
