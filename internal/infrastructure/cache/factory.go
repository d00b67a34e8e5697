package cache

import (
	"fmt"
	"time"

	applicationpricing "github.com/pricepilot/backend/internal/application/pricing"
	"github.com/pricepilot/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// RecommendationCacheFactory creates recommendation caches based on configuration
type RecommendationCacheFactory struct {
	redisConfig           config.RedisConfig
	ttl                   time.Duration
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// RecommendationCacheFactoryOption is a functional option for configuring the factory
type RecommendationCacheFactoryOption func(*RecommendationCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) RecommendationCacheFactoryOption {
	return func(f *RecommendationCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory cache when
// Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) RecommendationCacheFactoryOption {
	return func(f *RecommendationCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewRecommendationCacheFactory creates a new factory
func NewRecommendationCacheFactory(cfg config.RedisConfig, ttl time.Duration, opts ...RecommendationCacheFactoryOption) *RecommendationCacheFactory {
	f := &RecommendationCacheFactory{
		redisConfig:           cfg,
		ttl:                   ttl,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisCache creates a Redis-based recommendation cache
func (f *RecommendationCacheFactory) CreateRedisCache() (applicationpricing.RecommendationCache, error) {
	cache, err := NewRedisRecommendationCache(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}, f.ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis recommendation cache: %w", err)
	}

	return cache, nil
}

// CreateInMemoryCache creates an in-memory recommendation cache.
// WARNING: in-memory caches do not share state across process instances,
// so different instances may serve recommendations of different ages.
func (f *RecommendationCacheFactory) CreateInMemoryCache() applicationpricing.RecommendationCache {
	return NewInMemoryRecommendationCache(
		WithInMemoryTTL(f.ttl),
		WithInMemoryLogger(f.logger),
	)
}

// CreateCache creates a recommendation cache based on whether Redis is available.
// It tries Redis first and falls back to in-memory when allowed.
func (f *RecommendationCacheFactory) CreateCache() (applicationpricing.RecommendationCache, error) {
	cache, err := f.CreateRedisCache()
	if err == nil {
		f.logger.Info("using Redis recommendation cache")
		return cache, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for recommendation cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory recommendation cache. "+
		"Instances may serve recommendations of different ages in distributed deployments.",
		zap.Error(err),
	)
	return f.CreateInMemoryCache(), nil
}

// Ensure both implementations satisfy the cache contract
var (
	_ applicationpricing.RecommendationCache = (*InMemoryRecommendationCache)(nil)
	_ applicationpricing.RecommendationCache = (*RedisRecommendationCache)(nil)
)
