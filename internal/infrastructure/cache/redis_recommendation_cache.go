package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pricepilot/backend/internal/domain/pricing"
	"github.com/redis/go-redis/v9"
)

// RedisRecommendationCache caches pipeline results in Redis so multiple
// instances share freshness state
type RedisRecommendationCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisRecommendationCache creates a new Redis-based recommendation cache
func NewRedisRecommendationCache(cfg RedisConfig, ttl time.Duration) (*RedisRecommendationCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisRecommendationCacheWithClient(client, "", ttl), nil
}

// NewRedisRecommendationCacheWithClient creates a cache with an existing Redis client.
// Useful for testing or when sharing a client across components.
func NewRedisRecommendationCacheWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisRecommendationCache {
	if keyPrefix == "" {
		keyPrefix = "pricing:recommendation:"
	}
	if ttl <= 0 {
		ttl = defaultRecommendationTTL
	}
	return &RedisRecommendationCache{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

func (c *RedisRecommendationCache) key(tenantID, productID uuid.UUID) string {
	return c.keyPrefix + tenantID.String() + ":" + productID.String()
}

// Get returns the cached result, or false when absent
func (c *RedisRecommendationCache) Get(ctx context.Context, tenantID, productID uuid.UUID) (*pricing.PipelineResult, bool, error) {
	data, err := c.client.Get(ctx, c.key(tenantID, productID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cached recommendation: %w", err)
	}

	var result pricing.PipelineResult
	if err := json.Unmarshal(data, &result); err != nil {
		// A corrupt entry is treated as a miss so the pipeline recomputes it
		return nil, false, nil
	}
	return &result, true, nil
}

// Set stores a result with the configured TTL
func (c *RedisRecommendationCache) Set(ctx context.Context, tenantID, productID uuid.UUID, result *pricing.PipelineResult) error {
	if result == nil {
		return nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to serialize recommendation: %w", err)
	}

	if err := c.client.Set(ctx, c.key(tenantID, productID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache recommendation: %w", err)
	}
	return nil
}

// Invalidate drops a cached result
func (c *RedisRecommendationCache) Invalidate(ctx context.Context, tenantID, productID uuid.UUID) error {
	if err := c.client.Del(ctx, c.key(tenantID, productID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached recommendation: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisRecommendationCache) Close() error {
	return c.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (c *RedisRecommendationCache) GetClient() *redis.Client {
	return c.client
}
