package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pricepilot/backend/internal/domain/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *pricing.PipelineResult {
	return &pricing.PipelineResult{
		Recommendation: pricing.Recommendation{
			CurrentPrice:     7999,
			RecommendedPrice: 8499,
			Reason:           "Optimization recommended",
			Confidence:       72,
		},
	}
}

func TestInMemoryRecommendationCache(t *testing.T) {
	ctx := context.Background()

	t.Run("miss on empty cache", func(t *testing.T) {
		c := NewInMemoryRecommendationCache()
		defer c.Close()

		result, found, err := c.Get(ctx, uuid.New(), uuid.New())
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, result)
	})

	t.Run("set then get", func(t *testing.T) {
		c := NewInMemoryRecommendationCache()
		defer c.Close()

		tenantID := uuid.New()
		productID := uuid.New()
		require.NoError(t, c.Set(ctx, tenantID, productID, sampleResult()))

		result, found, err := c.Get(ctx, tenantID, productID)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, int64(8499), result.Recommendation.RecommendedPrice)

		hits, misses := c.GetStats()
		assert.Equal(t, int64(1), hits)
		assert.Equal(t, int64(0), misses)
	})

	t.Run("entries are tenant and product scoped", func(t *testing.T) {
		c := NewInMemoryRecommendationCache()
		defer c.Close()

		tenantID := uuid.New()
		productID := uuid.New()
		require.NoError(t, c.Set(ctx, tenantID, productID, sampleResult()))

		_, found, err := c.Get(ctx, uuid.New(), productID)
		require.NoError(t, err)
		assert.False(t, found)

		_, found, err = c.Get(ctx, tenantID, uuid.New())
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("invalidate drops the entry", func(t *testing.T) {
		c := NewInMemoryRecommendationCache()
		defer c.Close()

		tenantID := uuid.New()
		productID := uuid.New()
		require.NoError(t, c.Set(ctx, tenantID, productID, sampleResult()))
		require.NoError(t, c.Invalidate(ctx, tenantID, productID))

		_, found, err := c.Get(ctx, tenantID, productID)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("expired entries are misses", func(t *testing.T) {
		c := NewInMemoryRecommendationCache(WithInMemoryTTL(time.Millisecond))
		defer c.Close()

		tenantID := uuid.New()
		productID := uuid.New()
		require.NoError(t, c.Set(ctx, tenantID, productID, sampleResult()))

		time.Sleep(5 * time.Millisecond)

		_, found, err := c.Get(ctx, tenantID, productID)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		c := NewInMemoryRecommendationCache()
		require.NoError(t, c.Close())
		require.NoError(t, c.Close())
	})
}
