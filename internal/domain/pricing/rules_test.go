package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyStrategyRules(t *testing.T) {
	t.Run("no rule fires", func(t *testing.T) {
		result := ApplyStrategyRules(10000, 8000, 15, 12000, 50, TrendNeutral)

		assert.Equal(t, int64(10000), result.FinalPrice)
		assert.Equal(t, "Optimization recommended", result.Reason)
	})

	t.Run("margin floor lifts a too-low recommendation", func(t *testing.T) {
		// minPrice = ceil(8000 * 1.15) = 9200
		result := ApplyStrategyRules(8500, 8000, 15, 9000, 50, TrendNeutral)

		assert.Equal(t, int64(9200), result.FinalPrice)
		assert.Equal(t, "Adjusted to meet minimum margin requirement", result.Reason)
	})

	t.Run("low inventory raises the price", func(t *testing.T) {
		low := ApplyStrategyRules(10000, 8000, 15, 12000, 3, TrendNeutral)
		ample := ApplyStrategyRules(10000, 8000, 15, 12000, 100, TrendNeutral)

		assert.Equal(t, int64(11000), low.FinalPrice)
		assert.Equal(t, "Increased due to low inventory", low.Reason)
		assert.GreaterOrEqual(t, low.FinalPrice, ample.FinalPrice)
	})

	t.Run("undercut fires off the original recommendation", func(t *testing.T) {
		// Inventory bumps the running price to 11000, then the undercut
		// rule still fires because the original 10000 beats the competitor
		result := ApplyStrategyRules(10000, 8000, 15, 9500, 3, TrendNeutral)

		assert.Equal(t, int64(9450), result.FinalPrice)
		assert.Equal(t, "Undercut competitor price", result.Reason)
	})

	t.Run("undercut ignores increases made by earlier rules", func(t *testing.T) {
		// Running price exceeds the competitor after the inventory bump,
		// but the original recommendation did not, so no undercut happens
		result := ApplyStrategyRules(9400, 8000, 15, 9500, 3, TrendNeutral)

		assert.Equal(t, int64(10340), result.FinalPrice)
		assert.Equal(t, "Increased due to low inventory", result.Reason)
	})

	t.Run("undercut is skipped below the margin floor", func(t *testing.T) {
		// undercut = 9200 - 50 would land below minPrice 9200
		result := ApplyStrategyRules(10000, 8000, 15, 9200, 50, TrendNeutral)

		assert.Equal(t, int64(10000), result.FinalPrice)
		assert.Equal(t, "Optimization recommended", result.Reason)
	})

	t.Run("weak demand trims the price", func(t *testing.T) {
		result := ApplyStrategyRules(10000, 8000, 15, 12000, 50, TrendWeak)

		assert.Equal(t, int64(9500), result.FinalPrice)
		assert.Equal(t, "Reduced due to weak demand", result.Reason)
	})

	t.Run("weak demand never trims below the margin floor", func(t *testing.T) {
		result := ApplyStrategyRules(9300, 8000, 15, 12000, 50, TrendWeak)

		assert.Equal(t, int64(9200), result.FinalPrice)
		assert.Equal(t, "Reduced due to weak demand", result.Reason)
	})

	t.Run("strong demand raises the price", func(t *testing.T) {
		result := ApplyStrategyRules(10000, 8000, 15, 12000, 50, TrendStrong)

		assert.Equal(t, int64(10500), result.FinalPrice)
		assert.Equal(t, "Increased due to strong demand", result.Reason)
	})

	t.Run("strong demand compounds after an undercut", func(t *testing.T) {
		// 10000 -> undercut to 9450 -> ceil(9450 * 1.05) = 9923
		result := ApplyStrategyRules(10000, 8000, 15, 9500, 50, TrendStrong)

		assert.Equal(t, int64(9923), result.FinalPrice)
		assert.Equal(t, "Increased due to strong demand", result.Reason)
	})
}
