package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateElasticity(t *testing.T) {
	t.Run("empty history returns default", func(t *testing.T) {
		assert.Equal(t, DefaultElasticity, EstimateElasticity(nil))
		assert.Equal(t, DefaultElasticity, EstimateElasticity([]DemandPoint{}))
	})

	t.Run("single point returns default", func(t *testing.T) {
		assert.Equal(t, DefaultElasticity, EstimateElasticity([]DemandPoint{{Price: 10000, Quantity: 100}}))
	})

	t.Run("unit elasticity from matched changes", func(t *testing.T) {
		history := []DemandPoint{
			{Price: 10000, Quantity: 100},
			{Price: 11000, Quantity: 90},
		}
		assert.InDelta(t, 1.0, EstimateElasticity(history), 1e-9)
	})

	t.Run("clamped to lower bound", func(t *testing.T) {
		history := []DemandPoint{
			{Price: 10000, Quantity: 100},
			{Price: 20000, Quantity: 95},
		}
		assert.Equal(t, MinElasticity, EstimateElasticity(history))
	})

	t.Run("clamped to upper bound", func(t *testing.T) {
		history := []DemandPoint{
			{Price: 10000, Quantity: 100},
			{Price: 10100, Quantity: 50},
		}
		assert.Equal(t, MaxElasticity, EstimateElasticity(history))
	})

	t.Run("skips pairs with unchanged price", func(t *testing.T) {
		history := []DemandPoint{
			{Price: 10000, Quantity: 100},
			{Price: 10000, Quantity: 50},
			{Price: 11000, Quantity: 55},
		}
		assert.InDelta(t, 1.0, EstimateElasticity(history), 1e-9)
	})

	t.Run("no valid pairs returns default", func(t *testing.T) {
		history := []DemandPoint{
			{Price: 0, Quantity: 100},
			{Price: 0, Quantity: 50},
		}
		assert.Equal(t, DefaultElasticity, EstimateElasticity(history))

		history = []DemandPoint{
			{Price: 10000, Quantity: 100},
			{Price: 10000, Quantity: 100},
		}
		assert.Equal(t, DefaultElasticity, EstimateElasticity(history))
	})

	t.Run("result is order sensitive", func(t *testing.T) {
		history := []DemandPoint{
			{Price: 10000, Quantity: 100},
			{Price: 12000, Quantity: 80},
			{Price: 13000, Quantity: 90},
		}
		reversed := []DemandPoint{
			{Price: 13000, Quantity: 90},
			{Price: 12000, Quantity: 80},
			{Price: 10000, Quantity: 100},
		}

		forward := EstimateElasticity(history)
		backward := EstimateElasticity(reversed)

		assert.InDelta(t, 1.25, forward, 1e-9)
		assert.NotEqual(t, forward, backward)
	})

	t.Run("always within clamp bounds", func(t *testing.T) {
		histories := [][]DemandPoint{
			{{Price: 5000, Quantity: 10}, {Price: 5100, Quantity: 200}, {Price: 4000, Quantity: 5}},
			{{Price: 100, Quantity: 1}, {Price: 200, Quantity: 2}, {Price: 300, Quantity: 3}},
			{{Price: 9999, Quantity: 77}, {Price: 9998, Quantity: 78}},
		}
		for _, h := range histories {
			e := EstimateElasticity(h)
			assert.GreaterOrEqual(t, e, MinElasticity)
			assert.LessOrEqual(t, e, MaxElasticity)
		}
	})
}
