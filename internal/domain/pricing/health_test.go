package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreHealth(t *testing.T) {
	healthyProduct := ProductSnapshot{
		BaseCost:         1000,
		CurrentPrice:     1500, // 50% margin
		MinMarginPercent: 10,
		Inventory:        50,
	}
	competitors := []CompetitorObservation{
		{CompetitorName: "Acme", Price: 1500},
	}

	t.Run("well positioned product scores 100", func(t *testing.T) {
		report := ScoreHealth(healthyProduct, competitors, 10)

		assert.Equal(t, 100, report.Score)
		assert.Equal(t, HealthStatusHealthy, report.Status)
		assert.Empty(t, report.Issues)
		assert.InDelta(t, 50.0, report.MarginPct, 1e-9)
		assert.Equal(t, 1, report.CompetitorCount)
	})

	t.Run("margin below minimum", func(t *testing.T) {
		product := healthyProduct
		product.CurrentPrice = 1050 // 5% margin, minimum is 10
		report := ScoreHealth(product, competitors, 10)

		assert.Equal(t, 65, report.Score)
		assert.Equal(t, HealthStatusAttention, report.Status)
		assert.Contains(t, report.Issues, "Margin below minimum")
	})

	t.Run("margin near minimum", func(t *testing.T) {
		product := healthyProduct
		product.CurrentPrice = 1120 // 12% margin, within 5 points of 10
		report := ScoreHealth(product, competitors, 10)

		assert.Equal(t, 90, report.Score)
		assert.Contains(t, report.Issues, "Margin near minimum")
	})

	t.Run("price far above competitors", func(t *testing.T) {
		product := healthyProduct
		product.CurrentPrice = 2500
		cheap := []CompetitorObservation{{CompetitorName: "Acme", Price: 2000}}
		report := ScoreHealth(product, cheap, 10)

		assert.Equal(t, 70, report.Score)
		assert.Contains(t, report.Issues, "Price more than 20% above competitors")
	})

	t.Run("price slightly above competitors", func(t *testing.T) {
		product := healthyProduct
		product.CurrentPrice = 2200
		cheap := []CompetitorObservation{{CompetitorName: "Acme", Price: 2000}}
		report := ScoreHealth(product, cheap, 10)

		assert.Equal(t, 90, report.Score)
		assert.Contains(t, report.Issues, "Price more than 5% above competitors")
	})

	t.Run("missing competitor data", func(t *testing.T) {
		report := ScoreHealth(healthyProduct, nil, 10)

		assert.Equal(t, 85, report.Score)
		assert.Contains(t, report.Issues, "No competitor data")
		assert.Nil(t, report.AvgCompetitorPrice)
	})

	t.Run("missing demand history stacks with missing competitors", func(t *testing.T) {
		report := ScoreHealth(healthyProduct, nil, 0)

		assert.Equal(t, 75, report.Score)
		assert.Contains(t, report.Issues, "No competitor data")
		assert.Contains(t, report.Issues, "No demand history")
	})

	t.Run("missing demand alone does not deduct", func(t *testing.T) {
		report := ScoreHealth(healthyProduct, competitors, 0)
		assert.Equal(t, 100, report.Score)
	})

	t.Run("critically low inventory", func(t *testing.T) {
		product := healthyProduct
		product.Inventory = 3
		report := ScoreHealth(product, competitors, 10)

		assert.Equal(t, 95, report.Score)
		assert.Contains(t, report.Issues, "Low inventory")
	})

	t.Run("out of stock is not low inventory", func(t *testing.T) {
		product := healthyProduct
		product.Inventory = 0
		report := ScoreHealth(product, competitors, 10)
		assert.Equal(t, 100, report.Score)
	})

	t.Run("stacked deductions fall to critical", func(t *testing.T) {
		product := ProductSnapshot{
			BaseCost:         1000,
			CurrentPrice:     1050, // margin below minimum
			MinMarginPercent: 10,
			Inventory:        2, // low inventory
		}
		report := ScoreHealth(product, nil, 0)

		// 100 - 35 - 15 - 10 - 5
		assert.Equal(t, 35, report.Score)
		assert.Equal(t, HealthStatusCritical, report.Status)
	})

	t.Run("average uses first record per competitor", func(t *testing.T) {
		observations := []CompetitorObservation{
			{CompetitorName: "Acme", Price: 2000},
			{CompetitorName: "Bolt", Price: 3000},
			{CompetitorName: "Acme", Price: 9999}, // older Acme record ignored
		}
		report := ScoreHealth(healthyProduct, observations, 10)

		require.NotNil(t, report.AvgCompetitorPrice)
		assert.Equal(t, int64(2500), *report.AvgCompetitorPrice)
		assert.Equal(t, 3, report.CompetitorCount)
	})

	t.Run("zero cost yields zero margin", func(t *testing.T) {
		product := healthyProduct
		product.BaseCost = 0
		report := ScoreHealth(product, competitors, 10)

		assert.Zero(t, report.MarginPct)
		assert.Contains(t, report.Issues, "Margin below minimum")
	})
}
