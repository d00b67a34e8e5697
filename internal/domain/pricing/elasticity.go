package pricing

import "math"

// Elasticity clamp bounds. Extreme pairwise estimates are treated as noise.
const (
	MinElasticity = 0.5
	MaxElasticity = 3.0
)

// DemandPoint is a single (price, quantity) observation. Sequences of
// DemandPoint are order-sensitive: consecutive pairs are differenced, so
// callers must pass a consistent temporal ordering.
type DemandPoint struct {
	Price    int64
	Quantity int
}

// EstimateElasticity derives a price elasticity coefficient from ordered
// historical observations.
//
// For each consecutive pair the absolute ratio of the quantity change to the
// price change contributes to a running mean. Pairs where the previous price
// or quantity is non-positive, or where the price did not move, are skipped.
// With fewer than two points, or no contributing pairs, the default
// elasticity is returned. The result is clamped to [0.5, 3.0].
func EstimateElasticity(history []DemandPoint) float64 {
	if len(history) < 2 {
		return DefaultElasticity
	}

	totalElasticity := 0.0
	count := 0

	for i := 1; i < len(history); i++ {
		prev := history[i-1]
		curr := history[i]

		if prev.Price <= 0 || prev.Quantity <= 0 {
			continue
		}

		priceChange := float64(curr.Price-prev.Price) / float64(prev.Price)
		if priceChange == 0 {
			continue
		}

		quantityChange := float64(curr.Quantity-prev.Quantity) / float64(prev.Quantity)
		totalElasticity += math.Abs(quantityChange / priceChange)
		count++
	}

	if count == 0 {
		return DefaultElasticity
	}

	return math.Min(MaxElasticity, math.Max(MinElasticity, totalElasticity/float64(count)))
}
