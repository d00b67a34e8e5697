package pricing

import "math"

// DefaultCompetitorWeight is how strongly a cheaper competitor listing
// depresses forecasted demand.
const DefaultCompetitorWeight = 0.3

// DefaultElasticity is assumed when no usable demand history exists.
const DefaultElasticity = 1.2

// DefaultBaselineDemand is the baseline unit demand assumed for products
// without demand history.
const DefaultBaselineDemand = 50

// ForecastDemand estimates unit demand at a candidate price.
//
// Demand moves with price changes scaled by elasticity; a competitor priced
// below the candidate additionally depresses demand, while a pricier
// competitor has no boosting effect. The caller must guarantee
// currentPrice > 0.
func ForecastDemand(baselineDemand int, currentPrice, newPrice int64, elasticity float64, competitorPrice int64, competitorWeight float64) int {
	priceChangePercent := float64(newPrice-currentPrice) / float64(currentPrice)
	demandChangePercent := elasticity * priceChangePercent

	competitorInfluence := 0.0
	if competitorPrice < newPrice {
		competitorInfluence = competitorWeight * (float64(competitorPrice-newPrice) / float64(newPrice))
	}

	forecasted := float64(baselineDemand) * (1 + demandChangePercent + competitorInfluence)

	demand := int(math.Round(forecasted))
	if demand < 0 {
		return 0
	}
	return demand
}

// Profit returns (price - cost) * demand in minor currency units.
// It may be negative when the price is below cost.
func Profit(price, cost int64, demand int) int64 {
	return (price - cost) * int64(demand)
}

// ScenarioResult is the outcome of simulating a single candidate price.
type ScenarioResult struct {
	Demand        int     `json:"demand"`
	Revenue       int64   `json:"revenue"`
	Profit        int64   `json:"profit"`
	MarginPercent float64 `json:"margin_percent"`
}

// SimulateScenario evaluates a single candidate price against the demand
// model, returning demand, revenue, profit, and the margin on price.
func SimulateScenario(price, cost int64, baselineDemand int, currentPrice int64, elasticity float64, competitorPrice int64, competitorWeight float64) ScenarioResult {
	demand := ForecastDemand(baselineDemand, currentPrice, price, elasticity, competitorPrice, competitorWeight)
	profit := Profit(price, cost, demand)
	revenue := price * int64(demand)
	marginPercent := 0.0
	if price > 0 {
		marginPercent = float64(price-cost) / float64(price) * 100
	}
	return ScenarioResult{
		Demand:        demand,
		Revenue:       revenue,
		Profit:        profit,
		MarginPercent: marginPercent,
	}
}
