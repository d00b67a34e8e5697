package pricing

import "math"

// OptimizationResult is the outcome of a profit-maximizing price search.
type OptimizationResult struct {
	OptimalPrice      int64 `json:"optimal_price"`
	ExpectedDemand    int   `json:"expected_demand"`
	ExpectedProfit    int64 `json:"expected_profit"`
	ProfitIncreasePct int   `json:"profit_increase_pct"`
}

// minPriceFor returns the lowest admissible price for a cost and margin
// floor, rounded up to the next cent.
func minPriceFor(cost int64, minMarginPct float64) int64 {
	return int64(math.Ceil(float64(cost) * (1 + minMarginPct/100)))
}

// FindOptimalPrice searches the admissible price range for the price that
// maximizes expected profit under the demand model.
//
// The search is a two-pass grid: a coarse scan of ~50 steps across
// [minPrice, maxBound], then a fine rescan around the coarse winner. The
// best candidate is seeded with the profit of staying at currentPrice, so a
// flat or adverse profit curve recommends no change. A nil or non-positive
// maxPrice defaults the upper bound to 1.5x the current price.
func FindOptimalPrice(currentPrice, cost int64, minMarginPct float64, maxPrice *int64, elasticity float64, competitorPrice int64, baselineDemand int, competitorWeight float64) OptimizationResult {
	minPrice := minPriceFor(cost, minMarginPct)
	maxBound := currentPrice * 3 / 2
	if maxPrice != nil && *maxPrice > 0 {
		maxBound = *maxPrice
	}

	bestPrice := currentPrice
	bestProfit := Profit(currentPrice, cost,
		ForecastDemand(baselineDemand, currentPrice, currentPrice, elasticity, competitorPrice, competitorWeight))

	step := (maxBound - minPrice) / 50
	if step < 1 {
		step = 1
	}

	for price := minPrice; price <= maxBound; price += step {
		demand := ForecastDemand(baselineDemand, currentPrice, price, elasticity, competitorPrice, competitorWeight)
		profit := Profit(price, cost, demand)
		if profit > bestProfit {
			bestProfit = profit
			bestPrice = price
		}
	}

	// Fine-tune around the coarse winner
	fineStep := step / 5
	if fineStep < 1 {
		fineStep = 1
	}
	searchRange := step * 2

	lo := bestPrice - searchRange
	if lo < minPrice {
		lo = minPrice
	}
	hi := bestPrice + searchRange
	if hi > maxBound {
		hi = maxBound
	}

	for price := lo; price <= hi; price += fineStep {
		demand := ForecastDemand(baselineDemand, currentPrice, price, elasticity, competitorPrice, competitorWeight)
		profit := Profit(price, cost, demand)
		if profit > bestProfit {
			bestProfit = profit
			bestPrice = price
		}
	}

	expectedDemand := ForecastDemand(baselineDemand, currentPrice, bestPrice, elasticity, competitorPrice, competitorWeight)
	currentProfit := Profit(currentPrice, cost,
		ForecastDemand(baselineDemand, currentPrice, currentPrice, elasticity, competitorPrice, competitorWeight))

	profitIncrease := 0
	if currentProfit > 0 {
		profitIncrease = int(math.Round(float64(bestProfit-currentProfit) / float64(currentProfit) * 100))
	}

	return OptimizationResult{
		OptimalPrice:      bestPrice,
		ExpectedDemand:    expectedDemand,
		ExpectedProfit:    bestProfit,
		ProfitIncreasePct: profitIncrease,
	}
}
