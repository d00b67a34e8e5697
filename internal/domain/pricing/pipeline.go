package pricing

import (
	"math"
	"time"
)

// ProductSnapshot is the read-only view of a product the engine works on.
// The catalog owns the product record; the pipeline only sees a copy taken
// at invocation time.
type ProductSnapshot struct {
	BaseCost         int64
	CurrentPrice     int64
	MinMarginPercent float64
	MaxPrice         *int64
	Inventory        int
	DemandElasticity float64
	CompetitorWeight float64 // 0 means DefaultCompetitorWeight
}

// CompetitorRecord is a competitor price observation supplied to the
// pipeline, newest first.
type CompetitorRecord struct {
	CompetitorName string
	Price          int64
	RecordedAt     time.Time
}

// DemandObservation is a demand history entry supplied to the pipeline,
// newest first.
type DemandObservation struct {
	Price      int64
	Quantity   int
	RecordedAt time.Time
}

// Per-stage outputs of a pipeline run.
type (
	ScraperStage struct {
		CompetitorCount       int   `json:"competitor_count"`
		LatestCompetitorPrice int64 `json:"latest_competitor_price"`
	}

	ForecastStage struct {
		Elasticity     float64     `json:"elasticity"`
		BaselineDemand int         `json:"baseline_demand"`
		DemandTrend    DemandTrend `json:"demand_trend"`
	}

	PipelineStages struct {
		Scraper      ScraperStage       `json:"scraper"`
		Forecast     ForecastStage      `json:"forecast"`
		Optimization OptimizationResult `json:"optimization"`
		Strategy     StrategyResult     `json:"strategy"`
	}

	Recommendation struct {
		CurrentPrice         int64  `json:"current_price"`
		RecommendedPrice     int64  `json:"recommended_price"`
		ExpectedProfitChange int    `json:"expected_profit_change"`
		Reason               string `json:"reason"`
		Confidence           int    `json:"confidence"`
	}
)

// PipelineResult is the full output of one recommendation run.
type PipelineResult struct {
	Stages         PipelineStages `json:"stages"`
	Recommendation Recommendation `json:"recommendation"`
}

// RunPipeline sequences the scraper-input, forecast, optimization, and
// strategy stages into one recommendation.
//
// Missing competitor or demand history is not an error: the engine falls
// back to the current price, the product's stored elasticity, and a default
// baseline demand. The caller must validate CurrentPrice > 0 before
// invoking; persistence of the recommendation is the caller's concern.
func RunPipeline(product ProductSnapshot, competitors []CompetitorRecord, demand []DemandObservation) PipelineResult {
	competitorWeight := product.CompetitorWeight
	if competitorWeight == 0 {
		competitorWeight = DefaultCompetitorWeight
	}

	// Scraper stage: most recent competitor price, falling back to our own
	competitorPrice := product.CurrentPrice
	if len(competitors) > 0 {
		competitorPrice = competitors[0].Price
	}
	scraper := ScraperStage{
		CompetitorCount:       len(competitors),
		LatestCompetitorPrice: competitorPrice,
	}

	// Forecast stage
	elasticity := product.DemandElasticity
	if len(demand) > 0 {
		points := make([]DemandPoint, len(demand))
		for i, d := range demand {
			points[i] = DemandPoint{Price: d.Price, Quantity: d.Quantity}
		}
		elasticity = EstimateElasticity(points)
	}
	if elasticity == 0 {
		elasticity = DefaultElasticity
	}

	baselineDemand := DefaultBaselineDemand
	if len(demand) > 0 {
		n := len(demand)
		if n > 30 {
			n = 30
		}
		total := 0
		for _, d := range demand[:n] {
			total += d.Quantity
		}
		baselineDemand = int(math.Round(float64(total) / float64(n)))
	}

	trend := TrendNeutral
	if len(demand) > 5 {
		if demand[0].Quantity > demand[5].Quantity {
			trend = TrendStrong
		} else {
			trend = TrendWeak
		}
	}
	forecast := ForecastStage{
		Elasticity:     elasticity,
		BaselineDemand: baselineDemand,
		DemandTrend:    trend,
	}

	// Optimization stage
	optimization := FindOptimalPrice(
		product.CurrentPrice,
		product.BaseCost,
		product.MinMarginPercent,
		product.MaxPrice,
		elasticity,
		competitorPrice,
		baselineDemand,
		competitorWeight,
	)

	// Strategy stage
	strategy := ApplyStrategyRules(
		optimization.OptimalPrice,
		product.BaseCost,
		product.MinMarginPercent,
		competitorPrice,
		product.Inventory,
		trend,
	)

	confidence := 70 + min(25, len(demand)/2)
	if confidence > 95 {
		confidence = 95
	}

	return PipelineResult{
		Stages: PipelineStages{
			Scraper:      scraper,
			Forecast:     forecast,
			Optimization: optimization,
			Strategy:     strategy,
		},
		Recommendation: Recommendation{
			CurrentPrice:         product.CurrentPrice,
			RecommendedPrice:     strategy.FinalPrice,
			ExpectedProfitChange: optimization.ProfitIncreasePct,
			Reason:               strategy.Reason,
			Confidence:           confidence,
		},
	}
}
