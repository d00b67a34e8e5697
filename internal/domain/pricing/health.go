package pricing

import "math"

// HealthStatus buckets a health score.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusAttention HealthStatus = "attention"
	HealthStatusCritical  HealthStatus = "critical"
)

// HealthReport scores a product's pricing health from margin, competitive
// position, and data completeness.
type HealthReport struct {
	Score              int          `json:"score"`
	Status             HealthStatus `json:"status"`
	MarginPct          float64      `json:"margin_pct"`
	CompetitorCount    int          `json:"competitor_count"`
	AvgCompetitorPrice *int64       `json:"avg_competitor_price,omitempty"`
	Issues             []string     `json:"issues"`
}

// CompetitorObservation is a competitor price point as seen by the health
// scorer. Lists are expected newest-first.
type CompetitorObservation struct {
	CompetitorName string
	Price          int64
}

// avgLatestCompetitorPrice averages the first observation per distinct
// competitor name in the supplied time-ordered list, giving a
// most-recent-per-competitor average.
func avgLatestCompetitorPrice(observations []CompetitorObservation) *int64 {
	seen := make(map[string]bool)
	var sum int64
	var n int64
	for _, obs := range observations {
		if seen[obs.CompetitorName] {
			continue
		}
		seen[obs.CompetitorName] = true
		sum += obs.Price
		n++
	}
	if n == 0 {
		return nil
	}
	avg := int64(math.Round(float64(sum) / float64(n)))
	return &avg
}

// ScoreHealth computes a 0-100 pricing health score for a product.
//
// Deductions stack independently: a thin or broken margin, a price far
// above the competitive average, missing competitor or demand data, and
// critically low inventory each pull the score down.
func ScoreHealth(product ProductSnapshot, competitors []CompetitorObservation, demandCount int) HealthReport {
	score := 100
	issues := []string{}

	marginPct := 0.0
	if product.BaseCost > 0 {
		marginPct = float64(product.CurrentPrice-product.BaseCost) / float64(product.BaseCost) * 100
	}

	if marginPct < product.MinMarginPercent {
		score -= 35
		issues = append(issues, "Margin below minimum")
	} else if marginPct < product.MinMarginPercent+5 {
		score -= 10
		issues = append(issues, "Margin near minimum")
	}

	avgPrice := avgLatestCompetitorPrice(competitors)
	if avgPrice != nil {
		avg := float64(*avgPrice)
		if float64(product.CurrentPrice) > avg*1.2 {
			score -= 30
			issues = append(issues, "Price more than 20% above competitors")
		} else if float64(product.CurrentPrice) > avg*1.05 {
			score -= 10
			issues = append(issues, "Price more than 5% above competitors")
		}
	}

	if len(competitors) == 0 {
		score -= 15
		issues = append(issues, "No competitor data")
	}
	if demandCount == 0 && len(competitors) == 0 {
		score -= 10
		issues = append(issues, "No demand history")
	}

	if product.Inventory > 0 && product.Inventory < 5 {
		score -= 5
		issues = append(issues, "Low inventory")
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	status := HealthStatusCritical
	switch {
	case score >= 80:
		status = HealthStatusHealthy
	case score >= 50:
		status = HealthStatusAttention
	}

	return HealthReport{
		Score:              score,
		Status:             status,
		MarginPct:          marginPct,
		CompetitorCount:    len(competitors),
		AvgCompetitorPrice: avgPrice,
		Issues:             issues,
	}
}
