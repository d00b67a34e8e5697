package pricing

import "math"

// DemandTrend is a coarse classification of recent demand movement.
type DemandTrend string

const (
	TrendStrong  DemandTrend = "strong"
	TrendWeak    DemandTrend = "weak"
	TrendNeutral DemandTrend = "neutral"
)

// StrategyResult is the outcome of the business-rule overlay. Reason
// reflects only the last rule that fired, not a cumulative audit trail.
type StrategyResult struct {
	FinalPrice int64  `json:"final_price"`
	Reason     string `json:"reason"`
}

// ruleInput carries the immutable inputs every strategy rule sees. Rules
// read RecommendedPrice as originally supplied even after earlier rules
// have moved the running price.
type ruleInput struct {
	RecommendedPrice int64
	Cost             int64
	MinPrice         int64
	CompetitorPrice  int64
	Inventory        int
	Trend            DemandTrend
}

// strategyRule adjusts the running (price, reason) accumulator. A rule that
// does not fire must return its inputs unchanged.
type strategyRule func(in ruleInput, price int64, reason string) (int64, string)

// strategyRules fire in this fixed order. Later rules can undo earlier
// adjustments, and the undercut rule deliberately triggers off the original
// recommended price rather than the running price.
var strategyRules = []strategyRule{
	marginFloorRule,
	lowInventoryRule,
	undercutCompetitorRule,
	weakDemandRule,
	strongDemandRule,
}

func marginFloorRule(in ruleInput, price int64, reason string) (int64, string) {
	if price < in.MinPrice {
		return in.MinPrice, "Adjusted to meet minimum margin requirement"
	}
	return price, reason
}

func lowInventoryRule(in ruleInput, price int64, reason string) (int64, string) {
	if in.Inventory < 5 {
		return int64(math.Ceil(float64(price) * 1.1)), "Increased due to low inventory"
	}
	return price, reason
}

func undercutCompetitorRule(in ruleInput, price int64, reason string) (int64, string) {
	if in.CompetitorPrice > 0 && in.RecommendedPrice > in.CompetitorPrice {
		undercut := in.CompetitorPrice - 50
		if undercut >= in.MinPrice {
			return undercut, "Undercut competitor price"
		}
	}
	return price, reason
}

func weakDemandRule(in ruleInput, price int64, reason string) (int64, string) {
	if in.Trend == TrendWeak && price > in.MinPrice {
		reduced := int64(math.Floor(float64(price) * 0.95))
		if reduced < in.MinPrice {
			reduced = in.MinPrice
		}
		return reduced, "Reduced due to weak demand"
	}
	return price, reason
}

func strongDemandRule(in ruleInput, price int64, reason string) (int64, string) {
	if in.Trend == TrendStrong {
		return int64(math.Ceil(float64(price) * 1.05)), "Increased due to strong demand"
	}
	return price, reason
}

// ApplyStrategyRules runs the ordered business-rule overlay on an
// optimizer recommendation.
func ApplyStrategyRules(recommendedPrice, cost int64, minMarginPct float64, competitorPrice int64, inventory int, trend DemandTrend) StrategyResult {
	in := ruleInput{
		RecommendedPrice: recommendedPrice,
		Cost:             cost,
		MinPrice:         minPriceFor(cost, minMarginPct),
		CompetitorPrice:  competitorPrice,
		Inventory:        inventory,
		Trend:            trend,
	}

	price := recommendedPrice
	reason := "Optimization recommended"
	for _, rule := range strategyRules {
		price, reason = rule(in, price, reason)
	}

	return StrategyResult{FinalPrice: price, Reason: reason}
}
