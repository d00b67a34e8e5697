package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/pricepilot/backend/internal/domain/pricing"
)

// PipelineResponse wraps a pipeline run for API responses
type PipelineResponse struct {
	ProductID   uuid.UUID              `json:"product_id"`
	Result      pricing.PipelineResult `json:"result"`
	Cached      bool                   `json:"cached"`
	GeneratedAt time.Time              `json:"generated_at"`
}

// ApplyRecommendationRequest applies a recommended price to a product
type ApplyRecommendationRequest struct {
	RecommendedPrice int64  `json:"recommended_price" binding:"required,gt=0"`
	Reason           string `json:"reason" binding:"max=200"`
}

// ApplyRecommendationResponse confirms an applied price change
type ApplyRecommendationResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	NewPrice  int64     `json:"new_price"`
	Message   string    `json:"message"`
}

// SimulateRequest evaluates a hypothetical price for a product
type SimulateRequest struct {
	Price int64 `json:"price" binding:"required,gt=0"`
}

// SimulateResponse is the outcome of a what-if price evaluation
type SimulateResponse struct {
	ProductID uuid.UUID              `json:"product_id"`
	Price     int64                  `json:"price"`
	Scenario  pricing.ScenarioResult `json:"scenario"`
}

// PriceChangeResponse represents a pricing history entry in API responses
type PriceChangeResponse struct {
	ID                   uuid.UUID `json:"id"`
	ProductID            uuid.UUID `json:"product_id"`
	PreviousPrice        int64     `json:"previous_price"`
	NewPrice             int64     `json:"new_price"`
	RecommendedPrice     int64     `json:"recommended_price"`
	Reason               string    `json:"reason"`
	ExpectedProfitChange int       `json:"expected_profit_change"`
	Applied              bool      `json:"applied"`
	CreatedAt            time.Time `json:"created_at"`
}

// HistoryFilter represents pagination options for pricing history
type HistoryFilter struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ProductHealthResponse scores one product's pricing health
type ProductHealthResponse struct {
	ProductID          uuid.UUID `json:"product_id"`
	SKU                string    `json:"sku"`
	Name               string    `json:"name"`
	CurrentPrice       int64     `json:"current_price"`
	Score              int       `json:"score"`
	Status             string    `json:"status"`
	MarginPct          float64   `json:"margin_pct"`
	CompetitorCount    int       `json:"competitor_count"`
	AvgCompetitorPrice *int64    `json:"avg_competitor_price,omitempty"`
	Issues             []string  `json:"issues"`
}

// ToPriceChangeResponse converts a domain PriceChange
func ToPriceChangeResponse(c *pricing.PriceChange) PriceChangeResponse {
	return PriceChangeResponse{
		ID:                   c.ID,
		ProductID:            c.ProductID,
		PreviousPrice:        c.PreviousPrice,
		NewPrice:             c.NewPrice,
		RecommendedPrice:     c.RecommendedPrice,
		Reason:               c.Reason,
		ExpectedProfitChange: c.ExpectedProfitChange,
		Applied:              c.Applied,
		CreatedAt:            c.CreatedAt,
	}
}

// ToPriceChangeResponses converts a slice of domain PriceChanges
func ToPriceChangeResponses(changes []pricing.PriceChange) []PriceChangeResponse {
	responses := make([]PriceChangeResponse, len(changes))
	for i := range changes {
		responses[i] = ToPriceChangeResponse(&changes[i])
	}
	return responses
}
