package market

import (
	"time"

	"github.com/google/uuid"
	"github.com/pricepilot/backend/internal/domain/market"
)

// RecordCompetitorPriceRequest represents a competitor price observation
type RecordCompetitorPriceRequest struct {
	CompetitorName string     `json:"competitor_name" binding:"required,min=1,max=100"`
	Price          int64      `json:"price" binding:"required,gt=0"`
	URL            string     `json:"url" binding:"omitempty,max=2000"`
	InStock        *bool      `json:"in_stock"`
	RecordedAt     *time.Time `json:"recorded_at"`
}

// RecordDemandRequest represents a demand history entry
type RecordDemandRequest struct {
	Price        int64      `json:"price" binding:"required,gt=0"`
	QuantitySold int        `json:"quantity_sold" binding:"min=0"`
	Seasonality  *float64   `json:"seasonality" binding:"omitempty,gt=0"`
	RecordedAt   *time.Time `json:"recorded_at"`
}

// CompetitorPriceResponse represents a competitor observation in API responses
type CompetitorPriceResponse struct {
	ID             uuid.UUID `json:"id"`
	ProductID      uuid.UUID `json:"product_id"`
	CompetitorName string    `json:"competitor_name"`
	Price          int64     `json:"price"`
	URL            string    `json:"url,omitempty"`
	InStock        bool      `json:"in_stock"`
	RecordedAt     time.Time `json:"recorded_at"`
}

// DemandRecordResponse represents a demand history entry in API responses
type DemandRecordResponse struct {
	ID           uuid.UUID `json:"id"`
	ProductID    uuid.UUID `json:"product_id"`
	Price        int64     `json:"price"`
	QuantitySold int       `json:"quantity_sold"`
	Revenue      int64     `json:"revenue"`
	Seasonality  float64   `json:"seasonality"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// ListFilter represents pagination options for market history lists
type ListFilter struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToCompetitorPriceResponse converts a domain CompetitorPrice
func ToCompetitorPriceResponse(c *market.CompetitorPrice) CompetitorPriceResponse {
	return CompetitorPriceResponse{
		ID:             c.ID,
		ProductID:      c.ProductID,
		CompetitorName: c.CompetitorName,
		Price:          c.Price,
		URL:            c.URL,
		InStock:        c.InStock,
		RecordedAt:     c.RecordedAt,
	}
}

// ToCompetitorPriceResponses converts a slice of domain CompetitorPrices
func ToCompetitorPriceResponses(prices []market.CompetitorPrice) []CompetitorPriceResponse {
	responses := make([]CompetitorPriceResponse, len(prices))
	for i := range prices {
		responses[i] = ToCompetitorPriceResponse(&prices[i])
	}
	return responses
}

// ToDemandRecordResponse converts a domain DemandRecord
func ToDemandRecordResponse(d *market.DemandRecord) DemandRecordResponse {
	return DemandRecordResponse{
		ID:           d.ID,
		ProductID:    d.ProductID,
		Price:        d.Price,
		QuantitySold: d.QuantitySold,
		Revenue:      d.Revenue,
		Seasonality:  d.Seasonality,
		RecordedAt:   d.RecordedAt,
	}
}

// ToDemandRecordResponses converts a slice of domain DemandRecords
func ToDemandRecordResponses(records []market.DemandRecord) []DemandRecordResponse {
	responses := make([]DemandRecordResponse, len(records))
	for i := range records {
		responses[i] = ToDemandRecordResponse(&records[i])
	}
	return responses
}
