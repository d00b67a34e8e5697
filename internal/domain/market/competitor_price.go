package market

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pricepilot/backend/internal/domain/shared"
)

// CompetitorPrice is an observed price point for a competing listing of a
// product. Prices are stored in minor currency units (cents).
type CompetitorPrice struct {
	shared.TenantAggregateRoot
	ProductID      uuid.UUID `gorm:"type:uuid;not null;index"`
	CompetitorName string    `gorm:"type:varchar(100);not null"`
	Price          int64     `gorm:"not null"`
	URL            string    `gorm:"type:text"`
	InStock        bool      `gorm:"not null;default:true"`
	RecordedAt     time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (CompetitorPrice) TableName() string {
	return "competitor_prices"
}

// NewCompetitorPrice records a competitor price observation
func NewCompetitorPrice(tenantID, productID uuid.UUID, competitorName string, price int64, recordedAt time.Time) (*CompetitorPrice, error) {
	competitorName = strings.TrimSpace(competitorName)
	if competitorName == "" {
		return nil, shared.NewDomainError("INVALID_COMPETITOR", "Competitor name cannot be empty")
	}
	if len(competitorName) > 100 {
		return nil, shared.NewDomainError("INVALID_COMPETITOR", "Competitor name cannot exceed 100 characters")
	}
	if price <= 0 {
		return nil, shared.ErrInvalidPrice
	}
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	return &CompetitorPrice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProductID:           productID,
		CompetitorName:      competitorName,
		Price:               price,
		InStock:             true,
		RecordedAt:          recordedAt,
	}, nil
}

// SetURL attaches the source listing URL
func (c *CompetitorPrice) SetURL(url string) {
	c.URL = url
	c.UpdatedAt = time.Now()
}

// SetInStock records the listing's stock availability
func (c *CompetitorPrice) SetInStock(inStock bool) {
	c.InStock = inStock
	c.UpdatedAt = time.Now()
}
