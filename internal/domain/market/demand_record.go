package market

import (
	"time"

	"github.com/google/uuid"
	"github.com/pricepilot/backend/internal/domain/shared"
)

// DemandRecord captures units sold for a product at a given price over a
// sales period. Revenue is derived at creation and stored denormalized so
// reporting queries never recompute it.
type DemandRecord struct {
	shared.TenantAggregateRoot
	ProductID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Price        int64     `gorm:"not null"` // Selling price in cents during the period
	QuantitySold int       `gorm:"not null"`
	Revenue      int64     `gorm:"not null"`
	Seasonality  float64   `gorm:"not null;default:1"` // Multiplier, 1.0 = no seasonal effect
	RecordedAt   time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (DemandRecord) TableName() string {
	return "demand_history"
}

// NewDemandRecord records observed demand for a product
func NewDemandRecord(tenantID, productID uuid.UUID, price int64, quantitySold int, seasonality float64, recordedAt time.Time) (*DemandRecord, error) {
	if price <= 0 {
		return nil, shared.ErrInvalidPrice
	}
	if quantitySold < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity sold cannot be negative")
	}
	if seasonality <= 0 {
		seasonality = 1
	}
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}

	return &DemandRecord{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProductID:           productID,
		Price:               price,
		QuantitySold:        quantitySold,
		Revenue:             price * int64(quantitySold),
		Seasonality:         seasonality,
		RecordedAt:          recordedAt,
	}, nil
}
