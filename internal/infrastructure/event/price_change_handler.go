package event

import (
	"context"

	"github.com/pricepilot/backend/internal/domain/catalog"
	"github.com/pricepilot/backend/internal/domain/shared"
	"github.com/pricepilot/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// PriceChangeHandler reacts to product price changes: it writes an audit log
// line and records business metrics so price movements show up on dashboards.
type PriceChangeHandler struct {
	logger  *zap.Logger
	metrics *telemetry.PricingMetrics
}

// NewPriceChangeHandler creates a new PriceChangeHandler.
// metrics may be nil when telemetry is disabled.
func NewPriceChangeHandler(logger *zap.Logger, metrics *telemetry.PricingMetrics) *PriceChangeHandler {
	return &PriceChangeHandler{
		logger:  logger.Named("price_change_handler"),
		metrics: metrics,
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *PriceChangeHandler) EventTypes() []string {
	return []string{catalog.EventTypeProductPriceChanged}
}

// Handle processes a ProductPriceChangedEvent
func (h *PriceChangeHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	priceChanged, ok := event.(*catalog.ProductPriceChangedEvent)
	if !ok {
		return nil
	}

	h.logger.Info("product price changed",
		zap.String("tenant_id", priceChanged.TenantID().String()),
		zap.String("product_id", priceChanged.ProductID.String()),
		zap.String("sku", priceChanged.SKU),
		zap.Int64("old_price", priceChanged.OldPrice),
		zap.Int64("new_price", priceChanged.NewPrice),
		zap.Int64("recommended_price", priceChanged.RecommendedPrice),
		zap.String("reason", priceChanged.Reason),
	)

	if h.metrics != nil {
		h.metrics.RecordPriceChange(ctx, priceChanged.TenantID().String(), priceChanged.Reason, priceChanged.NewPrice-priceChanged.OldPrice)
	}

	return nil
}

// Ensure PriceChangeHandler implements EventHandler
var _ shared.EventHandler = (*PriceChangeHandler)(nil)
