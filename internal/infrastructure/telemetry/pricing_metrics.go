package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// PricingMetrics tracks business metrics for the pricing engine: pipeline
// runs, applied recommendations, and price movement.
type PricingMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	pipelineRunTotal  *Counter
	pipelineDuration  *Histogram
	priceAppliedTotal *Counter
	priceChangeCents  *Counter
	healthScore       *Gauge
}

// PricingMetricsConfig holds configuration for pricing metrics.
type PricingMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewPricingMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

// NewPricingMetrics creates a new PricingMetrics instance.
func NewPricingMetrics(cfg PricingMetricsConfig) (*PricingMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	pm := &PricingMetrics{
		meter:  cfg.Meter,
		logger: logger,
	}

	var err error

	pm.pipelineRunTotal, err = NewCounter(
		cfg.Meter,
		"pricing_pipeline_run_total",
		"Total number of pricing pipeline runs",
		"{runs}",
	)
	if err != nil {
		return nil, err
	}

	pm.pipelineDuration, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "pricing_pipeline_duration_seconds",
		Description: "Duration of pricing pipeline runs",
		Unit:        "s",
		Boundaries:  PipelineDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	pm.priceAppliedTotal, err = NewCounter(
		cfg.Meter,
		"pricing_recommendation_applied_total",
		"Total number of applied price recommendations",
		"{recommendations}",
	)
	if err != nil {
		return nil, err
	}

	pm.priceChangeCents, err = NewCounter(
		cfg.Meter,
		"pricing_price_change_cents_total",
		"Cumulative absolute price movement in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	pm.healthScore, err = NewGauge(
		cfg.Meter,
		"pricing_product_health_score",
		"Latest health score per product",
		"{score}",
	)
	if err != nil {
		return nil, err
	}

	return pm, nil
}

// CacheResult labels a pipeline run as served from cache or computed fresh.
type CacheResult string

const (
	CacheHit  CacheResult = "hit"
	CacheMiss CacheResult = "miss"
)

// RecordPipelineRun records one pipeline run and its duration.
func (pm *PricingMetrics) RecordPipelineRun(ctx context.Context, tenantID string, result CacheResult, elapsed time.Duration) {
	pm.pipelineRunTotal.Inc(ctx,
		AttrTenantID.String(tenantID),
		AttrCacheResult.String(string(result)),
	)
	pm.pipelineDuration.RecordDuration(ctx, elapsed,
		AttrTenantID.String(tenantID),
		AttrCacheResult.String(string(result)),
	)
}

// RecordRecommendationApplied records that a recommendation was applied to a
// product's live price.
func (pm *PricingMetrics) RecordRecommendationApplied(ctx context.Context, tenantID string) {
	pm.priceAppliedTotal.Inc(ctx, AttrTenantID.String(tenantID))
}

// RecordPriceChange records a price movement. deltaCents may be negative;
// the metric accumulates the absolute movement labeled by reason.
func (pm *PricingMetrics) RecordPriceChange(ctx context.Context, tenantID, reason string, deltaCents int64) {
	if deltaCents < 0 {
		deltaCents = -deltaCents
	}
	pm.priceChangeCents.Add(ctx, deltaCents,
		AttrTenantID.String(tenantID),
		AttrChangeReason.String(reason),
	)
}

// RecordHealthScore records the latest health score for a product.
func (pm *PricingMetrics) RecordHealthScore(ctx context.Context, tenantID, productID, status string, score int) {
	pm.healthScore.Record(ctx, int64(score),
		AttrTenantID.String(tenantID),
		AttrProductID.String(productID),
		AttrHealthStatus.String(status),
	)
}
