package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	pricingapp "github.com/pricepilot/backend/internal/application/pricing"
	"github.com/pricepilot/backend/internal/infrastructure/telemetry"
)

// PricingHandler handles pricing recommendation API endpoints
type PricingHandler struct {
	BaseHandler
	recommendationService *pricingapp.RecommendationService
	healthService         *pricingapp.HealthService
	metrics               *telemetry.PricingMetrics
}

// NewPricingHandler creates a new PricingHandler
func NewPricingHandler(
	recommendationService *pricingapp.RecommendationService,
	healthService *pricingapp.HealthService,
) *PricingHandler {
	return &PricingHandler{
		recommendationService: recommendationService,
		healthService:         healthService,
	}
}

// SetMetrics attaches business metrics recording. Nil disables it.
func (h *PricingHandler) SetMetrics(metrics *telemetry.PricingMetrics) {
	h.metrics = metrics
}

// RunPipeline godoc
// @Summary      Run the pricing pipeline
// @Description  Produce a price recommendation for a product. Cached results are returned unless refresh=true.
// @Tags         pricing
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Product ID" format(uuid)
// @Param        refresh query boolean false "Skip the cache and recompute" default(false)
// @Success      200 {object} dto.Response{data=pricing.PipelineResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /pricing/products/{id}/recommendation [post]
func (h *PricingHandler) RunPipeline(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	refresh := c.Query("refresh") == "true"

	start := time.Now()
	response, err := h.recommendationService.RunPipeline(c.Request.Context(), tenantID, productID, refresh)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	if h.metrics != nil {
		result := telemetry.CacheMiss
		if response.Cached {
			result = telemetry.CacheHit
		}
		h.metrics.RecordPipelineRun(c.Request.Context(), tenantID.String(), result, time.Since(start))
	}

	h.Success(c, response)
}

// ApplyRecommendation godoc
// @Summary      Apply a price recommendation
// @Description  Move the product to the recommended price and record the change in pricing history
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body pricing.ApplyRecommendationRequest true "Recommendation to apply"
// @Success      200 {object} dto.Response{data=pricing.ApplyRecommendationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /pricing/products/{id}/apply [post]
func (h *PricingHandler) ApplyRecommendation(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req pricingapp.ApplyRecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	response, err := h.recommendationService.ApplyRecommendation(c.Request.Context(), tenantID, productID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordRecommendationApplied(c.Request.Context(), tenantID.String())
	}

	h.Success(c, response)
}

// Simulate godoc
// @Summary      Simulate a price scenario
// @Description  Evaluate a hypothetical price against the product's demand picture without changing state
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body pricing.SimulateRequest true "Price to evaluate"
// @Success      200 {object} dto.Response{data=pricing.SimulateResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /pricing/products/{id}/simulate [post]
func (h *PricingHandler) Simulate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req pricingapp.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	response, err := h.recommendationService.Simulate(c.Request.Context(), tenantID, productID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, response)
}

// History godoc
// @Summary      List pricing history
// @Description  Retrieve pricing history entries for a product, newest first
// @Tags         pricing
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Product ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]pricing.PriceChangeResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /pricing/products/{id}/history [get]
func (h *PricingHandler) History(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var filter pricingapp.HistoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	changes, total, err := h.recommendationService.History(c.Request.Context(), tenantID, productID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, changes, total, filter.Page, filter.PageSize)
}

// ProductHealth godoc
// @Summary      Get pricing health for one product
// @Description  Score a single product's pricing health (margin, competitive position, data coverage)
// @Tags         pricing
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=pricing.ProductHealthResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /pricing/products/{id}/health [get]
func (h *PricingHandler) ProductHealth(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	report, err := h.healthService.ScoreProduct(c.Request.Context(), tenantID, productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordHealthScore(c.Request.Context(), tenantID.String(), report.ProductID.String(), report.Status, report.Score)
	}

	h.Success(c, report)
}

// CatalogHealth godoc
// @Summary      Get pricing health for the catalog
// @Description  Score every active product's pricing health for the tenant
// @Tags         pricing
// @Produce      json
// @Param        X-Tenant-ID header string true "Tenant ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]pricing.ProductHealthResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /pricing/health [get]
func (h *PricingHandler) CatalogHealth(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	reports, err := h.healthService.ScoreAll(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, reports)
}
