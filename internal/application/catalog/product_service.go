package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/pricepilot/backend/internal/domain/catalog"
	"github.com/pricepilot/backend/internal/domain/shared"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, eventPublisher shared.EventPublisher) *ProductService {
	return &ProductService{
		productRepo:    productRepo,
		eventPublisher: eventPublisher,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, tenantID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsBySKU(ctx, tenantID, req.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this SKU already exists")
	}

	product, err := catalog.NewProduct(tenantID, req.SKU, req.Name, req.BaseCost, req.CurrentPrice)
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		if err := product.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}

	minMargin := product.MinMarginPercent
	if req.MinMarginPercent != nil {
		minMargin = *req.MinMarginPercent
	}
	if err := product.SetPricingConstraints(minMargin, req.MaxPrice); err != nil {
		return nil, err
	}

	if req.InventoryLevel != nil {
		if err := product.SetInventoryLevel(*req.InventoryLevel); err != nil {
			return nil, err
		}
	}

	if req.DemandElasticity != "" {
		if err := product.SetDemandElasticity(req.DemandElasticity); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetBySKU retrieves a product by SKU
func (s *ProductService) GetBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySKU(ctx, tenantID, sku)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves a list of products with filtering and pagination
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID, filter ProductListFilter) ([]ProductResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	products, err := s.productRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductResponses(products), total, nil
}

// Update updates a product
func (s *ProductService) Update(ctx context.Context, tenantID, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil {
		name := product.Name
		if req.Name != nil {
			name = *req.Name
		}
		description := product.Description
		if req.Description != nil {
			description = *req.Description
		}
		if err := product.Update(name, description); err != nil {
			return nil, err
		}
	}

	if req.BaseCost != nil {
		if err := product.UpdateCost(*req.BaseCost); err != nil {
			return nil, err
		}
	}

	if req.CurrentPrice != nil {
		if err := product.ChangePrice(*req.CurrentPrice, *req.CurrentPrice, "Manual price update"); err != nil {
			return nil, err
		}
	}

	if req.MinMarginPercent != nil || req.MaxPrice != nil {
		minMargin := product.MinMarginPercent
		if req.MinMarginPercent != nil {
			minMargin = *req.MinMarginPercent
		}
		maxPrice := product.MaxPrice
		if req.MaxPrice != nil {
			maxPrice = req.MaxPrice
		}
		if err := product.SetPricingConstraints(minMargin, maxPrice); err != nil {
			return nil, err
		}
	}

	if req.InventoryLevel != nil {
		if err := product.SetInventoryLevel(*req.InventoryLevel); err != nil {
			return nil, err
		}
	}

	if req.DemandElasticity != nil {
		if err := product.SetDemandElasticity(*req.DemandElasticity); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// Delete deletes a product
func (s *ProductService) Delete(ctx context.Context, tenantID, productID uuid.UUID) error {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return err
	}

	if err := s.productRepo.DeleteForTenant(ctx, tenantID, productID); err != nil {
		return err
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, catalog.NewProductDeletedEvent(product))
	}

	return nil
}

// publishEvents flushes the aggregate's pending domain events. Publishing
// is best effort; failures must not roll back a completed save.
func (s *ProductService) publishEvents(ctx context.Context, product *catalog.Product) {
	if s.eventPublisher == nil {
		return
	}
	events := product.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	product.ClearDomainEvents()
}
