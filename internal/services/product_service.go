package services

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gst-invoice-api/internal/models"
	"gst-invoice-api/internal/repositories"
	"gst-invoice-api/internal/tax"
)

// productService implements the ProductService interface
type productService struct {
	productRepo  repositories.ProductRepository
	settingsRepo repositories.SettingsRepository
	validator    *validator.Validate
}

// NewProductService creates a new product service instance
func NewProductService(productRepo repositories.ProductRepository, settingsRepo repositories.SettingsRepository) ProductService {
	return &productService{
		productRepo:  productRepo,
		settingsRepo: settingsRepo,
		validator:    validator.New(),
	}
}

// CreateProduct creates a new catalog product. A missing GST rate
// defaults from the shop settings.
func (s *productService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	if req == nil {
		return nil, fmt.Errorf("create product request cannot be nil")
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	gstPercent, err := s.resolveGSTPercent(ctx, req.GSTPercent)
	if err != nil {
		return nil, err
	}

	product := models.NewProduct(req.Name, req.Price, gstPercent)
	product.Description = req.Description
	product.Barcode = req.Barcode
	product.Category = req.Category
	product.StockQuantity = req.StockQuantity
	if req.MinStockAlert != nil {
		product.MinStockAlert = *req.MinStockAlert
	}

	if err := product.Validate(); err != nil {
		return nil, fmt.Errorf("product validation failed: %w", err)
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// GetProduct retrieves a product by ID
func (s *productService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if id == "" {
		return nil, fmt.Errorf("product ID cannot be empty")
	}

	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid product ID format: %w", err)
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return product, nil
}

// UpdateProduct updates an existing product
func (s *productService) UpdateProduct(ctx context.Context, id string, req *UpdateProductRequest) (*models.Product, error) {
	if req == nil {
		return nil, fmt.Errorf("update product request cannot be nil")
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.GSTPercent != nil {
		if !tax.ValidateRate(*req.GSTPercent) {
			return nil, fmt.Errorf("GST rate %s is not a recognized slab", req.GSTPercent)
		}
		product.GSTPercent = *req.GSTPercent
	}
	if req.Barcode != nil {
		product.Barcode = req.Barcode
	}
	if req.Category != nil {
		product.Category = req.Category
	}
	if req.StockQuantity != nil {
		product.StockQuantity = *req.StockQuantity
	}
	if req.MinStockAlert != nil {
		product.MinStockAlert = *req.MinStockAlert
	}

	if err := product.Validate(); err != nil {
		return nil, fmt.Errorf("product validation failed: %w", err)
	}

	product.UpdateTimestamp()
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// DeleteProduct deletes a product from the catalog
func (s *productService) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("product ID cannot be empty")
	}

	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid product ID format: %w", err)
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return nil
}

// SearchProducts searches products by name or barcode with an optional
// category filter
func (s *productService) SearchProducts(ctx context.Context, query, category string, limit int) ([]*models.Product, error) {
	products, err := s.productRepo.Search(ctx, query, category, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	return products, nil
}

// GetLowStockProducts retrieves products at or below their alert level
func (s *productService) GetLowStockProducts(ctx context.Context) ([]*models.Product, error) {
	products, err := s.productRepo.GetLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get low stock products: %w", err)
	}

	return products, nil
}

// resolveGSTPercent validates the requested rate or falls back to the
// shop default.
func (s *productService) resolveGSTPercent(ctx context.Context, requested *decimal.Decimal) (decimal.Decimal, error) {
	if requested != nil {
		if !tax.ValidateRate(*requested) {
			return decimal.Zero, fmt.Errorf("GST rate %s is not a recognized slab", requested)
		}
		return *requested, nil
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load shop settings: %w", err)
	}

	return settings.DefaultGST, nil
}
