package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/beyzasenay/mini-crm/internal/domain"
	"github.com/beyzasenay/mini-crm/internal/repository"
)

const productListLimit = 100

// ProductService handles product CRUD and owns the stock ledger: every stock
// mutation goes through DecreaseStock so the sufficiency check and the write
// stay atomic.
type ProductService struct {
	products *repository.ProductRepository
	logger   *zap.Logger
}

func NewProductService(products *repository.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{products: products, logger: logger}
}

func validateProductFields(name string, price *decimal.Decimal, stock *int, priceType domain.PriceType) error {
	if strings.TrimSpace(name) == "" {
		return &domain.ValidationError{Message: "`name` is required"}
	}
	if price != nil && price.IsNegative() {
		return &domain.ValidationError{Message: "`price` cannot be negative"}
	}
	if stock != nil && *stock < 0 {
		return &domain.ValidationError{Message: "`stock` cannot be negative"}
	}
	if priceType != "" && !priceType.Valid() {
		return &domain.ValidationError{Message: "`priceType` must be \"fixed\" or \"variable\""}
	}
	return nil
}

func (s *ProductService) Create(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error) {
	if err := validateProductFields(req.Name, req.Price, req.Stock, req.PriceType); err != nil {
		return nil, err
	}

	product := &domain.Product{
		Name:            req.Name,
		Description:     req.Description,
		Price:           decimal.Zero,
		PriceType:       domain.PriceTypeFixed,
		IsStockTracking: true,
		IsActive:        true,
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.PriceType != "" {
		product.PriceType = req.PriceType
	}
	if req.IsStockTracking != nil {
		product.IsStockTracking = *req.IsStockTracking
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	s.logger.Info("creating product", zap.String("name", req.Name))
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Get(ctx context.Context, id uint) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	return s.products.FindActive(ctx, productListLimit)
}

// Update applies only the fields present in the request. Stock may only be
// set while stock tracking is enabled on the stored record.
func (s *ProductService) Update(ctx context.Context, id uint, req domain.UpdateProductRequest) (*domain.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := product.Name
	if req.Name != nil {
		name = *req.Name
	}
	priceType := domain.PriceType("")
	if req.PriceType != nil {
		priceType = *req.PriceType
	}
	if err := validateProductFields(name, req.Price, req.Stock, priceType); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.PriceType != nil {
		fields["price_type"] = *req.PriceType
	}
	if req.IsStockTracking != nil {
		fields["is_stock_tracking"] = *req.IsStockTracking
	}
	if req.Stock != nil {
		if !product.IsStockTracking {
			return nil, &domain.ValidationError{Message: "Cannot update stock for product with isStockTracking=false"}
		}
		fields["stock"] = *req.Stock
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if len(fields) == 0 {
		return product, nil
	}

	updated, err := s.products.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	s.logger.Info("updated product", zap.Uint("id", id), zap.Int("fields", len(fields)))
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, id uint) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("deleted product", zap.Uint("id", id))
	return nil
}

// DecreaseStock reserves quantity units of a product. Products without stock
// tracking pass through unchanged. On insufficient stock the product is left
// untouched and the conflict carries the available and requested counts.
func (s *ProductService) DecreaseStock(ctx context.Context, productID uint, quantity int) (*domain.Product, error) {
	return s.decreaseStock(ctx, s.products, productID, quantity)
}

// DecreaseStockTx is DecreaseStock running inside the caller's transaction,
// used by the order workflow so the decrements commit or roll back with the
// order row.
func (s *ProductService) DecreaseStockTx(ctx context.Context, tx *gorm.DB, productID uint, quantity int) (*domain.Product, error) {
	return s.decreaseStock(ctx, s.products.WithTx(tx), productID, quantity)
}

func (s *ProductService) decreaseStock(ctx context.Context, products *repository.ProductRepository, productID uint, quantity int) (*domain.Product, error) {
	product, err := products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if !product.IsStockTracking {
		s.logger.Info("stock tracking disabled for product", zap.Uint("product_id", productID))
		return product, nil
	}

	affected, err := products.DecrementStock(ctx, productID, quantity)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// The conditional update rejected the decrement; re-read for the
		// current availability.
		current, err := products.FindByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		return nil, insufficientStock(current, quantity)
	}

	updated, err := products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("decreased stock",
		zap.Uint("product_id", productID),
		zap.Int("quantity", quantity),
		zap.Int("new_stock", updated.Stock))
	return updated, nil
}

func insufficientStock(product *domain.Product, requested int) *domain.ConflictError {
	return &domain.ConflictError{
		Message: fmt.Sprintf("Insufficient stock for product %q. Available: %d, Requested: %d",
			product.Name, product.Stock, requested),
		Detail: domain.StockDetail{
			ProductID: product.ID,
			Product:   product.Name,
			Available: product.Stock,
			Requested: requested,
		},
	}
}
