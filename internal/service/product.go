package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/ironaxle/weighstation/internal/domain"
	"github.com/ironaxle/weighstation/internal/repository"
)

// ProductService defines the interface for product master-data operations.
type ProductService interface {
	// Create registers a new product.
	Create(ctx context.Context, params domain.CreateProductParams) (*domain.Product, error)

	// GetByID retrieves a product by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)

	// List retrieves all products, ordered by code.
	List(ctx context.Context) ([]domain.Product, error)

	// Update updates an existing product.
	Update(ctx context.Context, params domain.UpdateProductParams) (*domain.Product, error)

	// Delete deletes a product.
	Delete(ctx context.Context, id uuid.UUID) error
}

// productService implements ProductService.
type productService struct {
	queries *repository.Queries
	logger  *slog.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(queries *repository.Queries, logger *slog.Logger) ProductService {
	return &productService{
		queries: queries,
		logger:  logger,
	}
}

// Create registers a new product.
func (s *productService) Create(ctx context.Context, params domain.CreateProductParams) (*domain.Product, error) {
	const op = "ProductService.Create"

	if err := params.Validate(); err != nil {
		return nil, err
	}

	row, err := s.queries.CreateProduct(ctx, repository.CreateProductParams{
		Code: strings.ToUpper(strings.TrimSpace(params.Code)),
		Name: strings.TrimSpace(params.Name),
	})
	if err != nil {
		s.logger.Error("failed to create product", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to create product")
	}

	product := repoProductToDomain(row)
	s.logger.Info("product created", "product_id", product.ID, "code", product.Code)

	return &product, nil
}

// GetByID retrieves a product by ID.
func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	const op = "ProductService.GetByID"

	row, err := s.queries.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "product", id.String())
		}
		s.logger.Error("failed to get product", "error", err, "op", op, "product_id", id)
		return nil, domain.Internal(err, op, "Failed to retrieve product")
	}

	product := repoProductToDomain(row)
	return &product, nil
}

// List retrieves all products, ordered by code.
func (s *productService) List(ctx context.Context) ([]domain.Product, error) {
	const op = "ProductService.List"

	rows, err := s.queries.ListProducts(ctx)
	if err != nil {
		s.logger.Error("failed to list products", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to list products")
	}

	products := make([]domain.Product, len(rows))
	for i, r := range rows {
		products[i] = repoProductToDomain(r)
	}
	return products, nil
}

// Update updates an existing product.
func (s *productService) Update(ctx context.Context, params domain.UpdateProductParams) (*domain.Product, error) {
	const op = "ProductService.Update"

	if err := params.Validate(); err != nil {
		return nil, err
	}

	row, err := s.queries.UpdateProduct(ctx, repository.UpdateProductParams{
		ID:     params.ID,
		Code:   strings.ToUpper(strings.TrimSpace(params.Code)),
		Name:   strings.TrimSpace(params.Name),
		Active: params.Active,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "product", params.ID.String())
		}
		s.logger.Error("failed to update product", "error", err, "op", op, "product_id", params.ID)
		return nil, domain.Internal(err, op, "Failed to update product")
	}

	product := repoProductToDomain(row)
	s.logger.Info("product updated", "product_id", product.ID)

	return &product, nil
}

// Delete deletes a product.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "ProductService.Delete"

	err := s.queries.DeleteProduct(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound(op, "product", id.String())
		}
		s.logger.Error("failed to delete product", "error", err, "op", op, "product_id", id)
		return domain.Internal(err, op, "Failed to delete product")
	}

	s.logger.Info("product deleted", "product_id", id)
	return nil
}

// repoProductToDomain converts a repository Product to a domain Product.
func repoProductToDomain(rp repository.Product) domain.Product {
	return domain.Product{
		ID:        rp.ID,
		Code:      rp.Code,
		Name:      rp.Name,
		Active:    rp.Active,
		CreatedAt: rp.CreatedAt.Time,
		UpdatedAt: rp.UpdatedAt.Time,
	}
}
