package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrProductTitleRequired = errors.New("product title is required")
	ErrNegativePrice        = errors.New("product price must not be negative")
	ErrImageNotFound        = errors.New("image not found")
)

// CreateProductInput carries the fields for a new product
type CreateProductInput struct {
	Title       string
	Description string
	Category    string
	Price       decimal.Decimal
	Image       *domain.ProductImage
}

// ProductService defines the interface for product business logic
type ProductService interface {
	Create(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	GetImage(ctx context.Context, id uuid.UUID) (*domain.ProductImage, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	repo repository.ProductRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo}
}

// Create validates and persists a new product
func (s *productService) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	if input.Title == "" {
		return nil, ErrProductTitleRequired
	}
	if input.Price.IsNegative() {
		return nil, ErrNegativePrice
	}

	now := time.Now()
	product := &domain.Product{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Price:       input.Price,
		Image:       input.Image,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// List returns all products without image payloads
func (s *productService) List(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.List(ctx)
}

// Get returns a single product by id
func (s *productService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// GetImage returns the image payload of a product, or ErrImageNotFound when
// the product exists but carries no image.
func (s *productService) GetImage(ctx context.Context, id uuid.UUID) (*domain.ProductImage, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.HasImage() {
		return nil, ErrImageNotFound
	}
	return product.Image, nil
}

// Update applies a partial update. Only supplied fields overwrite, and
// supplied zero values (price 0, empty description) are applied rather than
// dropped. An empty title stays invalid because the field is required.
func (s *productService) Update(ctx context.Context, id uuid.UUID, patch domain.ProductPatch) (*domain.Product, error) {
	if patch.Title != nil && *patch.Title == "" {
		return nil, ErrProductTitleRequired
	}
	if patch.Price != nil && patch.Price.IsNegative() {
		return nil, ErrNegativePrice
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(product)

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// Delete removes a product by id. Orders keep their snapshots.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
