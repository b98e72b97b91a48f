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
	"golang.org/x/sync/errgroup"
)

var (
	ErrOrderInputRequired = errors.New("user id and order items are required")
	ErrInvalidQuantity    = errors.New("item quantity must be at least 1")
	ErrInvalidStatus      = errors.New("invalid status value")
)

// ProductNotFoundError names the offending product id when order assembly
// aborts on an unresolved item reference.
type ProductNotFoundError struct {
	ID uuid.UUID
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product with id %s not found", e.ID)
}

// OrderItemInput is a single requested line item. A zero quantity means
// unspecified and defaults to 1.
type OrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// OrderService defines the interface for order business logic
type OrderService interface {
	Create(ctx context.Context, userID uuid.UUID, items []OrderItemInput) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (*domain.Order, error)
	Delete(ctx context.Context, orderID uuid.UUID) error
}

type orderService struct {
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
	}
}

// Create assembles and persists an order: validate the request, resolve the
// user, resolve every item's product, compute the total, and write the
// composite record in one transaction. Any unresolved reference aborts the
// whole operation before anything is written.
func (s *orderService) Create(ctx context.Context, userID uuid.UUID, items []OrderItemInput) (*domain.Order, error) {
	if userID == uuid.Nil || len(items) == 0 {
		return nil, ErrOrderInputRequired
	}
	for _, item := range items {
		if item.Quantity < 0 {
			return nil, ErrInvalidQuantity
		}
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	// Item lookups are independent, so they run concurrently; the group wait
	// is the barrier before any write happens.
	resolved := make([]domain.OrderItem, len(items))
	g, gctx := errgroup.WithContext(ctx)
	for i, item := range items {
		g.Go(func() error {
			product, err := s.productRepo.FindByID(gctx, item.ProductID)
			if err != nil {
				if errors.Is(err, repository.ErrProductNotFound) {
					return &ProductNotFoundError{ID: item.ProductID}
				}
				return fmt.Errorf("failed to resolve product: %w", err)
			}

			quantity := item.Quantity
			if quantity == 0 {
				quantity = 1
			}

			resolved[i] = domain.OrderItem{
				ProductID: product.ID,
				Title:     product.Title,
				Quantity:  quantity,
				Price:     product.Price,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, item := range resolved {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	order := &domain.Order{
		ID:          uuid.New(),
		UserID:      user.ID,
		Items:       resolved,
		Status:      domain.OrderStatusPending,
		OrderDate:   time.Now(),
		TotalAmount: total,
		User: &domain.UserRef{
			Name:    user.Name,
			Email:   user.Email,
			PhoneNo: user.PhoneNo,
		},
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	return order, nil
}

// List returns all orders
func (s *orderService) List(ctx context.Context) ([]*domain.Order, error) {
	return s.orderRepo.List(ctx)
}

// ListByUser returns the orders placed by one user
func (s *orderService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

// UpdateStatus validates the new status against the enumeration before any
// lookup, then replaces it in place. There are no transition ordering rules.
func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.orderRepo.UpdateStatus(ctx, orderID, status)
}

// Delete removes an order by id
func (s *orderService) Delete(ctx context.Context, orderID uuid.UUID) error {
	return s.orderRepo.Delete(ctx, orderID)
}
