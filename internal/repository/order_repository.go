package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

// OrderRepository defines the interface for order data access. An order and
// its line items are written together; reads expand the referencing user and
// each item's current product where those references still resolve.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create persists the order and its items in a single transaction, so either
// the complete composite record lands or nothing does.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	orderQuery := `
		INSERT INTO orders (id, user_id, status, order_date, total_amount)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err = tx.ExecContext(
		ctx,
		orderQuery,
		order.ID,
		order.UserID,
		order.Status,
		order.OrderDate,
		order.TotalAmount,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, position, product_id, title, quantity, price)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for i, item := range order.Items {
		_, err = tx.ExecContext(
			ctx,
			itemQuery,
			order.ID,
			i,
			item.ProductID,
			item.Title,
			item.Quantity,
			item.Price,
		)
		if err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}

	return nil
}

// FindByID retrieves a single order with its items
func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	orders, err := r.queryOrders(ctx, "WHERE o.id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, ErrOrderNotFound
	}
	return orders[0], nil
}

// List retrieves all orders, newest first
func (r *orderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	return r.queryOrders(ctx, "")
}

// ListByUser retrieves all orders placed by a given user
func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	return r.queryOrders(ctx, "WHERE o.user_id = $1", userID)
}

// UpdateStatus replaces the status field in place and returns the updated
// order. Status validity is checked by the service before this is called.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	query := `UPDATE orders SET status = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return nil, ErrOrderNotFound
	}

	return r.FindByID(ctx, id)
}

// Delete removes an order; its items go with it via ON DELETE CASCADE
func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM orders WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// queryOrders loads orders matching the given WHERE clause. The user join is
// a LEFT JOIN: orders survive the deletion of their user, in which case the
// expanded user view is nil.
func (r *orderRepository) queryOrders(ctx context.Context, where string, args ...interface{}) ([]*domain.Order, error) {
	query := fmt.Sprintf(`
		SELECT o.id, o.user_id, o.status, o.order_date, o.total_amount,
		       u.name, u.email, u.phone_no
		FROM orders o
		LEFT JOIN users u ON u.id = o.user_id
		%s
		ORDER BY o.order_date DESC
	`, where)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order := &domain.Order{}
		var userName, userEmail, userPhone sql.NullString

		err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.Status,
			&order.OrderDate,
			&order.TotalAmount,
			&userName,
			&userEmail,
			&userPhone,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}

		if userName.Valid {
			order.User = &domain.UserRef{
				Name:    userName.String,
				Email:   userEmail.String,
				PhoneNo: userPhone.String,
			}
		}

		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	for _, order := range orders {
		items, err := r.queryItems(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
	}

	return orders, nil
}

// queryItems loads the item sequence for one order in its original position
// order. The product join is a LEFT JOIN for the same dangling-reference
// reason as the user join; the snapshot columns always survive.
func (r *orderRepository) queryItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	query := `
		SELECT i.product_id, i.title, i.quantity, i.price,
		       p.title, p.price
		FROM order_items i
		LEFT JOIN products p ON p.id = i.product_id
		WHERE i.order_id = $1
		ORDER BY i.position ASC
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	defer rows.Close()

	items := []domain.OrderItem{}
	for rows.Next() {
		item := domain.OrderItem{}
		var productTitle sql.NullString
		var productPrice decimal.NullDecimal

		err := rows.Scan(
			&item.ProductID,
			&item.Title,
			&item.Quantity,
			&item.Price,
			&productTitle,
			&productPrice,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}

		if productTitle.Valid {
			item.Product = &domain.ProductRef{
				Title: productTitle.String,
				Price: productPrice.Decimal,
			}
		}

		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}
