package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus enumerates the fulfillment states an order can be in. Any valid
// status may replace any other; there is no forward-only transition rule.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusHandover  OrderStatus = "handover"
	OrderStatusDelivered OrderStatus = "delivered"
)

// Valid reports whether the status is one of the known values.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusHandover, OrderStatusDelivered:
		return true
	}
	return false
}

// OrderItem is a line item owned by an order. Title and Price are snapshots
// taken at order-creation time so historical orders stay stable when the
// product later changes or disappears.
type OrderItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Title     string          `json:"title"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`

	// Product carries the current product fields when the reference still
	// resolves; nil for dangling references.
	Product *ProductRef `json:"product,omitempty"`
}

// ProductRef is the expanded view of a referenced product on order reads.
type ProductRef struct {
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
}

// UserRef is the expanded view of the ordering user on order reads.
type UserRef struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	PhoneNo string `json:"phone_no,omitempty"`
}

// Order is a composite record assembled from a user reference and a sequence
// of resolved line items.
type Order struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	Items       []OrderItem     `json:"items"`
	Status      OrderStatus     `json:"status"`
	OrderDate   time.Time       `json:"order_date"`
	TotalAmount decimal.Decimal `json:"total_amount"`

	// User is expanded on reads; nil when the user has since been deleted.
	User *UserRef `json:"user,omitempty"`
}
