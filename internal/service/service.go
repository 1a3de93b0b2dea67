package service

import (
	"context"

	"souq-kart/internal/model"

	"github.com/google/uuid"
)

// CheckoutService defines the checkout pipeline operations.
type CheckoutService interface {
	// Checkout turns a guest or authenticated cart into a durable,
	// uniquely-numbered order and dispatches post-commit effects.
	Checkout(ctx context.Context, req *model.CheckoutRequest) (*model.Order, error)

	// ApplyCoupon validates a coupon against a subtotal and returns the
	// discount it would yield.
	ApplyCoupon(ctx context.Context, code string, subtotal int64) (int64, error)

	// GetByID retrieves an order with its items. Returns nil when the
	// order does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error)
}

// CatalogService exposes the storefront product catalogue with
// current flash-sale pricing.
type CatalogService interface {
	// List retrieves the full catalogue.
	List(ctx context.Context) ([]model.Product, error)

	// Get retrieves a single product. Returns nil when the product
	// does not exist.
	Get(ctx context.Context, id string) (*model.Product, error)
}

// OrderStatusService defines the admin order state machine.
type OrderStatusService interface {
	// UpdateStatus validates and applies a status transition, writing
	// an audit record and firing shipping side effects on the
	// non-shipped to shipped edge.
	UpdateStatus(ctx context.Context, orderID uuid.UUID, req *model.StatusUpdateRequest) error
}
