package repository

import (
	"context"

	"souq-kart/internal/model"

	"github.com/google/uuid"
)

// ProductRepository defines the interface for catalogue data access.
// It is the in-process implementation of the catalog-source
// collaborator: products come back with their current flash-sale state.
type ProductRepository interface {
	// GetProductsWithFlashSales retrieves the catalogue with current
	// price, stock and flash-sale state.
	GetProductsWithFlashSales(ctx context.Context) ([]model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)
}

// CartRepository reads the cart subsystem's entities. Conversion of a
// cart after checkout happens inside the order-creation transaction.
type CartRepository interface {
	// GetOpenCartItems loads the items of the user's open cart joined
	// with their current product data. An empty slice means no open
	// cart or an empty one.
	GetOpenCartItems(ctx context.Context, userID uuid.UUID) ([]model.CartItemWithProduct, error)
}

// CouponRepository defines coupon lookup and the guarded usage counter.
type CouponRepository interface {
	// GetActiveByCode retrieves an active coupon by its normalised
	// code. Returns nil for unknown or inactive codes.
	GetActiveByCode(ctx context.Context, code string) (*model.Coupon, error)

	// RedeemUsage increments used_count only while the coupon is active
	// and under its usage limit. Returns false when the guard rejected
	// the increment.
	RedeemUsage(ctx context.Context, code string) (bool, error)
}

// LoyaltyRepository owns the loyalty ledger.
type LoyaltyRepository interface {
	// Balance returns the user's current point balance (ledger sum).
	Balance(ctx context.Context, userID uuid.UUID) (int, error)

	// Record appends a ledger entry.
	Record(ctx context.Context, entry *model.LoyaltyEntry) error
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// CreateWithItems persists the order and its line items in a single
	// transaction. When convertCartUserID is set, the user's open cart
	// is marked converted and emptied in the same transaction. A unique
	// violation (order_number collision) is reported as ErrConflict.
	CreateWithItems(ctx context.Context, order *model.Order, items []model.OrderItem, convertCartUserID *uuid.UUID) error

	// GetByID retrieves an order by its ID along with its items.
	// Returns a nil order when not found.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)

	// UpdateStatus writes the order's new status (and tracking fields)
	// together with the audit log entry in one transaction.
	UpdateStatus(ctx context.Context, order *model.Order, log *model.StatusLog) error
}
