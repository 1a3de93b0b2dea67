package model

import (
	"time"

	"github.com/google/uuid"
)

// Cart statuses. A cart becomes converted once an order has been
// created from it, preventing re-checkout of the same cart.
const (
	CartStatusOpen      = "open"
	CartStatusConverted = "converted"
)

// Cart represents a persisted user cart.
type Cart struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CartItemWithProduct is the ephemeral join of a cart (or guest) line
// with its current product data. It is never persisted directly; only
// the derived order-line snapshot is.
type CartItemWithProduct struct {
	Product   Product
	Quantity  int
	UnitPrice int64
}

// LineSubtotal returns quantity times the locked unit price.
func (c *CartItemWithProduct) LineSubtotal() int64 {
	return int64(c.Quantity) * c.UnitPrice
}

// Subtotal sums the line subtotals of the resolved cart.
func Subtotal(items []CartItemWithProduct) int64 {
	var total int64
	for i := range items {
		total += items[i].LineSubtotal()
	}
	return total
}
