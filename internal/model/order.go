package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// allowedTransitions is the admin state machine. delivered and
// cancelled are terminal.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s OrderStatus) bool {
	_, ok := allowedTransitions[s]
	return ok
}

// CanTransition reports whether the state machine permits moving from
// one status to another. A transition to the same status is not part of
// the table; callers treat it as a no-op.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Payment methods. Cash on delivery is the only supported method.
const PaymentMethodCOD = "cod"

// ShippingAddress is the denormalised address snapshot stored on the
// order. It stays intact even if the saved address it came from is
// later edited or deleted.
type ShippingAddress struct {
	Recipient   string `json:"recipient"`
	Phone       string `json:"phone"`
	Line1       string `json:"line1"`
	Line2       string `json:"line2,omitempty"`
	City        string `json:"city"`
	Governorate string `json:"governorate"`
	PostalCode  string `json:"postalCode,omitempty"`
}

// Order represents a placed order.
type Order struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	OrderNumber       string          `json:"orderNumber" db:"order_number"`
	UserID            *uuid.UUID      `json:"userId,omitempty" db:"user_id"`
	GuestEmail        *string         `json:"guestEmail,omitempty" db:"guest_email"`
	ShippingAddressID *uuid.UUID      `json:"shippingAddressId,omitempty" db:"shipping_address_id"`
	ShippingAddress   ShippingAddress `json:"shippingAddress" db:"shipping_address"`
	PaymentMethod     string          `json:"paymentMethod" db:"payment_method"`
	Status            OrderStatus     `json:"status" db:"status"`
	Subtotal          int64           `json:"subtotal" db:"subtotal"`
	ShippingCost      int64           `json:"shippingCost" db:"shipping_cost"`
	Discount          int64           `json:"discount" db:"discount"`
	LoyaltyDiscount   int64           `json:"loyaltyDiscount" db:"loyalty_discount"`
	Total             int64           `json:"total" db:"total"`
	LoyaltyPointsUsed int             `json:"loyaltyPointsUsed" db:"loyalty_points_used"`
	CouponCode        *string         `json:"couponCode,omitempty" db:"coupon_code"`
	Notes             *string         `json:"notes,omitempty" db:"notes"`
	TrackingNumber    *string         `json:"trackingNumber,omitempty" db:"tracking_number"`
	Carrier           *string         `json:"carrier,omitempty" db:"carrier"`
	CreatedAt         time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time       `json:"updatedAt" db:"updated_at"`
}

// OrderItem is one order line with its immutable product snapshot.
type OrderItem struct {
	ID        uuid.UUID       `json:"-" db:"id"`
	OrderID   uuid.UUID       `json:"-" db:"order_id"`
	ProductID string          `json:"productId" db:"product_id"`
	Snapshot  ProductSnapshot `json:"productSnapshot" db:"product_snapshot"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice int64           `json:"unitPrice" db:"unit_price"`
	Subtotal  int64           `json:"subtotal" db:"subtotal"`
}

// StatusLog is the audit record written for every status-update call,
// whether or not the status actually changed.
type StatusLog struct {
	ID             uuid.UUID   `json:"id" db:"id"`
	OrderID        uuid.UUID   `json:"orderId" db:"order_id"`
	FromStatus     OrderStatus `json:"fromStatus" db:"from_status"`
	ToStatus       OrderStatus `json:"toStatus" db:"to_status"`
	TrackingNumber *string     `json:"trackingNumber,omitempty" db:"tracking_number"`
	Carrier        *string     `json:"carrier,omitempty" db:"carrier"`
	CreatedAt      time.Time   `json:"createdAt" db:"created_at"`
}

// LoyaltyEntry is a ledger row; positive points are credits earned from
// net spend, negative points are redemptions.
type LoyaltyEntry struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"userId" db:"user_id"`
	OrderID   *uuid.UUID `json:"orderId,omitempty" db:"order_id"`
	Points    int        `json:"points" db:"points"`
	Reason    string     `json:"reason" db:"reason"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
}

// Loyalty ledger reasons.
const (
	LoyaltyReasonRedeem = "redeem"
	LoyaltyReasonEarn   = "earn"
)

// GuestItem is a client-supplied guest checkout line. It is re-priced
// and re-validated against the live catalogue before use.
type GuestItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CheckoutRequest is the checkout operation input.
type CheckoutRequest struct {
	UserID            *uuid.UUID      `json:"-"`
	GuestEmail        *string         `json:"guestEmail,omitempty"`
	GuestItems        []GuestItem     `json:"items,omitempty"`
	ShippingAddress   ShippingAddress `json:"shippingAddress"`
	ShippingAddressID *uuid.UUID      `json:"shippingAddressId,omitempty"`
	PaymentMethod     string          `json:"paymentMethod"`
	CouponCode        *string         `json:"couponCode,omitempty"`
	LoyaltyPoints     int             `json:"loyaltyPoints,omitempty"`
	Notes             *string         `json:"notes,omitempty"`
	Locale            string          `json:"locale,omitempty"`
}

// CheckoutResponse is the checkout operation output.
type CheckoutResponse struct {
	Success     bool           `json:"success"`
	OrderID     *uuid.UUID     `json:"orderId,omitempty"`
	OrderNumber string         `json:"orderNumber,omitempty"`
	Error       string         `json:"error,omitempty"`
	Params      map[string]any `json:"params,omitempty"`
}

// CouponApplyRequest is the coupon-apply operation input.
type CouponApplyRequest struct {
	Code     string `json:"code"`
	Subtotal int64  `json:"subtotal"`
}

// CouponApplyResponse is the coupon-apply operation output.
type CouponApplyResponse struct {
	Success  bool           `json:"success"`
	Discount int64          `json:"discount,omitempty"`
	Error    string         `json:"error,omitempty"`
	Params   map[string]any `json:"params,omitempty"`
}

// StatusUpdateRequest is the admin order-status-update input.
type StatusUpdateRequest struct {
	Status         OrderStatus `json:"status"`
	TrackingNumber *string     `json:"trackingNumber,omitempty"`
	Carrier        *string     `json:"carrier,omitempty"`
	Notes          *string     `json:"notes,omitempty"`
	Locale         string      `json:"locale,omitempty"`
}

// StatusUpdateResponse is the admin order-status-update output.
type StatusUpdateResponse struct {
	Success bool           `json:"success"`
	Error   string         `json:"error,omitempty"`
	Params  map[string]any `json:"params,omitempty"`
}

// OrderResponse is the payload for order retrieval.
type OrderResponse struct {
	Order *Order      `json:"order"`
	Items []OrderItem `json:"items"`
}
