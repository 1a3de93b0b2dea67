package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string         `json:"error"`
	Message       string         `json:"message"`
	Params        map[string]any `json:"params,omitempty"`
	CorrelationID string         `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeEmptyCart         = "EMPTY_CART"
	ErrCodeCouponInvalid     = "COUPON_INVALID"
	ErrCodeCouponExpired     = "COUPON_EXPIRED"
	ErrCodeCouponUsageLimit  = "COUPON_USAGE_LIMIT"
	ErrCodeCouponMinOrder    = "COUPON_MIN_ORDER"
	ErrCodeLoyaltyBalance    = "LOYALTY_INSUFFICIENT_BALANCE"
	ErrCodeLoyaltyMinimum    = "LOYALTY_BELOW_MINIMUM"
	ErrCodeLoyaltyExceeds    = "LOYALTY_EXCEEDS_SUBTOTAL"
	ErrCodeProductNotFound   = "PRODUCT_NOT_FOUND"
	ErrCodeOrderNotFound     = "ORDER_NOT_FOUND"
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
	ErrCodeOrderCreateFailed = "ORDER_CREATE_FAILED"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// DomainError carries a machine code, a dotted localisation key and
// optional interpolation params alongside the human-readable message.
// Clients render the key/params pair; the message is a fallback.
type DomainError struct {
	Code    string
	Key     string
	Message string
	Params  map[string]any
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error.
func NewDomainError(code, key, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Key:     key,
		Message: message,
	}
}

// WithParams returns a copy of the error carrying interpolation params.
func (e *DomainError) WithParams(params map[string]any) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Key:     e.Key,
		Message: e.Message,
		Params:  params,
	}
}

// Common domain errors
var (
	ErrEmptyCart            = NewDomainError(ErrCodeEmptyCart, "checkout.empty_cart", "Cart is empty or contains unavailable items")
	ErrGuestEmailRequired   = NewDomainError(ErrCodeValidation, "checkout.guest_email_required", "Guest checkout requires an email address")
	ErrInvalidAddress       = NewDomainError(ErrCodeValidation, "checkout.invalid_address", "Shipping address is incomplete")
	ErrInvalidPaymentMethod = NewDomainError(ErrCodeValidation, "checkout.invalid_payment_method", "Unsupported payment method")
	ErrCouponInvalid        = NewDomainError(ErrCodeCouponInvalid, "coupon.invalid", "Coupon code is not valid")
	ErrCouponExpired        = NewDomainError(ErrCodeCouponExpired, "coupon.expired", "Coupon has expired")
	ErrCouponUsageLimit     = NewDomainError(ErrCodeCouponUsageLimit, "coupon.usage_limit_reached", "Coupon usage limit reached")
	ErrLoyaltyExceeds       = NewDomainError(ErrCodeLoyaltyExceeds, "loyalty.exceeds_subtotal", "Loyalty discount exceeds the remaining order value")
	ErrOrderNotFound        = NewDomainError(ErrCodeOrderNotFound, "order.not_found", "Order not found")
	ErrTrackingRequired     = NewDomainError(ErrCodeValidation, "order.tracking_required", "Tracking number and carrier are required to mark an order shipped")
	ErrUnknownStatus        = NewDomainError(ErrCodeValidation, "order.unknown_status", "Unknown order status")
	ErrOrderCreateFailed    = NewDomainError(ErrCodeOrderCreateFailed, "order.create_failed", "Order could not be created")
)

// CouponMinOrderNotMet reports the required minimum back to the caller.
func CouponMinOrderNotMet(min int64) *DomainError {
	return NewDomainError(ErrCodeCouponMinOrder, "coupon.min_order_not_met", "Order subtotal is below the coupon minimum").
		WithParams(map[string]any{"amount": min})
}

// LoyaltyInsufficientBalance reports the available balance.
func LoyaltyInsufficientBalance(balance int) *DomainError {
	return NewDomainError(ErrCodeLoyaltyBalance, "loyalty.insufficient_balance", "Not enough loyalty points").
		WithParams(map[string]any{"points": balance})
}

// LoyaltyBelowMinimum reports the minimum redeemable amount.
func LoyaltyBelowMinimum(min int) *DomainError {
	return NewDomainError(ErrCodeLoyaltyMinimum, "loyalty.below_minimum", "Loyalty redemption is below the minimum").
		WithParams(map[string]any{"points": min})
}

// InvalidTransition rejects a status change the state machine forbids.
func InvalidTransition(from, to OrderStatus) *DomainError {
	return NewDomainError(ErrCodeInvalidTransition, "order.invalid_transition", "Status transition is not allowed").
		WithParams(map[string]any{"from": string(from), "to": string(to)})
}
