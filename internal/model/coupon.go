package model

import "time"

// Coupon discount types.
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// Coupon represents a discount code. used_count is only ever advanced
// through a guarded conditional update so concurrent redemptions cannot
// push it past usage_limit.
type Coupon struct {
	Code          string     `json:"code" db:"code"`
	DiscountType  string     `json:"discountType" db:"discount_type"`
	DiscountValue int64      `json:"discountValue" db:"discount_value"`
	MinOrderValue *int64     `json:"minOrderValue,omitempty" db:"min_order_value"`
	MaxDiscount   *int64     `json:"maxDiscount,omitempty" db:"max_discount"`
	UsageLimit    *int       `json:"usageLimit,omitempty" db:"usage_limit"`
	UsedCount     int        `json:"usedCount" db:"used_count"`
	IsActive      bool       `json:"isActive" db:"is_active"`
	ExpiryDate    *time.Time `json:"expiryDate,omitempty" db:"expiry_date"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
}
