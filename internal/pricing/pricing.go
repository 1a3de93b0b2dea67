// Package pricing implements the pure pricing computations for
// checkout: coupon validation and discounts, loyalty redemption and
// totals. All amounts are Iraqi dinars as int64; nothing here touches
// persistence.
package pricing

import (
	"regexp"
	"strings"
	"time"

	"souq-kart/internal/model"
)

// couponCodePattern is the normalised coupon format: uppercase
// alphanumeric, 4 to 20 characters.
var couponCodePattern = regexp.MustCompile(`^[A-Z0-9]{4,20}$`)

// NormalizeCouponCode trims and uppercases a raw coupon code.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidCouponFormat reports whether a normalised code is well-formed.
func ValidCouponFormat(code string) bool {
	return couponCodePattern.MatchString(code)
}

// ValidateCoupon checks an active coupon against the order subtotal.
// The caller is responsible for only passing coupons with is_active set
// (inactive and unknown codes are both reported as invalid at lookup).
func ValidateCoupon(c *model.Coupon, subtotal int64, now time.Time) error {
	if c.ExpiryDate != nil && now.After(*c.ExpiryDate) {
		return model.ErrCouponExpired
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return model.ErrCouponUsageLimit
	}
	if c.MinOrderValue != nil && subtotal < *c.MinOrderValue {
		return model.CouponMinOrderNotMet(*c.MinOrderValue)
	}
	return nil
}

// CouponDiscount computes the discount a coupon yields on a subtotal.
// Percentage discounts are rounded to the nearest dinar and clamped to
// max_discount when set; fixed discounts never exceed the subtotal.
func CouponDiscount(c *model.Coupon, subtotal int64) int64 {
	switch c.DiscountType {
	case model.DiscountTypePercentage:
		discount := (subtotal*c.DiscountValue + 50) / 100
		if c.MaxDiscount != nil && discount > *c.MaxDiscount {
			discount = *c.MaxDiscount
		}
		return discount
	case model.DiscountTypeFixed:
		if c.DiscountValue > subtotal {
			return subtotal
		}
		return c.DiscountValue
	default:
		return 0
	}
}

// LoyaltyConfig holds the points economy. The conversion rates are
// deployment configuration, not business logic.
type LoyaltyConfig struct {
	// PointsToDinars is the discount value of a single point.
	PointsToDinars int64

	// MinRedeemPoints is the smallest redeemable amount.
	MinRedeemPoints int

	// EarnPerDinars is how many dinars of net spend earn one point.
	EarnPerDinars int64
}

// DefaultLoyaltyConfig returns the default points economy.
func DefaultLoyaltyConfig() LoyaltyConfig {
	return LoyaltyConfig{
		PointsToDinars:  10,
		MinRedeemPoints: 100,
		EarnPerDinars:   1000,
	}
}

// ValidateLoyalty checks a redemption request. remaining is the
// subtotal left after the coupon discount; the redemption must not
// exceed it.
func ValidateLoyalty(cfg LoyaltyConfig, points, balance int, remaining int64) error {
	if points < cfg.MinRedeemPoints {
		return model.LoyaltyBelowMinimum(cfg.MinRedeemPoints)
	}
	if points > balance {
		return model.LoyaltyInsufficientBalance(balance)
	}
	if int64(points)*cfg.PointsToDinars > remaining {
		return model.ErrLoyaltyExceeds
	}
	return nil
}

// LoyaltyDiscount converts redeemed points to dinars, capped at the
// remaining subtotal.
func LoyaltyDiscount(cfg LoyaltyConfig, points int, remaining int64) int64 {
	discount := int64(points) * cfg.PointsToDinars
	if discount > remaining {
		discount = remaining
	}
	return discount
}

// PointsEarned computes the points credited for an order's net spend
// (subtotal minus both discounts; shipping does not earn points).
func PointsEarned(cfg LoyaltyConfig, netSpend int64) int {
	if netSpend <= 0 || cfg.EarnPerDinars <= 0 {
		return 0
	}
	return int(netSpend / cfg.EarnPerDinars)
}

// Total derives the final charge. It never goes negative.
func Total(subtotal, shipping, discount, loyaltyDiscount int64) int64 {
	total := subtotal + shipping - discount - loyaltyDiscount
	if total < 0 {
		return 0
	}
	return total
}
