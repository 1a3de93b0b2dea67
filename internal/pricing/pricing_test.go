package pricing

import (
	"testing"
	"time"

	"souq-kart/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrInt64(v int64) *int64 { return &v }
func ptrInt(v int) *int       { return &v }

func TestNormalizeCouponCode(t *testing.T) {
	assert.Equal(t, "SAVE10", NormalizeCouponCode("  save10 "))
	assert.Equal(t, "WINTER2026", NormalizeCouponCode("winter2026"))
}

func TestValidCouponFormat(t *testing.T) {
	tests := []struct {
		name  string
		code  string
		valid bool
	}{
		{"Valid short code", "SAVE", true},
		{"Valid long code", "ABCDEFGHIJ1234567890", true},
		{"Too short", "AB1", false},
		{"Too long", "ABCDEFGHIJ12345678901", false},
		{"Lowercase rejected", "save10", false},
		{"Punctuation rejected", "SAVE-10", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidCouponFormat(tt.code))
		})
	}
}

func TestValidateCoupon(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name     string
		coupon   model.Coupon
		subtotal int64
		wantErr  *model.DomainError
	}{
		{
			name:     "Valid coupon",
			coupon:   model.Coupon{Code: "SAVE10", DiscountType: model.DiscountTypePercentage, DiscountValue: 10, IsActive: true, ExpiryDate: &future},
			subtotal: 100_000,
		},
		{
			name:     "Expired coupon",
			coupon:   model.Coupon{Code: "OLD10", DiscountType: model.DiscountTypePercentage, DiscountValue: 10, IsActive: true, ExpiryDate: &past},
			subtotal: 100_000,
			wantErr:  model.ErrCouponExpired,
		},
		{
			name:     "No expiry never expires",
			coupon:   model.Coupon{Code: "EVERGREEN", DiscountType: model.DiscountTypeFixed, DiscountValue: 5_000, IsActive: true},
			subtotal: 100_000,
		},
		{
			name:     "Usage limit reached",
			coupon:   model.Coupon{Code: "LIMITED", DiscountType: model.DiscountTypeFixed, DiscountValue: 5_000, IsActive: true, UsageLimit: ptrInt(100), UsedCount: 100},
			subtotal: 100_000,
			wantErr:  model.ErrCouponUsageLimit,
		},
		{
			name:     "Minimum order not met",
			coupon:   model.Coupon{Code: "BIG", DiscountType: model.DiscountTypeFixed, DiscountValue: 5_000, IsActive: true, MinOrderValue: ptrInt64(50_000)},
			subtotal: 40_000,
			wantErr:  model.CouponMinOrderNotMet(50_000),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCoupon(&tt.coupon, tt.subtotal, now)

			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var domainErr *model.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.wantErr.Code, domainErr.Code)
			assert.Equal(t, tt.wantErr.Params, domainErr.Params)
		})
	}
}

func TestCouponDiscount(t *testing.T) {
	tests := []struct {
		name     string
		coupon   model.Coupon
		subtotal int64
		expected int64
	}{
		{
			name:     "Percentage capped by max discount",
			coupon:   model.Coupon{Code: "SAVE10", DiscountType: model.DiscountTypePercentage, DiscountValue: 10, MaxDiscount: ptrInt64(5_000)},
			subtotal: 100_000,
			expected: 5_000,
		},
		{
			name:     "Percentage below cap",
			coupon:   model.Coupon{Code: "SAVE10", DiscountType: model.DiscountTypePercentage, DiscountValue: 10, MaxDiscount: ptrInt64(5_000)},
			subtotal: 30_000,
			expected: 3_000,
		},
		{
			name:     "Percentage without cap",
			coupon:   model.Coupon{Code: "SAVE25", DiscountType: model.DiscountTypePercentage, DiscountValue: 25},
			subtotal: 100_000,
			expected: 25_000,
		},
		{
			name:     "Percentage rounds to nearest dinar",
			coupon:   model.Coupon{Code: "SAVE3", DiscountType: model.DiscountTypePercentage, DiscountValue: 3},
			subtotal: 1_250,
			expected: 38, // 37.5 rounds up
		},
		{
			name:     "Fixed discount",
			coupon:   model.Coupon{Code: "FLAT5K", DiscountType: model.DiscountTypeFixed, DiscountValue: 5_000},
			subtotal: 100_000,
			expected: 5_000,
		},
		{
			name:     "Fixed discount clamped to subtotal",
			coupon:   model.Coupon{Code: "FLAT5K", DiscountType: model.DiscountTypeFixed, DiscountValue: 5_000},
			subtotal: 3_000,
			expected: 3_000,
		},
		{
			name:     "Unknown type yields nothing",
			coupon:   model.Coupon{Code: "ODD", DiscountType: "bogus", DiscountValue: 5_000},
			subtotal: 100_000,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			discount := CouponDiscount(&tt.coupon, tt.subtotal)

			assert.Equal(t, tt.expected, discount)
			assert.LessOrEqual(t, discount, tt.subtotal)
			if tt.coupon.MaxDiscount != nil {
				assert.LessOrEqual(t, discount, *tt.coupon.MaxDiscount)
			}
		})
	}
}

func TestValidateLoyalty(t *testing.T) {
	cfg := DefaultLoyaltyConfig()

	tests := []struct {
		name      string
		points    int
		balance   int
		remaining int64
		wantCode  string
	}{
		{"Valid redemption", 200, 500, 50_000, ""},
		{"Below minimum", 50, 500, 50_000, model.ErrCodeLoyaltyMinimum},
		{"Insufficient balance", 600, 500, 50_000, model.ErrCodeLoyaltyBalance},
		{"Exceeds remaining subtotal", 500, 1_000, 3_000, model.ErrCodeLoyaltyExceeds},
		{"Exactly at remaining subtotal", 300, 1_000, 3_000, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLoyalty(cfg, tt.points, tt.balance, tt.remaining)

			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}

			var domainErr *model.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.wantCode, domainErr.Code)
		})
	}
}

func TestLoyaltyDiscount(t *testing.T) {
	cfg := DefaultLoyaltyConfig()

	assert.Equal(t, int64(2_000), LoyaltyDiscount(cfg, 200, 50_000))
	// Capped at the remaining subtotal.
	assert.Equal(t, int64(1_500), LoyaltyDiscount(cfg, 200, 1_500))
}

func TestPointsEarned(t *testing.T) {
	cfg := DefaultLoyaltyConfig()

	assert.Equal(t, 95, PointsEarned(cfg, 95_000))
	assert.Equal(t, 0, PointsEarned(cfg, 999))
	assert.Equal(t, 0, PointsEarned(cfg, 0))
	assert.Equal(t, 0, PointsEarned(cfg, -5_000))
}

func TestTotal(t *testing.T) {
	tests := []struct {
		name                                         string
		subtotal, shipping, discount, loyalty, total int64
	}{
		{"No discounts", 100_000, 5_000, 0, 0, 105_000},
		{"Coupon only", 100_000, 5_000, 10_000, 0, 95_000},
		{"Stacked discounts", 100_000, 0, 5_000, 2_000, 93_000},
		{"Discounts exceed order", 10_000, 0, 8_000, 5_000, 0},
		{"Free shipping", 200_000, 0, 0, 0, 200_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total := Total(tt.subtotal, tt.shipping, tt.discount, tt.loyalty)

			assert.Equal(t, tt.total, total)
			assert.GreaterOrEqual(t, total, int64(0))
		})
	}
}
