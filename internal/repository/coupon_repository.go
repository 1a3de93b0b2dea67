package repository

import (
	"context"
	"fmt"

	"souq-kart/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// couponRepository implements the CouponRepository interface using PostgreSQL.
type couponRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCouponRepository creates a new PostgreSQL-backed coupon repository.
func NewCouponRepository(pool *pgxpool.Pool, logger zerolog.Logger) CouponRepository {
	return &couponRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "coupon").Logger(),
	}
}

// GetActiveByCode retrieves an active coupon by its normalised code.
// Unknown and inactive codes both come back as nil.
func (r *couponRepository) GetActiveByCode(ctx context.Context, code string) (*model.Coupon, error) {
	query := `
		SELECT code, discount_type, discount_value, min_order_value, max_discount,
		       usage_limit, used_count, is_active, expiry_date, created_at
		FROM coupons
		WHERE code = $1 AND is_active = TRUE
	`

	var c model.Coupon
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&c.Code, &c.DiscountType, &c.DiscountValue, &c.MinOrderValue, &c.MaxDiscount,
		&c.UsageLimit, &c.UsedCount, &c.IsActive, &c.ExpiryDate, &c.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("code", code).Msg("coupon not found or inactive")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("code", code).Msg("failed to query coupon")
		return nil, fmt.Errorf("failed to query coupon: %w", err)
	}

	return &c, nil
}

// RedeemUsage advances used_count through a guarded conditional update
// so concurrent redemptions can never push it past usage_limit. A false
// return means the guard rejected the increment.
func (r *couponRepository) RedeemUsage(ctx context.Context, code string) (bool, error) {
	query := `
		UPDATE coupons
		SET used_count = used_count + 1
		WHERE code = $1
		  AND is_active = TRUE
		  AND (usage_limit IS NULL OR used_count < usage_limit)
	`

	tag, err := r.pool.Exec(ctx, query, code)
	if err != nil {
		r.logger.Error().Err(err).Str("code", code).Msg("failed to increment coupon usage")
		return false, fmt.Errorf("failed to increment coupon usage: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
