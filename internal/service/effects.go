package service

import (
	"context"
	"fmt"
	"time"

	"souq-kart/internal/model"
	"souq-kart/internal/notify"
	"souq-kart/internal/pricing"

	"github.com/google/uuid"
)

// runPostOrderEffects performs the post-commit side-effect chain:
// coupon usage increment, loyalty ledger writes, confirmation email and
// in-app notification. Every step is best-effort — the order is already
// durable, so failures are logged and never flip the checkout result.
func (s *checkoutService) runPostOrderEffects(ctx context.Context, order *model.Order, items []model.OrderItem, deliveryDays int, locale string) {
	if order.CouponCode != nil {
		s.redeemCoupon(ctx, *order.CouponCode, order.OrderNumber)
	}

	if order.UserID != nil {
		s.writeLoyaltyLedger(ctx, order)
	}

	if err := s.mailer.SendOrderConfirmation(ctx, order, items, locale, deliveryDays); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_number", order.OrderNumber).
			Msg("failed to send order confirmation email")
	}

	if order.UserID != nil {
		err := s.notifier.Create(ctx, *order.UserID,
			notify.TypeOrderConfirmation,
			"Order placed",
			fmt.Sprintf("Your order %s has been received.", order.OrderNumber),
			map[string]any{
				"orderNumber": order.OrderNumber,
				"total":       order.Total,
			},
			"/orders/"+order.ID.String(),
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("order_number", order.OrderNumber).
				Msg("failed to create order notification")
		}
	}
}

// redeemCoupon advances the coupon usage counter through the guarded
// update. A rejected guard means a concurrent redemption won the race;
// the order stands either way.
func (s *checkoutService) redeemCoupon(ctx context.Context, code, orderNumber string) {
	ok, err := s.couponRepo.RedeemUsage(ctx, code)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("coupon_code", code).
			Str("order_number", orderNumber).
			Msg("failed to increment coupon usage")
		return
	}

	if !ok {
		s.logger.Warn().
			Str("coupon_code", code).
			Str("order_number", orderNumber).
			Msg("coupon usage guard rejected increment, coupon over-redeemed in a race")
	}
}

// writeLoyaltyLedger records the redemption debit and the points earned
// from net spend.
func (s *checkoutService) writeLoyaltyLedger(ctx context.Context, order *model.Order) {
	now := time.Now()

	if order.LoyaltyPointsUsed > 0 {
		entry := &model.LoyaltyEntry{
			ID:        uuid.New(),
			UserID:    *order.UserID,
			OrderID:   &order.ID,
			Points:    -order.LoyaltyPointsUsed,
			Reason:    model.LoyaltyReasonRedeem,
			CreatedAt: now,
		}
		if err := s.loyaltyRepo.Record(ctx, entry); err != nil {
			s.logger.Error().
				Err(err).
				Str("order_number", order.OrderNumber).
				Int("points", order.LoyaltyPointsUsed).
				Msg("failed to record loyalty redemption")
		}
	}

	netSpend := order.Subtotal - order.Discount - order.LoyaltyDiscount
	earned := pricing.PointsEarned(s.loyaltyCfg, netSpend)
	if earned > 0 {
		entry := &model.LoyaltyEntry{
			ID:        uuid.New(),
			UserID:    *order.UserID,
			OrderID:   &order.ID,
			Points:    earned,
			Reason:    model.LoyaltyReasonEarn,
			CreatedAt: now,
		}
		if err := s.loyaltyRepo.Record(ctx, entry); err != nil {
			s.logger.Error().
				Err(err).
				Str("order_number", order.OrderNumber).
				Int("points", earned).
				Msg("failed to record loyalty award")
		}
	}
}
