package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"souq-kart/internal/model"
	"souq-kart/internal/notify"
	"souq-kart/internal/pricing"
	"souq-kart/internal/repository"
	"souq-kart/internal/shipping"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// checkoutService implements CheckoutService.
type checkoutService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	couponRepo  repository.CouponRepository
	loyaltyRepo repository.LoyaltyRepository
	rates       shipping.RateTable
	mailer      notify.EmailSender
	notifier    notify.NotificationSink
	loyaltyCfg  pricing.LoyaltyConfig
	logger      zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	couponRepo repository.CouponRepository,
	loyaltyRepo repository.LoyaltyRepository,
	rates shipping.RateTable,
	mailer notify.EmailSender,
	notifier notify.NotificationSink,
	loyaltyCfg pricing.LoyaltyConfig,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		couponRepo:  couponRepo,
		loyaltyRepo: loyaltyRepo,
		rates:       rates,
		mailer:      mailer,
		notifier:    notifier,
		loyaltyCfg:  loyaltyCfg,
		logger:      logger.With().Str("service", "checkout").Logger(),
	}
}

// Checkout runs the order pipeline: resolve the cart, price it, persist
// the order under a unique number with bounded collision retry, then
// dispatch best-effort post-commit effects.
func (s *checkoutService) Checkout(ctx context.Context, req *model.CheckoutRequest) (*model.Order, error) {
	if err := s.validateCheckoutRequest(req); err != nil {
		return nil, err
	}

	now := time.Now()

	items, err := s.resolveCart(ctx, req, now)
	if err != nil {
		return nil, err
	}

	subtotal := model.Subtotal(items)

	var coupon *model.Coupon
	var discount int64
	if req.CouponCode != nil && *req.CouponCode != "" {
		code := pricing.NormalizeCouponCode(*req.CouponCode)
		coupon, discount, err = s.applyCoupon(ctx, code, subtotal, now)
		if err != nil {
			s.logger.Warn().Str("coupon_code", code).Err(err).Msg("coupon rejected")
			return nil, err
		}
	}

	// Loyalty redemption is only available to authenticated users; a
	// guest-supplied value is treated as zero.
	pointsUsed := req.LoyaltyPoints
	if req.UserID == nil {
		pointsUsed = 0
	}

	var loyaltyDiscount int64
	if pointsUsed > 0 {
		remaining := subtotal - discount
		loyaltyDiscount, err = s.applyLoyalty(ctx, *req.UserID, pointsUsed, remaining)
		if err != nil {
			s.logger.Warn().Int("points", pointsUsed).Err(err).Msg("loyalty redemption rejected")
			return nil, err
		}
	}

	rate := s.rates.Lookup(req.ShippingAddress.Governorate)
	shippingCost := shipping.Cost(rate, subtotal)
	total := pricing.Total(subtotal, shippingCost, discount, loyaltyDiscount)

	order := &model.Order{
		ID:                uuid.New(),
		UserID:            req.UserID,
		GuestEmail:        req.GuestEmail,
		ShippingAddressID: req.ShippingAddressID,
		ShippingAddress:   req.ShippingAddress,
		PaymentMethod:     req.PaymentMethod,
		Status:            model.OrderStatusPending,
		Subtotal:          subtotal,
		ShippingCost:      shippingCost,
		Discount:          discount,
		LoyaltyDiscount:   loyaltyDiscount,
		Total:             total,
		LoyaltyPointsUsed: pointsUsed,
		Notes:             req.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if coupon != nil {
		order.CouponCode = &coupon.Code
	}

	orderItems := make([]model.OrderItem, len(items))
	for i := range items {
		orderItems[i] = model.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: items[i].Product.ID,
			Snapshot:  items[i].Product.Snapshot(),
			Quantity:  items[i].Quantity,
			UnitPrice: items[i].UnitPrice,
			Subtotal:  items[i].LineSubtotal(),
		}
	}

	if err := s.persistWithRetry(ctx, order, orderItems, req.UserID); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("order_number", order.OrderNumber).
		Int64("total", order.Total).
		Int("item_count", len(orderItems)).
		Msg("order created successfully")

	// The order is durably committed; effect failures are logged only.
	s.runPostOrderEffects(ctx, order, orderItems, rate.EstimatedDeliveryDays, req.Locale)

	return order, nil
}

// persistWithRetry attempts the insert under a fresh order number,
// regenerating the suffix on a uniqueness conflict. Any other
// persistence error propagates immediately.
func (s *checkoutService) persistWithRetry(ctx context.Context, order *model.Order, items []model.OrderItem, convertCartUserID *uuid.UUID) error {
	for attempt := 1; attempt <= orderNumberAttempts; attempt++ {
		number, err := generateOrderNumber(order.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		order.OrderNumber = number

		err = s.orderRepo.CreateWithItems(ctx, order, items, convertCartUserID)
		if err == nil {
			return nil
		}

		if !errors.Is(err, repository.ErrConflict) {
			s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to persist order")
			return fmt.Errorf("failed to create order: %w", err)
		}

		s.logger.Warn().
			Str("order_number", number).
			Int("attempt", attempt).
			Msg("order number collision, regenerating")
	}

	// Three collisions in a row points at sustained high concurrency;
	// surfaced to the caller as a generic failure.
	s.logger.Error().
		Str("order_id", order.ID.String()).
		Int("attempts", orderNumberAttempts).
		Msg("order number collision retries exhausted")

	return model.ErrOrderCreateFailed
}

// resolveCart assembles the authoritative purchasable line items with
// their effective unit price locked at resolution time.
func (s *checkoutService) resolveCart(ctx context.Context, req *model.CheckoutRequest, now time.Time) ([]model.CartItemWithProduct, error) {
	if req.UserID != nil {
		return s.resolveUserCart(ctx, *req.UserID, now)
	}
	return s.resolveGuestCart(ctx, req.GuestItems, now)
}

func (s *checkoutService) resolveUserCart(ctx context.Context, userID uuid.UUID, now time.Time) ([]model.CartItemWithProduct, error) {
	items, err := s.cartRepo.GetOpenCartItems(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to load cart")
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	if len(items) == 0 {
		return nil, model.ErrEmptyCart
	}

	for i := range items {
		items[i].UnitPrice = items[i].Product.EffectivePrice(now)
	}

	return items, nil
}

// resolveGuestCart re-prices and re-validates client-supplied lines
// against the live catalogue. Any missing product, non-positive
// quantity or insufficient stock invalidates the whole cart.
func (s *checkoutService) resolveGuestCart(ctx context.Context, guestItems []model.GuestItem, now time.Time) ([]model.CartItemWithProduct, error) {
	if len(guestItems) == 0 {
		return nil, model.ErrEmptyCart
	}

	ids := make([]string, 0, len(guestItems))
	seen := make(map[string]struct{}, len(guestItems))
	for _, line := range guestItems {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}
		ids = append(ids, line.ProductID)
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load products")
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]model.CartItemWithProduct, 0, len(guestItems))
	for _, line := range guestItems {
		product, ok := byID[line.ProductID]
		if !ok || line.Quantity <= 0 || line.Quantity > product.Stock {
			s.logger.Warn().
				Str("product_id", line.ProductID).
				Int("quantity", line.Quantity).
				Msg("guest cart line rejected")
			return nil, model.ErrEmptyCart
		}

		items = append(items, model.CartItemWithProduct{
			Product:   product,
			Quantity:  line.Quantity,
			UnitPrice: product.EffectivePrice(now),
		})
	}

	return items, nil
}

// applyCoupon looks up and validates a normalised coupon code against
// the subtotal and computes its discount.
func (s *checkoutService) applyCoupon(ctx context.Context, code string, subtotal int64, now time.Time) (*model.Coupon, int64, error) {
	if !pricing.ValidCouponFormat(code) {
		return nil, 0, model.ErrCouponInvalid
	}

	coupon, err := s.couponRepo.GetActiveByCode(ctx, code)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to look up coupon: %w", err)
	}
	if coupon == nil {
		return nil, 0, model.ErrCouponInvalid
	}

	if err := pricing.ValidateCoupon(coupon, subtotal, now); err != nil {
		return nil, 0, err
	}

	return coupon, pricing.CouponDiscount(coupon, subtotal), nil
}

// applyLoyalty validates the redemption against the user's balance and
// the subtotal remaining after the coupon discount.
func (s *checkoutService) applyLoyalty(ctx context.Context, userID uuid.UUID, points int, remaining int64) (int64, error) {
	balance, err := s.loyaltyRepo.Balance(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to load loyalty balance: %w", err)
	}

	if err := pricing.ValidateLoyalty(s.loyaltyCfg, points, balance, remaining); err != nil {
		return 0, err
	}

	return pricing.LoyaltyDiscount(s.loyaltyCfg, points, remaining), nil
}

// ApplyCoupon implements the standalone coupon-apply operation.
func (s *checkoutService) ApplyCoupon(ctx context.Context, code string, subtotal int64) (int64, error) {
	_, discount, err := s.applyCoupon(ctx, pricing.NormalizeCouponCode(code), subtotal, time.Now())
	if err != nil {
		return 0, err
	}
	return discount, nil
}

// GetByID retrieves an order by its ID with all items.
func (s *checkoutService) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	order, items, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		return nil, nil
	}

	return &model.OrderResponse{Order: order, Items: items}, nil
}

// validateCheckoutRequest rejects malformed input before any
// persistence is touched.
func (s *checkoutService) validateCheckoutRequest(req *model.CheckoutRequest) error {
	if req == nil {
		return fmt.Errorf("checkout request is nil")
	}

	if req.PaymentMethod != model.PaymentMethodCOD {
		return model.ErrInvalidPaymentMethod
	}

	addr := req.ShippingAddress
	if addr.Recipient == "" || addr.Phone == "" || addr.Line1 == "" || addr.City == "" || addr.Governorate == "" {
		return model.ErrInvalidAddress
	}

	if req.UserID == nil {
		if req.GuestEmail == nil || !strings.Contains(*req.GuestEmail, "@") {
			return model.ErrGuestEmailRequired
		}
	}

	return nil
}
