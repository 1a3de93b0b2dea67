package service

import (
	"context"
	"fmt"
	"time"

	"souq-kart/internal/model"
	"souq-kart/internal/notify"
	"souq-kart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderStatusService implements OrderStatusService.
type orderStatusService struct {
	orderRepo repository.OrderRepository
	mailer    notify.EmailSender
	notifier  notify.NotificationSink
	logger    zerolog.Logger
}

// NewOrderStatusService creates a new order status service.
func NewOrderStatusService(
	orderRepo repository.OrderRepository,
	mailer notify.EmailSender,
	notifier notify.NotificationSink,
	logger zerolog.Logger,
) OrderStatusService {
	return &orderStatusService{
		orderRepo: orderRepo,
		mailer:    mailer,
		notifier:  notifier,
		logger:    logger.With().Str("service", "order-status").Logger(),
	}
}

// UpdateStatus validates and applies a status transition. A transition
// to the current status is a no-op success; every call, no-op included,
// writes an audit record.
func (s *orderStatusService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req *model.StatusUpdateRequest) error {
	if req == nil {
		return fmt.Errorf("status update request is nil")
	}

	if !model.ValidStatus(req.Status) {
		return model.ErrUnknownStatus
	}

	order, items, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to load order")
		return fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return model.ErrOrderNotFound
	}

	from := order.Status
	sameStatus := from == req.Status

	if !sameStatus && !model.CanTransition(from, req.Status) {
		s.logger.Warn().
			Str("order_id", orderID.String()).
			Str("from", string(from)).
			Str("to", string(req.Status)).
			Msg("invalid status transition rejected")
		return model.InvalidTransition(from, req.Status)
	}

	if req.TrackingNumber != nil {
		order.TrackingNumber = req.TrackingNumber
	}
	if req.Carrier != nil {
		order.Carrier = req.Carrier
	}
	if req.Notes != nil {
		order.Notes = req.Notes
	}

	entersShipped := req.Status == model.OrderStatusShipped && from != model.OrderStatusShipped

	// Validated before any write: shipped requires tracking data in the
	// same update.
	if entersShipped && (emptyStr(order.TrackingNumber) || emptyStr(order.Carrier)) {
		return model.ErrTrackingRequired
	}

	order.Status = req.Status
	order.UpdatedAt = time.Now()

	statusLog := &model.StatusLog{
		ID:             uuid.New(),
		OrderID:        order.ID,
		FromStatus:     from,
		ToStatus:       req.Status,
		TrackingNumber: order.TrackingNumber,
		Carrier:        order.Carrier,
		CreatedAt:      order.UpdatedAt,
	}

	if err := s.orderRepo.UpdateStatus(ctx, order, statusLog); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", orderID.String()).
			Str("to_status", string(req.Status)).
			Msg("failed to persist status update")
		return fmt.Errorf("failed to update order status: %w", err)
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("order_number", order.OrderNumber).
		Str("from", string(from)).
		Str("to", string(req.Status)).
		Msg("order status updated")

	if entersShipped {
		s.sendShippingEffects(ctx, order, items, req.Locale)
	}

	return nil
}

// sendShippingEffects dispatches the shipping email and, for owned
// orders, the in-app notification. Best-effort: the status change is
// already committed.
func (s *orderStatusService) sendShippingEffects(ctx context.Context, order *model.Order, items []model.OrderItem, locale string) {
	if err := s.mailer.SendShippingUpdate(ctx, order, locale); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_number", order.OrderNumber).
			Msg("failed to send shipping update email")
	}

	if order.UserID == nil {
		return
	}

	data := map[string]any{
		"itemCount": len(items),
		"total":     order.Total,
	}
	if order.TrackingNumber != nil {
		data["trackingNumber"] = *order.TrackingNumber
	}

	err := s.notifier.Create(ctx, *order.UserID,
		notify.TypeShippingUpdate,
		"Order shipped",
		fmt.Sprintf("Your order %s is on its way.", order.OrderNumber),
		data,
		"/orders/"+order.ID.String(),
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("order_number", order.OrderNumber).
			Msg("failed to create shipping notification")
	}
}

func emptyStr(s *string) bool {
	return s == nil || *s == ""
}
