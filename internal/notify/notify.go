// Package notify declares the outbound collaborator interfaces the
// checkout pipeline and admin flow dispatch through. Real providers
// (mail gateway, in-app notification store) live outside this service;
// the log-backed implementations here are the default wiring.
package notify

import (
	"context"

	"souq-kart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Notification types.
const (
	TypeOrderConfirmation = "order_confirmation"
	TypeShippingUpdate    = "shipping_update"
)

// EmailSender dispatches transactional order emails.
type EmailSender interface {
	// SendOrderConfirmation sends the post-checkout confirmation email.
	SendOrderConfirmation(ctx context.Context, order *model.Order, items []model.OrderItem, locale string, deliveryDays int) error

	// SendShippingUpdate sends the email for an order entering shipped.
	SendShippingUpdate(ctx context.Context, order *model.Order, locale string) error
}

// NotificationSink stores in-app notifications for authenticated users.
type NotificationSink interface {
	Create(ctx context.Context, userID uuid.UUID, notificationType, title, body string, data map[string]any, linkPath string) error
}

// logEmailSender implements EmailSender by logging the dispatch.
type logEmailSender struct {
	logger zerolog.Logger
}

// NewLogEmailSender creates an email sender that only logs.
func NewLogEmailSender(logger zerolog.Logger) EmailSender {
	return &logEmailSender{
		logger: logger.With().Str("component", "email-sender").Logger(),
	}
}

func (s *logEmailSender) SendOrderConfirmation(ctx context.Context, order *model.Order, items []model.OrderItem, locale string, deliveryDays int) error {
	s.logger.Info().
		Str("order_number", order.OrderNumber).
		Str("recipient", recipient(order)).
		Str("locale", locale).
		Int("item_count", len(items)).
		Int("delivery_days", deliveryDays).
		Msg("order confirmation email dispatched")
	return nil
}

func (s *logEmailSender) SendShippingUpdate(ctx context.Context, order *model.Order, locale string) error {
	event := s.logger.Info().
		Str("order_number", order.OrderNumber).
		Str("recipient", recipient(order)).
		Str("locale", locale)
	if order.TrackingNumber != nil {
		event = event.Str("tracking_number", *order.TrackingNumber)
	}
	if order.Carrier != nil {
		event = event.Str("carrier", *order.Carrier)
	}
	event.Msg("shipping update email dispatched")
	return nil
}

func recipient(order *model.Order) string {
	if order.GuestEmail != nil {
		return *order.GuestEmail
	}
	if order.UserID != nil {
		return order.UserID.String()
	}
	return ""
}

// logNotificationSink implements NotificationSink by logging.
type logNotificationSink struct {
	logger zerolog.Logger
}

// NewLogNotificationSink creates a notification sink that only logs.
func NewLogNotificationSink(logger zerolog.Logger) NotificationSink {
	return &logNotificationSink{
		logger: logger.With().Str("component", "notification-sink").Logger(),
	}
}

func (s *logNotificationSink) Create(ctx context.Context, userID uuid.UUID, notificationType, title, body string, data map[string]any, linkPath string) error {
	s.logger.Info().
		Str("user_id", userID.String()).
		Str("type", notificationType).
		Str("title", title).
		Str("link_path", linkPath).
		Interface("data", data).
		Msg("in-app notification created")
	return nil
}
