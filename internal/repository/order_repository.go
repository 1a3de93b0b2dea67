package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"souq-kart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// CreateWithItems persists the order row, its line items and the cart
// conversion atomically. Either everything commits or nothing does, so
// an order row can never exist without its items.
func (r *orderRepository) CreateWithItems(ctx context.Context, order *model.Order, items []model.OrderItem, convertCartUserID *uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := r.insertOrder(ctx, tx, order); err != nil {
		return err
	}

	if err := r.insertItems(ctx, tx, items); err != nil {
		return err
	}

	if convertCartUserID != nil {
		if err := r.convertCart(ctx, tx, *convertCartUserID); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().
			Err(err).
			Str("order_number", order.OrderNumber).
			Msg("failed to commit order transaction")
		return classifyError(fmt.Errorf("failed to commit order: %w", err))
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Str("order_number", order.OrderNumber).
		Int("item_count", len(items)).
		Msg("order created successfully")

	return nil
}

func (r *orderRepository) insertOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	address, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return fmt.Errorf("failed to marshal shipping address: %w", err)
	}

	query := `
		INSERT INTO orders (
			id, order_number, user_id, guest_email, shipping_address_id,
			shipping_address, payment_method, status,
			subtotal, shipping_cost, discount, loyalty_discount, total,
			loyalty_points_used, coupon_code, notes,
			tracking_number, carrier, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`

	_, err = tx.Exec(ctx, query,
		order.ID, order.OrderNumber, order.UserID, order.GuestEmail, order.ShippingAddressID,
		address, order.PaymentMethod, order.Status,
		order.Subtotal, order.ShippingCost, order.Discount, order.LoyaltyDiscount, order.Total,
		order.LoyaltyPointsUsed, order.CouponCode, order.Notes,
		order.TrackingNumber, order.Carrier, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		classified := classifyError(err)
		r.logger.Error().
			Err(classified).
			Str("order_id", order.ID.String()).
			Str("order_number", order.OrderNumber).
			Msg("failed to insert order")
		return fmt.Errorf("failed to insert order: %w", classified)
	}

	return nil
}

func (r *orderRepository) insertItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, product_id, product_snapshot, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	batch := &pgx.Batch{}
	for i := range items {
		snapshot, err := json.Marshal(items[i].Snapshot)
		if err != nil {
			return fmt.Errorf("failed to marshal product snapshot: %w", err)
		}
		batch.Queue(query, items[i].ID, items[i].OrderID, items[i].ProductID, snapshot, items[i].Quantity, items[i].UnitPrice, items[i].Subtotal)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID.String()).
				Str("product_id", items[i].ProductID).
				Msg("failed to insert order item")
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return nil
}

// convertCart marks the user's open cart converted and removes its
// items, preventing re-checkout of the same cart.
func (r *orderRepository) convertCart(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		DELETE FROM cart_items
		WHERE cart_id IN (SELECT id FROM carts WHERE user_id = $1 AND status = $2)
	`, userID, model.CartStatusOpen)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to clear cart items")
		return fmt.Errorf("failed to clear cart items: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE carts SET status = $1, updated_at = NOW()
		WHERE user_id = $2 AND status = $3
	`, model.CartStatusConverted, userID, model.CartStatusOpen)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to convert cart")
		return fmt.Errorf("failed to convert cart: %w", err)
	}

	return nil
}

// GetByID retrieves an order by its ID along with its items.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error) {
	orderQuery := `
		SELECT id, order_number, user_id, guest_email, shipping_address_id,
		       shipping_address, payment_method, status,
		       subtotal, shipping_cost, discount, loyalty_discount, total,
		       loyalty_points_used, coupon_code, notes,
		       tracking_number, carrier, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var order model.Order
	var address []byte
	err := r.pool.QueryRow(ctx, orderQuery, id).Scan(
		&order.ID, &order.OrderNumber, &order.UserID, &order.GuestEmail, &order.ShippingAddressID,
		&address, &order.PaymentMethod, &order.Status,
		&order.Subtotal, &order.ShippingCost, &order.Discount, &order.LoyaltyDiscount, &order.Total,
		&order.LoyaltyPointsUsed, &order.CouponCode, &order.Notes,
		&order.TrackingNumber, &order.Carrier, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, nil, fmt.Errorf("failed to query order: %w", err)
	}

	if err := json.Unmarshal(address, &order.ShippingAddress); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal shipping address: %w", err)
	}

	items, err := r.getItems(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return &order, items, nil
}

func (r *orderRepository) getItems(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, product_snapshot, quantity, unit_price, subtotal
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", orderID.String()).
			Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var item model.OrderItem
		var snapshot []byte
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &snapshot, &item.Quantity, &item.UnitPrice, &item.Subtotal); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		if err := json.Unmarshal(snapshot, &item.Snapshot); err != nil {
			return nil, fmt.Errorf("failed to unmarshal product snapshot: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}

// UpdateStatus writes the order status change and its audit record in
// one transaction. The audit row is written on every call, including
// same-status no-ops.
func (r *orderRepository) UpdateStatus(ctx context.Context, order *model.Order, log *model.StatusLog) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		UPDATE orders
		SET status = $1, tracking_number = $2, carrier = $3, notes = $4, updated_at = $5
		WHERE id = $6
	`, order.Status, order.TrackingNumber, order.Carrier, order.Notes, order.UpdatedAt, order.ID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Str("status", string(order.Status)).
			Msg("failed to update order status")
		return fmt.Errorf("failed to update order status: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO order_status_logs (id, order_id, from_status, to_status, tracking_number, carrier, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, log.ID, log.OrderID, log.FromStatus, log.ToStatus, log.TrackingNumber, log.Carrier, log.CreatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to insert status log")
		return fmt.Errorf("failed to insert status log: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit status update")
		return fmt.Errorf("failed to commit status update: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Str("from_status", string(log.FromStatus)).
		Str("to_status", string(log.ToStatus)).
		Msg("order status updated")

	return nil
}
