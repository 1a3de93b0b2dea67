package repository

import (
	"context"
	"fmt"

	"souq-kart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// GetOpenCartItems loads the items of the user's open cart joined with
// their current product data. The unit price is left to the caller,
// which locks the effective price at resolution time.
func (r *cartRepository) GetOpenCartItems(ctx context.Context, userID uuid.UUID) ([]model.CartItemWithProduct, error) {
	query := `
		SELECT ci.quantity,
		       p.id, p.name, p.brand, p.thumbnail, p.specs, p.price, p.stock,
		       p.flash_price, p.flash_starts_at, p.flash_ends_at, p.created_at
		FROM carts c
		JOIN cart_items ci ON ci.cart_id = c.id
		JOIN products p ON p.id = ci.product_id
		WHERE c.user_id = $1 AND c.status = $2
		ORDER BY ci.created_at
	`

	rows, err := r.pool.Query(ctx, query, userID, model.CartStatusOpen)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query cart items")
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	var items []model.CartItemWithProduct
	for rows.Next() {
		var item model.CartItemWithProduct
		p := &item.Product
		err := rows.Scan(
			&item.Quantity,
			&p.ID, &p.Name, &p.Brand, &p.Thumbnail, &p.Specs, &p.Price, &p.Stock,
			&p.FlashPrice, &p.FlashStartsAt, &p.FlashEndsAt, &p.CreatedAt,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart item row")
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart item rows")
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return items, nil
}
