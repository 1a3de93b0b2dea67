package repository

import (
	"context"
	"fmt"

	"souq-kart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// loyaltyRepository implements the LoyaltyRepository interface using PostgreSQL.
type loyaltyRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewLoyaltyRepository creates a new PostgreSQL-backed loyalty repository.
func NewLoyaltyRepository(pool *pgxpool.Pool, logger zerolog.Logger) LoyaltyRepository {
	return &loyaltyRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "loyalty").Logger(),
	}
}

// Balance returns the user's current point balance as the ledger sum.
func (r *loyaltyRepository) Balance(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `SELECT COALESCE(SUM(points), 0) FROM loyalty_transactions WHERE user_id = $1`

	var balance int
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&balance); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query loyalty balance")
		return 0, fmt.Errorf("failed to query loyalty balance: %w", err)
	}

	return balance, nil
}

// Record appends a ledger entry.
func (r *loyaltyRepository) Record(ctx context.Context, entry *model.LoyaltyEntry) error {
	query := `
		INSERT INTO loyalty_transactions (id, user_id, order_id, points, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query, entry.ID, entry.UserID, entry.OrderID, entry.Points, entry.Reason, entry.CreatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", entry.UserID.String()).
			Str("reason", entry.Reason).
			Int("points", entry.Points).
			Msg("failed to record loyalty entry")
		return fmt.Errorf("failed to record loyalty entry: %w", err)
	}

	return nil
}
