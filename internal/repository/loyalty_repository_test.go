package repository

import (
	"context"
	"testing"
	"time"

	"souq-kart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoyaltyRepository_BalanceAndRecord(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewLoyaltyRepository(pool, zerolog.Nop())

	userID := uuid.New()

	// A fresh user has an empty ledger.
	balance, err := repo.Balance(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, balance)

	now := time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, repo.Record(ctx, &model.LoyaltyEntry{
		ID:        uuid.New(),
		UserID:    userID,
		Points:    250,
		Reason:    model.LoyaltyReasonEarn,
		CreatedAt: now,
	}))

	orderID := uuid.New()
	require.NoError(t, repo.Record(ctx, &model.LoyaltyEntry{
		ID:        uuid.New(),
		UserID:    userID,
		OrderID:   &orderID,
		Points:    -100,
		Reason:    model.LoyaltyReasonRedeem,
		CreatedAt: now,
	}))

	balance, err = repo.Balance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 150, balance)

	// Another user's ledger is untouched.
	otherBalance, err := repo.Balance(ctx, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, otherBalance)
}
