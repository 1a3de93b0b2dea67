package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"souq-kart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	// Create connection pool
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	// Create schema
	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema creates the database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			brand TEXT NOT NULL,
			thumbnail TEXT NOT NULL DEFAULT '',
			specs TEXT NOT NULL DEFAULT '',
			price BIGINT NOT NULL CHECK (price >= 0),
			stock INT NOT NULL DEFAULT 0,
			flash_price BIGINT,
			flash_starts_at TIMESTAMPTZ,
			flash_ends_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS carts (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			status TEXT NOT NULL DEFAULT 'open',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS cart_items (
			id UUID PRIMARY KEY,
			cart_id UUID NOT NULL REFERENCES carts(id),
			product_id TEXT NOT NULL REFERENCES products(id),
			quantity INT NOT NULL CHECK (quantity > 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS coupons (
			code TEXT PRIMARY KEY,
			discount_type TEXT NOT NULL,
			discount_value BIGINT NOT NULL,
			min_order_value BIGINT,
			max_discount BIGINT,
			usage_limit INT,
			used_count INT NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			expiry_date TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			order_number TEXT NOT NULL UNIQUE,
			user_id UUID,
			guest_email TEXT,
			shipping_address_id UUID,
			shipping_address JSONB NOT NULL,
			payment_method TEXT NOT NULL,
			status TEXT NOT NULL,
			subtotal BIGINT NOT NULL,
			shipping_cost BIGINT NOT NULL,
			discount BIGINT NOT NULL,
			loyalty_discount BIGINT NOT NULL,
			total BIGINT NOT NULL,
			loyalty_points_used INT NOT NULL DEFAULT 0,
			coupon_code TEXT,
			notes TEXT,
			tracking_number TEXT,
			carrier TEXT,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);

		CREATE TABLE IF NOT EXISTS order_items (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			product_id TEXT NOT NULL,
			product_snapshot JSONB NOT NULL,
			quantity INT NOT NULL CHECK (quantity > 0),
			unit_price BIGINT NOT NULL,
			subtotal BIGINT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS order_status_logs (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			from_status TEXT NOT NULL,
			to_status TEXT NOT NULL,
			tracking_number TEXT,
			carrier TEXT,
			created_at TIMESTAMPTZ NOT NULL
		);

		CREATE TABLE IF NOT EXISTS loyalty_transactions (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			order_id UUID,
			points INT NOT NULL,
			reason TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_carts_user_status ON carts(user_id, status);
		CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);
		CREATE INDEX IF NOT EXISTS idx_order_status_logs_order_id ON order_status_logs(order_id);
		CREATE INDEX IF NOT EXISTS idx_loyalty_transactions_user_id ON loyalty_transactions(user_id);
	`

	_, err := pool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// SeedProducts inserts test product data, including one running flash sale.
func SeedProducts(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	now := time.Now()
	flashStart := now.Add(-time.Hour)
	flashEnd := now.Add(time.Hour)

	products := []struct {
		id         string
		name       string
		brand      string
		price      int64
		stock      int
		flashPrice *int64
	}{
		{"P001", "Galaxy A54", "Samsung", 250_000, 10, nil},
		{"P002", "Redmi Note 13", "Xiaomi", 180_000, 5, int64Ptr(150_000)},
		{"P003", "USB-C Charger", "Anker", 25_000, 50, nil},
	}

	for _, p := range products {
		var starts, ends *time.Time
		if p.flashPrice != nil {
			starts, ends = &flashStart, &flashEnd
		}
		_, err := pool.Exec(ctx, `
			INSERT INTO products (id, name, brand, price, stock, flash_price, flash_starts_at, flash_ends_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, p.id, p.name, p.brand, p.price, p.stock, p.flashPrice, starts, ends)
		if err != nil {
			t.Fatalf("failed to seed product %s: %v", p.id, err)
		}
	}
}

// SeedCoupon inserts an active percentage coupon capped at maxDiscount.
func SeedCoupon(t *testing.T, pool *pgxpool.Pool, code string, percent int64, maxDiscount int64, usageLimit int) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `
		INSERT INTO coupons (code, discount_type, discount_value, max_discount, usage_limit, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
	`, code, model.DiscountTypePercentage, percent, maxDiscount, usageLimit)
	if err != nil {
		t.Fatalf("failed to seed coupon %s: %v", code, err)
	}
}

// SeedCart creates an open cart for the user with the given lines.
func SeedCart(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, lines map[string]int) {
	t.Helper()

	ctx := context.Background()

	cartID := uuid.New()
	if _, err := pool.Exec(ctx,
		`INSERT INTO carts (id, user_id, status) VALUES ($1, $2, $3)`,
		cartID, userID, model.CartStatusOpen,
	); err != nil {
		t.Fatalf("failed to seed cart: %v", err)
	}

	for productID, quantity := range lines {
		if _, err := pool.Exec(ctx,
			`INSERT INTO cart_items (id, cart_id, product_id, quantity) VALUES ($1, $2, $3, $4)`,
			uuid.New(), cartID, productID, quantity,
		); err != nil {
			t.Fatalf("failed to seed cart item %s: %v", productID, err)
		}
	}
}

// SeedLoyaltyBalance gives the user a starting point balance.
func SeedLoyaltyBalance(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, points int) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `
		INSERT INTO loyalty_transactions (id, user_id, points, reason, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`, uuid.New(), userID, points, model.LoyaltyReasonEarn)
	if err != nil {
		t.Fatalf("failed to seed loyalty balance: %v", err)
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{
		"order_status_logs", "order_items", "orders",
		"loyalty_transactions", "cart_items", "carts",
		"coupons", "products",
	}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}

func int64Ptr(v int64) *int64 {
	return &v
}
