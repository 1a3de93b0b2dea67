package repository

import (
	"context"
	"testing"
	"time"

	"souq-kart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	ctx := context.Background()

	// Start PostgreSQL container
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	// Get connection string
	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Create connection pool
	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	// Create schema
	createSchema(t, pool)

	// Cleanup function
	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// createSchema creates the necessary database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
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
			order_id UUID NOT NULL REFERENCES orders(id),
			product_id TEXT NOT NULL,
			product_snapshot JSONB NOT NULL,
			quantity INT NOT NULL,
			unit_price BIGINT NOT NULL,
			subtotal BIGINT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS order_status_logs (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id),
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
		CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id);
		CREATE INDEX IF NOT EXISTS idx_status_logs_order ON order_status_logs(order_id);
		CREATE INDEX IF NOT EXISTS idx_loyalty_user ON loyalty_transactions(user_id);
	`

	_, err := pool.Exec(ctx, schema)
	require.NoError(t, err)
}

// seedProducts inserts test products into the database.
func seedProducts(t *testing.T, pool *pgxpool.Pool, products []model.Product) {
	ctx := context.Background()

	query := `
		INSERT INTO products (id, name, brand, thumbnail, specs, price, stock, flash_price, flash_starts_at, flash_ends_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	for _, p := range products {
		_, err := pool.Exec(ctx, query,
			p.ID, p.Name, p.Brand, p.Thumbnail, p.Specs, p.Price, p.Stock,
			p.FlashPrice, p.FlashStartsAt, p.FlashEndsAt,
		)
		require.NoError(t, err)
	}
}

// seedCart creates an open cart for the user with the given lines.
func seedCart(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, lines map[string]int) uuid.UUID {
	ctx := context.Background()

	cartID := uuid.New()
	_, err := pool.Exec(ctx,
		`INSERT INTO carts (id, user_id, status) VALUES ($1, $2, $3)`,
		cartID, userID, model.CartStatusOpen,
	)
	require.NoError(t, err)

	for productID, quantity := range lines {
		_, err := pool.Exec(ctx,
			`INSERT INTO cart_items (id, cart_id, product_id, quantity) VALUES ($1, $2, $3, $4)`,
			uuid.New(), cartID, productID, quantity,
		)
		require.NoError(t, err)
	}

	return cartID
}

// seedCoupon inserts a coupon row.
func seedCoupon(t *testing.T, pool *pgxpool.Pool, c model.Coupon) {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO coupons (code, discount_type, discount_value, min_order_value, max_discount, usage_limit, used_count, is_active, expiry_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, c.Code, c.DiscountType, c.DiscountValue, c.MinOrderValue, c.MaxDiscount, c.UsageLimit, c.UsedCount, c.IsActive, c.ExpiryDate)
	require.NoError(t, err)
}

func testProducts() []model.Product {
	return []model.Product{
		{ID: "P001", Name: "Galaxy A54", Brand: "Samsung", Price: 250_000, Stock: 10},
		{ID: "P002", Name: "Redmi Note 13", Brand: "Xiaomi", Price: 180_000, Stock: 5},
	}
}

func testOrder(userID *uuid.UUID) *model.Order {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &model.Order{
		ID:          uuid.New(),
		OrderNumber: "ORD-20260828-" + uuid.NewString()[:4],
		UserID:      userID,
		ShippingAddress: model.ShippingAddress{
			Recipient:   "Ali Hassan",
			Phone:       "07901234567",
			Line1:       "Al-Mansour, Street 14",
			City:        "Baghdad",
			Governorate: "Baghdad",
		},
		PaymentMethod: model.PaymentMethodCOD,
		Status:        model.OrderStatusPending,
		Subtotal:      250_000,
		ShippingCost:  0,
		Total:         250_000,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func testOrderItems(orderID uuid.UUID) []model.OrderItem {
	return []model.OrderItem{
		{
			ID:        uuid.New(),
			OrderID:   orderID,
			ProductID: "P001",
			Snapshot:  model.ProductSnapshot{Name: "Galaxy A54", Brand: "Samsung"},
			Quantity:  1,
			UnitPrice: 250_000,
			Subtotal:  250_000,
		},
	}
}
