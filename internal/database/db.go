package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/ahsenkhancoding/backend/internal/config"
	"github.com/ahsenkhancoding/backend/pkg/logger"
)

// Database represents a database connection
type Database struct {
	DB     *sqlx.DB
	logger logger.Logger
}

// New creates a new database connection
func New(cfg *config.Config, logger logger.Logger) (*Database, error) {
	db, err := sqlx.Connect("postgres", cfg.GetDBConnString())

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	logger.Info("Connected to database", "host", cfg.DB.Host, "database", cfg.DB.Name)

	return &Database{
		DB:     db,
		logger: logger,
	}, nil
}

// NewWithDB wraps an existing connection, used by tests
func NewWithDB(db *sqlx.DB, logger logger.Logger) *Database {
	return &Database{
		DB:     db,
		logger: logger,
	}
}

// Ping checks the database connection
func (d *Database) Ping(ctx context.Context) error {
	return d.DB.PingContext(ctx)
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.DB.Close()
}

// RunMigrations runs database migrations
func (d *Database) RunMigrations() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		phone_number VARCHAR(20) NOT NULL UNIQUE,
		name VARCHAR(255) NOT NULL DEFAULT '',
		password_hash VARCHAR(100) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS products (
		id UUID PRIMARY KEY,
		sku VARCHAR(100) NOT NULL UNIQUE,
		name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		mrp DECIMAL(10, 2) NOT NULL DEFAULT 0.00,
		selling_price DECIMAL(10, 2) NOT NULL,
		requires_prescription BOOLEAN NOT NULL DEFAULT FALSE,
		is_available BOOLEAN NOT NULL DEFAULT TRUE,
		image_url VARCHAR(1024),
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_products_sku ON products(sku);
	CREATE INDEX IF NOT EXISTS idx_products_available ON products(is_available);

	CREATE TABLE IF NOT EXISTS addresses (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		contact_name VARCHAR(255) NOT NULL,
		contact_phone VARCHAR(20) NOT NULL,
		address_line TEXT NOT NULL,
		city VARCHAR(100) NOT NULL,
		pincode VARCHAR(10),
		is_default BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_addresses_user_id ON addresses(user_id);

	CREATE TABLE IF NOT EXISTS delivery_options (
		id SERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL UNIQUE,
		estimated_delivery_time VARCHAR(100) NOT NULL DEFAULT '',
		base_charge DECIMAL(10, 2) NOT NULL DEFAULT 0.00 CHECK (base_charge >= 0),
		logo_url VARCHAR(1024),
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS carts (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS cart_items (
		id UUID PRIMARY KEY,
		cart_id UUID NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
		product_id UUID REFERENCES products(id) ON DELETE SET NULL,
		quantity INT NOT NULL CHECK (quantity > 0),
		added_at TIMESTAMP NOT NULL DEFAULT NOW(),
		UNIQUE (cart_id, product_id)
	);

	CREATE INDEX IF NOT EXISTS idx_cart_items_cart_id ON cart_items(cart_id);

	CREATE TABLE IF NOT EXISTS orders (
		id UUID PRIMARY KEY,
		user_id UUID REFERENCES users(id) ON DELETE SET NULL,
		order_number VARCHAR(20) NOT NULL UNIQUE,
		status VARCHAR(20) NOT NULL,
		shipping_name VARCHAR(255) NOT NULL,
		shipping_phone_number VARCHAR(20) NOT NULL,
		shipping_address_line TEXT NOT NULL,
		shipping_city VARCHAR(100) NOT NULL,
		shipping_pincode VARCHAR(10),
		sub_total DECIMAL(12, 2) NOT NULL DEFAULT 0.00,
		delivery_charge_snapshot DECIMAL(10, 2) NOT NULL DEFAULT 0.00 CHECK (delivery_charge_snapshot >= 0),
		order_total DECIMAL(12, 2) NOT NULL,
		requires_prescription BOOLEAN NOT NULL DEFAULT FALSE,
		prescription_url VARCHAR(1024),
		prescription_status VARCHAR(25) NOT NULL DEFAULT 'NA',
		payment_method VARCHAR(50) NOT NULL DEFAULT 'COD',
		payment_completed BOOLEAN NOT NULL DEFAULT FALSE,
		delivery_option_id INT REFERENCES delivery_options(id) ON DELETE SET NULL,
		tracking_number VARCHAR(100),
		otp_hash VARCHAR(100),
		otp_expiry TIMESTAMP,
		is_otp_verified BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders(user_id);
	CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);
	CREATE INDEX IF NOT EXISTS idx_orders_order_number ON orders(order_number);

	CREATE TABLE IF NOT EXISTS order_items (
		id UUID PRIMARY KEY,
		order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id UUID REFERENCES products(id) ON DELETE SET NULL,
		price_per_item DECIMAL(10, 2) NOT NULL,
		quantity INT NOT NULL CHECK (quantity > 0),
		product_name_snapshot VARCHAR(255) NOT NULL DEFAULT '',
		product_sku_snapshot VARCHAR(100)
	);

	CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);

	-- Per-day counter backing order number allocation. Incremented atomically
	-- inside the order creation transaction so concurrent creations on the
	-- same day can never allocate the same sequence.
	CREATE TABLE IF NOT EXISTS order_number_sequences (
		day DATE PRIMARY KEY,
		last_seq INT NOT NULL
	);

	-- Outbox table for order event publication
	CREATE TABLE IF NOT EXISTS outbox_messages (
		id SERIAL PRIMARY KEY,
		aggregate_type VARCHAR(50) NOT NULL,
		aggregate_id VARCHAR(50) NOT NULL,
		event_type VARCHAR(50) NOT NULL,
		payload JSONB NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		processed_at TIMESTAMP,
		processing_attempts INT NOT NULL DEFAULT 0,
		last_error TEXT,
		status VARCHAR(20) NOT NULL DEFAULT 'pending'
	);

	CREATE INDEX IF NOT EXISTS idx_outbox_status ON outbox_messages(status);
	CREATE INDEX IF NOT EXISTS idx_outbox_aggregate ON outbox_messages(aggregate_type, aggregate_id);
	`

	_, err := d.DB.Exec(schema)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.logger.Info("Database migrations completed successfully")
	return nil
}
