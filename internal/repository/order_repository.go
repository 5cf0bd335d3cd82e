package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ahsenkhancoding/backend/internal/database"
	"github.com/ahsenkhancoding/backend/internal/models"
	"github.com/ahsenkhancoding/backend/pkg/logger"
	"github.com/jmoiron/sqlx"
)

const orderColumns = `
	id, user_id, order_number, status,
	shipping_name, shipping_phone_number, shipping_address_line, shipping_city, shipping_pincode,
	sub_total, delivery_charge_snapshot, order_total,
	requires_prescription, prescription_url, prescription_status,
	payment_method, payment_completed, delivery_option_id, tracking_number,
	otp_hash, otp_expiry, is_otp_verified,
	created_at, updated_at
`

// OrderRepository handles database operations for orders and order items
type OrderRepository struct {
	db     *database.Database
	logger logger.Logger
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(db *database.Database, logger logger.Logger) *OrderRepository {
	return &OrderRepository{
		db:     db,
		logger: logger,
	}
}

// BeginTx starts a new transaction
func (r *OrderRepository) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	tx, err := r.db.DB.BeginTxx(ctx, nil)

	if err != nil {
		r.logger.Error("Failed to begin transaction", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return tx, nil
}

// AllocateOrderNumberInTx allocates the next order number for the given day
// inside the caller's transaction. The per-day counter row is incremented
// atomically, so two concurrent creations can never observe the same sequence.
func (r *OrderRepository) AllocateOrderNumberInTx(tx *sqlx.Tx, day time.Time) (string, error) {
	query := `
		INSERT INTO order_number_sequences (day, last_seq)
		VALUES ($1, 1)
		ON CONFLICT (day) DO UPDATE SET last_seq = order_number_sequences.last_seq + 1
		RETURNING last_seq
	`

	var seq int
	err := tx.QueryRow(query, day.Format("2006-01-02")).Scan(&seq)

	if err != nil {
		return "", fmt.Errorf("failed to allocate order number: %w", err)
	}

	return formatOrderNumber(day, seq), nil
}

// formatOrderNumber renders a day and sequence as YYMMDD-NNNN. The sequence
// is zero padded to four digits and widens past 9999.
func formatOrderNumber(day time.Time, seq int) string {
	return fmt.Sprintf("%s-%04d", day.Format("060102"), seq)
}

// CreateInTx inserts a new order within a transaction
func (r *OrderRepository) CreateInTx(tx *sqlx.Tx, order *models.Order) error {
	query := `
		INSERT INTO orders (
			id, user_id, order_number, status,
			shipping_name, shipping_phone_number, shipping_address_line, shipping_city, shipping_pincode,
			sub_total, delivery_charge_snapshot, order_total,
			requires_prescription, prescription_url, prescription_status,
			payment_method, payment_completed, delivery_option_id, tracking_number,
			otp_hash, otp_expiry, is_otp_verified,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24
		)
	`

	_, err := tx.Exec(
		query,
		order.ID,
		order.UserID,
		order.OrderNumber,
		order.Status,
		order.ShippingName,
		order.ShippingPhoneNumber,
		order.ShippingAddressLine,
		order.ShippingCity,
		order.ShippingPincode,
		order.SubTotal,
		order.DeliveryChargeSnapshot,
		order.OrderTotal,
		order.RequiresPrescription,
		order.PrescriptionURL,
		order.PrescriptionStatus,
		order.PaymentMethod,
		order.PaymentCompleted,
		order.DeliveryOptionID,
		order.TrackingNumber,
		order.OTPHash,
		order.OTPExpiry,
		order.IsOTPVerified,
		order.CreatedAt,
		order.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create order in transaction: %w", err)
	}

	return nil
}

// CreateItemsInTx inserts order items in bulk within a transaction
func (r *OrderRepository) CreateItemsInTx(tx *sqlx.Tx, items []*models.OrderItem) error {
	query := `
		INSERT INTO order_items (
			id, order_id, product_id, price_per_item, quantity,
			product_name_snapshot, product_sku_snapshot
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, item := range items {
		_, err := tx.Exec(
			query,
			item.ID,
			item.OrderID,
			item.ProductID,
			item.PricePerItem,
			item.Quantity,
			item.ProductNameSnapshot,
			item.ProductSKUSnapshot,
		)

		if err != nil {
			return fmt.Errorf("failed to create order item in transaction: %w", err)
		}
	}

	return nil
}

// GetByID retrieves an order with its items
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	var order models.Order
	err := r.db.DB.GetContext(ctx, &order, query, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to get order by ID", "error", err, "orderID", id)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	if err := r.loadItems(ctx, &order); err != nil {
		return nil, err
	}

	return &order, nil
}

// GetByIDForUser retrieves an order with its items only if it belongs to the user
func (r *OrderRepository) GetByIDForUser(ctx context.Context, id, userID string) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND user_id = $2`

	var order models.Order
	err := r.db.DB.GetContext(ctx, &order, query, id, userID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to get order for user", "error", err, "orderID", id, "userID", userID)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	if err := r.loadItems(ctx, &order); err != nil {
		return nil, err
	}

	return &order, nil
}

// ListForUser retrieves the user's orders, newest first, with their items
func (r *OrderRepository) ListForUser(ctx context.Context, userID string, limit, offset int) ([]*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var orders []*models.Order
	err := r.db.DB.SelectContext(ctx, &orders, query, userID, limit, offset)

	if err != nil {
		r.logger.Error("Failed to list orders for user", "error", err, "userID", userID)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	for _, order := range orders {
		if err := r.loadItems(ctx, order); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

// loadItems attaches order items to an order
func (r *OrderRepository) loadItems(ctx context.Context, order *models.Order) error {
	query := `
		SELECT id, order_id, product_id, price_per_item, quantity,
		       product_name_snapshot, product_sku_snapshot
		FROM order_items
		WHERE order_id = $1
	`

	var items []*models.OrderItem
	err := r.db.DB.SelectContext(ctx, &items, query, order.ID)

	if err != nil {
		r.logger.Error("Failed to load order items", "error", err, "orderID", order.ID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	order.Items = items
	return nil
}

// SetOTP writes the issued OTP hash, expiry, verification flag and the new
// status in a single atomic update.
func (r *OrderRepository) SetOTP(ctx context.Context, orderID, otpHash string, otpExpiry time.Time, status models.OrderStatus) error {
	query := `
		UPDATE orders
		SET otp_hash = $1, otp_expiry = $2, is_otp_verified = FALSE, status = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := r.db.DB.ExecContext(
		ctx,
		query,
		otpHash,
		otpExpiry,
		status,
		models.GetCurrentTime(),
		orderID,
	)

	if err != nil {
		r.logger.Error("Failed to set order OTP", "error", err, "orderID", orderID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	rowsAffected, err := result.RowsAffected()

	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// UpdateStatusInTx moves an order to a new status. The old-status guard makes
// the update a no-op when the order moved concurrently; that surfaces as
// ErrNotFound.
func (r *OrderRepository) UpdateStatusInTx(tx *sqlx.Tx, orderID string, from, to models.OrderStatus) error {
	query := `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`

	result, err := tx.Exec(query, to, models.GetCurrentTime(), orderID, from)

	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()

	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// ApplyConfirmationInTx marks the order verified, clears the OTP fields and
// moves it to the next status. All four fields change in one statement; the
// status guard makes the update a no-op if the order already left
// AWAITING_OTP.
func (r *OrderRepository) ApplyConfirmationInTx(tx *sqlx.Tx, orderID string, nextStatus models.OrderStatus) error {
	query := `
		UPDATE orders
		SET is_otp_verified = TRUE, otp_hash = NULL, otp_expiry = NULL, status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`

	result, err := tx.Exec(query, nextStatus, models.GetCurrentTime(), orderID, models.OrderStatusAwaitingOTP)

	if err != nil {
		return fmt.Errorf("failed to apply order confirmation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()

	if err != nil {
		return fmt.Errorf("failed to apply order confirmation: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
