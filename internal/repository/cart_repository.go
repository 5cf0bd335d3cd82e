package repository

import (
	"context"
	"fmt"

	"github.com/ahsenkhancoding/backend/internal/database"
	"github.com/ahsenkhancoding/backend/internal/models"
	"github.com/ahsenkhancoding/backend/pkg/logger"
	"github.com/jmoiron/sqlx"
)

// CartRepository handles database operations for carts and cart items
type CartRepository struct {
	db     *database.Database
	logger logger.Logger
}

// NewCartRepository creates a new CartRepository
func NewCartRepository(db *database.Database, logger logger.Logger) *CartRepository {
	return &CartRepository{
		db:     db,
		logger: logger,
	}
}

// GetOrCreateForUser retrieves the user's cart with its items, creating an
// empty cart on first access. The upsert keeps concurrent first accesses from
// racing on the unique user constraint.
func (r *CartRepository) GetOrCreateForUser(ctx context.Context, userID string) (*models.Cart, error) {
	query := `
		INSERT INTO carts (id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = carts.updated_at
		RETURNING id, user_id, created_at, updated_at
	`

	var cart models.Cart
	err := r.db.DB.GetContext(ctx, &cart, query, models.NewID(), userID, models.GetCurrentTime())

	if err != nil {
		r.logger.Error("Failed to get or create cart", "error", err, "userID", userID)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	if err := r.loadItems(ctx, &cart); err != nil {
		return nil, err
	}

	return &cart, nil
}

// loadItems attaches the cart's items with their catalog products
func (r *CartRepository) loadItems(ctx context.Context, cart *models.Cart) error {
	query := `
		SELECT id, cart_id, product_id, quantity, added_at
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY added_at
	`

	var items []*models.CartItem
	err := r.db.DB.SelectContext(ctx, &items, query, cart.ID)

	if err != nil {
		r.logger.Error("Failed to load cart items", "error", err, "cartID", cart.ID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	cart.Items = items

	if err := r.attachProducts(ctx, items); err != nil {
		return err
	}

	return nil
}

// attachProducts resolves the product references on cart items. Items whose
// product was removed keep a nil product.
func (r *CartRepository) attachProducts(ctx context.Context, items []*models.CartItem) error {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if item.ProductID != nil {
			ids = append(ids, *item.ProductID)
		}
	}

	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`
		SELECT id, sku, name, description, mrp, selling_price,
		       requires_prescription, is_available, image_url, created_at, updated_at
		FROM products
		WHERE id IN (?)
	`, ids)

	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	query = r.db.DB.Rebind(query)

	var products []*models.Product
	err = r.db.DB.SelectContext(ctx, &products, query, args...)

	if err != nil {
		r.logger.Error("Failed to load cart products", "error", err)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	byID := make(map[string]*models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for _, item := range items {
		if item.ProductID != nil {
			item.Product = byID[*item.ProductID]
		}
	}

	return nil
}

// AddItem adds a product line to the cart. If the product is already in the
// cart the requested quantity is added to the existing line.
func (r *CartRepository) AddItem(ctx context.Context, cartID, productID string, quantity int) error {
	query := `
		INSERT INTO cart_items (id, cart_id, product_id, quantity, added_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
	`

	_, err := r.db.DB.ExecContext(ctx, query, models.NewID(), cartID, productID, quantity, models.GetCurrentTime())

	if err != nil {
		r.logger.Error("Failed to add cart item", "error", err, "cartID", cartID, "productID", productID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return r.touch(ctx, cartID)
}

// UpdateItemQuantity sets the quantity of a cart line
func (r *CartRepository) UpdateItemQuantity(ctx context.Context, cartID, itemID string, quantity int) error {
	query := `UPDATE cart_items SET quantity = $1 WHERE id = $2 AND cart_id = $3`

	result, err := r.db.DB.ExecContext(ctx, query, quantity, itemID, cartID)

	if err != nil {
		r.logger.Error("Failed to update cart item", "error", err, "itemID", itemID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	rowsAffected, err := result.RowsAffected()

	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return r.touch(ctx, cartID)
}

// RemoveItem deletes a cart line
func (r *CartRepository) RemoveItem(ctx context.Context, cartID, itemID string) error {
	query := `DELETE FROM cart_items WHERE id = $1 AND cart_id = $2`

	result, err := r.db.DB.ExecContext(ctx, query, itemID, cartID)

	if err != nil {
		r.logger.Error("Failed to remove cart item", "error", err, "itemID", itemID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	rowsAffected, err := result.RowsAffected()

	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return r.touch(ctx, cartID)
}

// Clear removes every item from the cart
func (r *CartRepository) Clear(ctx context.Context, cartID string) error {
	query := `DELETE FROM cart_items WHERE cart_id = $1`

	_, err := r.db.DB.ExecContext(ctx, query, cartID)

	if err != nil {
		r.logger.Error("Failed to clear cart", "error", err, "cartID", cartID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return r.touch(ctx, cartID)
}

// touch bumps the cart's updated_at after an item mutation
func (r *CartRepository) touch(ctx context.Context, cartID string) error {
	_, err := r.db.DB.ExecContext(ctx,
		`UPDATE carts SET updated_at = $1 WHERE id = $2`, models.GetCurrentTime(), cartID)

	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return nil
}
