package models

import (
	"time"
)

// Cart represents a user's shopping cart. Each user has at most one cart,
// created lazily on first access.
type Cart struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	// Loaded relation, not a column
	Items []*CartItem `db:"-"`
}

// CartItem represents one product line in a cart. Unlike order items, cart
// lines carry no price snapshot; the cart is always priced at the current
// selling price.
type CartItem struct {
	ID        string    `db:"id"`
	CartID    string    `db:"cart_id"`
	ProductID *string   `db:"product_id"`
	Quantity  int       `db:"quantity"`
	AddedAt   time.Time `db:"added_at"`

	// Loaded relation, not a column
	Product *Product `db:"-"`
}

// NewCart creates an empty cart for the user
func NewCart(userID string) *Cart {
	now := GetCurrentTime()

	return &Cart{
		ID:        NewID(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
