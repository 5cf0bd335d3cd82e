package models

import (
	"time"
)

// Address represents a saved shipping address belonging to a user
type Address struct {
	ID           string    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"-"`
	ContactName  string    `db:"contact_name" json:"contact_name"`
	ContactPhone string    `db:"contact_phone" json:"contact_phone"`
	AddressLine  string    `db:"address_line" json:"address_line"`
	City         string    `db:"city" json:"city"`
	Pincode      *string   `db:"pincode" json:"pincode,omitempty"`
	IsDefault    bool      `db:"is_default" json:"is_default"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
