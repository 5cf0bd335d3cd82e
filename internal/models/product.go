package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog item. Selling price and the prescription flag
// are the fields order assembly cares about.
type Product struct {
	ID                   string          `db:"id" json:"id"`
	SKU                  string          `db:"sku" json:"sku"`
	Name                 string          `db:"name" json:"name"`
	Description          string          `db:"description" json:"description,omitempty"`
	MRP                  decimal.Decimal `db:"mrp" json:"mrp"`
	SellingPrice         decimal.Decimal `db:"selling_price" json:"selling_price"`
	RequiresPrescription bool            `db:"requires_prescription" json:"requires_prescription"`
	IsAvailable          bool            `db:"is_available" json:"is_available"`
	ImageURL             *string         `db:"image_url" json:"image_url,omitempty"`
	CreatedAt            time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time       `db:"updated_at" json:"updated_at"`
}
