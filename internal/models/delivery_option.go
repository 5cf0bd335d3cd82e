package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryOption represents a courier/delivery service selectable at checkout
type DeliveryOption struct {
	ID                    int64           `db:"id" json:"id"`
	Name                  string          `db:"name" json:"name"`
	EstimatedDeliveryTime string          `db:"estimated_delivery_time" json:"estimated_delivery_time"`
	BaseCharge            decimal.Decimal `db:"base_charge" json:"base_charge"`
	LogoURL               *string         `db:"logo_url" json:"logo_url,omitempty"`
	IsActive              bool            `db:"is_active" json:"-"`
	CreatedAt             time.Time       `db:"created_at" json:"-"`
	UpdatedAt             time.Time       `db:"updated_at" json:"-"`
}
