package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle status of an order
type OrderStatus string

const (
	OrderStatusPending      OrderStatus = "PENDING"
	OrderStatusAwaitingOTP  OrderStatus = "AWAITING_OTP"
	OrderStatusAwaitingRx   OrderStatus = "AWAITING_RX"
	OrderStatusProcessing   OrderStatus = "PROCESSING"
	OrderStatusSourcing     OrderStatus = "SOURCING"
	OrderStatusShipped      OrderStatus = "SHIPPED"
	OrderStatusDelivered    OrderStatus = "DELIVERED"
	OrderStatusCancelled    OrderStatus = "CANCELLED"
	OrderStatusRefunded     OrderStatus = "REFUNDED"
)

var orderStatusLabels = map[OrderStatus]string{
	OrderStatusPending:     "Pending",
	OrderStatusAwaitingOTP: "Awaiting OTP Verification",
	OrderStatusAwaitingRx:  "Awaiting Prescription",
	OrderStatusProcessing:  "Processing",
	OrderStatusSourcing:    "Sourcing",
	OrderStatusShipped:     "Shipped",
	OrderStatusDelivered:   "Delivered",
	OrderStatusCancelled:   "Cancelled",
	OrderStatusRefunded:    "Refunded",
}

// Label returns the human readable display label for the status
func (s OrderStatus) Label() string {
	if label, ok := orderStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// validNext maps each status to the statuses it may transition to.
// CANCELLED and REFUNDED are administrative side exits.
var validNext = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusPending:     {OrderStatusAwaitingOTP: true, OrderStatusCancelled: true},
	OrderStatusAwaitingOTP: {OrderStatusAwaitingRx: true, OrderStatusProcessing: true, OrderStatusCancelled: true},
	OrderStatusAwaitingRx:  {OrderStatusProcessing: true, OrderStatusCancelled: true},
	OrderStatusProcessing:  {OrderStatusSourcing: true, OrderStatusCancelled: true},
	OrderStatusSourcing:    {OrderStatusShipped: true, OrderStatusCancelled: true},
	OrderStatusShipped:     {OrderStatusDelivered: true, OrderStatusRefunded: true},
	OrderStatusDelivered:   {OrderStatusRefunded: true},
	OrderStatusCancelled:   {},
	OrderStatusRefunded:    {},
}

// CanTransition reports whether an order may move from one status to another
func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

// PrescriptionStatus represents the verification state of an uploaded prescription
type PrescriptionStatus string

const (
	PrescriptionNotRequired         PrescriptionStatus = "NA"
	PrescriptionPendingUpload       PrescriptionStatus = "PENDING_UPLOAD"
	PrescriptionPendingVerification PrescriptionStatus = "PENDING_VERIFICATION"
	PrescriptionVerified            PrescriptionStatus = "VERIFIED"
	PrescriptionRejected            PrescriptionStatus = "REJECTED"
)

var prescriptionStatusLabels = map[PrescriptionStatus]string{
	PrescriptionNotRequired:         "Not Required",
	PrescriptionPendingUpload:       "Pending Upload",
	PrescriptionPendingVerification: "Pending Verification",
	PrescriptionVerified:            "Verified",
	PrescriptionRejected:            "Rejected",
}

// Label returns the human readable display label for the prescription status
func (s PrescriptionStatus) Label() string {
	if label, ok := prescriptionStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Order represents one checkout attempt. Monetary and shipping fields are
// snapshots taken at creation time and never re-derived afterwards.
type Order struct {
	ID                     string             `db:"id"`
	UserID                 *string            `db:"user_id"`
	OrderNumber            string             `db:"order_number"`
	Status                 OrderStatus        `db:"status"`
	ShippingName           string             `db:"shipping_name"`
	ShippingPhoneNumber    string             `db:"shipping_phone_number"`
	ShippingAddressLine    string             `db:"shipping_address_line"`
	ShippingCity           string             `db:"shipping_city"`
	ShippingPincode        *string            `db:"shipping_pincode"`
	SubTotal               decimal.Decimal    `db:"sub_total"`
	DeliveryChargeSnapshot decimal.Decimal    `db:"delivery_charge_snapshot"`
	OrderTotal             decimal.Decimal    `db:"order_total"`
	RequiresPrescription   bool               `db:"requires_prescription"`
	PrescriptionURL        *string            `db:"prescription_url"`
	PrescriptionStatus     PrescriptionStatus `db:"prescription_status"`
	PaymentMethod          string             `db:"payment_method"`
	PaymentCompleted       bool               `db:"payment_completed"`
	DeliveryOptionID       *int64             `db:"delivery_option_id"`
	TrackingNumber         *string            `db:"tracking_number"`
	OTPHash                *string            `db:"otp_hash"`
	OTPExpiry              *time.Time         `db:"otp_expiry"`
	IsOTPVerified          bool               `db:"is_otp_verified"`
	CreatedAt              time.Time          `db:"created_at"`
	UpdatedAt              time.Time          `db:"updated_at"`

	// Loaded relations, not columns
	Items          []*OrderItem    `db:"-"`
	DeliveryOption *DeliveryOption `db:"-"`
}

// OrderItem represents one distinct product line within an order. Price and
// product fields are snapshots; the product reference may go null later while
// the snapshots persist.
type OrderItem struct {
	ID                  string          `db:"id"`
	OrderID             string          `db:"order_id"`
	ProductID           *string         `db:"product_id"`
	PricePerItem        decimal.Decimal `db:"price_per_item"`
	Quantity            int             `db:"quantity"`
	ProductNameSnapshot string          `db:"product_name_snapshot"`
	ProductSKUSnapshot  *string         `db:"product_sku_snapshot"`
}

// ItemTotal returns price_per_item * quantity
func (i *OrderItem) ItemTotal() decimal.Decimal {
	return i.PricePerItem.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
