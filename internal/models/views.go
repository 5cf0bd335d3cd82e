package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemView is the external representation of an order line
type OrderItemView struct {
	ID                  string          `json:"id"`
	ProductID           *string         `json:"product"`
	ProductNameSnapshot string          `json:"product_name_snapshot"`
	ProductSKUSnapshot  *string         `json:"product_sku_snapshot"`
	PricePerItem        decimal.Decimal `json:"price_per_item"`
	Quantity            int             `json:"quantity"`
	ItemTotal           decimal.Decimal `json:"item_total"`
}

// OrderView is the external representation of an order. Statuses are rendered
// as display labels; OTP secrets are never exposed.
type OrderView struct {
	ID                     string           `json:"id"`
	OrderNumber            string           `json:"order_number"`
	Status                 string           `json:"status"`
	SubTotal               decimal.Decimal  `json:"sub_total"`
	DeliveryChargeSnapshot decimal.Decimal  `json:"delivery_charge_snapshot"`
	OrderTotal             decimal.Decimal  `json:"order_total"`
	ShippingName           string           `json:"shipping_name"`
	ShippingPhoneNumber    string           `json:"shipping_phone_number"`
	ShippingAddressLine    string           `json:"shipping_address_line"`
	ShippingCity           string           `json:"shipping_city"`
	ShippingPincode        *string          `json:"shipping_pincode"`
	PaymentMethod          string           `json:"payment_method"`
	PaymentCompleted       bool             `json:"payment_completed"`
	DeliveryOption         *DeliveryOption  `json:"delivery_option"`
	TrackingNumber         *string          `json:"tracking_number"`
	CreatedAt              time.Time        `json:"created_at"`
	UpdatedAt              time.Time        `json:"updated_at"`
	RequiresPrescription   bool             `json:"order_requires_prescription"`
	PrescriptionStatus     string           `json:"prescription_status"`
	PrescriptionURL        *string          `json:"prescription_url"`
	IsOTPVerified          bool             `json:"is_otp_verified"`
	Items                  []*OrderItemView `json:"items"`
}

// NewOrderView builds the read model for an order. Stored file references are
// resolved against mediaBaseURL so clients always receive absolute URLs.
func NewOrderView(order *Order, mediaBaseURL string) *OrderView {
	items := make([]*OrderItemView, 0, len(order.Items))

	for _, item := range order.Items {
		items = append(items, &OrderItemView{
			ID:                  item.ID,
			ProductID:           item.ProductID,
			ProductNameSnapshot: item.ProductNameSnapshot,
			ProductSKUSnapshot:  item.ProductSKUSnapshot,
			PricePerItem:        item.PricePerItem,
			Quantity:            item.Quantity,
			ItemTotal:           item.ItemTotal(),
		})
	}

	return &OrderView{
		ID:                     order.ID,
		OrderNumber:            order.OrderNumber,
		Status:                 order.Status.Label(),
		SubTotal:               order.SubTotal,
		DeliveryChargeSnapshot: order.DeliveryChargeSnapshot,
		OrderTotal:             order.OrderTotal,
		ShippingName:           order.ShippingName,
		ShippingPhoneNumber:    order.ShippingPhoneNumber,
		ShippingAddressLine:    order.ShippingAddressLine,
		ShippingCity:           order.ShippingCity,
		ShippingPincode:        order.ShippingPincode,
		PaymentMethod:          order.PaymentMethod,
		PaymentCompleted:       order.PaymentCompleted,
		DeliveryOption:         order.DeliveryOption,
		TrackingNumber:         order.TrackingNumber,
		CreatedAt:              order.CreatedAt,
		UpdatedAt:              order.UpdatedAt,
		RequiresPrescription:   order.RequiresPrescription,
		PrescriptionStatus:     order.PrescriptionStatus.Label(),
		PrescriptionURL:        ResolveFileURL(mediaBaseURL, order.PrescriptionURL),
		IsOTPVerified:          order.IsOTPVerified,
		Items:                  items,
	}
}

// ResolveFileURL resolves a stored file reference to an absolute URL.
// References that already carry a scheme pass through unchanged.
func ResolveFileURL(baseURL string, ref *string) *string {
	if ref == nil || *ref == "" {
		return ref
	}

	if strings.HasPrefix(*ref, "http://") || strings.HasPrefix(*ref, "https://") {
		return ref
	}

	resolved := strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(*ref, "/")
	return &resolved
}

// CartItemView is the external representation of a cart line. The subtotal is
// always derived from the product's current selling price; a line whose
// product was removed from the catalog prices at zero.
type CartItemView struct {
	ID       string          `json:"id"`
	Product  *Product        `json:"product"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
	AddedAt  time.Time       `json:"added_at"`
}

// CartView is the external representation of a cart
type CartView struct {
	ID         string          `json:"id"`
	Items      []*CartItemView `json:"items"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// NewCartView builds the read model for a cart
func NewCartView(cart *Cart) *CartView {
	items := make([]*CartItemView, 0, len(cart.Items))
	totalItems := 0
	totalPrice := decimal.Zero

	for _, item := range cart.Items {
		subtotal := decimal.Zero
		if item.Product != nil {
			subtotal = item.Product.SellingPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		}

		items = append(items, &CartItemView{
			ID:       item.ID,
			Product:  item.Product,
			Quantity: item.Quantity,
			Subtotal: subtotal,
			AddedAt:  item.AddedAt,
		})

		totalItems += item.Quantity
		totalPrice = totalPrice.Add(subtotal)
	}

	return &CartView{
		ID:         cart.ID,
		Items:      items,
		TotalItems: totalItems,
		TotalPrice: totalPrice,
		UpdatedAt:  cart.UpdatedAt,
	}
}
