package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{"pending to awaiting otp", OrderStatusPending, OrderStatusAwaitingOTP, true},
		{"pending to cancelled", OrderStatusPending, OrderStatusCancelled, true},
		{"pending straight to processing", OrderStatusPending, OrderStatusProcessing, false},
		{"awaiting otp to awaiting rx", OrderStatusAwaitingOTP, OrderStatusAwaitingRx, true},
		{"awaiting otp to processing", OrderStatusAwaitingOTP, OrderStatusProcessing, true},
		{"awaiting otp to shipped", OrderStatusAwaitingOTP, OrderStatusShipped, false},
		{"awaiting rx to processing", OrderStatusAwaitingRx, OrderStatusProcessing, true},
		{"processing to sourcing", OrderStatusProcessing, OrderStatusSourcing, true},
		{"sourcing to shipped", OrderStatusSourcing, OrderStatusShipped, true},
		{"shipped to delivered", OrderStatusShipped, OrderStatusDelivered, true},
		{"delivered to refunded", OrderStatusDelivered, OrderStatusRefunded, true},
		{"cancelled is terminal", OrderStatusCancelled, OrderStatusPending, false},
		{"refunded is terminal", OrderStatusRefunded, OrderStatusProcessing, false},
		{"no backwards transition", OrderStatusProcessing, OrderStatusAwaitingOTP, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestOrderStatusLabel(t *testing.T) {
	assert.Equal(t, "Awaiting OTP Verification", OrderStatusAwaitingOTP.Label())
	assert.Equal(t, "Awaiting Prescription", OrderStatusAwaitingRx.Label())
	assert.Equal(t, "Processing", OrderStatusProcessing.Label())

	// Unknown statuses fall back to the wire value
	assert.Equal(t, "SOMETHING_ELSE", OrderStatus("SOMETHING_ELSE").Label())
}

func TestPrescriptionStatusLabel(t *testing.T) {
	assert.Equal(t, "Not Required", PrescriptionNotRequired.Label())
	assert.Equal(t, "Pending Verification", PrescriptionPendingVerification.Label())
}

func TestOrderItemTotal(t *testing.T) {
	item := &OrderItem{
		PricePerItem: decimal.RequireFromString("10.50"),
		Quantity:     3,
	}

	assert.True(t, item.ItemTotal().Equal(decimal.RequireFromString("31.50")))
}

func TestOrderItemTotalExactArithmetic(t *testing.T) {
	// 0.10 * 3 must be exactly 0.30, not a float approximation
	item := &OrderItem{
		PricePerItem: decimal.RequireFromString("0.10"),
		Quantity:     3,
	}

	assert.Equal(t, "0.30", item.ItemTotal().StringFixed(2))
}

func TestNewOrderCreatedEvent(t *testing.T) {
	order := &Order{
		ID:                   NewID(),
		OrderNumber:          "260829-0001",
		Status:               OrderStatusPending,
		OrderTotal:           decimal.RequireFromString("120.00"),
		RequiresPrescription: true,
	}

	msg, err := NewOrderCreatedEvent(order)
	require.NoError(t, err)

	assert.Equal(t, "order", msg.AggregateType)
	assert.Equal(t, order.ID, msg.AggregateID)
	assert.Equal(t, EventOrderCreated, msg.EventType)
	assert.Equal(t, OutboxStatusPending, msg.Status)

	var event OutboxMessageEvent
	require.NoError(t, json.Unmarshal(msg.Payload, &event))
	assert.Equal(t, EventOrderCreated, event.EventType)
	assert.Equal(t, order.ID, event.AggregateID)

	data, ok := event.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "260829-0001", data["order_number"])
	assert.Equal(t, true, data["requires_prescription"])
}

func TestNewOrderConfirmedEvent(t *testing.T) {
	order := &Order{
		ID:                 NewID(),
		OrderNumber:        "260829-0002",
		Status:             OrderStatusAwaitingRx,
		PrescriptionStatus: PrescriptionPendingVerification,
	}

	msg, err := NewOrderConfirmedEvent(order)
	require.NoError(t, err)

	assert.Equal(t, EventOrderConfirmed, msg.EventType)

	var event OutboxMessageEvent
	require.NoError(t, json.Unmarshal(msg.Payload, &event))

	data, ok := event.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, string(OrderStatusAwaitingRx), data["status"])
	assert.Equal(t, string(PrescriptionPendingVerification), data["prescription_status"])
}

func TestNewOrderViewHidesOTPAndUsesLabels(t *testing.T) {
	hash := "$2a$10$abcdefghijklmnopqrstuv"
	order := &Order{
		ID:          NewID(),
		OrderNumber: "260829-0003",
		Status:      OrderStatusAwaitingOTP,
		OTPHash:     &hash,
		SubTotal:    decimal.RequireFromString("99.99"),
		OrderTotal:  decimal.RequireFromString("99.99"),
		Items: []*OrderItem{
			{ID: NewID(), PricePerItem: decimal.RequireFromString("33.33"), Quantity: 3},
		},
		PrescriptionStatus: PrescriptionNotRequired,
	}

	view := NewOrderView(order, "http://localhost:8080")

	assert.Equal(t, "Awaiting OTP Verification", view.Status)
	assert.Equal(t, "Not Required", view.PrescriptionStatus)
	require.Len(t, view.Items, 1)
	assert.True(t, view.Items[0].ItemTotal.Equal(decimal.RequireFromString("99.99")))

	raw, err := json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "otp_hash")
	assert.NotContains(t, string(raw), hash)
}

func TestNewOrderViewResolvesPrescriptionURL(t *testing.T) {
	tests := []struct {
		name   string
		stored *string
		want   *string
	}{
		{"nil reference stays nil", nil, nil},
		{
			"relative reference resolves against the base",
			strPtr("uploads/prescriptions/rx-1a2b3c4d.jpg"),
			strPtr("https://media.example.com/uploads/prescriptions/rx-1a2b3c4d.jpg"),
		},
		{
			"leading slash does not double up",
			strPtr("/uploads/prescriptions/rx-1a2b3c4d.jpg"),
			strPtr("https://media.example.com/uploads/prescriptions/rx-1a2b3c4d.jpg"),
		},
		{
			"absolute URL passes through",
			strPtr("https://cdn.example.com/rx.jpg"),
			strPtr("https://cdn.example.com/rx.jpg"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := &Order{
				ID:                 NewID(),
				Status:             OrderStatusAwaitingRx,
				PrescriptionStatus: PrescriptionPendingVerification,
				PrescriptionURL:    tt.stored,
			}

			view := NewOrderView(order, "https://media.example.com/")

			if tt.want == nil {
				assert.Nil(t, view.PrescriptionURL)
			} else {
				require.NotNil(t, view.PrescriptionURL)
				assert.Equal(t, *tt.want, *view.PrescriptionURL)
			}
		})
	}
}

func strPtr(s string) *string {
	return &s
}
