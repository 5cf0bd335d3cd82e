package service

import (
	"context"
	"database/sql"
	stderrors "errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ahsenkhancoding/backend/internal/database"
	"github.com/ahsenkhancoding/backend/internal/models"
	"github.com/ahsenkhancoding/backend/internal/repository"
	apperrors "github.com/ahsenkhancoding/backend/pkg/errors"
	"github.com/ahsenkhancoding/backend/pkg/logger"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

type fakeCatalog struct {
	products map[string]*models.Product
	err      error
}

func (f *fakeCatalog) GetBySKUs(ctx context.Context, skus []string) (map[string]*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}

	found := make(map[string]*models.Product)
	for _, sku := range skus {
		if p, ok := f.products[sku]; ok {
			found[sku] = p
		}
	}
	return found, nil
}

type fakeAddresses struct {
	addresses map[string]*models.Address
}

func (f *fakeAddresses) GetByIDForUser(ctx context.Context, id, userID string) (*models.Address, error) {
	if a, ok := f.addresses[id]; ok && a.UserID == userID {
		return a, nil
	}
	return nil, repository.ErrNotFound
}

type fakeDelivery struct {
	options map[int64]*models.DeliveryOption
}

func (f *fakeDelivery) GetActiveByID(ctx context.Context, id int64) (*models.DeliveryOption, error) {
	if o, ok := f.options[id]; ok && o.IsActive {
		return o, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeDelivery) GetByID(ctx context.Context, id int64) (*models.DeliveryOption, error) {
	if o, ok := f.options[id]; ok {
		return o, nil
	}
	return nil, repository.ErrNotFound
}

type orderServiceFixture struct {
	svc      *OrderService
	mock     sqlmock.Sqlmock
	notifier *recordingNotifier
	catalog  *fakeCatalog
}

func newOrderServiceFixture(t *testing.T) *orderServiceFixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	wrapped := database.NewWithDB(sqlx.NewDb(db, "sqlmock"), logger.Noop())
	orderRepo := repository.NewOrderRepository(wrapped, logger.Noop())
	outboxRepo := repository.NewOutboxRepository(wrapped, logger.Noop())

	notifier := &recordingNotifier{}
	otp := NewOTPService(orderRepo, notifier, logger.Noop())
	otp.now = func() time.Time { return testNow }

	pincode := "560001"
	catalog := &fakeCatalog{products: map[string]*models.Product{
		"PARA-500": {
			ID:           models.NewID(),
			SKU:          "PARA-500",
			Name:         "Paracetamol 500mg",
			SellingPrice: decimal.RequireFromString("10.50"),
			IsAvailable:  true,
		},
		"AMOX-250": {
			ID:                   models.NewID(),
			SKU:                  "AMOX-250",
			Name:                 "Amoxicillin 250mg",
			SellingPrice:         decimal.RequireFromString("45.00"),
			RequiresPrescription: true,
			IsAvailable:          true,
		},
		"GONE-100": {
			ID:           models.NewID(),
			SKU:          "GONE-100",
			Name:         "Discontinued Syrup",
			SellingPrice: decimal.RequireFromString("80.00"),
			IsAvailable:  false,
		},
	}}

	addresses := &fakeAddresses{addresses: map[string]*models.Address{
		"addr-1": {
			ID:           "addr-1",
			UserID:       "user-1",
			ContactName:  "Asha Rao",
			ContactPhone: "+911234567890",
			AddressLine:  "12 MG Road",
			City:         "Bengaluru",
			Pincode:      &pincode,
		},
	}}

	delivery := &fakeDelivery{options: map[int64]*models.DeliveryOption{
		1: {ID: 1, Name: "Standard", BaseCharge: decimal.RequireFromString("5.00"), IsActive: true},
		2: {ID: 2, Name: "Retired", BaseCharge: decimal.RequireFromString("9.00"), IsActive: false},
	}}

	svc := NewOrderService(orderRepo, outboxRepo, catalog, addresses, delivery, otp, logger.Noop())
	svc.now = func() time.Time { return testNow }

	return &orderServiceFixture{
		svc:      svc,
		mock:     mock,
		notifier: notifier,
		catalog:  catalog,
	}
}

func shippingInput() CreateOrderInput {
	return CreateOrderInput{
		ShippingName:        "Asha Rao",
		ShippingPhoneNumber: "+911234567890",
		ShippingAddressLine: "12 MG Road",
		ShippingCity:        "Bengaluru",
	}
}

func (f *orderServiceFixture) expectCreateTx(seq, itemCount int) {
	f.mock.ExpectBegin()
	f.mock.ExpectQuery("INSERT INTO order_number_sequences").
		WillReturnRows(sqlmock.NewRows([]string{"last_seq"}).AddRow(seq))
	f.mock.ExpectExec("INSERT INTO orders").
		WillReturnResult(sqlmock.NewResult(0, 1))
	for i := 0; i < itemCount; i++ {
		f.mock.ExpectExec("INSERT INTO order_items").
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	f.mock.ExpectQuery("INSERT INTO outbox_messages").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	f.mock.ExpectCommit()
}

func TestCreateOrderHappyPath(t *testing.T) {
	f := newOrderServiceFixture(t)

	input := shippingInput()
	input.Items = []OrderItemInput{{SKU: "PARA-500", Quantity: 2}}
	deliveryID := int64(1)
	input.DeliveryOptionID = &deliveryID

	f.expectCreateTx(1, 1)
	// OTP persisted after commit
	f.mock.ExpectExec("UPDATE orders").WillReturnResult(sqlmock.NewResult(0, 1))

	order, err := f.svc.CreateOrder(context.Background(), "user-1", input)
	require.NoError(t, err)

	assert.Equal(t, "260829-0001", order.OrderNumber)
	assert.Equal(t, models.OrderStatusAwaitingOTP, order.Status)
	assert.False(t, order.RequiresPrescription)
	assert.Equal(t, models.PrescriptionNotRequired, order.PrescriptionStatus)
	assert.Equal(t, "21.00", order.SubTotal.StringFixed(2))
	assert.Equal(t, "5.00", order.DeliveryChargeSnapshot.StringFixed(2))
	assert.Equal(t, "26.00", order.OrderTotal.StringFixed(2))
	assert.Equal(t, "COD", order.PaymentMethod)
	require.Len(t, order.Items, 1)
	assert.Equal(t, order.ID, order.Items[0].OrderID)
	assert.Equal(t, "Paracetamol 500mg", order.Items[0].ProductNameSnapshot)

	assert.Equal(t, "+911234567890", f.notifier.phone)
	assert.Contains(t, f.notifier.message, "expires in 5 minutes")
	require.NotNil(t, order.OTPHash)
	assert.NotContains(t, f.notifier.message, *order.OTPHash)

	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreateOrderWithSavedAddress(t *testing.T) {
	f := newOrderServiceFixture(t)

	addressID := "addr-1"
	input := CreateOrderInput{
		Items:     []OrderItemInput{{SKU: "PARA-500", Quantity: 1}},
		AddressID: &addressID,
	}

	f.expectCreateTx(7, 1)
	f.mock.ExpectExec("UPDATE orders").WillReturnResult(sqlmock.NewResult(0, 1))

	order, err := f.svc.CreateOrder(context.Background(), "user-1", input)
	require.NoError(t, err)

	assert.Equal(t, "260829-0007", order.OrderNumber)
	assert.Equal(t, "Asha Rao", order.ShippingName)
	assert.Equal(t, "12 MG Road", order.ShippingAddressLine)
	require.NotNil(t, order.ShippingPincode)
	assert.Equal(t, "560001", *order.ShippingPincode)
}

func TestCreateOrderPrescriptionDetection(t *testing.T) {
	f := newOrderServiceFixture(t)

	url := "uploads/prescriptions/rx-abc123.jpg"
	input := shippingInput()
	input.Items = []OrderItemInput{
		{SKU: "PARA-500", Quantity: 1},
		{SKU: "AMOX-250", Quantity: 1},
	}
	input.PrescriptionURL = &url

	f.expectCreateTx(2, 2)
	f.mock.ExpectExec("UPDATE orders").WillReturnResult(sqlmock.NewResult(0, 1))

	order, err := f.svc.CreateOrder(context.Background(), "user-1", input)
	require.NoError(t, err)

	assert.True(t, order.RequiresPrescription)
	assert.Equal(t, models.PrescriptionPendingVerification, order.PrescriptionStatus)
	assert.Equal(t, "55.50", order.SubTotal.StringFixed(2))
}

func TestCreateOrderPrescriptionRequiredWithoutUpload(t *testing.T) {
	f := newOrderServiceFixture(t)

	input := shippingInput()
	input.Items = []OrderItemInput{{SKU: "AMOX-250", Quantity: 1}}

	_, err := f.svc.CreateOrder(context.Background(), "user-1", input)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, "prescription_upload", appErr.Field)
	assert.Equal(t, "prescription file required", appErr.Message)

	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreateOrderValidationMatrix(t *testing.T) {
	addressID := "addr-1"
	badAddressID := "addr-missing"
	retiredOption := int64(2)

	tests := []struct {
		name      string
		mutate    func(*CreateOrderInput)
		wantField string
		wantMsg   string
	}{
		{
			name:    "no items",
			mutate:  func(in *CreateOrderInput) { in.Items = nil },
			wantMsg: "order must contain at least one item",
		},
		{
			name: "zero quantity",
			mutate: func(in *CreateOrderInput) {
				in.Items = []OrderItemInput{{SKU: "PARA-500", Quantity: 0}}
			},
			wantField: "items",
			wantMsg:   "invalid quantity for SKU 'PARA-500'",
		},
		{
			name: "unknown sku",
			mutate: func(in *CreateOrderInput) {
				in.Items = []OrderItemInput{{SKU: "NOPE-000", Quantity: 1}}
			},
			wantField: "items",
			wantMsg:   "product SKU 'NOPE-000' not found",
		},
		{
			name: "unavailable product",
			mutate: func(in *CreateOrderInput) {
				in.Items = []OrderItemInput{{SKU: "GONE-100", Quantity: 1}}
			},
			wantField: "items",
			wantMsg:   "product 'Discontinued Syrup' is unavailable",
		},
		{
			name: "both address and shipping details",
			mutate: func(in *CreateOrderInput) {
				in.AddressID = &addressID
			},
			wantMsg: "provide address_id or shipping details, not both",
		},
		{
			name: "neither address nor shipping details",
			mutate: func(in *CreateOrderInput) {
				in.ShippingName = ""
				in.ShippingPhoneNumber = ""
				in.ShippingAddressLine = ""
				in.ShippingCity = ""
			},
			wantMsg: "address ID or full shipping details required",
		},
		{
			name: "address belonging to someone else",
			mutate: func(in *CreateOrderInput) {
				in.ShippingName = ""
				in.ShippingPhoneNumber = ""
				in.ShippingAddressLine = ""
				in.ShippingCity = ""
				in.AddressID = &badAddressID
			},
			wantField: "address_id",
			wantMsg:   "invalid address ID or address does not belong to user",
		},
		{
			name: "inactive delivery option",
			mutate: func(in *CreateOrderInput) {
				in.DeliveryOptionID = &retiredOption
			},
			wantField: "delivery_option_id",
			wantMsg:   "invalid or inactive delivery option",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderServiceFixture(t)

			input := shippingInput()
			input.Items = []OrderItemInput{{SKU: "PARA-500", Quantity: 1}}
			tt.mutate(&input)

			_, err := f.svc.CreateOrder(context.Background(), "user-1", input)
			require.Error(t, err)

			var appErr *apperrors.AppError
			require.True(t, stderrors.As(err, &appErr))
			assert.True(t, stderrors.Is(err, apperrors.ErrValidation))
			assert.Equal(t, tt.wantField, appErr.Field)
			assert.Equal(t, tt.wantMsg, appErr.Message)

			// Nothing may be persisted for a rejected order
			require.NoError(t, f.mock.ExpectationsWereMet())
		})
	}
}

func TestCreateOrderSMSFailureSurfaced(t *testing.T) {
	f := newOrderServiceFixture(t)
	f.notifier.err = stderrors.New("gateway down")

	input := shippingInput()
	input.Items = []OrderItemInput{{SKU: "PARA-500", Quantity: 1}}

	f.expectCreateTx(3, 1)
	f.mock.ExpectExec("UPDATE orders").WillReturnResult(sqlmock.NewResult(0, 1))

	_, err := f.svc.CreateOrder(context.Background(), "user-1", input)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, apperrors.ErrDependencyFailure))
}

var orderColumnNames = []string{
	"id", "user_id", "order_number", "status",
	"shipping_name", "shipping_phone_number", "shipping_address_line", "shipping_city", "shipping_pincode",
	"sub_total", "delivery_charge_snapshot", "order_total",
	"requires_prescription", "prescription_url", "prescription_status",
	"payment_method", "payment_completed", "delivery_option_id", "tracking_number",
	"otp_hash", "otp_expiry", "is_otp_verified",
	"created_at", "updated_at",
}

type storedOrder struct {
	id                   string
	status               models.OrderStatus
	requiresPrescription bool
	prescriptionStatus   models.PrescriptionStatus
	otpHash              *string
	otpExpiry            *time.Time
}

func (f *orderServiceFixture) expectGetOrder(o storedOrder) {
	rows := sqlmock.NewRows(orderColumnNames).AddRow(
		o.id, "user-1", "260829-0001", string(o.status),
		"Asha Rao", "+911234567890", "12 MG Road", "Bengaluru", nil,
		"21.00", "0.00", "21.00",
		o.requiresPrescription, nil, string(o.prescriptionStatus),
		"COD", false, nil, nil,
		o.otpHash, o.otpExpiry, false,
		testNow, testNow,
	)

	f.mock.ExpectQuery("SELECT (.+) FROM orders WHERE id =").WillReturnRows(rows)
	f.mock.ExpectQuery("FROM order_items").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "order_id", "product_id", "price_per_item", "quantity",
			"product_name_snapshot", "product_sku_snapshot",
		}))
}

func TestConfirmOrderHappyPath(t *testing.T) {
	f := newOrderServiceFixture(t)

	expiry := testNow.Add(2 * time.Minute)
	hash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.MinCost)
	require.NoError(t, err)
	hashStr := string(hash)

	orderID := models.NewID()
	f.expectGetOrder(storedOrder{
		id:                 orderID,
		status:             models.OrderStatusAwaitingOTP,
		prescriptionStatus: models.PrescriptionNotRequired,
		otpHash:            &hashStr,
		otpExpiry:          &expiry,
	})

	f.mock.ExpectBegin()
	f.mock.ExpectExec("UPDATE orders").WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectQuery("INSERT INTO outbox_messages").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	f.mock.ExpectCommit()

	order, err := f.svc.ConfirmOrder(context.Background(), "user-1", orderID, "123456")
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusProcessing, order.Status)
	assert.True(t, order.IsOTPVerified)
	assert.Nil(t, order.OTPHash)
	assert.Nil(t, order.OTPExpiry)

	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestConfirmOrderPrescriptionGate(t *testing.T) {
	f := newOrderServiceFixture(t)

	expiry := testNow.Add(2 * time.Minute)
	hash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.MinCost)
	require.NoError(t, err)
	hashStr := string(hash)

	orderID := models.NewID()
	f.expectGetOrder(storedOrder{
		id:                   orderID,
		status:               models.OrderStatusAwaitingOTP,
		requiresPrescription: true,
		prescriptionStatus:   models.PrescriptionPendingVerification,
		otpHash:              &hashStr,
		otpExpiry:            &expiry,
	})

	f.mock.ExpectBegin()
	f.mock.ExpectExec("UPDATE orders").WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectQuery("INSERT INTO outbox_messages").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	f.mock.ExpectCommit()

	order, err := f.svc.ConfirmOrder(context.Background(), "user-1", orderID, "123456")
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusAwaitingRx, order.Status)
}

func TestConfirmOrderWrongState(t *testing.T) {
	f := newOrderServiceFixture(t)

	orderID := models.NewID()
	f.expectGetOrder(storedOrder{
		id:                 orderID,
		status:             models.OrderStatusProcessing,
		prescriptionStatus: models.PrescriptionNotRequired,
	})

	_, err := f.svc.ConfirmOrder(context.Background(), "user-1", orderID, "123456")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, apperrors.ErrInvalidState))
	assert.Equal(t, "order is not awaiting OTP verification", err.Error())

	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestConfirmOrderMalformedCode(t *testing.T) {
	expiry := testNow.Add(2 * time.Minute)
	hash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.MinCost)
	require.NoError(t, err)
	hashStr := string(hash)

	for _, code := range []string{"", "12345", "1234567", "12a456"} {
		t.Run("code "+code, func(t *testing.T) {
			f := newOrderServiceFixture(t)

			orderID := models.NewID()
			f.expectGetOrder(storedOrder{
				id:                 orderID,
				status:             models.OrderStatusAwaitingOTP,
				prescriptionStatus: models.PrescriptionNotRequired,
				otpHash:            &hashStr,
				otpExpiry:          &expiry,
			})

			_, err := f.svc.ConfirmOrder(context.Background(), "user-1", orderID, code)
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, apperrors.ErrValidation))
		})
	}
}

func TestConfirmOrderWrongOrExpiredCode(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.MinCost)
	require.NoError(t, err)
	hashStr := string(hash)

	future := testNow.Add(2 * time.Minute)
	past := testNow.Add(-1 * time.Minute)

	tests := []struct {
		name   string
		expiry *time.Time
		code   string
	}{
		{"wrong code", &future, "654321"},
		{"expired code", &past, "123456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderServiceFixture(t)

			orderID := models.NewID()
			f.expectGetOrder(storedOrder{
				id:                 orderID,
				status:             models.OrderStatusAwaitingOTP,
				prescriptionStatus: models.PrescriptionNotRequired,
				otpHash:            &hashStr,
				otpExpiry:          tt.expiry,
			})

			_, err := f.svc.ConfirmOrder(context.Background(), "user-1", orderID, tt.code)
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, apperrors.ErrInvalidCredential))
			assert.Equal(t, "invalid or expired OTP", err.Error())

			// A failed attempt never mutates the order
			require.NoError(t, f.mock.ExpectationsWereMet())
		})
	}
}

func TestConfirmOrderLostRaceSurfacesInvalidState(t *testing.T) {
	f := newOrderServiceFixture(t)

	expiry := testNow.Add(2 * time.Minute)
	hash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.MinCost)
	require.NoError(t, err)
	hashStr := string(hash)

	orderID := models.NewID()
	f.expectGetOrder(storedOrder{
		id:                 orderID,
		status:             models.OrderStatusAwaitingOTP,
		prescriptionStatus: models.PrescriptionNotRequired,
		otpHash:            &hashStr,
		otpExpiry:          &expiry,
	})

	// A concurrent confirmation moved the order between the read and the
	// guarded update; zero rows touched must not leak a raw not-found
	f.mock.ExpectBegin()
	f.mock.ExpectExec("UPDATE orders").WillReturnResult(sqlmock.NewResult(0, 0))
	f.mock.ExpectRollback()

	_, err = f.svc.ConfirmOrder(context.Background(), "user-1", orderID, "123456")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, apperrors.ErrInvalidState))
	assert.Equal(t, "order is not awaiting OTP verification", err.Error())

	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestAdvanceStatusPublishesEvent(t *testing.T) {
	f := newOrderServiceFixture(t)

	orderID := models.NewID()
	f.expectGetOrder(storedOrder{
		id:                 orderID,
		status:             models.OrderStatusProcessing,
		prescriptionStatus: models.PrescriptionNotRequired,
	})

	f.mock.ExpectBegin()
	f.mock.ExpectExec("UPDATE orders SET status =").WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectQuery("INSERT INTO outbox_messages").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	f.mock.ExpectCommit()

	order, err := f.svc.AdvanceStatus(context.Background(), orderID, models.OrderStatusSourcing)
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusSourcing, order.Status)
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestAdvanceStatusRejectsInvalidTransition(t *testing.T) {
	f := newOrderServiceFixture(t)

	orderID := models.NewID()
	f.expectGetOrder(storedOrder{
		id:                 orderID,
		status:             models.OrderStatusProcessing,
		prescriptionStatus: models.PrescriptionNotRequired,
	})

	_, err := f.svc.AdvanceStatus(context.Background(), orderID, models.OrderStatusDelivered)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, apperrors.ErrInvalidState))
	assert.Equal(t, "cannot transition order from PROCESSING to DELIVERED", err.Error())

	// Rejected before any write
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestAdvanceStatusLostRace(t *testing.T) {
	f := newOrderServiceFixture(t)

	orderID := models.NewID()
	f.expectGetOrder(storedOrder{
		id:                 orderID,
		status:             models.OrderStatusProcessing,
		prescriptionStatus: models.PrescriptionNotRequired,
	})

	f.mock.ExpectBegin()
	f.mock.ExpectExec("UPDATE orders SET status =").WillReturnResult(sqlmock.NewResult(0, 0))
	f.mock.ExpectRollback()

	_, err := f.svc.AdvanceStatus(context.Background(), orderID, models.OrderStatusSourcing)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, apperrors.ErrInvalidState))

	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestAdvanceStatusNotFound(t *testing.T) {
	f := newOrderServiceFixture(t)

	f.mock.ExpectQuery("SELECT (.+) FROM orders WHERE id =").
		WillReturnError(sql.ErrNoRows)

	_, err := f.svc.AdvanceStatus(context.Background(), models.NewID(), models.OrderStatusSourcing)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, apperrors.ErrNotFound))
}

func TestConfirmOrderNotFound(t *testing.T) {
	f := newOrderServiceFixture(t)

	f.mock.ExpectQuery("SELECT (.+) FROM orders WHERE id =").
		WillReturnError(sql.ErrNoRows)

	_, err := f.svc.ConfirmOrder(context.Background(), "user-1", models.NewID(), "123456")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, apperrors.ErrNotFound))
	assert.Equal(t, "order not found", err.Error())
}
