package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/ahsenkhancoding/backend/internal/models"
	"github.com/ahsenkhancoding/backend/internal/repository"
	"github.com/ahsenkhancoding/backend/pkg/errors"
	"github.com/ahsenkhancoding/backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// CatalogLookup resolves SKUs to catalog products
type CatalogLookup interface {
	GetBySKUs(ctx context.Context, skus []string) (map[string]*models.Product, error)
}

// AddressLookup resolves a saved address belonging to a user
type AddressLookup interface {
	GetByIDForUser(ctx context.Context, id, userID string) (*models.Address, error)
}

// DeliveryOptionLookup resolves delivery options
type DeliveryOptionLookup interface {
	GetActiveByID(ctx context.Context, id int64) (*models.DeliveryOption, error)
	GetByID(ctx context.Context, id int64) (*models.DeliveryOption, error)
}

// OrderItemInput is one requested product line
type OrderItemInput struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// CreateOrderInput carries everything needed to assemble an order. Exactly
// one of AddressID or the ad-hoc shipping fields must be supplied.
type CreateOrderInput struct {
	Items               []OrderItemInput
	AddressID           *string
	ShippingName        string
	ShippingPhoneNumber string
	ShippingAddressLine string
	ShippingCity        string
	ShippingPincode     *string
	DeliveryOptionID    *int64
	PaymentMethod       string
	PrescriptionURL     *string
}

// shippingDetails is the resolved shipping snapshot copied onto the order
type shippingDetails struct {
	name        string
	phoneNumber string
	addressLine string
	city        string
	pincode     *string
}

// validatedOrder is the intermediate result of the validation stage, passed
// explicitly to the persistence stage.
type validatedOrder struct {
	items                []*models.OrderItem
	requiresPrescription bool
	shipping             shippingDetails
	deliveryOption       *models.DeliveryOption
	paymentMethod        string
	prescriptionURL      *string
}

// OrderService drives order assembly and the confirmation state machine
type OrderService struct {
	orderRepo  *repository.OrderRepository
	outboxRepo *repository.OutboxRepository
	catalog    CatalogLookup
	addresses  AddressLookup
	delivery   DeliveryOptionLookup
	otp        *OTPService
	logger     logger.Logger
	now        func() time.Time
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo *repository.OrderRepository,
	outboxRepo *repository.OutboxRepository,
	catalog CatalogLookup,
	addresses AddressLookup,
	delivery DeliveryOptionLookup,
	otp *OTPService,
	logger logger.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:  orderRepo,
		outboxRepo: outboxRepo,
		catalog:    catalog,
		addresses:  addresses,
		delivery:   delivery,
		otp:        otp,
		logger:     logger,
		now:        models.GetCurrentTime,
	}
}

// CreateOrder validates the request, computes totals, allocates an order
// number and persists the order with its items in one transaction. The OTP is
// issued after the order is committed; a dispatch failure is surfaced to the
// caller as a hard error.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, input CreateOrderInput) (*models.Order, error) {
	validated, err := s.validate(ctx, userID, input)

	if err != nil {
		return nil, err
	}

	order := s.buildOrder(userID, validated)

	tx, err := s.orderRepo.BeginTx(ctx)

	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				s.logger.Error("Failed to rollback transaction", "error", rollbackErr)
			}
		}
	}()

	orderNumber, err := s.orderRepo.AllocateOrderNumberInTx(tx, s.now())

	if err != nil {
		return nil, err
	}
	order.OrderNumber = orderNumber

	if err = s.orderRepo.CreateInTx(tx, order); err != nil {
		return nil, err
	}

	for _, item := range order.Items {
		item.OrderID = order.ID
	}

	if err = s.orderRepo.CreateItemsInTx(tx, order.Items); err != nil {
		return nil, err
	}

	outboxMsg, err := models.NewOrderCreatedEvent(order)

	if err != nil {
		return nil, fmt.Errorf("failed to create outbox message: %w", err)
	}

	if err = s.outboxRepo.CreateInTx(tx, outboxMsg); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		s.logger.Error("Failed to commit transaction", "error", err)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("Order created",
		"orderID", order.ID,
		"orderNumber", order.OrderNumber,
		"orderTotal", order.OrderTotal,
		"requiresPrescription", order.RequiresPrescription)

	if err := s.otp.Issue(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// validate runs the full validation sequence and resolves all lookups,
// producing the explicit intermediate handed to persistence.
func (s *OrderService) validate(ctx context.Context, userID string, input CreateOrderInput) (*validatedOrder, error) {
	if len(input.Items) == 0 {
		return nil, errors.NewValidationError("items", "order must contain at least one item")
	}

	skus := make([]string, 0, len(input.Items))
	for _, item := range input.Items {
		if item.Quantity < 1 {
			return nil, errors.NewValidationError("items", fmt.Sprintf("invalid quantity for SKU '%s'", item.SKU))
		}
		skus = append(skus, item.SKU)
	}

	products, err := s.catalog.GetBySKUs(ctx, skus)

	if err != nil {
		return nil, errors.NewInternalError("failed to resolve products")
	}

	validated := &validatedOrder{
		paymentMethod:   input.PaymentMethod,
		prescriptionURL: input.PrescriptionURL,
	}
	if validated.paymentMethod == "" {
		validated.paymentMethod = "COD"
	}

	for _, item := range input.Items {
		product, ok := products[item.SKU]

		if !ok {
			return nil, errors.NewValidationError("items", fmt.Sprintf("product SKU '%s' not found", item.SKU))
		}
		if !product.IsAvailable {
			return nil, errors.NewValidationError("items", fmt.Sprintf("product '%s' is unavailable", product.Name))
		}
		if product.RequiresPrescription {
			validated.requiresPrescription = true
		}

		productID := product.ID
		sku := product.SKU
		validated.items = append(validated.items, &models.OrderItem{
			ID:                  models.NewID(),
			ProductID:           &productID,
			PricePerItem:        product.SellingPrice,
			Quantity:            item.Quantity,
			ProductNameSnapshot: product.Name,
			ProductSKUSnapshot:  &sku,
		})
	}

	shippingProvided := input.ShippingName != "" &&
		input.ShippingPhoneNumber != "" &&
		input.ShippingAddressLine != "" &&
		input.ShippingCity != ""

	switch {
	case input.AddressID != nil && shippingProvided:
		return nil, errors.NewValidationError("", "provide address_id or shipping details, not both")
	case input.AddressID == nil && !shippingProvided:
		return nil, errors.NewValidationError("", "address ID or full shipping details required")
	case input.AddressID != nil:
		address, err := s.addresses.GetByIDForUser(ctx, *input.AddressID, userID)

		if err != nil {
			if stderrors.Is(err, repository.ErrNotFound) {
				return nil, errors.NewValidationError("address_id", "invalid address ID or address does not belong to user")
			}
			return nil, errors.NewInternalError("failed to resolve address")
		}

		validated.shipping = shippingDetails{
			name:        address.ContactName,
			phoneNumber: address.ContactPhone,
			addressLine: address.AddressLine,
			city:        address.City,
			pincode:     address.Pincode,
		}
	default:
		validated.shipping = shippingDetails{
			name:        input.ShippingName,
			phoneNumber: input.ShippingPhoneNumber,
			addressLine: input.ShippingAddressLine,
			city:        input.ShippingCity,
			pincode:     input.ShippingPincode,
		}
	}

	if input.DeliveryOptionID != nil {
		option, err := s.delivery.GetActiveByID(ctx, *input.DeliveryOptionID)

		if err != nil {
			if stderrors.Is(err, repository.ErrNotFound) {
				return nil, errors.NewValidationError("delivery_option_id", "invalid or inactive delivery option")
			}
			return nil, errors.NewInternalError("failed to resolve delivery option")
		}

		validated.deliveryOption = option
	}

	if validated.requiresPrescription && validated.prescriptionURL == nil {
		return nil, errors.NewValidationError("prescription_upload", "prescription file required")
	}

	return validated, nil
}

// buildOrder computes totals and snapshots from the validated command
func (s *OrderService) buildOrder(userID string, validated *validatedOrder) *models.Order {
	subTotal := decimal.Zero
	for _, item := range validated.items {
		subTotal = subTotal.Add(item.ItemTotal())
	}

	deliveryCharge := decimal.Zero
	var deliveryOptionID *int64
	if validated.deliveryOption != nil {
		deliveryCharge = validated.deliveryOption.BaseCharge
		id := validated.deliveryOption.ID
		deliveryOptionID = &id
	}

	prescriptionStatus := models.PrescriptionNotRequired
	if validated.requiresPrescription {
		if validated.prescriptionURL != nil {
			prescriptionStatus = models.PrescriptionPendingVerification
		} else {
			prescriptionStatus = models.PrescriptionPendingUpload
		}
	}

	now := s.now()

	return &models.Order{
		ID:                     models.NewID(),
		UserID:                 &userID,
		Status:                 models.OrderStatusPending,
		ShippingName:           validated.shipping.name,
		ShippingPhoneNumber:    validated.shipping.phoneNumber,
		ShippingAddressLine:    validated.shipping.addressLine,
		ShippingCity:           validated.shipping.city,
		ShippingPincode:        validated.shipping.pincode,
		SubTotal:               subTotal,
		DeliveryChargeSnapshot: deliveryCharge,
		OrderTotal:             subTotal.Add(deliveryCharge),
		RequiresPrescription:   validated.requiresPrescription,
		PrescriptionURL:        validated.prescriptionURL,
		PrescriptionStatus:     prescriptionStatus,
		PaymentMethod:          validated.paymentMethod,
		PaymentCompleted:       false,
		DeliveryOptionID:       deliveryOptionID,
		CreatedAt:              now,
		UpdatedAt:              now,
		Items:                  validated.items,
		DeliveryOption:         validated.deliveryOption,
	}
}

// ConfirmOrder verifies the submitted OTP and advances the order. On success
// the verification flag, the cleared OTP fields and the next status are
// persisted in a single atomic update. A failed attempt never mutates the
// order.
func (s *OrderService) ConfirmOrder(ctx context.Context, userID, orderID, submittedCode string) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDForUser(ctx, orderID, userID)

	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NewNotFoundError("order not found")
		}
		return nil, err
	}

	if order.Status != models.OrderStatusAwaitingOTP {
		return nil, errors.NewInvalidStateError("order is not awaiting OTP verification")
	}

	if len(submittedCode) != OTPLength || !isNumeric(submittedCode) {
		return nil, errors.NewValidationError("otp_code", fmt.Sprintf("OTP must be a %d-digit numeric code", OTPLength))
	}

	if !s.otp.Validate(order, submittedCode) {
		return nil, errors.NewInvalidCredentialError("invalid or expired OTP")
	}

	nextStatus := models.OrderStatusProcessing
	if order.RequiresPrescription && order.PrescriptionStatus != models.PrescriptionVerified {
		nextStatus = models.OrderStatusAwaitingRx
	}

	tx, err := s.orderRepo.BeginTx(ctx)

	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				s.logger.Error("Failed to rollback transaction", "error", rollbackErr)
			}
		}
	}()

	if err = s.orderRepo.ApplyConfirmationInTx(tx, order.ID, nextStatus); err != nil {
		// A concurrent confirmation won the status guard
		if stderrors.Is(err, repository.ErrNotFound) {
			err = errors.NewInvalidStateError("order is not awaiting OTP verification")
		}
		return nil, err
	}

	order.IsOTPVerified = true
	order.OTPHash = nil
	order.OTPExpiry = nil
	order.Status = nextStatus

	outboxMsg, err := models.NewOrderConfirmedEvent(order)

	if err != nil {
		return nil, fmt.Errorf("failed to create outbox message: %w", err)
	}

	if err = s.outboxRepo.CreateInTx(tx, outboxMsg); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		s.logger.Error("Failed to commit transaction", "error", err)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("Order confirmed",
		"orderID", order.ID,
		"orderNumber", order.OrderNumber,
		"status", order.Status)

	s.attachDeliveryOption(ctx, order)
	return order, nil
}

// AdvanceStatus moves an order along the fulfilment state machine and records
// an order_status_changed event in the same transaction. Transitions outside
// the allowed map are rejected before any write.
func (s *OrderService) AdvanceStatus(ctx context.Context, orderID string, next models.OrderStatus) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)

	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NewNotFoundError("order not found")
		}
		return nil, err
	}

	oldStatus := order.Status

	if !models.CanTransition(oldStatus, next) {
		return nil, errors.NewInvalidStateError(
			fmt.Sprintf("cannot transition order from %s to %s", oldStatus, next))
	}

	tx, err := s.orderRepo.BeginTx(ctx)

	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				s.logger.Error("Failed to rollback transaction", "error", rollbackErr)
			}
		}
	}()

	if err = s.orderRepo.UpdateStatusInTx(tx, order.ID, oldStatus, next); err != nil {
		// A concurrent change won the status guard
		if stderrors.Is(err, repository.ErrNotFound) {
			err = errors.NewInvalidStateError("order status changed concurrently")
		}
		return nil, err
	}

	order.Status = next

	outboxMsg, err := models.NewOrderStatusChangedEvent(order, oldStatus)

	if err != nil {
		return nil, fmt.Errorf("failed to create outbox message: %w", err)
	}

	if err = s.outboxRepo.CreateInTx(tx, outboxMsg); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		s.logger.Error("Failed to commit transaction", "error", err)
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("Order status changed",
		"orderID", order.ID,
		"orderNumber", order.OrderNumber,
		"from", oldStatus,
		"to", next)

	s.attachDeliveryOption(ctx, order)
	return order, nil
}

// GetOrder retrieves one of the user's orders
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDForUser(ctx, orderID, userID)

	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NewNotFoundError("order not found")
		}
		return nil, err
	}

	s.attachDeliveryOption(ctx, order)
	return order, nil
}

// ListOrders retrieves the user's orders with pagination
func (s *OrderService) ListOrders(ctx context.Context, userID string, limit, offset int) ([]*models.Order, error) {
	orders, err := s.orderRepo.ListForUser(ctx, userID, limit, offset)

	if err != nil {
		return nil, err
	}

	for _, order := range orders {
		s.attachDeliveryOption(ctx, order)
	}

	return orders, nil
}

// attachDeliveryOption loads the referenced delivery option for the read
// model. A lookup failure only degrades the response, it never fails it.
func (s *OrderService) attachDeliveryOption(ctx context.Context, order *models.Order) {
	if order.DeliveryOptionID == nil || order.DeliveryOption != nil {
		return
	}

	option, err := s.delivery.GetByID(ctx, *order.DeliveryOptionID)

	if err != nil {
		s.logger.Warn("Failed to load delivery option for order", "error", err, "orderID", order.ID)
		return
	}

	order.DeliveryOption = option
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
