package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/ahsenkhancoding/backend/internal/models"
	"github.com/ahsenkhancoding/backend/internal/repository"
	"github.com/ahsenkhancoding/backend/pkg/errors"
	"github.com/ahsenkhancoding/backend/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

const (
	// OTPLength is the number of digits in a confirmation code
	OTPLength = 6
	// OTPExpiryMinutes is how long an issued code stays valid
	OTPExpiryMinutes = 5
)

// Notifier dispatches a message to a phone number
type Notifier interface {
	Send(ctx context.Context, phoneNumber, message string) error
}

// OTPService generates, stores and validates order confirmation codes. Only
// a bcrypt hash of the code is persisted; the plaintext code exists solely in
// the outbound SMS.
type OTPService struct {
	orderRepo *repository.OrderRepository
	notifier  Notifier
	logger    logger.Logger
	now       func() time.Time
}

// NewOTPService creates a new OTPService
func NewOTPService(orderRepo *repository.OrderRepository, notifier Notifier, logger logger.Logger) *OTPService {
	return &OTPService{
		orderRepo: orderRepo,
		notifier:  notifier,
		logger:    logger,
		now:       models.GetCurrentTime,
	}
}

// GenerateOTP generates a numeric code of OTPLength digits, each digit drawn
// independently and uniformly from 0-9.
func GenerateOTP() (string, error) {
	code := make([]byte, OTPLength)

	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate OTP digit: %w", err)
		}
		code[i] = byte('0' + n.Int64())
	}

	return string(code), nil
}

// Issue generates a fresh code for the order, persists its hash, expiry,
// cleared verification flag and the AWAITING_OTP status in one update, then
// dispatches the code to the shipping phone number. A dispatch failure is a
// hard error surfaced to the caller.
func (s *OTPService) Issue(ctx context.Context, order *models.Order) error {
	if order.ShippingPhoneNumber == "" {
		return errors.NewValidationError("shipping_phone_number", "order has no shipping phone number")
	}

	code, err := GenerateOTP()

	if err != nil {
		return errors.NewInternalError(fmt.Sprintf("failed to generate OTP: %v", err))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)

	if err != nil {
		return errors.NewInternalError(fmt.Sprintf("failed to hash OTP: %v", err))
	}

	expiry := s.now().Add(OTPExpiryMinutes * time.Minute)

	if err := s.orderRepo.SetOTP(ctx, order.ID, string(hash), expiry, models.OrderStatusAwaitingOTP); err != nil {
		s.logger.Error("Failed to persist OTP", "error", err, "orderID", order.ID)
		return errors.NewInternalError("failed to store order confirmation OTP")
	}

	hashStr := string(hash)
	order.OTPHash = &hashStr
	order.OTPExpiry = &expiry
	order.IsOTPVerified = false
	order.Status = models.OrderStatusAwaitingOTP

	message := fmt.Sprintf("Your order confirmation code is %s. It expires in %d minutes.", code, OTPExpiryMinutes)

	if err := s.notifier.Send(ctx, order.ShippingPhoneNumber, message); err != nil {
		s.logger.Error("Failed to dispatch OTP", "error", err, "orderID", order.ID)
		return errors.NewDependencyFailureError("failed to send order confirmation OTP")
	}

	s.logger.Info("OTP issued", "orderID", order.ID, "expiry", expiry)
	return nil
}

// Validate reports whether the submitted code confirms the order. It returns
// true only for an exact, unexpired match against the stored hash; a missing
// code, a wrong length, an expired code or a mismatch all return false.
func (s *OTPService) Validate(order *models.Order, submittedCode string) bool {
	if order.OTPHash == nil || order.OTPExpiry == nil {
		return false
	}

	if len(submittedCode) != OTPLength {
		return false
	}

	if !s.now().Before(*order.OTPExpiry) {
		return false
	}

	return bcrypt.CompareHashAndPassword([]byte(*order.OTPHash), []byte(submittedCode)) == nil
}
