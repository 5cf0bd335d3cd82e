package service

import (
	"context"
	"testing"
	"time"

	"github.com/ahsenkhancoding/backend/internal/models"
	"github.com/ahsenkhancoding/backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type recordingNotifier struct {
	phone   string
	message string
	err     error
}

func (n *recordingNotifier) Send(ctx context.Context, phoneNumber, message string) error {
	n.phone = phoneNumber
	n.message = message
	return n.err
}

func TestGenerateOTP(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 50; i++ {
		code, err := GenerateOTP()
		require.NoError(t, err)
		require.Len(t, code, OTPLength)

		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9', "digit expected, got %q", r)
		}
		seen[code] = true
	}

	// 50 draws from a million-value space colliding down to a handful would
	// mean the generator is broken
	assert.Greater(t, len(seen), 40)
}

func hashOTP(t *testing.T, code string) *string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.MinCost)
	require.NoError(t, err)
	s := string(hash)
	return &s
}

func TestOTPValidate(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	future := now.Add(2 * time.Minute)
	past := now.Add(-1 * time.Second)
	exact := now

	svc := &OTPService{
		logger: logger.Noop(),
		now:    func() time.Time { return now },
	}

	tests := []struct {
		name      string
		hash      *string
		expiry    *time.Time
		submitted string
		want      bool
	}{
		{"correct unexpired code", hashOTP(t, "123456"), &future, "123456", true},
		{"wrong code", hashOTP(t, "123456"), &future, "654321", false},
		{"expired code", hashOTP(t, "123456"), &past, "123456", false},
		{"expiry boundary is expired", hashOTP(t, "123456"), &exact, "123456", false},
		{"no stored hash", nil, &future, "123456", false},
		{"no stored expiry", hashOTP(t, "123456"), nil, "123456", false},
		{"too short", hashOTP(t, "123456"), &future, "12345", false},
		{"too long", hashOTP(t, "123456"), &future, "1234567", false},
		{"empty submission", hashOTP(t, "123456"), &future, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := &models.Order{
				ID:        models.NewID(),
				OTPHash:   tt.hash,
				OTPExpiry: tt.expiry,
			}

			assert.Equal(t, tt.want, svc.Validate(order, tt.submitted))
		})
	}
}

func TestOTPIssueRequiresPhoneNumber(t *testing.T) {
	svc := NewOTPService(nil, &recordingNotifier{}, logger.Noop())

	err := svc.Issue(context.Background(), &models.Order{ID: models.NewID()})
	require.Error(t, err)
}
