package service

import (
	"context"
	"database/sql"
	stderrors "errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ahsenkhancoding/backend/internal/auth"
	"github.com/ahsenkhancoding/backend/internal/config"
	"github.com/ahsenkhancoding/backend/internal/database"
	"github.com/ahsenkhancoding/backend/internal/repository"
	apperrors "github.com/ahsenkhancoding/backend/pkg/errors"
	"github.com/ahsenkhancoding/backend/pkg/logger"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthServiceFixture(t *testing.T) (*AuthService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	wrapped := database.NewWithDB(sqlx.NewDb(db, "sqlmock"), logger.Noop())
	userRepo := repository.NewUserRepository(wrapped, logger.Noop())
	tokens := auth.NewTokenManager(&config.JWTConfig{Secret: "test-secret", TokenExpiry: time.Hour})

	return NewAuthService(userRepo, tokens, logger.Noop()), mock
}

func TestRegister(t *testing.T) {
	svc, mock := newAuthServiceFixture(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE phone_number =").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(0, 1))

	user, token, err := svc.Register(context.Background(), "+911234567890", "Asha Rao", "s3cretpass")
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "s3cretpass", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cretpass")))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name     string
		phone    string
		password string
	}{
		{"bad phone", "not-a-phone", "s3cretpass"},
		{"short password", "+911234567890", "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mock := newAuthServiceFixture(t)

			_, _, err := svc.Register(context.Background(), tt.phone, "Asha Rao", tt.password)
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, apperrors.ErrValidation))
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRegisterDuplicatePhone(t *testing.T) {
	svc, mock := newAuthServiceFixture(t)

	rows := sqlmock.NewRows([]string{"id", "phone_number", "name", "password_hash", "created_at"}).
		AddRow("existing-id", "+911234567890", "Someone", "hash", time.Now().UTC())
	mock.ExpectQuery("SELECT (.+) FROM users WHERE phone_number =").WillReturnRows(rows)

	_, _, err := svc.Register(context.Background(), "+911234567890", "Asha Rao", "s3cretpass")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, apperrors.ErrConflict))
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cretpass"), bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"correct password", "s3cretpass", false},
		{"wrong password", "wrongpass", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mock := newAuthServiceFixture(t)

			rows := sqlmock.NewRows([]string{"id", "phone_number", "name", "password_hash", "created_at"}).
				AddRow("user-1", "+911234567890", "Asha Rao", string(hash), time.Now().UTC())
			mock.ExpectQuery("SELECT (.+) FROM users WHERE phone_number =").WillReturnRows(rows)

			user, token, err := svc.Login(context.Background(), "+911234567890", tt.password)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, stderrors.Is(err, apperrors.ErrUnauthorized))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "user-1", user.ID)
			assert.NotEmpty(t, token)
		})
	}
}

func TestLoginUnknownPhone(t *testing.T) {
	svc, mock := newAuthServiceFixture(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE phone_number =").
		WillReturnError(sql.ErrNoRows)

	_, _, err := svc.Login(context.Background(), "+911234567890", "whatever")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, apperrors.ErrUnauthorized))
}
