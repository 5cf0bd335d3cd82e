package service

import (
	"context"
	stderrors "errors"
	"regexp"

	"github.com/ahsenkhancoding/backend/internal/auth"
	"github.com/ahsenkhancoding/backend/internal/models"
	"github.com/ahsenkhancoding/backend/internal/repository"
	"github.com/ahsenkhancoding/backend/pkg/errors"
	"github.com/ahsenkhancoding/backend/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

// AuthService handles registration and login for storefront customers
type AuthService struct {
	userRepo *repository.UserRepository
	tokens   *auth.TokenManager
	logger   logger.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo *repository.UserRepository, tokens *auth.TokenManager, logger logger.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// Register creates a new user account and returns a signed token
func (s *AuthService) Register(ctx context.Context, phoneNumber, name, password string) (*models.User, string, error) {
	if !phonePattern.MatchString(phoneNumber) {
		return nil, "", errors.NewValidationError("phone_number", "invalid phone number")
	}

	if len(password) < 8 {
		return nil, "", errors.NewValidationError("password", "password must be at least 8 characters")
	}

	if _, err := s.userRepo.GetByPhoneNumber(ctx, phoneNumber); err == nil {
		return nil, "", errors.NewConflictError("phone number already registered")
	} else if !stderrors.Is(err, repository.ErrNotFound) {
		return nil, "", errors.NewInternalError("failed to check existing user")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	if err != nil {
		return nil, "", errors.NewInternalError("failed to hash password")
	}

	user := models.NewUser(phoneNumber, name, string(hash))

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", errors.NewInternalError("failed to create user")
	}

	token, err := s.tokens.BuildToken(user.ID)

	if err != nil {
		return nil, "", errors.NewInternalError("failed to issue token")
	}

	s.logger.Info("User registered", "userID", user.ID)
	return user, token, nil
}

// Login verifies the credentials and returns a signed token
func (s *AuthService) Login(ctx context.Context, phoneNumber, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByPhoneNumber(ctx, phoneNumber)

	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, "", errors.NewUnauthorizedError("invalid phone number or password")
		}
		return nil, "", errors.NewInternalError("failed to look up user")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", errors.NewUnauthorizedError("invalid phone number or password")
	}

	token, err := s.tokens.BuildToken(user.ID)

	if err != nil {
		return nil, "", errors.NewInternalError("failed to issue token")
	}

	s.logger.Info("User logged in", "userID", user.ID)
	return user, token, nil
}
