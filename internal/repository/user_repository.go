package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ahsenkhancoding/backend/internal/database"
	"github.com/ahsenkhancoding/backend/internal/models"
	"github.com/ahsenkhancoding/backend/pkg/logger"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db     *database.Database
	logger logger.Logger
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *database.Database, logger logger.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new user into the database
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, phone_number, name, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.DB.ExecContext(
		ctx,
		query,
		user.ID,
		user.PhoneNumber,
		user.Name,
		user.PasswordHash,
		user.CreatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create user", "error", err, "phone", user.PhoneNumber)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return nil
}

// GetByPhoneNumber retrieves a user by phone number
func (r *UserRepository) GetByPhoneNumber(ctx context.Context, phoneNumber string) (*models.User, error) {
	query := `
		SELECT id, phone_number, name, password_hash, created_at
		FROM users
		WHERE phone_number = $1
	`

	var user models.User
	err := r.db.DB.GetContext(ctx, &user, query, phoneNumber)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to get user by phone number", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return &user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, phone_number, name, password_hash, created_at
		FROM users
		WHERE id = $1
	`

	var user models.User
	err := r.db.DB.GetContext(ctx, &user, query, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to get user by ID", "error", err, "userID", id)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return &user, nil
}
