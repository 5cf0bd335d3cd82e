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

// AddressRepository handles database operations for saved shipping addresses
type AddressRepository struct {
	db     *database.Database
	logger logger.Logger
}

// NewAddressRepository creates a new AddressRepository
func NewAddressRepository(db *database.Database, logger logger.Logger) *AddressRepository {
	return &AddressRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new address. A default address clears the default flag on
// the user's other addresses first.
func (r *AddressRepository) Create(ctx context.Context, address *models.Address) error {
	tx, err := r.db.DB.BeginTxx(ctx, nil)

	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	defer tx.Rollback()

	if address.IsDefault {
		if _, err = tx.ExecContext(ctx,
			`UPDATE addresses SET is_default = FALSE WHERE user_id = $1`, address.UserID); err != nil {
			return fmt.Errorf("%w: %v", ErrDatabase, err)
		}
	}

	query := `
		INSERT INTO addresses (id, user_id, contact_name, contact_phone, address_line,
		                       city, pincode, is_default, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = tx.ExecContext(
		ctx,
		query,
		address.ID,
		address.UserID,
		address.ContactName,
		address.ContactPhone,
		address.AddressLine,
		address.City,
		address.Pincode,
		address.IsDefault,
		address.CreatedAt,
		address.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create address", "error", err, "userID", address.UserID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return nil
}

// GetByIDForUser retrieves an address only if it belongs to the given user
func (r *AddressRepository) GetByIDForUser(ctx context.Context, id, userID string) (*models.Address, error) {
	query := `
		SELECT id, user_id, contact_name, contact_phone, address_line,
		       city, pincode, is_default, created_at, updated_at
		FROM addresses
		WHERE id = $1 AND user_id = $2
	`

	var address models.Address
	err := r.db.DB.GetContext(ctx, &address, query, id, userID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to get address", "error", err, "addressID", id)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return &address, nil
}

// ListForUser retrieves all addresses for a user, default first
func (r *AddressRepository) ListForUser(ctx context.Context, userID string) ([]*models.Address, error) {
	query := `
		SELECT id, user_id, contact_name, contact_phone, address_line,
		       city, pincode, is_default, created_at, updated_at
		FROM addresses
		WHERE user_id = $1
		ORDER BY is_default DESC, updated_at DESC
	`

	var addresses []*models.Address
	err := r.db.DB.SelectContext(ctx, &addresses, query, userID)

	if err != nil {
		r.logger.Error("Failed to list addresses", "error", err, "userID", userID)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return addresses, nil
}

// Update updates an address belonging to the given user
func (r *AddressRepository) Update(ctx context.Context, address *models.Address) error {
	query := `
		UPDATE addresses
		SET contact_name = $1, contact_phone = $2, address_line = $3,
		    city = $4, pincode = $5, is_default = $6, updated_at = $7
		WHERE id = $8 AND user_id = $9
	`

	result, err := r.db.DB.ExecContext(
		ctx,
		query,
		address.ContactName,
		address.ContactPhone,
		address.AddressLine,
		address.City,
		address.Pincode,
		address.IsDefault,
		models.GetCurrentTime(),
		address.ID,
		address.UserID,
	)

	if err != nil {
		r.logger.Error("Failed to update address", "error", err, "addressID", address.ID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	rowsAffected, err := result.RowsAffected()

	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete deletes an address belonging to the given user
func (r *AddressRepository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM addresses WHERE id = $1 AND user_id = $2`

	result, err := r.db.DB.ExecContext(ctx, query, id, userID)

	if err != nil {
		r.logger.Error("Failed to delete address", "error", err, "addressID", id)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	rowsAffected, err := result.RowsAffected()

	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
