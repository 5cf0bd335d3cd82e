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

// DeliveryOptionRepository handles database operations for delivery options
type DeliveryOptionRepository struct {
	db     *database.Database
	logger logger.Logger
}

// NewDeliveryOptionRepository creates a new DeliveryOptionRepository
func NewDeliveryOptionRepository(db *database.Database, logger logger.Logger) *DeliveryOptionRepository {
	return &DeliveryOptionRepository{
		db:     db,
		logger: logger,
	}
}

// GetActiveByID retrieves a delivery option only if it is active
func (r *DeliveryOptionRepository) GetActiveByID(ctx context.Context, id int64) (*models.DeliveryOption, error) {
	query := `
		SELECT id, name, estimated_delivery_time, base_charge, logo_url,
		       is_active, created_at, updated_at
		FROM delivery_options
		WHERE id = $1 AND is_active = TRUE
	`

	var option models.DeliveryOption
	err := r.db.DB.GetContext(ctx, &option, query, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to get delivery option", "error", err, "optionID", id)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return &option, nil
}

// GetByID retrieves a delivery option regardless of active flag, used when
// rendering orders that reference a since-deactivated option.
func (r *DeliveryOptionRepository) GetByID(ctx context.Context, id int64) (*models.DeliveryOption, error) {
	query := `
		SELECT id, name, estimated_delivery_time, base_charge, logo_url,
		       is_active, created_at, updated_at
		FROM delivery_options
		WHERE id = $1
	`

	var option models.DeliveryOption
	err := r.db.DB.GetContext(ctx, &option, query, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to get delivery option", "error", err, "optionID", id)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return &option, nil
}

// ListActive retrieves all active delivery options ordered by name
func (r *DeliveryOptionRepository) ListActive(ctx context.Context) ([]*models.DeliveryOption, error) {
	query := `
		SELECT id, name, estimated_delivery_time, base_charge, logo_url,
		       is_active, created_at, updated_at
		FROM delivery_options
		WHERE is_active = TRUE
		ORDER BY name
	`

	var options []*models.DeliveryOption
	err := r.db.DB.SelectContext(ctx, &options, query)

	if err != nil {
		r.logger.Error("Failed to list delivery options", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return options, nil
}
