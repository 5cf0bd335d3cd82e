package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ahsenkhancoding/backend/internal/database"
	"github.com/ahsenkhancoding/backend/internal/models"
	"github.com/ahsenkhancoding/backend/pkg/logger"
	"github.com/jmoiron/sqlx"
)

// ProductRepository handles database operations for catalog products
type ProductRepository struct {
	db     *database.Database
	logger logger.Logger
}

// NewProductRepository creates a new ProductRepository
func NewProductRepository(db *database.Database, logger logger.Logger) *ProductRepository {
	return &ProductRepository{
		db:     db,
		logger: logger,
	}
}

// GetBySKU retrieves a product by its SKU
func (r *ProductRepository) GetBySKU(ctx context.Context, sku string) (*models.Product, error) {
	query := `
		SELECT id, sku, name, description, mrp, selling_price,
		       requires_prescription, is_available, image_url, created_at, updated_at
		FROM products
		WHERE sku = $1
	`

	var product models.Product
	err := r.db.DB.GetContext(ctx, &product, query, sku)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to get product by SKU", "error", err, "sku", sku)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return &product, nil
}

// GetBySKUs retrieves products for the given SKUs, keyed by SKU. SKUs with no
// matching product are simply absent from the result.
func (r *ProductRepository) GetBySKUs(ctx context.Context, skus []string) (map[string]*models.Product, error) {
	if len(skus) == 0 {
		return map[string]*models.Product{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, sku, name, description, mrp, selling_price,
		       requires_prescription, is_available, image_url, created_at, updated_at
		FROM products
		WHERE sku IN (?)
	`, skus)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	query = r.db.DB.Rebind(query)

	var products []*models.Product
	err = r.db.DB.SelectContext(ctx, &products, query, args...)

	if err != nil {
		r.logger.Error("Failed to get products by SKUs", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	bySKU := make(map[string]*models.Product, len(products))
	for _, p := range products {
		bySKU[p.SKU] = p
	}

	return bySKU, nil
}

// ListAvailable retrieves available products with pagination
func (r *ProductRepository) ListAvailable(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	query := `
		SELECT id, sku, name, description, mrp, selling_price,
		       requires_prescription, is_available, image_url, created_at, updated_at
		FROM products
		WHERE is_available = TRUE
		ORDER BY name, sku
		LIMIT $1 OFFSET $2
	`

	var products []*models.Product
	err := r.db.DB.SelectContext(ctx, &products, query, limit, offset)

	if err != nil {
		r.logger.Error("Failed to list products", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return products, nil
}
