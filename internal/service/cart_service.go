package service

import (
	"context"
	stderrors "errors"

	"github.com/ahsenkhancoding/backend/internal/models"
	"github.com/ahsenkhancoding/backend/internal/repository"
	"github.com/ahsenkhancoding/backend/pkg/errors"
	"github.com/ahsenkhancoding/backend/pkg/logger"
)

// ProductLookup resolves a single catalog product by SKU
type ProductLookup interface {
	GetBySKU(ctx context.Context, sku string) (*models.Product, error)
}

// CartService manages the user's shopping cart. Every operation returns the
// full cart priced at current selling prices.
type CartService struct {
	cartRepo *repository.CartRepository
	catalog  ProductLookup
	logger   logger.Logger
}

// NewCartService creates a new CartService
func NewCartService(cartRepo *repository.CartRepository, catalog ProductLookup, logger logger.Logger) *CartService {
	return &CartService{
		cartRepo: cartRepo,
		catalog:  catalog,
		logger:   logger,
	}
}

// GetCart returns the user's cart, creating an empty one on first access
func (s *CartService) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	return s.cartRepo.GetOrCreateForUser(ctx, userID)
}

// AddItem adds a product to the user's cart. Adding a product already in the
// cart increases the quantity of the existing line.
func (s *CartService) AddItem(ctx context.Context, userID, sku string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, errors.NewValidationError("quantity", "quantity must be at least 1")
	}

	product, err := s.catalog.GetBySKU(ctx, sku)

	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NewValidationError("sku", "Product not found or is unavailable.")
		}
		return nil, errors.NewInternalError("failed to resolve product")
	}

	if !product.IsAvailable {
		return nil, errors.NewValidationError("sku", "Product not found or is unavailable.")
	}

	cart, err := s.cartRepo.GetOrCreateForUser(ctx, userID)

	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.AddItem(ctx, cart.ID, product.ID, quantity); err != nil {
		return nil, err
	}

	s.logger.Info("Cart item added", "cartID", cart.ID, "sku", sku, "quantity", quantity)

	return s.cartRepo.GetOrCreateForUser(ctx, userID)
}

// UpdateItemQuantity sets the quantity of one of the user's cart lines
func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, itemID string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, errors.NewValidationError("quantity", "quantity must be at least 1")
	}

	cart, err := s.cartRepo.GetOrCreateForUser(ctx, userID)

	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.UpdateItemQuantity(ctx, cart.ID, itemID, quantity); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NewNotFoundError("cart item not found")
		}
		return nil, err
	}

	return s.cartRepo.GetOrCreateForUser(ctx, userID)
}

// RemoveItem deletes one of the user's cart lines
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) (*models.Cart, error) {
	cart, err := s.cartRepo.GetOrCreateForUser(ctx, userID)

	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.RemoveItem(ctx, cart.ID, itemID); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NewNotFoundError("cart item not found")
		}
		return nil, err
	}

	return s.cartRepo.GetOrCreateForUser(ctx, userID)
}

// Clear empties the user's cart
func (s *CartService) Clear(ctx context.Context, userID string) error {
	cart, err := s.cartRepo.GetOrCreateForUser(ctx, userID)

	if err != nil {
		return err
	}

	return s.cartRepo.Clear(ctx, cart.ID)
}
