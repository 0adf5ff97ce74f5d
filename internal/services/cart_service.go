package services

import (
	"context"
	"fmt"

	"storefront/internal/events"
	"storefront/internal/metrics"
	"storefront/internal/models"
	"storefront/internal/repositories"
)

// CartService handles business logic related to carts.
type CartService struct {
	repo      repositories.CartRepository
	publisher events.Publisher
}

// NewCartService creates a new CartService.
func NewCartService(repo repositories.CartRepository, publisher events.Publisher) *CartService {
	return &CartService{repo: repo, publisher: publisher}
}

type cartLineEvent struct {
	UserID    string `json:"userId"`
	ProductID uint   `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// GetCart returns every line of the user's cart with current product data.
func (s *CartService) GetCart(ctx context.Context, userID string) ([]models.CartLine, error) {
	return s.repo.FindByUser(ctx, userID)
}

// AddToCart adds quantity of a product to the cart, merging with an
// existing line for the same product.
func (s *CartService) AddToCart(ctx context.Context, userID string, productID uint, quantity int) (*models.CartLine, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", ErrValidation)
	}
	line, err := s.repo.Add(ctx, userID, productID, quantity)
	if err != nil {
		return nil, err
	}
	metrics.CartMutations.WithLabelValues("add").Inc()
	emit(ctx, s.publisher, events.CartItemAdded, userID, cartLineEvent{UserID: userID, ProductID: productID, Quantity: line.Quantity})
	return line, nil
}

// UpdateItemQuantity sets the quantity of an existing line.
func (s *CartService) UpdateItemQuantity(ctx context.Context, userID string, productID uint, quantity int) (*models.CartLine, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", ErrValidation)
	}
	line, err := s.repo.SetQuantity(ctx, userID, productID, quantity)
	if err != nil {
		return nil, err
	}
	metrics.CartMutations.WithLabelValues("update").Inc()
	emit(ctx, s.publisher, events.CartItemUpdated, userID, cartLineEvent{UserID: userID, ProductID: productID, Quantity: quantity})
	return line, nil
}

// RemoveFromCart deletes one line. Removing a product that is not in the
// cart is ErrNotFound.
func (s *CartService) RemoveFromCart(ctx context.Context, userID string, productID uint) error {
	if err := s.repo.Remove(ctx, userID, productID); err != nil {
		return err
	}
	metrics.CartMutations.WithLabelValues("remove").Inc()
	emit(ctx, s.publisher, events.CartItemRemoved, userID, cartLineEvent{UserID: userID, ProductID: productID})
	return nil
}

// ClearCart empties the cart and returns how many lines were removed.
// Clearing an empty cart succeeds.
func (s *CartService) ClearCart(ctx context.Context, userID string) (int64, error) {
	n, err := s.repo.Clear(ctx, userID)
	if err != nil {
		return 0, err
	}
	metrics.CartMutations.WithLabelValues("clear").Inc()
	if n > 0 {
		emit(ctx, s.publisher, events.CartCleared, userID, map[string]any{"userId": userID, "count": n})
	}
	return n, nil
}
