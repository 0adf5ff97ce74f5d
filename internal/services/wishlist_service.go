package services

import (
	"context"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// WishlistService keeps the set of products a user has saved.
type WishlistService struct {
	repo repositories.WishlistRepository
}

func NewWishlistService(repo repositories.WishlistRepository) *WishlistService {
	return &WishlistService{repo: repo}
}

func (s *WishlistService) GetWishlist(ctx context.Context, userID string) ([]models.WishlistItem, error) {
	return s.repo.FindByUser(ctx, userID)
}

// Add saves a product. Saving it again is a no-op.
func (s *WishlistService) Add(ctx context.Context, userID string, productID uint) (*models.WishlistItem, error) {
	return s.repo.Add(ctx, userID, productID)
}

func (s *WishlistService) Remove(ctx context.Context, userID string, productID uint) error {
	return s.repo.Remove(ctx, userID, productID)
}
