package repositories

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WishlistRepository stores per-user product bookmarks.
type WishlistRepository interface {
	FindByUser(ctx context.Context, userID string) ([]models.WishlistItem, error)
	Add(ctx context.Context, userID string, productID uint) (*models.WishlistItem, error)
	Remove(ctx context.Context, userID string, productID uint) error
}

type GORMWishlistRepository struct {
	db *gorm.DB
}

func NewGORMWishlistRepository(db *gorm.DB) *GORMWishlistRepository {
	return &GORMWishlistRepository{db: db}
}

func (r *GORMWishlistRepository) FindByUser(ctx context.Context, userID string) ([]models.WishlistItem, error) {
	items := []models.WishlistItem{}
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load wishlist: %w", err)
	}
	return items, nil
}

// Add is idempotent: adding a product twice keeps a single entry.
func (r *GORMWishlistRepository) Add(ctx context.Context, userID string, productID uint) (*models.WishlistItem, error) {
	item := &models.WishlistItem{UserID: userID, ProductID: productID}
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(item).Error
	if err != nil {
		return nil, fmt.Errorf("failed to add wishlist item: %w", err)
	}

	var stored models.WishlistItem
	err = r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&stored).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("wishlist item for product %d: %w", productID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load wishlist item: %w", err)
	}
	return &stored, nil
}

func (r *GORMWishlistRepository) Remove(ctx context.Context, userID string, productID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.WishlistItem{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove wishlist item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("wishlist item for product %d: %w", productID, ErrNotFound)
	}
	return nil
}
