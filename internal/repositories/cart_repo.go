package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository defines the interface for cart data access. Every method
// is scoped to a single user.
type CartRepository interface {
	FindByUser(ctx context.Context, userID string) ([]models.CartLine, error)
	Add(ctx context.Context, userID string, productID uint, quantity int) (*models.CartLine, error)
	SetQuantity(ctx context.Context, userID string, productID uint, quantity int) (*models.CartLine, error)
	Remove(ctx context.Context, userID string, productID uint) error
	Clear(ctx context.Context, userID string) (int64, error)
}

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

func (r *GORMCartRepository) FindByUser(ctx context.Context, userID string) ([]models.CartLine, error) {
	lines := []models.CartLine{}
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return lines, nil
}

// Add inserts the line or, when (user, product) already exists, increments
// its quantity in the same statement.
func (r *GORMCartRepository) Add(ctx context.Context, userID string, productID uint, quantity int) (*models.CartLine, error) {
	now := time.Now().UTC()
	line := &models.CartLine{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("cart_lines.quantity + excluded.quantity"),
				"updated_at": now,
			}),
		}).
		Create(line).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert cart line: %w", err)
	}
	return r.find(ctx, userID, productID)
}

// SetQuantity overwrites the quantity of an existing line.
func (r *GORMCartRepository) SetQuantity(ctx context.Context, userID string, productID uint, quantity int) (*models.CartLine, error) {
	res := r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Updates(map[string]any{"quantity": quantity, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update cart line: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("cart line for product %d: %w", productID, ErrNotFound)
	}
	return r.find(ctx, userID, productID)
}

func (r *GORMCartRepository) Remove(ctx context.Context, userID string, productID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartLine{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove cart line: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart line for product %d: %w", productID, ErrNotFound)
	}
	return nil
}

// Clear deletes every line of the user and returns how many there were.
func (r *GORMCartRepository) Clear(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartLine{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to clear cart: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *GORMCartRepository) find(ctx context.Context, userID string, productID uint) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&line).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart line for product %d: %w", productID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load cart line: %w", err)
	}
	return &line, nil
}
