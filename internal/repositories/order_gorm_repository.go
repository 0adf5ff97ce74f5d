package repositories

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/models"

	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

// Create writes the order header and all of its items in one transaction.
// If any insert fails nothing is kept.
func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		for i := range order.Items {
			order.Items[i].OrderID = order.ID
			if err := tx.Create(&order.Items[i]).Error; err != nil {
				return fmt.Errorf("failed to create order item %d: %w", i, err)
			}
		}
		return nil
	})
}

// FindByUser returns the user's orders, most recent first.
func (r *GORMOrderRepository) FindByUser(ctx context.Context, userID string) ([]models.Order, error) {
	orders := []models.Order{}
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("date desc").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// FindOne looks the order up by id and owner together, so an order owned by
// someone else is indistinguishable from a missing one.
func (r *GORMOrderRepository) FindOne(ctx context.Context, id, userID string) (*models.Order, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID), id)
}

func (r *GORMOrderRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id), id)
}

func (r *GORMOrderRepository) first(q *gorm.DB, id string) (*models.Order, error) {
	var order models.Order
	if err := q.Preload("Items").First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	return &order, nil
}

// UpdateStatus overwrites the status regardless of the current one.
func (r *GORMOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update status of order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	return r.FindByID(ctx, id)
}

// Delete removes an owned order together with its items.
func (r *GORMOrderRepository) Delete(ctx context.Context, id, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Order{}).Where("id = ? AND user_id = ?", id, userID).Count(&n).Error; err != nil {
			return fmt.Errorf("failed to look up order %s: %w", id, err)
		}
		if n == 0 {
			return fmt.Errorf("order %s: %w", id, ErrNotFound)
		}
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete items of order %s: %w", id, err)
		}
		if err := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Order{}).Error; err != nil {
			return fmt.Errorf("failed to delete order %s: %w", id, err)
		}
		return nil
	})
}

// Stats counts all orders and sums their stored totals.
func (r *GORMOrderRepository) Stats(ctx context.Context) (models.OrderStats, error) {
	var stats models.OrderStats
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COUNT(*) AS total_orders, COALESCE(SUM(total), 0) AS total_revenue").
		Scan(&stats).Error
	if err != nil {
		return models.OrderStats{}, fmt.Errorf("failed to aggregate orders: %w", err)
	}
	return stats, nil
}
