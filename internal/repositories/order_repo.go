package repositories

import (
	"context"

	"storefront/internal/models"
)

// OrderRepository defines the interface for order data access. Reads and
// deletes that take a user id only see that user's orders.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByUser(ctx context.Context, userID string) ([]models.Order, error)
	FindOne(ctx context.Context, id, userID string) (*models.Order, error)
	FindByID(ctx context.Context, id string) (*models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error)
	Delete(ctx context.Context, id, userID string) error
	Stats(ctx context.Context) (models.OrderStats, error)
}
