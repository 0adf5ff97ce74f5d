package repositories

import (
	"context"
	"errors"

	"storefront/internal/models"
)

// ErrNotFound is returned when the addressed row does not exist, or is not
// visible to the caller.
var ErrNotFound = errors.New("record not found")

// ProductRepository defines the interface for product data access.
// An empty category means no category filter.
type ProductRepository interface {
	FindAll(ctx context.Context, category models.Category, offset, limit int) ([]models.Product, error)
	Search(ctx context.Context, query string, category models.Category) ([]models.Product, error)
	FindByID(ctx context.Context, id uint) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}
