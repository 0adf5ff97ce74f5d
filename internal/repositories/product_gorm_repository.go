package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{db: db}
}

// FindAll returns one page of products, newest id first.
func (r *GORMProductRepository) FindAll(ctx context.Context, category models.Category, offset, limit int) ([]models.Product, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})
	if category != "" {
		q = q.Where("category = ?", category)
	}
	products := []models.Product{}
	if err := q.Order("id desc").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// likeEscaper neutralizes LIKE wildcards so user input matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern builds the lower-cased LIKE pattern for a substring match.
func ContainsPattern(query string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
}

// Search matches query as a case-insensitive substring of title or description.
func (r *GORMProductRepository) Search(ctx context.Context, query string, category models.Category) ([]models.Product, error) {
	pattern := ContainsPattern(query)
	q := r.db.WithContext(ctx).
		Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, pattern, pattern)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	products := []models.Product{}
	if err := q.Order("id desc").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

// FindByID retrieves a single product.
func (r *GORMProductRepository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return &product, nil
}

// FindByIDs loads the given products, newest id first. Unknown ids are skipped.
func (r *GORMProductRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	products := []models.Product{}
	if len(ids) == 0 {
		return products, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id desc").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to load products by id: %w", err)
	}
	return products, nil
}

// Create inserts a new product and fills in its id.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update writes every column of an existing product.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).Model(product).Select("*").Omit("id", "created_at").Updates(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product %d: %w", product.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %d: %w", product.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a product. Cart and wishlist rows referencing it go with it.
func (r *GORMProductRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.CartLine{}).Error; err != nil {
			return fmt.Errorf("failed to delete cart lines of product %d: %w", id, err)
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.WishlistItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete wishlist items of product %d: %w", id, err)
		}
		res := tx.Delete(&models.Product{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete product %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil
	})
}

// Count returns the number of products in the catalog.
func (r *GORMProductRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}
