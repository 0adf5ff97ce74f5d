package repositories

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/models"

	"gorm.io/gorm"
)

// SectionRepository defines the interface for home page section access.
type SectionRepository interface {
	FindAll(ctx context.Context) ([]models.Section, error)
	FindByID(ctx context.Context, id uint) (*models.Section, error)
	Create(ctx context.Context, section *models.Section) error
	Update(ctx context.Context, section *models.Section) error
	Delete(ctx context.Context, id uint) error
}

type GORMSectionRepository struct {
	db *gorm.DB
}

func NewGORMSectionRepository(db *gorm.DB) *GORMSectionRepository {
	return &GORMSectionRepository{db: db}
}

func (r *GORMSectionRepository) FindAll(ctx context.Context) ([]models.Section, error) {
	sections := []models.Section{}
	if err := r.db.WithContext(ctx).Order("id asc").Find(&sections).Error; err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}
	return sections, nil
}

func (r *GORMSectionRepository) FindByID(ctx context.Context, id uint) (*models.Section, error) {
	var section models.Section
	if err := r.db.WithContext(ctx).First(&section, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("section %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get section %d: %w", id, err)
	}
	return &section, nil
}

func (r *GORMSectionRepository) Create(ctx context.Context, section *models.Section) error {
	if err := r.db.WithContext(ctx).Create(section).Error; err != nil {
		return fmt.Errorf("failed to create section: %w", err)
	}
	return nil
}

func (r *GORMSectionRepository) Update(ctx context.Context, section *models.Section) error {
	res := r.db.WithContext(ctx).Model(section).Select("*").Omit("id", "created_at").Updates(section)
	if res.Error != nil {
		return fmt.Errorf("failed to update section %d: %w", section.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("section %d: %w", section.ID, ErrNotFound)
	}
	return nil
}

func (r *GORMSectionRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Section{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete section %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("section %d: %w", id, ErrNotFound)
	}
	return nil
}
