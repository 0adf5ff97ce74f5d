package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"storefront/internal/events"
	"storefront/internal/logging"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/shopspring/decimal"
)

// CatalogIndex is an external search index mirroring the catalog.
type CatalogIndex interface {
	Index(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, query string, category models.Category) ([]uint, error)
}

// ProductService handles business logic related to the catalog.
type ProductService struct {
	repo      repositories.ProductRepository
	index     CatalogIndex
	publisher events.Publisher
}

// NewProductService creates a new ProductService. index may be nil, in
// which case search runs against the database.
func NewProductService(repo repositories.ProductRepository, index CatalogIndex, publisher events.Publisher) *ProductService {
	return &ProductService{repo: repo, index: index, publisher: publisher}
}

// ProductInput holds the fields of a new product.
type ProductInput struct {
	Title       string
	Price       decimal.Decimal
	Image       string
	Category    string
	Description string
	Metadata    json.RawMessage
}

// ProductPatch holds the fields to change on an existing product. Nil
// fields are left untouched.
type ProductPatch struct {
	Title       *string
	Price       *decimal.Decimal
	Image       *string
	Category    *string
	Description *string
	Metadata    json.RawMessage
}

func (p ProductPatch) empty() bool {
	return p.Title == nil && p.Price == nil && p.Image == nil && p.Category == nil && p.Description == nil && p.Metadata == nil
}

// MaxPageSize bounds one page of the catalog listing.
const MaxPageSize = 100

// FindAll lists one page of the catalog, newest first. page and pageSize
// are 1-based. A category outside the known set is ignored.
func (s *ProductService) FindAll(ctx context.Context, category string, page, pageSize int) ([]models.Product, error) {
	if page < 1 || pageSize < 1 {
		return nil, fmt.Errorf("page and pageSize must be positive: %w", ErrValidation)
	}
	if pageSize > MaxPageSize {
		return nil, fmt.Errorf("pageSize must not exceed %d: %w", MaxPageSize, ErrValidation)
	}
	if page-1 > math.MaxInt/pageSize {
		return nil, fmt.Errorf("page %d is out of range: %w", page, ErrValidation)
	}
	cat, ok := models.ParseCategory(category)
	if !ok {
		cat = ""
	}
	return s.repo.FindAll(ctx, cat, (page-1)*pageSize, pageSize)
}

// Search returns every product whose title or description contains query,
// ignoring case, newest first.
func (s *ProductService) Search(ctx context.Context, query, category string) ([]models.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query is required: %w", ErrValidation)
	}
	cat, ok := models.ParseCategory(category)
	if !ok {
		cat = ""
	}

	if s.index != nil {
		ids, err := s.index.Search(ctx, query, cat)
		if err == nil {
			return s.repo.FindByIDs(ctx, ids)
		}
		logging.FromContext(ctx).Warn("index search failed, falling back to database", "error", err)
	}
	return s.repo.Search(ctx, query, cat)
}

// FindOne returns a single product.
func (s *ProductService) FindOne(ctx context.Context, id uint) (*models.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// Create validates and stores a new product.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("title is required: %w", ErrValidation)
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("price must not be negative: %w", ErrValidation)
	}
	cat, ok := models.ParseCategory(in.Category)
	if !ok {
		return nil, fmt.Errorf("unknown category %q: %w", in.Category, ErrValidation)
	}
	md, err := models.DecodeMetadata(cat, in.Metadata)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrValidation)
	}

	p := &models.Product{
		Title:       in.Title,
		Price:       in.Price,
		Image:       in.Image,
		Category:    cat,
		Description: in.Description,
		Metadata:    md,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.sync(ctx, p, events.ProductCreated)
	return p, nil
}

// Update applies patch to an existing product. Changing the category
// without sending new metadata drops the old metadata.
func (s *ProductService) Update(ctx context.Context, id uint, patch ProductPatch) (*models.Product, error) {
	if patch.empty() {
		return nil, fmt.Errorf("no fields to update: %w", ErrValidation)
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, fmt.Errorf("title must not be empty: %w", ErrValidation)
		}
		p.Title = *patch.Title
	}
	if patch.Price != nil {
		if patch.Price.IsNegative() {
			return nil, fmt.Errorf("price must not be negative: %w", ErrValidation)
		}
		p.Price = *patch.Price
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Category != nil {
		cat, ok := models.ParseCategory(*patch.Category)
		if !ok {
			return nil, fmt.Errorf("unknown category %q: %w", *patch.Category, ErrValidation)
		}
		if cat != p.Category {
			p.Metadata = nil
		}
		p.Category = cat
	}
	if patch.Metadata != nil {
		md, err := models.DecodeMetadata(p.Category, patch.Metadata)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, ErrValidation)
		}
		p.Metadata = md
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.sync(ctx, p, events.ProductUpdated)
	return p, nil
}

// Remove deletes a product. Past orders keep their item snapshots.
func (s *ProductService) Remove(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.index != nil {
		if err := s.index.Delete(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search index delete failed", "product_id", id, "error", err)
		}
	}
	emit(ctx, s.publisher, events.ProductDeleted, strconv.FormatUint(uint64(id), 10), map[string]uint{"productId": id})
	return nil
}

// Count returns the catalog size.
func (s *ProductService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// Reindex pushes every product into the search index and returns how many
// were written.
func (s *ProductService) Reindex(ctx context.Context, batch int) (int, error) {
	if s.index == nil {
		return 0, fmt.Errorf("no search index configured")
	}
	if batch < 1 {
		batch = 500
	}
	written := 0
	for offset := 0; ; offset += batch {
		page, err := s.repo.FindAll(ctx, "", offset, batch)
		if err != nil {
			return written, err
		}
		for i := range page {
			if err := s.index.Index(ctx, &page[i]); err != nil {
				return written, err
			}
			written++
		}
		if len(page) < batch {
			return written, nil
		}
	}
}

func (s *ProductService) sync(ctx context.Context, p *models.Product, eventType string) {
	if s.index != nil {
		if err := s.index.Index(ctx, p); err != nil {
			logging.FromContext(ctx).Warn("search index write failed", "product_id", p.ID, "error", err)
		}
	}
	emit(ctx, s.publisher, eventType, strconv.FormatUint(uint64(p.ID), 10), p)
}
