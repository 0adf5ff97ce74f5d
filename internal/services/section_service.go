package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/logging"
	"storefront/internal/metrics"
	"storefront/internal/models"
	"storefront/internal/repositories"
)

const sectionsCacheKey = "storefront:sections:all"

// Cache is a JSON key/value cache.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// SectionService manages the promotional tiles of the home page. The full
// list is cached and dropped from the cache on every write.
type SectionService struct {
	repo  repositories.SectionRepository
	cache Cache
	ttl   time.Duration
}

func NewSectionService(repo repositories.SectionRepository, cache Cache, ttl time.Duration) *SectionService {
	return &SectionService{repo: repo, cache: cache, ttl: ttl}
}

// SectionInput holds section fields. Nil fields are left untouched on update.
type SectionInput struct {
	Title       *string
	Description *string
	Image       *string
	Link        *string
}

func (s *SectionService) FindAll(ctx context.Context) ([]models.Section, error) {
	l := logging.FromContext(ctx)
	if s.cache != nil {
		var cached []models.Section
		found, err := s.cache.Get(ctx, sectionsCacheKey, &cached)
		if err != nil {
			l.Warn("sections cache read failed", "error", err)
		}
		if found {
			metrics.CacheLookups.WithLabelValues("sections", "hit").Inc()
			return cached, nil
		}
		metrics.CacheLookups.WithLabelValues("sections", "miss").Inc()
	}

	sections, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, sectionsCacheKey, sections, s.ttl); err != nil {
			l.Warn("sections cache write failed", "error", err)
		}
	}
	return sections, nil
}

func (s *SectionService) FindOne(ctx context.Context, id uint) (*models.Section, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *SectionService) Create(ctx context.Context, in SectionInput) (*models.Section, error) {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, fmt.Errorf("title is required: %w", ErrValidation)
	}
	section := &models.Section{}
	apply(section, in)
	if err := s.repo.Create(ctx, section); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return section, nil
}

func (s *SectionService) Update(ctx context.Context, id uint, in SectionInput) (*models.Section, error) {
	if in.Title == nil && in.Description == nil && in.Image == nil && in.Link == nil {
		return nil, fmt.Errorf("no fields to update: %w", ErrValidation)
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, fmt.Errorf("title must not be empty: %w", ErrValidation)
	}
	section, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	apply(section, in)
	if err := s.repo.Update(ctx, section); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return section, nil
}

func (s *SectionService) Remove(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *SectionService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, sectionsCacheKey); err != nil {
		logging.FromContext(ctx).Warn("sections cache invalidation failed", "error", err)
	}
}

func apply(section *models.Section, in SectionInput) {
	if in.Title != nil {
		section.Title = *in.Title
	}
	if in.Description != nil {
		section.Description = *in.Description
	}
	if in.Image != nil {
		section.Image = *in.Image
	}
	if in.Link != nil {
		section.Link = *in.Link
	}
}
