package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/database/dbtest"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const sectionsKey = "storefront:sections:all"

func strPtr(s string) *string { return &s }

func TestSectionService_ServesListFromCache(t *testing.T) {
	cache := new(MockCache)
	service := services.NewSectionService(repositories.NewGORMSectionRepository(dbtest.New(t)), cache, time.Minute)
	ctx := context.Background()

	cache.On("Get", ctx, sectionsKey, mock.Anything).Run(func(args mock.Arguments) {
		*args.Get(2).(*[]models.Section) = []models.Section{{ID: 1, Title: "Cached"}}
	}).Return(true, nil).Once()

	sections, err := service.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "Cached", sections[0].Title)
	cache.AssertExpectations(t)
}

func TestSectionService_FillsCacheOnMissAndInvalidatesOnWrite(t *testing.T) {
	cache := new(MockCache)
	service := services.NewSectionService(repositories.NewGORMSectionRepository(dbtest.New(t)), cache, time.Minute)
	ctx := context.Background()

	cache.On("Delete", ctx, []string{sectionsKey}).Return(nil).Twice()
	created, err := service.Create(ctx, services.SectionInput{Title: strPtr("Summer"), Link: strPtr("/products?category=COSPLAY")})
	require.NoError(t, err)

	cache.On("Get", ctx, sectionsKey, mock.Anything).Return(false, errors.New("redis down")).Once()
	cache.On("Set", ctx, sectionsKey, mock.Anything, time.Minute).Return(nil).Once()
	sections, err := service.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, created.ID, sections[0].ID)

	updated, err := service.Update(ctx, created.ID, services.SectionInput{Description: strPtr("Cosplay week")})
	require.NoError(t, err)
	assert.Equal(t, "Summer", updated.Title)
	assert.Equal(t, "Cosplay week", updated.Description)

	cache.AssertExpectations(t)
}

func TestSectionService_Validation(t *testing.T) {
	service := services.NewSectionService(repositories.NewGORMSectionRepository(dbtest.New(t)), nil, time.Minute)
	ctx := context.Background()

	_, err := service.Create(ctx, services.SectionInput{})
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = service.Update(ctx, 1, services.SectionInput{})
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = service.Update(ctx, 1, services.SectionInput{Title: strPtr("x")})
	assert.ErrorIs(t, err, services.ErrNotFound)

	assert.ErrorIs(t, service.Remove(ctx, 1), services.ErrNotFound)
}
