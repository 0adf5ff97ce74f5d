package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"storefront/internal/models"
	"storefront/internal/search"
	"storefront/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProductService_FindAllComputesOffset(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, nil)
	ctx := context.Background()

	expected := []models.Product{{ID: 20}, {ID: 19}}
	mockRepo.On("FindAll", ctx, models.CategoryGaming, 10, 10).Return(expected, nil).Once()

	products, err := service.FindAll(ctx, "gaming", 2, 10)

	assert.NoError(t, err)
	assert.Equal(t, expected, products)
	mockRepo.AssertExpectations(t)
}

func TestProductService_FindAllIgnoresUnknownCategory(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, nil)
	ctx := context.Background()

	mockRepo.On("FindAll", ctx, models.Category(""), 0, 5).Return([]models.Product{}, nil).Once()

	_, err := service.FindAll(ctx, "FURNITURE", 1, 5)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestProductService_FindAllRejectsNonPositivePaging(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, nil)

	_, err := service.FindAll(context.Background(), "", 0, 10)
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = service.FindAll(context.Background(), "", 1, 0)
	assert.ErrorIs(t, err, services.ErrValidation)

	mockRepo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProductService_FindAllBoundsPaging(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, nil)
	ctx := context.Background()

	_, err := service.FindAll(ctx, "", 1, services.MaxPageSize+1)
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = service.FindAll(ctx, "", math.MaxInt, services.MaxPageSize)
	assert.ErrorIs(t, err, services.ErrValidation)

	mockRepo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	mockRepo.On("FindAll", ctx, models.Category(""), 0, services.MaxPageSize).Return([]models.Product{}, nil).Once()
	_, err = service.FindAll(ctx, "", 1, services.MaxPageSize)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestProductService_SearchRequiresQuery(t *testing.T) {
	service := services.NewProductService(new(MockProductRepository), nil, nil)

	_, err := service.Search(context.Background(), "   ", "")
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestProductService_SearchUsesDatabaseWithoutIndex(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, nil)
	ctx := context.Background()

	mockRepo.On("Search", ctx, "neko", models.CategoryAnime).Return([]models.Product{{ID: 3}}, nil).Once()

	products, err := service.Search(ctx, " neko ", "anime")
	require.NoError(t, err)
	assert.Len(t, products, 1)
	mockRepo.AssertExpectations(t)
}

func TestProductService_SearchUsesIndexAndFallsBack(t *testing.T) {
	mockRepo := new(MockProductRepository)
	index := new(MockCatalogIndex)
	service := services.NewProductService(mockRepo, index, nil)
	ctx := context.Background()

	index.On("Search", ctx, "dice", models.Category("")).Return([]uint{9, 4}, nil).Once()
	mockRepo.On("FindByIDs", ctx, []uint{9, 4}).Return([]models.Product{{ID: 9}, {ID: 4}}, nil).Once()

	products, err := service.Search(ctx, "dice", "")
	require.NoError(t, err)
	assert.Len(t, products, 2)

	index.On("Search", ctx, "dice", models.Category("")).Return(nil, errors.New("cluster down")).Once()
	mockRepo.On("Search", ctx, "dice", models.Category("")).Return([]models.Product{{ID: 9}}, nil).Once()

	products, err = service.Search(ctx, "dice", "")
	require.NoError(t, err)
	assert.Len(t, products, 1)

	index.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestProductService_SearchFallsBackWhenIndexWouldTruncate(t *testing.T) {
	mockRepo := new(MockProductRepository)
	index := new(MockCatalogIndex)
	service := services.NewProductService(mockRepo, index, nil)
	ctx := context.Background()

	index.On("Search", ctx, "figure", models.CategoryCollectibles).Return(nil, search.ErrTooManyHits).Once()
	mockRepo.On("Search", ctx, "figure", models.CategoryCollectibles).Return([]models.Product{{ID: 3}, {ID: 2}, {ID: 1}}, nil).Once()

	products, err := service.Search(ctx, "figure", "collectibles")
	require.NoError(t, err)
	assert.Len(t, products, 3)
	mockRepo.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
	index.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateValidates(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, nil)
	ctx := context.Background()

	cases := []services.ProductInput{
		{Title: "", Price: decimal.NewFromInt(1), Category: "ANIME"},
		{Title: "x", Price: decimal.NewFromInt(-1), Category: "ANIME"},
		{Title: "x", Price: decimal.NewFromInt(1), Category: "TOYS"},
		{Title: "x", Price: decimal.NewFromInt(1), Category: "GAMING", Metadata: json.RawMessage(`{"rarity":"rare"}`)},
	}
	for _, in := range cases {
		_, err := service.Create(ctx, in)
		assert.ErrorIs(t, err, services.ErrValidation, in.Title)
	}
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductService_CreateIndexesAndPublishes(t *testing.T) {
	mockRepo := new(MockProductRepository)
	index := new(MockCatalogIndex)
	pub := new(MockPublisher)
	service := services.NewProductService(mockRepo, index, pub)
	ctx := context.Background()

	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.Product")).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Product).ID = 42
	}).Return(nil).Once()
	index.On("Index", ctx, mock.AnythingOfType("*models.Product")).Return(errors.New("index down")).Once()
	pub.On("Publish", mock.Anything, eventOfType("product.created")).Return(nil).Once()

	p, err := service.Create(ctx, services.ProductInput{
		Title:    "Switch game",
		Price:    decimal.RequireFromString("59.99"),
		Category: "gaming",
		Metadata: json.RawMessage(`{"platform":"Switch"}`),
	})

	require.NoError(t, err)
	assert.Equal(t, uint(42), p.ID)
	assert.Equal(t, models.CategoryGaming, p.Category)
	md, ok := p.Metadata.(*models.GamingMetadata)
	require.True(t, ok)
	assert.Equal(t, "Switch", md.Platform)
	mockRepo.AssertExpectations(t)
	index.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestProductService_UpdatePatchesFields(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, nil)
	ctx := context.Background()

	existing := &models.Product{
		ID:       5,
		Title:    "Old",
		Price:    decimal.NewFromInt(10),
		Category: models.CategoryAnime,
		Metadata: &models.AnimeMetadata{RegionCode: "JP"},
	}
	mockRepo.On("FindByID", ctx, uint(5)).Return(existing, nil).Once()
	mockRepo.On("Update", ctx, existing).Return(nil).Once()

	price := decimal.NewFromInt(12)
	category := "MANGA"
	updated, err := service.Update(ctx, 5, services.ProductPatch{Price: &price, Category: &category})

	require.NoError(t, err)
	assert.Equal(t, "Old", updated.Title)
	assert.True(t, updated.Price.Equal(price))
	assert.Equal(t, models.CategoryManga, updated.Category)
	assert.Nil(t, updated.Metadata)
	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdateRejectsEmptyPatchAndMissingProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, nil)
	ctx := context.Background()

	_, err := service.Update(ctx, 1, services.ProductPatch{})
	assert.ErrorIs(t, err, services.ErrValidation)

	title := "New"
	mockRepo.On("FindByID", ctx, uint(99)).Return(nil, services.ErrNotFound).Once()
	_, err = service.Update(ctx, 99, services.ProductPatch{Title: &title})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestProductService_RemoveDeletesFromIndex(t *testing.T) {
	mockRepo := new(MockProductRepository)
	index := new(MockCatalogIndex)
	service := services.NewProductService(mockRepo, index, nil)
	ctx := context.Background()

	mockRepo.On("Delete", ctx, uint(8)).Return(nil).Once()
	index.On("Delete", ctx, uint(8)).Return(nil).Once()

	require.NoError(t, service.Remove(ctx, 8))

	mockRepo.On("Delete", ctx, uint(9)).Return(services.ErrNotFound).Once()
	assert.ErrorIs(t, service.Remove(ctx, 9), services.ErrNotFound)

	mockRepo.AssertExpectations(t)
	index.AssertExpectations(t)
}

func TestProductService_Reindex(t *testing.T) {
	mockRepo := new(MockProductRepository)
	index := new(MockCatalogIndex)
	service := services.NewProductService(mockRepo, index, nil)
	ctx := context.Background()

	mockRepo.On("FindAll", ctx, models.Category(""), 0, 2).Return([]models.Product{{ID: 3}, {ID: 2}}, nil).Once()
	mockRepo.On("FindAll", ctx, models.Category(""), 2, 2).Return([]models.Product{{ID: 1}}, nil).Once()
	index.On("Index", ctx, mock.AnythingOfType("*models.Product")).Return(nil).Times(3)

	n, err := service.Reindex(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = services.NewProductService(mockRepo, nil, nil).Reindex(ctx, 2)
	assert.Error(t, err)
}
