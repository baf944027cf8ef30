package service_test

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/heartcraft/storefront/internal/cache"
	cacheMocks "github.com/heartcraft/storefront/internal/cache/mocks"
	"github.com/heartcraft/storefront/internal/catalog"
	"github.com/heartcraft/storefront/internal/config"
	appErrors "github.com/heartcraft/storefront/internal/errors"
	"github.com/heartcraft/storefront/internal/models"
	"github.com/heartcraft/storefront/internal/repositories/mocks"
	service "github.com/heartcraft/storefront/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupCatalogService() (service.CatalogService, *mocks.ProductRepository, *cacheMocks.Cache) {
	repo := new(mocks.ProductRepository)
	c := new(cacheMocks.Cache)
	cfg := &config.CacheConfig{DefaultTTL: 5 * time.Minute, CatalogTTL: time.Minute}

	return service.NewCatalogService(repo, c, cfg), repo, c
}

func TestCatalogService_ListProducts(t *testing.T) {
	products := []models.Product{journal(), card()}

	t.Run("Success - Cache miss loads from database and fills cache", func(t *testing.T) {
		// Arrange
		svc, repo, c := setupCatalogService()
		c.On("Get", mock.Anything, cache.CatalogProductsKey, mock.Anything).Return(false, nil).Once()
		repo.On("ListActiveProducts", mock.Anything).Return(products, nil).Once()
		c.On("Set", mock.Anything, cache.CatalogProductsKey, products, time.Minute).Return(nil).Once()

		// Act
		resp, err := svc.ListProducts(t.Context(), catalog.Query{Search: "journal"})

		// Assert
		require.NoError(t, err)
		require.Len(t, resp.Products, 1)
		assert.Equal(t, 1, resp.Total)
		assert.Equal(t, journalID, resp.Products[0].ID)
		repo.AssertExpectations(t)
		c.AssertExpectations(t)
	})

	t.Run("Success - Cache hit skips database", func(t *testing.T) {
		svc, repo, c := setupCatalogService()
		c.On("Get", mock.Anything, cache.CatalogProductsKey, mock.Anything).Return(true, nil, products).Once()

		resp, err := svc.ListProducts(t.Context(), catalog.Query{Category: "Greeting Cards"})

		require.NoError(t, err)
		require.Len(t, resp.Products, 1)
		assert.Equal(t, cardID, resp.Products[0].ID)
		repo.AssertNotCalled(t, "ListActiveProducts", mock.Anything)
	})

	t.Run("Success - Cache failure falls through to database", func(t *testing.T) {
		svc, repo, c := setupCatalogService()
		c.On("Get", mock.Anything, cache.CatalogProductsKey, mock.Anything).Return(false, errors.New("redis down")).Once()
		repo.On("ListActiveProducts", mock.Anything).Return(products, nil).Once()
		c.On("Set", mock.Anything, cache.CatalogProductsKey, products, time.Minute).Return(errors.New("redis down")).Once()

		resp, err := svc.ListProducts(t.Context(), catalog.Query{Sort: catalog.SortByPriceLow})

		require.NoError(t, err)
		require.Len(t, resp.Products, 2)
		assert.Equal(t, cardID, resp.Products[0].ID)
		assert.Equal(t, journalID, resp.Products[1].ID)
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		svc, repo, c := setupCatalogService()
		c.On("Get", mock.Anything, cache.CatalogProductsKey, mock.Anything).Return(false, nil).Once()
		repo.On("ListActiveProducts", mock.Anything).Return(nil, errors.New("connection reset")).Once()

		resp, err := svc.ListProducts(t.Context(), catalog.Query{})

		assert.Nil(t, resp)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeDatabaseError))
		assert.Equal(t, "Failed to load products", err.Error())
		c.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCatalogService_GetProduct(t *testing.T) {

	t.Run("Success", func(t *testing.T) {
		svc, repo, _ := setupCatalogService()
		p := journal()
		repo.On("GetProductByID", mock.Anything, journalID).Return(&p, nil).Once()

		product, err := svc.GetProduct(t.Context(), journalID)

		require.NoError(t, err)
		assert.Equal(t, "Recycled Paper Journal", product.Name)
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		svc, repo, _ := setupCatalogService()
		id := uuid.New()
		repo.On("GetProductByID", mock.Anything, id).Return(nil, sql.ErrNoRows).Once()

		_, err := svc.GetProduct(t.Context(), id)

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeNotFound))
	})

	t.Run("Failure - Inactive product is hidden", func(t *testing.T) {
		svc, repo, _ := setupCatalogService()
		p := journal()
		p.IsActive = false
		repo.On("GetProductByID", mock.Anything, journalID).Return(&p, nil).Once()

		_, err := svc.GetProduct(t.Context(), journalID)

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeNotFound))
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		svc, repo, _ := setupCatalogService()
		repo.On("GetProductByID", mock.Anything, journalID).Return(nil, errors.New("timeout")).Once()

		_, err := svc.GetProduct(t.Context(), journalID)

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeDatabaseError))
	})
}

func TestCatalogService_ListCategories(t *testing.T) {
	categories := []models.Category{{ID: uuid.New(), Name: "Gift Sets"}, {ID: uuid.New(), Name: "Greeting Cards"}}

	t.Run("Success - Cached after first load", func(t *testing.T) {
		svc, repo, c := setupCatalogService()
		c.On("Get", mock.Anything, cache.CatalogCategoriesKey, mock.Anything).Return(false, nil).Once()
		repo.On("ListCategories", mock.Anything).Return(categories, nil).Once()
		c.On("Set", mock.Anything, cache.CatalogCategoriesKey, categories, time.Minute).Return(nil).Once()

		got, err := svc.ListCategories(t.Context())

		require.NoError(t, err)
		assert.Equal(t, categories, got)
		c.AssertExpectations(t)
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		svc, repo, c := setupCatalogService()
		c.On("Get", mock.Anything, cache.CatalogCategoriesKey, mock.Anything).Return(false, nil).Once()
		repo.On("ListCategories", mock.Anything).Return(nil, errors.New("boom")).Once()

		_, err := svc.ListCategories(t.Context())

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeDatabaseError))
	})
}

func TestCatalogService_Invalidate(t *testing.T) {
	svc, _, c := setupCatalogService()
	c.On("Delete", mock.Anything, []string{cache.CatalogProductsKey, cache.CatalogCategoriesKey}).Return(errors.New("ignored")).Once()

	svc.Invalidate(t.Context())

	c.AssertExpectations(t)
}
