package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/heartcraft/storefront/internal/api/middleware"
	"github.com/heartcraft/storefront/internal/cache"
	"github.com/heartcraft/storefront/internal/catalog"
	"github.com/heartcraft/storefront/internal/config"
	appErrors "github.com/heartcraft/storefront/internal/errors"
	"github.com/heartcraft/storefront/internal/metrics"
	"github.com/heartcraft/storefront/internal/models"
	repository "github.com/heartcraft/storefront/internal/repositories"
)

type CatalogService interface {
	ListProducts(ctx context.Context, query catalog.Query) (*models.ProductListResponse, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	// Invalidate drops cached catalog data after stock or prices change.
	Invalidate(ctx context.Context)
}

type catalogService struct {
	repo  repository.ProductRepository
	cache cache.Cache
	cfg   *config.CacheConfig
}

func NewCatalogService(repo repository.ProductRepository, cache cache.Cache, cfg *config.CacheConfig) CatalogService {
	return &catalogService{repo: repo, cache: cache, cfg: cfg}
}

func (s *catalogService) ListProducts(ctx context.Context, query catalog.Query) (*models.ProductListResponse, error) {

	products, err := s.activeProducts(ctx)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to load products").WithError(err)
	}

	filtered := catalog.Filter(products, query)

	return &models.ProductListResponse{Products: filtered, Total: len(filtered)}, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Product not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to load product").WithError(err)
	}

	if !product.IsActive {
		return nil, appErrors.NotFoundError("Product not found")
	}

	return product, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]models.Category, error) {

	var categories []models.Category
	if s.fromCache(ctx, cache.CatalogCategoriesKey, &categories) {
		return categories, nil
	}

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to load categories").WithError(err)
	}

	s.toCache(ctx, cache.CatalogCategoriesKey, categories)

	return categories, nil
}

func (s *catalogService) Invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, cache.CatalogProductsKey, cache.CatalogCategoriesKey); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Failed to invalidate catalog cache", slog.String("error", err.Error()))
	}
}

func (s *catalogService) activeProducts(ctx context.Context) ([]models.Product, error) {

	var products []models.Product
	if s.fromCache(ctx, cache.CatalogProductsKey, &products) {
		return products, nil
	}

	products, err := s.repo.ListActiveProducts(ctx)
	if err != nil {
		return nil, err
	}

	s.toCache(ctx, cache.CatalogProductsKey, products)

	return products, nil
}

// fromCache treats a cache failure as a miss; the database stays the source
// of truth.
func (s *catalogService) fromCache(ctx context.Context, key string, dest any) bool {
	found, err := s.cache.Get(ctx, key, dest)
	switch {
	case err != nil:
		metrics.CatalogCacheRequestsTotal.WithLabelValues("error").Inc()
		middleware.LoggerFromContext(ctx).Warn("Catalog cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		return false
	case !found:
		metrics.CatalogCacheRequestsTotal.WithLabelValues("miss").Inc()
		return false
	default:
		metrics.CatalogCacheRequestsTotal.WithLabelValues("hit").Inc()
		return true
	}
}

func (s *catalogService) toCache(ctx context.Context, key string, value any) {
	if err := s.cache.Set(ctx, key, value, s.cfg.CatalogTTL); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Catalog cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}
