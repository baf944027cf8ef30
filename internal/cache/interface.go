package cache

import (
	"context"
	"time"
)

type Cache interface {
	// Get decodes the cached JSON into value and reports whether the key existed.
	Get(ctx context.Context, key string, value any) (bool, error)
	// Set stores value as JSON. A non-positive ttl uses the configured default.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

func Key(prefix string, id string) string {
	return prefix + ":" + id
}

const (
	CatalogKeyPrefix = "catalog"
)

var (
	CatalogProductsKey   = Key(CatalogKeyPrefix, "products")
	CatalogCategoriesKey = Key(CatalogKeyPrefix, "categories")
)
