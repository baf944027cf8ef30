package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/heartcraft/storefront/internal/models"
	"github.com/heartcraft/storefront/internal/utils"
)

type ProductRepository interface {
	ListActiveProducts(ctx context.Context) ([]models.Product, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

const productColumns = `
	p.id, p.name, p.description, p.price, p.image_url, p.rating, p.review_count,
	p.stock_quantity, p.is_active, p.created_at, p.updated_at,
	a.id, COALESCE(a.name, ''), COALESCE(a.background, ''),
	c.id, COALESCE(c.name, '')`

const productJoins = `
	FROM products p
	LEFT JOIN artisans a ON a.id = p.artisan_id
	LEFT JOIN categories c ON c.id = p.category_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner, p *models.Product) error {
	var artisanID, categoryID uuid.NullUUID

	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.Rating, &p.ReviewCount,
		&p.StockQuantity, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		&artisanID, &p.Artisan.Name, &p.Artisan.Background,
		&categoryID, &p.Category.Name,
	)
	if err != nil {
		return err
	}

	p.Artisan.ID = artisanID.UUID
	p.Category.ID = categoryID.UUID

	return nil
}

func (r *productRepository) ListActiveProducts(ctx context.Context) ([]models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT` + productColumns + productJoins + `
		WHERE p.is_active = TRUE
		ORDER BY p.name`

	rows, err := r.DB.QueryContext(dbCtx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over product rows: %w", err)
	}

	return products, nil
}

// GetProductByID returns sql.ErrNoRows when no product has the id. Inactive
// products are returned; callers decide whether to hide them.
func (r *productRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT` + productColumns + productJoins + `
		WHERE p.id = $1`

	var p models.Product
	if err := scanProduct(r.DB.QueryRowContext(dbCtx, query, id), &p); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &p, nil
}

func (r *productRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	rows, err := r.DB.QueryContext(dbCtx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}
