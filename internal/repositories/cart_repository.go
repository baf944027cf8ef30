package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/heartcraft/storefront/internal/models"
	"github.com/heartcraft/storefront/internal/utils"
)

// CartRepository stores cart lines. Reads join the live product row so price
// and stock are always current.
type CartRepository interface {
	ListItems(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	GetItem(ctx context.Context, userID, itemID uuid.UUID) (*models.CartItem, error)
	UpsertItem(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error
	DeleteItem(ctx context.Context, userID, itemID uuid.UUID) error
}

type cartRepository struct {
	DB *sql.DB
}

func NewCartRepo(db *sql.DB) CartRepository {
	return &cartRepository{DB: db}
}

const cartItemSelect = `
	SELECT ci.id, ci.user_id, ci.product_id, ci.quantity, ci.created_at, ci.updated_at,` + productColumns + `
	FROM cart_items ci
	JOIN products p ON p.id = ci.product_id
	LEFT JOIN artisans a ON a.id = p.artisan_id
	LEFT JOIN categories c ON c.id = p.category_id`

func scanCartItem(row rowScanner, item *models.CartItem) error {
	var artisanID, categoryID uuid.NullUUID
	p := &item.Product

	err := row.Scan(
		&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
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

func (r *cartRepository) ListItems(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := cartItemSelect + `
		WHERE ci.user_id = $1
		ORDER BY ci.created_at, ci.id`

	rows, err := r.DB.QueryContext(dbCtx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	items := []models.CartItem{}
	for rows.Next() {
		var item models.CartItem
		if err := scanCartItem(rows, &item); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over cart rows: %w", err)
	}

	return items, nil
}

func (r *cartRepository) GetItem(ctx context.Context, userID, itemID uuid.UUID) (*models.CartItem, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := cartItemSelect + `
		WHERE ci.id = $1 AND ci.user_id = $2`

	var item models.CartItem
	if err := scanCartItem(r.DB.QueryRowContext(dbCtx, query, itemID, userID), &item); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}

	return &item, nil
}

// UpsertItem sets the quantity of the user's line for productID, creating the
// line when it does not exist yet.
func (r *cartRepository) UpsertItem(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO cart_items (user_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = NOW()`

	if _, err := r.DB.ExecContext(dbCtx, query, userID, productID, quantity); err != nil {
		return fmt.Errorf("failed to save cart item: %w", err)
	}

	return nil
}

func (r *cartRepository) UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE cart_items SET quantity = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3`

	result, err := r.DB.ExecContext(dbCtx, query, quantity, itemID, userID)
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}

	return requireAffected(result)
}

func (r *cartRepository) DeleteItem(ctx context.Context, userID, itemID uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM cart_items WHERE id = $1 AND user_id = $2`, itemID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	return requireAffected(result)
}

// clearCartItems removes every line of the user's cart. It only runs as the
// last statement of the checkout transaction.
func clearCartItems(ctx context.Context, tx *sql.Tx, userID uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}

// requireAffected maps a write that touched no rows to sql.ErrNoRows.
func requireAffected(result sql.Result) error {
	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 0 {
		return sql.ErrNoRows
	}

	return nil
}
