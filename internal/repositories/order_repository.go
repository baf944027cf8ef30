package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/heartcraft/storefront/internal/models"
	"github.com/heartcraft/storefront/internal/utils"
	"github.com/shopspring/decimal"
)

var ErrEmptyCart = errors.New("cart is empty")

// InsufficientStockError reports a cart line that no longer fits the stock
// available when the order was placed.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Name      string
	Requested int
	Available int
	Inactive  bool
}

func (e *InsufficientStockError) Error() string {
	if e.Inactive {
		return fmt.Sprintf("%s is no longer available", e.Name)
	}
	return fmt.Sprintf("only %d of %s left in stock, %d requested", e.Available, e.Name, e.Requested)
}

type OrderRepository interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, shippingAddress string) (*models.Order, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error)
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

type checkoutLine struct {
	productID uuid.UUID
	name      string
	quantity  int
	price     decimal.Decimal
	stock     int
	active    bool
}

// PlaceOrder turns the user's cart into a pending order in one transaction:
// product rows are locked, stock is re-checked and decremented, the order and
// its price snapshots are inserted and the cart is emptied. Any failure rolls
// everything back.
func (r *orderRepository) PlaceOrder(ctx context.Context, userID uuid.UUID, shippingAddress string) (order *models.Order, err error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	lines, err := lockCheckoutLines(dbCtx, tx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	total := decimal.Zero
	for _, l := range lines {
		if !l.active || l.quantity > l.stock {
			return nil, &InsufficientStockError{
				ProductID: l.productID,
				Name:      l.name,
				Requested: l.quantity,
				Available: l.stock,
				Inactive:  !l.active,
			}
		}
		total = total.Add(l.price.Mul(decimal.NewFromInt(int64(l.quantity))))
	}

	order = &models.Order{
		UserID:          userID,
		TotalAmount:     total,
		Status:          models.OrderStatusPending,
		ShippingAddress: shippingAddress,
	}

	query := `
		INSERT INTO orders (user_id, total_amount, status, shipping_address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	if err = tx.QueryRowContext(dbCtx, query, userID, total, order.Status, shippingAddress).
		Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	for _, l := range lines {
		item := models.OrderItem{
			OrderID:   order.ID,
			ProductID: l.productID,
			Quantity:  l.quantity,
			UnitPrice: l.price,
		}

		query := `
			INSERT INTO order_items (order_id, product_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4)
			RETURNING id`

		if err = tx.QueryRowContext(dbCtx, query, order.ID, l.productID, l.quantity, l.price).Scan(&item.ID); err != nil {
			return nil, fmt.Errorf("failed to insert an order item: %w", err)
		}

		query = `
			UPDATE products SET stock_quantity = stock_quantity - $1, updated_at = NOW()
			WHERE id = $2`

		if _, err = tx.ExecContext(dbCtx, query, l.quantity, l.productID); err != nil {
			return nil, fmt.Errorf("failed to decrement stock: %w", err)
		}

		order.Items = append(order.Items, item)
	}

	if err = clearCartItems(dbCtx, tx, userID); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	return order, nil
}

// lockCheckoutLines reads the cart joined with its products, locking the rows
// in id order.
func lockCheckoutLines(ctx context.Context, tx *sql.Tx, userID uuid.UUID) ([]checkoutLine, error) {
	query := `
		SELECT p.id, p.name, ci.quantity, p.price, p.stock_quantity, p.is_active
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = $1
		ORDER BY p.id
		FOR UPDATE`

	rows, err := tx.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock cart lines: %w", err)
	}
	defer rows.Close()

	var lines []checkoutLine
	for rows.Next() {
		var l checkoutLine
		if err := rows.Scan(&l.productID, &l.name, &l.quantity, &l.price, &l.stock, &l.active); err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over cart lines: %w", err)
	}

	return lines, nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	order := &models.Order{ID: id}

	query := `
		SELECT user_id, total_amount, status, shipping_address, created_at, updated_at
		FROM orders
		WHERE id = $1`

	err := r.DB.QueryRowContext(dbCtx, query, id).Scan(
		&order.UserID, &order.TotalAmount, &order.Status, &order.ShippingAddress, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get the order: %w", err)
	}

	items, err := r.listOrderItems(dbCtx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

func (r *orderRepository) ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int
	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (page - 1) * size

	query := `
		SELECT id, total_amount, status, shipping_address, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(dbCtx, query, userID, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		order := models.Order{UserID: userID}
		if err := rows.Scan(&order.ID, &order.TotalAmount, &order.Status, &order.ShippingAddress, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan the orders: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating over order rows: %w", err)
	}

	for i := range orders {
		items, err := r.listOrderItems(dbCtx, orders[i].ID)
		if err != nil {
			return nil, 0, err
		}
		orders[i].Items = items
	}

	return orders, total, nil
}

func (r *orderRepository) listOrderItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	query := `
		SELECT id, product_id, quantity, unit_price
		FROM order_items
		WHERE order_id = $1
		ORDER BY id`

	rows, err := r.DB.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get the order items: %w", err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		item := models.OrderItem{OrderID: orderID}
		if err := rows.Scan(&item.ID, &item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
