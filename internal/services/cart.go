package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/heartcraft/storefront/internal/api/middleware"
	appErrors "github.com/heartcraft/storefront/internal/errors"
	"github.com/heartcraft/storefront/internal/metrics"
	"github.com/heartcraft/storefront/internal/models"
	repository "github.com/heartcraft/storefront/internal/repositories"
)

// CartService owns the per-user cart. Every mutation is written to the
// database first and answered with the re-read cart, so callers never see
// state the store did not accept.
type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID) (*models.Cart, error)
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*models.Cart, error)
}

type cartService struct {
	repo        repository.CartRepository
	productRepo repository.ProductRepository
	locks       *KeyedMutex
}

func NewCartService(repo repository.CartRepository, productRepo repository.ProductRepository, locks *KeyedMutex) CartService {
	return &cartService{repo: repo, productRepo: productRepo, locks: locks}
}

const (
	opAdd    = "add"
	opUpdate = "update"
	opRemove = "remove"
)

func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {

	items, err := s.repo.ListItems(ctx, userID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to load cart").WithError(err)
	}

	return models.NewCart(userID, items), nil
}

func (s *cartService) AddItem(ctx context.Context, userID, productID uuid.UUID) (cart *models.Cart, err error) {

	defer func() { recordCartMutation(opAdd, err) }()

	unlock := s.locks.Lock(userID)
	defer unlock()

	product, err := s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Product not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to load product").WithError(err)
	}

	if !product.IsActive {
		return nil, appErrors.NotFoundError("Product not found")
	}

	current, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	quantity := 1
	for _, item := range current.Items {
		if item.ProductID == productID {
			quantity = item.Quantity + 1
			break
		}
	}

	if quantity > product.StockQuantity {
		return nil, stockExceeded(product.Name, product.StockQuantity)
	}

	if err := s.repo.UpsertItem(ctx, userID, productID, quantity); err != nil {
		return nil, appErrors.DatabaseError("Failed to update cart").WithError(err)
	}

	middleware.LoggerFromContext(ctx).Info("Cart item added",
		slog.String("productId", productID.String()),
		slog.Int("quantity", quantity))

	return s.GetCart(ctx, userID)
}

func (s *cartService) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (cart *models.Cart, err error) {

	defer func() { recordCartMutation(opUpdate, err) }()

	if quantity < 1 {
		return nil, appErrors.ValidationError("Quantity must be at least 1; remove the item instead")
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	item, err := s.repo.GetItem(ctx, userID, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Cart item not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to load cart item").WithError(err)
	}

	if quantity > item.Product.StockQuantity {
		return nil, stockExceeded(item.Product.Name, item.Product.StockQuantity)
	}

	if err := s.repo.UpdateItemQuantity(ctx, userID, itemID, quantity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Cart item not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to update cart").WithError(err)
	}

	return s.GetCart(ctx, userID)
}

func (s *cartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (cart *models.Cart, err error) {

	defer func() { recordCartMutation(opRemove, err) }()

	unlock := s.locks.Lock(userID)
	defer unlock()

	if err := s.repo.DeleteItem(ctx, userID, itemID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Cart item not found").WithError(err)
		}
		return nil, appErrors.DatabaseError("Failed to update cart").WithError(err)
	}

	return s.GetCart(ctx, userID)
}

func stockExceeded(name string, stock int) *appErrors.AppError {
	if stock == 0 {
		return appErrors.StockExceededError(fmt.Sprintf("%s is out of stock", name))
	}
	return appErrors.StockExceededError(fmt.Sprintf("Only %d of %s in stock", stock, name))
}

func recordCartMutation(operation string, err error) {
	metrics.CartMutationsTotal.WithLabelValues(operation, outcomeOf(err)).Inc()
}

func outcomeOf(err error) string {
	if err == nil {
		return metrics.OutcomeSuccess
	}

	appErr, ok := appErrors.IsAppError(err)
	if !ok {
		return metrics.OutcomeError
	}

	switch appErr.Code {
	case appErrors.ErrCodeStockExceeded:
		return metrics.OutcomeStockExceeded
	case appErrors.ErrCodeNotFound:
		return metrics.OutcomeNotFound
	case appErrors.ErrCodeValidation, appErrors.ErrCodeBadRequest:
		return metrics.OutcomeInvalid
	case appErrors.ErrCodeConflict:
		return metrics.OutcomeConflict
	default:
		return metrics.OutcomeError
	}
}
