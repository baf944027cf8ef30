package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	appErrors "github.com/heartcraft/storefront/internal/errors"
	"github.com/heartcraft/storefront/internal/models"
	repository "github.com/heartcraft/storefront/internal/repositories"
	"github.com/heartcraft/storefront/internal/repositories/mocks"
	service "github.com/heartcraft/storefront/internal/services"
	serviceMocks "github.com/heartcraft/storefront/internal/services/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const placedTTL = 10 * time.Minute

type checkoutFixture struct {
	svc           service.CheckoutService
	cart          *mocks.CartRepository
	orders        *mocks.OrderRepository
	markers       *mocks.CheckoutMarkerRepository
	catalog       *serviceMocks.CatalogService
	notifications *serviceMocks.NotificationService
	publisher     *serviceMocks.Publisher
	cartLocks     *service.KeyedMutex
}

func setupCheckoutService() *checkoutFixture {
	f := &checkoutFixture{
		cart:          new(mocks.CartRepository),
		orders:        new(mocks.OrderRepository),
		markers:       new(mocks.CheckoutMarkerRepository),
		catalog:       new(serviceMocks.CatalogService),
		notifications: new(serviceMocks.NotificationService),
		publisher:     new(serviceMocks.Publisher),
		cartLocks:     service.NewKeyedMutex(),
	}

	f.svc = service.NewCheckoutService(service.CheckoutDeps{
		Cart:          f.cart,
		Orders:        f.orders,
		Markers:       f.markers,
		Catalog:       f.catalog,
		Notifications: f.notifications,
		Publisher:     f.publisher,
		CartLocks:     f.cartLocks,
		PlacedTTL:     placedTTL,
	})

	return f
}

func shipping() models.ShippingDetails {
	return models.ShippingDetails{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Address:   "12 Mill Lane",
		City:      "Leeds",
		Country:   "United Kingdom",
	}
}

func TestUnauthenticatedView(t *testing.T) {
	view := service.UnauthenticatedView()

	assert.Equal(t, models.CheckoutUnauthenticated, view.State)
	assert.Equal(t, "/auth", view.RedirectTo)
}

func TestCheckoutService_GetView(t *testing.T) {

	t.Run("Filling - Summary mirrors the cart", func(t *testing.T) {
		// Arrange
		f := setupCheckoutService()
		userID := uuid.New()
		f.cart.On("ListItems", mock.Anything, userID).
			Return([]models.CartItem{line(t, userID, journal(), 2), line(t, userID, card(), 1)}, nil).Once()

		// Act
		view, err := f.svc.GetView(t.Context(), userID)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.CheckoutFilling, view.State)
		require.NotNil(t, view.Summary)
		assert.Equal(t, 3, view.Summary.TotalItems)
		assert.Equal(t, "Free", view.Summary.Shipping)
		assert.True(t, view.Summary.Subtotal.Equal(decimal.RequireFromString("29.50")))
		assert.True(t, view.Summary.Total.Equal(view.Summary.Subtotal))
		f.markers.AssertNotCalled(t, "LastPlaced", mock.Anything, mock.Anything)
	})

	t.Run("Empty cart - Redirects to products", func(t *testing.T) {
		f := setupCheckoutService()
		userID := uuid.New()
		f.cart.On("ListItems", mock.Anything, userID).Return([]models.CartItem{}, nil).Once()
		f.markers.On("LastPlaced", mock.Anything, userID).Return(uuid.Nil, false, nil).Once()

		view, err := f.svc.GetView(t.Context(), userID)

		require.NoError(t, err)
		assert.Equal(t, models.CheckoutEmptyCart, view.State)
		assert.Equal(t, "/products", view.RedirectTo)
	})

	t.Run("Empty cart - Marker read failure still redirects", func(t *testing.T) {
		f := setupCheckoutService()
		userID := uuid.New()
		f.cart.On("ListItems", mock.Anything, userID).Return([]models.CartItem{}, nil).Once()
		f.markers.On("LastPlaced", mock.Anything, userID).Return(uuid.Nil, false, errors.New("redis down")).Once()

		view, err := f.svc.GetView(t.Context(), userID)

		require.NoError(t, err)
		assert.Equal(t, models.CheckoutEmptyCart, view.State)
	})

	t.Run("Failure - Cart cannot be read", func(t *testing.T) {
		f := setupCheckoutService()
		userID := uuid.New()
		f.cart.On("ListItems", mock.Anything, userID).Return(nil, errors.New("db down")).Once()

		view, err := f.svc.GetView(t.Context(), userID)

		assert.Nil(t, view)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeDatabaseError))
	})
}

func TestCheckoutService_Submit(t *testing.T) {

	t.Run("Success - Order placed and cart emptied", func(t *testing.T) {
		// Arrange
		f := setupCheckoutService()
		userID := uuid.New()
		items := []models.CartItem{line(t, userID, journal(), 2), line(t, userID, card(), 1)}
		cartTotal := models.NewCart(userID, items).TotalAmount

		order := &models.Order{
			ID:              uuid.New(),
			UserID:          userID,
			TotalAmount:     decimal.RequireFromString("29.50"),
			Status:          models.OrderStatusPending,
			ShippingAddress: "12 Mill Lane, Leeds, United Kingdom",
			Items: []models.OrderItem{
				{ProductID: journalID, Quantity: 2, UnitPrice: decimal.RequireFromString("12.00")},
				{ProductID: cardID, Quantity: 1, UnitPrice: decimal.RequireFromString("5.50")},
			},
			CreatedAt: time.Now(),
		}

		f.cart.On("ListItems", mock.Anything, userID).Return(items, nil).Once()
		f.orders.On("PlaceOrder", mock.Anything, userID, "12 Mill Lane, Leeds, United Kingdom").Return(order, nil).Once()
		f.markers.On("MarkPlaced", mock.Anything, userID, order.ID, placedTTL).Return(nil).Once()
		f.catalog.On("Invalidate", mock.Anything).Return().Once()
		f.publisher.On("PublishOrderPlaced", mock.Anything, mock.MatchedBy(func(e models.OrderEvent) bool {
			return e.Type == models.EventOrderPlaced && e.OrderID == order.ID && e.ItemCount == 3 && e.TotalAmount.Equal(cartTotal)
		})).Return(nil).Once()
		f.notifications.On("SendOrderConfirmation", mock.Anything, order, "ada@example.com", "Ada Lovelace").Return(nil).Once()

		// after the transaction the cart is empty and the marker is set
		f.cart.On("ListItems", mock.Anything, userID).Return([]models.CartItem{}, nil).Once()
		f.markers.On("LastPlaced", mock.Anything, userID).Return(order.ID, true, nil).Once()

		// Act
		view, err := f.svc.Submit(t.Context(), userID, shipping())

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.CheckoutPlaced, view.State)
		require.NotNil(t, view.OrderID)
		assert.Equal(t, order.ID, *view.OrderID)
		assert.Equal(t, "Order Confirmed!", view.Message)
		assert.True(t, view.Order.TotalAmount.Equal(cartTotal), "order total must equal the cart total")

		after, err := f.svc.GetView(t.Context(), userID)
		require.NoError(t, err)
		assert.Equal(t, models.CheckoutPlaced, after.State)
		assert.Equal(t, order.ID, *after.OrderID)

		f.cart.AssertExpectations(t)
		f.orders.AssertExpectations(t)
		f.markers.AssertExpectations(t)
		f.catalog.AssertExpectations(t)
		f.publisher.AssertExpectations(t)
		f.notifications.AssertExpectations(t)
	})

	t.Run("Success - Follow-up failures do not fail the order", func(t *testing.T) {
		f := setupCheckoutService()
		userID := uuid.New()
		order := &models.Order{ID: uuid.New(), UserID: userID, TotalAmount: decimal.RequireFromString("12")}

		f.cart.On("ListItems", mock.Anything, userID).Return([]models.CartItem{line(t, userID, journal(), 1)}, nil).Once()
		f.orders.On("PlaceOrder", mock.Anything, userID, mock.Anything).Return(order, nil).Once()
		f.markers.On("MarkPlaced", mock.Anything, userID, order.ID, placedTTL).Return(errors.New("redis down")).Once()
		f.catalog.On("Invalidate", mock.Anything).Return().Once()
		f.publisher.On("PublishOrderPlaced", mock.Anything, mock.Anything).Return(errors.New("kafka down")).Once()
		f.notifications.On("SendOrderConfirmation", mock.Anything, order, mock.Anything, mock.Anything).Return(errors.New("smtp down")).Once()

		view, err := f.svc.Submit(t.Context(), userID, shipping())

		require.NoError(t, err)
		assert.Equal(t, models.CheckoutPlaced, view.State)
	})

	t.Run("Success - Follow-ups run after the cart lock is released", func(t *testing.T) {
		// Arrange
		f := setupCheckoutService()
		userID := uuid.New()
		order := &models.Order{ID: uuid.New(), UserID: userID, TotalAmount: decimal.RequireFromString("12")}
		var lockedDuringPublish, lockedDuringEmail, hasDeadline bool

		f.cart.On("ListItems", mock.Anything, userID).Return([]models.CartItem{line(t, userID, journal(), 1)}, nil).Once()
		f.orders.On("PlaceOrder", mock.Anything, userID, mock.Anything).Return(order, nil).Once()
		f.markers.On("MarkPlaced", mock.Anything, userID, order.ID, placedTTL).Run(func(mock.Arguments) {
			assert.True(t, f.cartLocks.Held(userID), "marker is recorded before the lock is released")
		}).Return(nil).Once()
		f.catalog.On("Invalidate", mock.Anything).Return().Once()
		f.publisher.On("PublishOrderPlaced", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			lockedDuringPublish = f.cartLocks.Held(userID)
			_, hasDeadline = args.Get(0).(context.Context).Deadline()
		}).Return(nil).Once()
		f.notifications.On("SendOrderConfirmation", mock.Anything, order, mock.Anything, mock.Anything).Run(func(mock.Arguments) {
			lockedDuringEmail = f.cartLocks.Held(userID)
		}).Return(nil).Once()

		// Act
		view, err := f.svc.Submit(t.Context(), userID, shipping())

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.CheckoutPlaced, view.State)
		assert.False(t, lockedDuringPublish)
		assert.False(t, lockedDuringEmail)
		assert.True(t, hasDeadline, "event publish must be bounded")
		f.publisher.AssertExpectations(t)
		f.markers.AssertExpectations(t)
	})

	t.Run("Failure - Markup-only field is rejected", func(t *testing.T) {
		f := setupCheckoutService()
		details := shipping()
		details.City = "<script>alert(1)</script>"

		view, err := f.svc.Submit(t.Context(), uuid.New(), details)

		assert.Equal(t, models.CheckoutFailed, view.State)
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeValidation))
		f.cart.AssertNotCalled(t, "ListItems", mock.Anything, mock.Anything)
	})

	t.Run("Success - Markup is stripped before the address is stored", func(t *testing.T) {
		f := setupCheckoutService()
		userID := uuid.New()
		details := shipping()
		details.Address = "<b>12 Mill Lane</b> & Co"
		order := &models.Order{ID: uuid.New(), UserID: userID}

		f.cart.On("ListItems", mock.Anything, userID).Return([]models.CartItem{line(t, userID, journal(), 1)}, nil).Once()
		f.orders.On("PlaceOrder", mock.Anything, userID, "12 Mill Lane & Co, Leeds, United Kingdom").Return(order, nil).Once()
		f.markers.On("MarkPlaced", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
		f.catalog.On("Invalidate", mock.Anything).Return().Once()
		f.publisher.On("PublishOrderPlaced", mock.Anything, mock.Anything).Return(nil).Once()
		f.notifications.On("SendOrderConfirmation", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

		_, err := f.svc.Submit(t.Context(), userID, details)

		require.NoError(t, err)
		f.orders.AssertExpectations(t)
	})

	t.Run("Failure - Empty cart redirects to products", func(t *testing.T) {
		f := setupCheckoutService()
		userID := uuid.New()
		f.cart.On("ListItems", mock.Anything, userID).Return([]models.CartItem{}, nil).Once()

		view, err := f.svc.Submit(t.Context(), userID, shipping())

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeBadRequest))
		assert.Equal(t, models.CheckoutEmptyCart, view.State)
		assert.Equal(t, "/products", view.RedirectTo)
		f.orders.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Stock changed since the cart was filled", func(t *testing.T) {
		f := setupCheckoutService()
		userID := uuid.New()
		items := []models.CartItem{line(t, userID, journal(), 2)}
		stockErr := &repository.InsufficientStockError{ProductID: journalID, Name: "Recycled Paper Journal", Requested: 2, Available: 1}

		f.cart.On("ListItems", mock.Anything, userID).Return(items, nil).Once()
		f.orders.On("PlaceOrder", mock.Anything, userID, mock.Anything).Return(nil, stockErr).Once()
		f.cart.On("ListItems", mock.Anything, userID).Return(items, nil).Once()

		view, err := f.svc.Submit(t.Context(), userID, shipping())

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeStockExceeded))
		assert.Contains(t, err.Error(), "Only 1 of Recycled Paper Journal left in stock")
		assert.Equal(t, models.CheckoutFailed, view.State)
		require.NotNil(t, view.Summary)
		f.markers.AssertNotCalled(t, "MarkPlaced", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.publisher.AssertNotCalled(t, "PublishOrderPlaced", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Cart emptied concurrently", func(t *testing.T) {
		f := setupCheckoutService()
		userID := uuid.New()
		f.cart.On("ListItems", mock.Anything, userID).Return([]models.CartItem{line(t, userID, journal(), 1)}, nil).Once()
		f.orders.On("PlaceOrder", mock.Anything, userID, mock.Anything).Return(nil, repository.ErrEmptyCart).Once()

		view, err := f.svc.Submit(t.Context(), userID, shipping())

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeBadRequest))
		assert.Equal(t, models.CheckoutEmptyCart, view.State)
	})

	t.Run("Failure - Transaction error keeps the cart", func(t *testing.T) {
		f := setupCheckoutService()
		userID := uuid.New()
		items := []models.CartItem{line(t, userID, journal(), 2), line(t, userID, card(), 1)}
		f.cart.On("ListItems", mock.Anything, userID).Return(items, nil).Once()
		f.orders.On("PlaceOrder", mock.Anything, userID, mock.Anything).Return(nil, errors.New("commit failed")).Once()

		view, err := f.svc.Submit(t.Context(), userID, shipping())

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeDatabaseError))
		assert.Equal(t, "Failed to place order", err.Error())
		assert.Equal(t, models.CheckoutFailed, view.State)
		assert.True(t, view.Summary.Total.Equal(decimal.RequireFromString("29.50")))
	})

	t.Run("Failure - Second submission while one is in flight", func(t *testing.T) {
		// Arrange
		f := setupCheckoutService()
		userID := uuid.New()
		order := &models.Order{ID: uuid.New(), UserID: userID}
		entered := make(chan struct{})
		proceed := make(chan struct{})

		f.cart.On("ListItems", mock.Anything, userID).Return([]models.CartItem{line(t, userID, journal(), 1)}, nil).Once()
		f.orders.On("PlaceOrder", mock.Anything, userID, mock.Anything).Run(func(mock.Arguments) {
			close(entered)
			<-proceed
		}).Return(order, nil).Once()
		f.markers.On("MarkPlaced", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
		f.catalog.On("Invalidate", mock.Anything).Return().Once()
		f.publisher.On("PublishOrderPlaced", mock.Anything, mock.Anything).Return(nil).Once()
		f.notifications.On("SendOrderConfirmation", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

		done := make(chan error, 1)
		go func() {
			_, err := f.svc.Submit(t.Context(), userID, shipping())
			done <- err
		}()
		<-entered

		// Act
		view, err := f.svc.Submit(t.Context(), userID, shipping())
		inFlight, viewErr := f.svc.GetView(t.Context(), userID)
		close(proceed)

		// Assert
		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeConflict))
		assert.Equal(t, models.CheckoutSubmitting, view.State)
		require.NoError(t, viewErr)
		assert.Equal(t, models.CheckoutSubmitting, inFlight.State)
		require.NoError(t, <-done)
		f.orders.AssertNumberOfCalls(t, "PlaceOrder", 1)
	})
}
