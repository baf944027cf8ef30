package service

import (
	"context"
	"errors"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/heartcraft/storefront/internal/api/middleware"
	appErrors "github.com/heartcraft/storefront/internal/errors"
	"github.com/heartcraft/storefront/internal/events"
	"github.com/heartcraft/storefront/internal/metrics"
	"github.com/heartcraft/storefront/internal/models"
	repository "github.com/heartcraft/storefront/internal/repositories"
	"github.com/microcosm-cc/bluemonday"
)

// CheckoutService drives the checkout page. The returned view is meaningful
// even when an error is returned: it tells the client which state to render
// and where to redirect.
type CheckoutService interface {
	GetView(ctx context.Context, userID uuid.UUID) (*models.CheckoutView, error)
	Submit(ctx context.Context, userID uuid.UUID, details models.ShippingDetails) (*models.CheckoutView, error)
}

// publishTimeout bounds the order event write on the request path.
const publishTimeout = 2 * time.Second

type CheckoutDeps struct {
	Cart          repository.CartRepository
	Orders        repository.OrderRepository
	Markers       repository.CheckoutMarkerRepository
	Catalog       CatalogService
	Notifications NotificationService
	Publisher     events.Publisher
	CartLocks     *KeyedMutex
	PlacedTTL     time.Duration
}

type checkoutService struct {
	CheckoutDeps
	submissions *KeyedMutex
	sanitizer   *bluemonday.Policy
}

func NewCheckoutService(deps CheckoutDeps) CheckoutService {
	return &checkoutService{
		CheckoutDeps: deps,
		submissions:  NewKeyedMutex(),
		sanitizer:    bluemonday.StrictPolicy(),
	}
}

func UnauthenticatedView() *models.CheckoutView {
	return &models.CheckoutView{State: models.CheckoutUnauthenticated, RedirectTo: models.RedirectSignIn}
}

func emptyCartView() *models.CheckoutView {
	return &models.CheckoutView{State: models.CheckoutEmptyCart, RedirectTo: models.RedirectCatalog}
}

func (s *checkoutService) GetView(ctx context.Context, userID uuid.UUID) (*models.CheckoutView, error) {

	if s.submissions.Held(userID) {
		return &models.CheckoutView{State: models.CheckoutSubmitting}, nil
	}

	items, err := s.Cart.ListItems(ctx, userID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to load cart").WithError(err)
	}

	cart := models.NewCart(userID, items)
	if !cart.IsEmpty() {
		return &models.CheckoutView{State: models.CheckoutFilling, Summary: models.NewCheckoutSummary(cart)}, nil
	}

	orderID, placed, err := s.Markers.LastPlaced(ctx, userID)
	if err != nil {
		middleware.LoggerFromContext(ctx).Warn("Failed to read placed-order marker", slog.String("error", err.Error()))
	}

	if placed {
		return &models.CheckoutView{
			State:   models.CheckoutPlaced,
			OrderID: &orderID,
			Message: models.OrderConfirmedMessage,
		}, nil
	}

	return emptyCartView(), nil
}

func (s *checkoutService) Submit(ctx context.Context, userID uuid.UUID, details models.ShippingDetails) (view *models.CheckoutView, err error) {

	logger := middleware.LoggerFromContext(ctx)

	defer func() {
		metrics.CheckoutAttemptsTotal.WithLabelValues(checkoutOutcome(view, err)).Inc()
	}()

	details, err = s.sanitize(details)
	if err != nil {
		return &models.CheckoutView{State: models.CheckoutFailed}, err
	}

	order, view, err := s.place(ctx, userID, details)
	if err != nil {
		return view, err
	}

	s.afterPlaced(ctx, order, details)

	logger.Info("✅ Order placed",
		slog.String("orderId", order.ID.String()),
		slog.String("total", order.TotalAmount.StringFixed(2)),
		slog.Int("lines", len(order.Items)))

	return &models.CheckoutView{
		State:   models.CheckoutPlaced,
		OrderID: &order.ID,
		Order:   order,
		Message: models.OrderConfirmedMessage,
	}, nil
}

// place commits the order while holding the user's submission and cart
// locks. The locks are released before any follow-up runs.
func (s *checkoutService) place(ctx context.Context, userID uuid.UUID, details models.ShippingDetails) (*models.Order, *models.CheckoutView, error) {

	release, ok := s.submissions.TryLock(userID)
	if !ok {
		return nil, &models.CheckoutView{State: models.CheckoutSubmitting}, appErrors.ConflictError("Checkout is already in progress")
	}
	defer release()

	unlockCart := s.CartLocks.Lock(userID)
	defer unlockCart()

	items, err := s.Cart.ListItems(ctx, userID)
	if err != nil {
		return nil, &models.CheckoutView{State: models.CheckoutFailed}, appErrors.DatabaseError("Failed to load cart").WithError(err)
	}

	cart := models.NewCart(userID, items)
	if cart.IsEmpty() {
		return nil, emptyCartView(), appErrors.BadRequestError("Your cart is empty")
	}

	order, err := s.Orders.PlaceOrder(ctx, userID, details.FormatAddress())
	if err != nil {
		view, failErr := s.placeOrderFailure(ctx, cart, err)
		return nil, view, failErr
	}

	// recorded under the lock so GetView never sees the emptied cart without it
	if err := s.Markers.MarkPlaced(ctx, userID, order.ID, s.PlacedTTL); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Failed to record placed-order marker", slog.String("error", err.Error()))
	}

	return order, nil, nil
}

func (s *checkoutService) placeOrderFailure(ctx context.Context, cart *models.Cart, err error) (*models.CheckoutView, error) {

	var stockErr *repository.InsufficientStockError

	switch {
	case errors.Is(err, repository.ErrEmptyCart):
		return emptyCartView(), appErrors.BadRequestError("Your cart is empty").WithError(err)

	case errors.As(err, &stockErr):
		// refresh the summary so the client sees the live stock ceilings
		view := &models.CheckoutView{State: models.CheckoutFailed, Summary: models.NewCheckoutSummary(cart)}
		if items, listErr := s.Cart.ListItems(ctx, cart.UserID); listErr == nil {
			view.Summary = models.NewCheckoutSummary(models.NewCart(cart.UserID, items))
		}
		return view, appErrors.StockExceededError(capitalise(stockErr.Error())).WithError(err)

	default:
		middleware.LoggerFromContext(ctx).Error("Failed to place order", slog.String("error", err.Error()))
		return &models.CheckoutView{State: models.CheckoutFailed, Summary: models.NewCheckoutSummary(cart)},
			appErrors.DatabaseError("Failed to place order").WithError(err)
	}
}

// afterPlaced runs the follow-ups of a committed order once the user's locks
// are released. None of them can undo the order, so failures are only logged.
func (s *checkoutService) afterPlaced(ctx context.Context, order *models.Order, details models.ShippingDetails) {

	logger := middleware.LoggerFromContext(ctx)

	metrics.OrdersPlacedTotal.Inc()

	s.Catalog.Invalidate(ctx)

	itemCount := 0
	for _, item := range order.Items {
		itemCount += item.Quantity
	}

	event := models.OrderEvent{
		Type:        models.EventOrderPlaced,
		OrderID:     order.ID,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		ItemCount:   itemCount,
		OccurredAt:  order.CreatedAt,
	}
	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := s.Publisher.PublishOrderPlaced(publishCtx, event); err != nil {
		logger.Warn("Failed to publish order event", slog.String("error", err.Error()))
	}

	if err := s.Notifications.SendOrderConfirmation(ctx, order, details.Email, details.FullName()); err != nil {
		logger.Warn("Order confirmation not delivered", slog.String("error", err.Error()))
	}
}

// sanitize strips markup from the free-text fields and rejects any field
// that is left empty.
func (s *checkoutService) sanitize(d models.ShippingDetails) (models.ShippingDetails, error) {
	clean := func(field, value string) (string, error) {
		v := strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(value)))
		if v == "" {
			return "", appErrors.AddValidationError(field, "is required")
		}
		return v, nil
	}

	var err error
	fields := []struct {
		name string
		ptr  *string
	}{
		{"first_name", &d.FirstName},
		{"last_name", &d.LastName},
		{"email", &d.Email},
		{"address", &d.Address},
		{"city", &d.City},
		{"country", &d.Country},
	}

	for _, f := range fields {
		if *f.ptr, err = clean(f.name, *f.ptr); err != nil {
			return d, err
		}
	}

	return d, nil
}

func checkoutOutcome(view *models.CheckoutView, err error) string {
	if err == nil {
		return metrics.OutcomeSuccess
	}
	if view != nil && view.State == models.CheckoutEmptyCart {
		return metrics.OutcomeEmptyCart
	}
	return outcomeOf(err)
}

func capitalise(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
