package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/heartcraft/storefront/internal/api/middleware"
	"github.com/heartcraft/storefront/internal/errors"
	"github.com/heartcraft/storefront/internal/models"
	service "github.com/heartcraft/storefront/internal/services"
	"github.com/heartcraft/storefront/internal/utils"
	"github.com/heartcraft/storefront/internal/utils/response"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
	validator       *validator.Validate
}

func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService, validator: validator.New()}
}

// GetCheckout godoc
//	@Summary		Get the checkout page state
//	@Description	Reports which checkout state the client should render. Anonymous callers get 401 with redirect_to "/auth"; an empty cart redirects to "/products" unless an order was just placed.
//	@Tags			Checkout
//	@Produce		json
//	@Success		200	{object}	models.CheckoutView		"Checkout state"
//	@Failure		401	{object}	response.APIResponse	"Not signed in; data carries the unauthenticated view"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/checkout [get]
func (h *CheckoutHandler) GetCheckout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			logger.Info("Checkout requested without a session")
			response.ErrorWithData(w, errors.UnauthorizedError("Sign in to check out"), service.UnauthenticatedView())
			return
		}

		view, err := h.checkoutService.GetView(r.Context(), claims.UserID)
		if err != nil {
			logger.Error("Failed to build checkout view", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, view)
	}
}

// PlaceOrder godoc
//	@Summary		Place the order
//	@Description	Converts the cart into an order in a single transaction. The cart is emptied and stock decremented only when the whole order commits.
//	@Tags			Checkout
//	@Accept			json
//	@Produce		json
//	@Param			shipping	body		models.ShippingDetails	true	"Shipping details"
//	@Success		201			{object}	models.CheckoutView		"Order placed"
//	@Failure		400			{object}	response.APIResponse	"Invalid shipping details or empty cart"
//	@Failure		401			{object}	response.ErrorResponse	"Authentication required"
//	@Failure		409			{object}	response.APIResponse	"Submission already in progress or stock changed"
//	@Failure		500			{object}	response.APIResponse	"Order could not be placed; the cart is unchanged"
//	@Security		BearerAuth
//	@Router			/checkout [post]
func (h *CheckoutHandler) PlaceOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized checkout attempt")
			response.ErrorWithData(w, errors.UnauthorizedError("Authentication required"), service.UnauthenticatedView())
			return
		}

		var req models.ShippingDetails
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid shipping details")
			return
		}

		view, err := h.checkoutService.Submit(r.Context(), claims.UserID, req)
		if err != nil {
			logger.Warn("Checkout failed", slog.Any("error", err))
			response.ErrorWithData(w, err, view)
			return
		}

		logger.Info("Checkout completed", slog.String("orderId", view.OrderID.String()))
		response.Success(w, http.StatusCreated, view)
	}
}
