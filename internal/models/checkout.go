package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CheckoutState string

const (
	CheckoutUnauthenticated CheckoutState = "unauthenticated"
	CheckoutEmptyCart       CheckoutState = "empty_cart"
	CheckoutFilling         CheckoutState = "filling"
	CheckoutSubmitting      CheckoutState = "submitting"
	CheckoutPlaced          CheckoutState = "placed"
	CheckoutFailed          CheckoutState = "failed"
)

const (
	RedirectSignIn  = "/auth"
	RedirectCatalog = "/products"

	ShippingFree = "Free"

	OrderConfirmedMessage = "Order Confirmed!"
)

type ShippingDetails struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Address   string `json:"address" validate:"required,max=255"`
	City      string `json:"city" validate:"required,max=100"`
	Country   string `json:"country" validate:"required,max=100"`
}

// FormatAddress renders the single-line shipping address stored on the order.
func (s ShippingDetails) FormatAddress() string {
	return strings.Join([]string{s.Address, s.City, s.Country}, ", ")
}

func (s ShippingDetails) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

type CheckoutSummary struct {
	Items      []CartItem      `json:"items"`
	TotalItems int             `json:"total_items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Shipping   string          `json:"shipping"`
	Total      decimal.Decimal `json:"total"`
}

func NewCheckoutSummary(cart *Cart) *CheckoutSummary {
	return &CheckoutSummary{
		Items:      cart.Items,
		TotalItems: cart.TotalItems,
		Subtotal:   cart.TotalAmount,
		Shipping:   ShippingFree,
		Total:      cart.TotalAmount,
	}
}

type CheckoutView struct {
	State      CheckoutState    `json:"state"`
	RedirectTo string           `json:"redirect_to,omitempty"`
	Summary    *CheckoutSummary `json:"summary,omitempty"`
	OrderID    *uuid.UUID       `json:"order_id,omitempty"`
	Order      *Order           `json:"order,omitempty"`
	Message    string           `json:"message,omitempty"`
}
