package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is one line of a user's cart. Product is joined at read time, so
// price and stock are always the live values.
type CartItem struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"user_id"`
	ProductID    uuid.UUID       `json:"product_id"`
	Quantity     int             `json:"quantity"`
	Product      Product         `json:"product"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	CanIncrement bool            `json:"can_increment"`
	CanDecrement bool            `json:"can_decrement"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type Cart struct {
	UserID      uuid.UUID       `json:"user_id"`
	Items       []CartItem      `json:"items"`
	TotalItems  int             `json:"total_items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

func NewCart(userID uuid.UUID, items []CartItem) *Cart {
	if items == nil {
		items = []CartItem{}
	}
	cart := &Cart{UserID: userID, Items: items}
	cart.Recalculate()
	return cart
}

// Recalculate derives line subtotals, control flags and cart totals from the
// current lines.
func (c *Cart) Recalculate() {
	c.TotalItems = 0
	c.TotalAmount = decimal.Zero

	for i := range c.Items {
		item := &c.Items[i]
		item.Subtotal = item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		item.CanIncrement = item.Quantity < item.Product.StockQuantity
		item.CanDecrement = item.Quantity > 1

		c.TotalItems += item.Quantity
		c.TotalAmount = c.TotalAmount.Add(item.Subtotal)
	}
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Line returns the cart line with the given id, if present.
func (c *Cart) Line(id uuid.UUID) (*CartItem, bool) {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return &c.Items[i], true
		}
	}
	return nil, false
}

type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"gte=1"`
}
