package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LowStockThreshold is the stock level at or below which a product is shown
// as running out.
const LowStockThreshold = 5

type Artisan struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Background string    `json:"background"`
}

type Category struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type Product struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	ImageURL      string          `json:"image_url"`
	Rating        float64         `json:"rating"`
	ReviewCount   int             `json:"review_count"`
	StockQuantity int             `json:"stock_quantity"`
	IsActive      bool            `json:"is_active"`
	Artisan       Artisan         `json:"artisan"`
	Category      Category        `json:"category"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (p Product) InStock() bool {
	return p.StockQuantity > 0
}

func (p Product) LowStock() bool {
	return p.StockQuantity > 0 && p.StockQuantity <= LowStockThreshold
}

// MarshalJSON adds the derived availability flags to the wire form.
func (p Product) MarshalJSON() ([]byte, error) {
	type product Product
	return json.Marshal(struct {
		product
		InStock  bool `json:"in_stock"`
		LowStock bool `json:"low_stock"`
	}{product(p), p.InStock(), p.LowStock()})
}

type ProductListResponse struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}
