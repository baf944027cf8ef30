package service_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/heartcraft/storefront/internal/models"
	"github.com/shopspring/decimal"
)

var (
	journalID = uuid.MustParse("6f1c2a9e-1b0a-4c1e-9a51-0d2a7f3c4b10")
	cardID    = uuid.MustParse("8a3d4b2c-2e1f-4d3a-8b62-1e3b8a4d5c21")
	vaseID    = uuid.MustParse("9b4e5c3d-3f2a-4e4b-9c73-2f4c9b5e6d32")
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func journal() models.Product {
	return models.Product{
		ID:            journalID,
		Name:          "Recycled Paper Journal",
		Description:   "Hand-bound journal made from reclaimed office paper",
		Price:         decimal.RequireFromString("12.00"),
		StockQuantity: 5,
		IsActive:      true,
		Category:      models.Category{Name: "Journals & Notebooks"},
	}
}

func card() models.Product {
	return models.Product{
		ID:            cardID,
		Name:          "Seed Paper Greeting Card",
		Description:   "Plantable card embedded with wildflower seeds",
		Price:         decimal.RequireFromString("5.50"),
		StockQuantity: 1,
		IsActive:      true,
		Category:      models.Category{Name: "Greeting Cards"},
	}
}

func soldOutVase() models.Product {
	return models.Product{
		ID:            vaseID,
		Name:          "Papier-mâché Vase",
		Price:         decimal.RequireFromString("24.00"),
		StockQuantity: 0,
		IsActive:      true,
		Category:      models.Category{Name: "Decorative Items"},
	}
}

func line(t *testing.T, userID uuid.UUID, p models.Product, qty int) models.CartItem {
	t.Helper()
	return models.CartItem{
		ID:        uuid.NewSHA1(p.ID, userID[:]),
		UserID:    userID,
		ProductID: p.ID,
		Quantity:  qty,
		Product:   p,
	}
}

func ptr[T any](v T) *T {
	return &v
}
