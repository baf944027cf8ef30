// Package catalog filters and orders the storefront's product list.
package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/heartcraft/storefront/internal/models"
)

type SortKey string

const (
	SortByName      SortKey = "name"
	SortByPriceLow  SortKey = "price-low"
	SortByPriceHigh SortKey = "price-high"
	SortByRating    SortKey = "rating"
)

// AllCategories selects every category.
const AllCategories = "all"

type Query struct {
	Search   string
	Category string
	Sort     SortKey
}

// ParseSortKey maps a raw query value to a sort key, falling back to name.
func ParseSortKey(raw string) SortKey {
	switch key := SortKey(strings.TrimSpace(raw)); key {
	case SortByName, SortByPriceLow, SortByPriceHigh, SortByRating:
		return key
	default:
		return SortByName
	}
}

// Filter returns a new slice holding the products that match q, ordered by
// q.Sort. The search term is matched as given, whitespace included. The input
// slice is not modified.
func Filter(products []models.Product, q Query) []models.Product {
	term := strings.ToLower(q.Search)

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if Matches(p, term, q.Category) {
			out = append(out, p)
		}
	}

	slices.SortStableFunc(out, comparator(ParseSortKey(string(q.Sort))))

	return out
}

// Matches reports whether p satisfies both the search and category predicates.
// term must already be lower-cased.
func Matches(p models.Product, term, category string) bool {
	if category != "" && category != AllCategories && p.Category.Name != category {
		return false
	}
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term)
}

func comparator(key SortKey) func(a, b models.Product) int {
	switch key {
	case SortByPriceLow:
		return func(a, b models.Product) int { return a.Price.Cmp(b.Price) }
	case SortByPriceHigh:
		return func(a, b models.Product) int { return b.Price.Cmp(a.Price) }
	case SortByRating:
		return func(a, b models.Product) int { return cmp.Compare(b.Rating, a.Rating) }
	default:
		return func(a, b models.Product) int {
			if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
				return c
			}
			return strings.Compare(a.ID.String(), b.ID.String())
		}
	}
}
