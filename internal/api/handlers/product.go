package handlers

import (
	"log/slog"
	"net/http"

	"github.com/heartcraft/storefront/internal/api/middleware"
	"github.com/heartcraft/storefront/internal/catalog"
	service "github.com/heartcraft/storefront/internal/services"
	"github.com/heartcraft/storefront/internal/utils"
	"github.com/heartcraft/storefront/internal/utils/response"
)

type ProductHandler struct {
	catalogService service.CatalogService
}

func NewProductHandler(catalogService service.CatalogService) *ProductHandler {
	return &ProductHandler{catalogService: catalogService}
}

// ListProducts godoc
//	@Summary		List products
//	@Description	Lists active products, filtered by a case-insensitive search over name and description and by category, then sorted.
//	@Tags			Products
//	@Produce		json
//	@Param			search		query		string						false	"Search term matched against name and description"
//	@Param			category	query		string						false	"Category name, or 'all'"
//	@Param			sort		query		string						false	"Sort order"	Enums(name, price-low, price-high, rating)	default(name)
//	@Success		200			{object}	models.ProductListResponse	"Matching products"
//	@Failure		500			{object}	response.ErrorResponse		"Internal server error"
//	@Router			/products [get]
func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		q := r.URL.Query()
		query := catalog.Query{
			Search:   q.Get("search"),
			Category: q.Get("category"),
			Sort:     catalog.ParseSortKey(q.Get("sort")),
		}

		result, err := h.catalogService.ListProducts(r.Context(), query)
		if err != nil {
			logger.Error("Failed to list products", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Products listed",
			slog.String("search", query.Search),
			slog.String("category", query.Category),
			slog.String("sort", string(query.Sort)),
			slog.Int("count", result.Total))
		response.Success(w, http.StatusOK, result)
	}
}

// GetProduct godoc
//	@Summary		Get a product
//	@Tags			Products
//	@Produce		json
//	@Param			id	path		string					true	"Product ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.Product			"Product details"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid product ID format"
//	@Failure		404	{object}	response.ErrorResponse	"Product not found"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/products/{id} [get]
func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		product, err := h.catalogService.GetProduct(r.Context(), id)
		if err != nil {
			logger.Warn("Failed to get product", slog.String("productId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

// ListCategories godoc
//	@Summary		List categories
//	@Tags			Products
//	@Produce		json
//	@Success		200	{array}		models.Category			"Categories ordered by name"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/categories [get]
func (h *ProductHandler) ListCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		categories, err := h.catalogService.ListCategories(r.Context())
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to list categories", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, categories)
	}
}
