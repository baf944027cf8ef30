package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/heartcraft/storefront/internal/api/middleware"
	"github.com/heartcraft/storefront/internal/models"
	service "github.com/heartcraft/storefront/internal/services"
	"github.com/heartcraft/storefront/internal/utils"
	"github.com/heartcraft/storefront/internal/utils/response"
)

type ContentHandler struct {
	contentService    service.ContentService
	newsletterService service.NewsletterService
	validator         *validator.Validate
}

func NewContentHandler(contentService service.ContentService, newsletterService service.NewsletterService) *ContentHandler {
	return &ContentHandler{
		contentService:    contentService,
		newsletterService: newsletterService,
		validator:         validator.New(),
	}
}

// Home godoc
//	@Summary		Landing page copy
//	@Description	Navigation, hero, impact stats, artisan stories and footer content for the landing page.
//	@Tags			Content
//	@Produce		json
//	@Success		200	{object}	models.HomeContent	"Landing page content"
//	@Router			/content/home [get]
func (h *ContentHandler) Home() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, http.StatusOK, h.contentService.Home(r.Context()))
	}
}

// Subscribe godoc
//	@Summary		Subscribe to the newsletter
//	@Description	Idempotent: subscribing an address twice returns 200 instead of 201.
//	@Tags			Content
//	@Accept			json
//	@Produce		json
//	@Param			subscription	body		models.NewsletterRequest		true	"Email address"
//	@Success		200				{object}	models.NewsletterSubscription	"Already subscribed"
//	@Success		201				{object}	models.NewsletterSubscription	"Subscribed"
//	@Failure		400				{object}	response.ErrorResponse			"Invalid email"
//	@Failure		500				{object}	response.ErrorResponse			"Internal server error"
//	@Router			/newsletter [post]
func (h *ContentHandler) Subscribe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.NewsletterRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid newsletter input")
			return
		}

		sub, created, err := h.newsletterService.Subscribe(r.Context(), req.Email)
		if err != nil {
			logger.Error("Newsletter subscription failed", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}

		response.Success(w, status, sub)
	}
}
