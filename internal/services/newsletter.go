package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/heartcraft/storefront/internal/api/middleware"
	appErrors "github.com/heartcraft/storefront/internal/errors"
	"github.com/heartcraft/storefront/internal/models"
	repository "github.com/heartcraft/storefront/internal/repositories"
)

type NewsletterService interface {
	// Subscribe is idempotent; created reports whether the address is new.
	Subscribe(ctx context.Context, email string) (sub *models.NewsletterSubscription, created bool, err error)
}

type newsletterService struct {
	repo repository.NewsletterRepository
}

func NewNewsletterService(repo repository.NewsletterRepository) NewsletterService {
	return &newsletterService{repo: repo}
}

func (s *newsletterService) Subscribe(ctx context.Context, email string) (*models.NewsletterSubscription, bool, error) {

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, false, appErrors.ValidationError("Email is required")
	}

	created, err := s.repo.Subscribe(ctx, email)
	if err != nil {
		return nil, false, appErrors.DatabaseError("Failed to save subscription").WithError(err)
	}

	middleware.LoggerFromContext(ctx).Info("Newsletter subscription", slog.Bool("created", created))

	return &models.NewsletterSubscription{Email: email, CreatedAt: time.Now().UTC()}, created, nil
}
