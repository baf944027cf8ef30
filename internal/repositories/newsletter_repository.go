package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/heartcraft/storefront/internal/utils"
)

type NewsletterRepository interface {
	// Subscribe reports whether the address was newly added.
	Subscribe(ctx context.Context, email string) (bool, error)
}

type newsletterRepository struct {
	DB *sql.DB
}

func NewNewsletterRepo(db *sql.DB) NewsletterRepository {
	return &newsletterRepository{DB: db}
}

func (r *newsletterRepository) Subscribe(ctx context.Context, email string) (bool, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO newsletter_subscribers (email, created_at)
		VALUES ($1, NOW())
		ON CONFLICT (email) DO NOTHING`

	result, err := r.DB.ExecContext(dbCtx, query, email)
	if err != nil {
		return false, fmt.Errorf("failed to subscribe: %w", err)
	}

	added, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get updated rows: %w", err)
	}

	return added > 0, nil
}
